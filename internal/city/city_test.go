package city

import (
	"testing"

	"github.com/Garsondee/tileframe/internal/gfx"
)

type stubObject struct {
	id  int
	pos Vec3
}

func (o *stubObject) Kind() ObjectKind                      { return KindScenery }
func (o *stubObject) Ref() ObjectRef                        { return ObjectRef{Kind: KindScenery, ID: o.id} }
func (o *stubObject) Center() Vec3                          { return o.pos }
func (o *stubObject) Draw(gfx.Renderer, gfx.Vec2, ViewMode) {}

func TestTileMap_OutOfBounds(t *testing.T) {
	m := NewTileMap(Vec3i{3, 3, 2}, LayerCount)
	if m.Tile(-1, 0, 0) != nil || m.Tile(3, 0, 0) != nil || m.Tile(0, 0, 2) != nil {
		t.Fatal("out of bounds Tile should return nil")
	}
	if m.Insert(LayerGround, &stubObject{id: 1, pos: Vec3{X: 9, Y: 9}}) {
		t.Fatal("insert outside map should fail")
	}
	if m.Insert(LayerCount, &stubObject{id: 1, pos: Vec3{X: 1, Y: 1}}) {
		t.Fatal("insert on invalid layer should fail")
	}
	// Should not panic.
	m.Remove(Vec3{X: -5}, ObjectRef{})
}

func TestTileMap_InsertKeepsZOrderThenInsertionOrder(t *testing.T) {
	m := NewTileMap(Vec3i{2, 2, 1}, LayerCount)
	m.Insert(LayerScenery, &stubObject{id: 1, pos: Vec3{X: 0.5, Y: 0.5, Z: 0.6}})
	m.Insert(LayerScenery, &stubObject{id: 2, pos: Vec3{X: 0.5, Y: 0.5, Z: 0.2}})
	m.Insert(LayerScenery, &stubObject{id: 3, pos: Vec3{X: 0.5, Y: 0.5, Z: 0.6}})
	m.Insert(LayerScenery, &stubObject{id: 4, pos: Vec3{X: 0.5, Y: 0.5, Z: 0.2}})

	list := m.Tile(0, 0, 0).Drawn[LayerScenery]
	want := []int{2, 4, 1, 3}
	if len(list) != len(want) {
		t.Fatalf("got %d objects, want %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].Ref().ID != id {
			t.Fatalf("position %d holds id %d, want %d", i, list[i].Ref().ID, id)
		}
	}
}

func TestCity_MoveAndRemoveVehicleNeverTouchesOthers(t *testing.T) {
	c := New(Vec3i{4, 4, 2})
	vt := &VehicleType{Name: "car"}
	c.AddVehicle(&Vehicle{ID: 1, Type: vt, Position: Vec3{X: 0.5, Y: 0.5, Z: 1.5}})
	c.AddVehicle(&Vehicle{ID: 2, Type: vt, Position: Vec3{X: 0.5, Y: 0.5, Z: 1.5}})

	if n := len(c.Map.Tile(0, 0, 1).Drawn[LayerVehicles]); n != 2 {
		t.Fatalf("tile holds %d vehicles, want 2", n)
	}
	c.MoveVehicle(1, Vec3{X: 3.5, Y: 3.5, Z: 1.5})
	if n := len(c.Map.Tile(0, 0, 1).Drawn[LayerVehicles]); n != 1 {
		t.Fatalf("old tile holds %d vehicles, want 1", n)
	}
	moved := c.Map.Tile(3, 3, 1).Drawn[LayerVehicles]
	if len(moved) != 1 || moved[0].Center() != (Vec3{X: 3.5, Y: 3.5, Z: 1.5}) {
		t.Fatal("moved vehicle handle not re-filed")
	}

	c.RemoveVehicle(2)
	if _, ok := c.Vehicle(2); ok {
		t.Fatal("vehicle 2 should be gone")
	}
	if _, ok := c.Vehicle(1); !ok {
		t.Fatal("vehicle 1 should survive removal of 2")
	}
	if c.Map.ObjectCount() != 1 {
		t.Fatalf("map holds %d handles, want 1", c.Map.ObjectCount())
	}
}

func TestVehicle_AttackTargetsDistinct(t *testing.T) {
	v := &Vehicle{Missions: []Mission{
		{Kind: MissionAttackVehicle, TargetVehicle: 4},
		{Kind: MissionPatrol},
		{Kind: MissionAttackVehicle, TargetVehicle: 2},
		{Kind: MissionAttackVehicle, TargetVehicle: 4},
	}}
	got := v.AttackTargets()
	if len(got) != 2 || got[0] != 4 || got[1] != 2 {
		t.Fatalf("targets=%v, want [4 2]", got)
	}
}

func TestFacing_VoxelMapFacing(t *testing.T) {
	cases := map[Facing]int{
		FacingN: VoxelNorth, FacingNE: VoxelNorth,
		FacingE: VoxelEast, FacingSE: VoxelEast,
		FacingS: VoxelSouth, FacingSW: VoxelSouth,
		FacingW: VoxelWest, FacingNW: VoxelWest,
	}
	for f, want := range cases {
		if got := f.VoxelMapFacing(); got != want {
			t.Fatalf("facing %d -> %d, want %d", f, got, want)
		}
	}
	vt := &VehicleType{}
	vt.Size[VoxelEast] = Vec3{X: 2, Y: 1, Z: 1}
	if h := vt.HalfExtent(FacingSE); h != (Vec3{X: 1, Y: 0.5, Z: 0.5}) {
		t.Fatalf("half extent=%v", h)
	}
}

func TestBuilding_DetectionCountdown(t *testing.T) {
	b := &Building{}
	b.Detect()
	if !b.Detected || b.TicksDetectionTimeOut != TicksDetectionTimeout {
		t.Fatal("Detect should flag and arm the countdown")
	}
	for i := 0; i < TicksDetectionTimeout; i++ {
		b.Tick()
	}
	if b.Detected {
		t.Fatal("detection should lapse when the countdown reaches zero")
	}
}

func TestCity_NearestVehicle(t *testing.T) {
	c := New(Vec3i{10, 10, 1})
	c.AddVehicle(&Vehicle{ID: 1, Position: Vec3{X: 1, Y: 1}})
	c.AddVehicle(&Vehicle{ID: 2, Position: Vec3{X: 5, Y: 5}})
	v, ok := c.NearestVehicle(Vec3{X: 4.5, Y: 5}, 2)
	if !ok || v.ID != 2 {
		t.Fatalf("nearest=%v ok=%v, want vehicle 2", v, ok)
	}
	if _, ok := c.NearestVehicle(Vec3{X: 9, Y: 0}, 1); ok {
		t.Fatal("no vehicle within range should report false")
	}
}

func TestGenerateDemo_Deterministic(t *testing.T) {
	sp := NewSprites(Vec3i{64, 32, 16}, Vec2i{8, 8})
	a := GenerateDemo(11, Vec3i{24, 24, 3}, sp)
	b := GenerateDemo(11, Vec3i{24, 24, 3}, sp)
	if a.Map.ObjectCount() != b.Map.ObjectCount() {
		t.Fatalf("object counts differ: %d vs %d", a.Map.ObjectCount(), b.Map.ObjectCount())
	}
	if len(a.Buildings()) != len(b.Buildings()) {
		t.Fatal("building counts differ")
	}
	va, vb := a.Vehicles(), b.Vehicles()
	if len(va) != len(vb) || len(va) == 0 {
		t.Fatalf("vehicle counts %d vs %d", len(va), len(vb))
	}
	for i := range va {
		if va[i].Position != vb[i].Position {
			t.Fatalf("vehicle %d differs: %v vs %v", i, va[i].Position, vb[i].Position)
		}
		if a.Map.TileAt(va[i].Position) == nil {
			t.Fatalf("vehicle %d placed outside the map at %v", va[i].ID, va[i].Position)
		}
	}
	// Hostiles take ids 1..3; the first friendly hunts them.
	hunter, ok := a.Vehicle(4)
	if !ok || len(hunter.AttackTargets()) != 3 {
		t.Fatal("first friendly vehicle should carry three attack missions")
	}
}
