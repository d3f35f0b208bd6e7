package city

import "github.com/Garsondee/tileframe/internal/gfx"

// ObjectKind tells drawable variants apart without type assertions.
type ObjectKind uint8

const (
	KindScenery ObjectKind = iota
	KindVehicle
)

// ObjectRef is the lookup key of the entity behind a drawable handle.
type ObjectRef struct {
	Kind ObjectKind
	ID   int
}

// TileObject is a drawable handle stored in a tile.
type TileObject interface {
	Kind() ObjectKind
	Ref() ObjectRef
	// Center is the object's position in tile space.
	Center() Vec3
	// Draw paints the object with its centre at screen position pos.
	Draw(r gfx.Renderer, pos gfx.Vec2, mode ViewMode)
}

// Sprite pairs an image with the pixel offset from its top-left corner to
// the point that sits on the object's centre.
type Sprite struct {
	Image  *gfx.Image
	Anchor gfx.Vec2
}

// Draw renders s with its anchor at pos. A zero sprite draws nothing.
func (s Sprite) Draw(r gfx.Renderer, pos gfx.Vec2) {
	if s.Image == nil {
		return
	}
	r.Draw(s.Image, pos.Sub(s.Anchor))
}

// Scenery is static map content: ground, roads, building blocks.
type Scenery struct {
	ID    int
	Pos   Vec3
	Iso   Sprite
	Strat Sprite
}

func (s *Scenery) Kind() ObjectKind { return KindScenery }
func (s *Scenery) Ref() ObjectRef   { return ObjectRef{Kind: KindScenery, ID: s.ID} }
func (s *Scenery) Center() Vec3     { return s.Pos }

func (s *Scenery) Draw(r gfx.Renderer, pos gfx.Vec2, mode ViewMode) {
	if mode == Strategy {
		s.Strat.Draw(r, pos)
		return
	}
	s.Iso.Draw(r, pos)
}

// vehicleObject is the tile handle of a vehicle. It holds only the id and
// resolves the vehicle through the city.
type vehicleObject struct {
	id   VehicleID
	city *City
}

func (o *vehicleObject) Kind() ObjectKind { return KindVehicle }
func (o *vehicleObject) Ref() ObjectRef   { return ObjectRef{Kind: KindVehicle, ID: int(o.id)} }

func (o *vehicleObject) Center() Vec3 {
	if v, ok := o.city.Vehicle(o.id); ok {
		return v.Position
	}
	return Vec3{}
}

func (o *vehicleObject) Draw(r gfx.Renderer, pos gfx.Vec2, mode ViewMode) {
	v, ok := o.city.Vehicle(o.id)
	if !ok || v.Type == nil {
		return
	}
	if mode == Strategy {
		v.Type.StratSprite.Draw(r, pos)
		return
	}
	v.Type.IsoSprites[v.Facing.VoxelMapFacing()].Draw(r, pos)
}
