package city

import (
	"fmt"
	"math/rand"
)

// roadSpacing is the distance between parallel roads in the demo grid.
const roadSpacing = 8

// GenerateDemo builds a deterministic city for the given seed: a road grid,
// buildings between the roads, and two vehicle factions where the hostile
// craft are attacked by the first friendly vehicle.
func GenerateDemo(seed int64, size Vec3i, sp *Sprites) *City {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- demo content only
	c := New(size)
	nextID := 0
	id := func() int {
		nextID++
		return nextID
	}

	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			iso, strat := sp.Ground, sp.GroundStrat
			if x%roadSpacing == 0 || y%roadSpacing == 0 {
				iso, strat = sp.Road, sp.RoadStrat
			}
			c.Map.Insert(LayerGround, &Scenery{
				ID:    id(),
				Pos:   Vec3{X: float64(x) + 0.5, Y: float64(y) + 0.5},
				Iso:   iso,
				Strat: strat,
			})
		}
	}

	species := &Species{Name: "anthropod", Icon: sp.CrewIcon}
	bid := BuildingID(0)
	for by := 0; by+roadSpacing <= size.Y; by += roadSpacing {
		for bx := 0; bx+roadSpacing <= size.X; bx += roadSpacing {
			if rng.Intn(3) == 0 {
				continue
			}
			w := 2 + rng.Intn(roadSpacing-3)
			h := 2 + rng.Intn(roadSpacing-3)
			x0 := bx + 1 + rng.Intn(roadSpacing-1-w)
			y0 := by + 1 + rng.Intn(roadSpacing-1-h)
			b := &Building{
				ID:     bid,
				Name:   fmt.Sprintf("building-%d", bid),
				Bounds: Rect{P0: Vec2i{x0, y0}, P1: Vec2i{x0 + w, y0 + h}},
			}
			bid++
			if rng.Intn(4) == 0 {
				b.Crew = append(b.Crew, CrewCount{Species: species, Count: 1 + rng.Intn(4)})
				b.Detect()
				b.TicksDetectionTimeOut = rng.Intn(TicksDetectionTimeout + 1)
				if b.TicksDetectionTimeOut == 0 {
					b.TicksDetectionTimeOut = 1
				}
			}
			c.AddBuilding(b)
			for y := y0; y < y0+h; y++ {
				for x := x0; x < x0+w; x++ {
					c.Map.Insert(LayerScenery, &Scenery{
						ID:    id(),
						Pos:   Vec3{X: float64(x) + 0.5, Y: float64(y) + 0.5},
						Iso:   sp.Block,
						Strat: sp.BlockStrat,
					})
				}
			}
		}
	}

	flyZ := 1.0
	if size.Z < 2 {
		flyZ = 0
	}
	road := func() Vec3 {
		if rng.Intn(2) == 0 {
			return Vec3{X: float64(rng.Intn(size.X/roadSpacing+1)*roadSpacing) + 0.5, Y: float64(rng.Intn(size.Y)) + 0.5, Z: flyZ + 0.5}
		}
		return Vec3{X: float64(rng.Intn(size.X)) + 0.5, Y: float64(rng.Intn(size.Y/roadSpacing+1)*roadSpacing) + 0.5, Z: flyZ + 0.5}
	}
	clamp := func(p Vec3) Vec3 {
		if p.X >= float64(size.X) {
			p.X = float64(size.X) - 0.5
		}
		if p.Y >= float64(size.Y) {
			p.Y = float64(size.Y) - 0.5
		}
		return p
	}

	const friendly, hostile = 6, 3
	vid := VehicleID(1)
	var hostiles []VehicleID
	for i := 0; i < hostile; i++ {
		c.AddVehicle(&Vehicle{ID: vid, Name: fmt.Sprintf("ufo-%d", i), Type: sp.Hostile, Position: clamp(road()), Facing: Facing(rng.Intn(8))})
		hostiles = append(hostiles, vid)
		vid++
	}
	for i := 0; i < friendly; i++ {
		v := &Vehicle{ID: vid, Name: fmt.Sprintf("interceptor-%d", i), Type: sp.Vehicle, Position: clamp(road()), Facing: Facing(rng.Intn(8))}
		if i == 0 {
			for _, h := range hostiles {
				v.Missions = append(v.Missions, Mission{Kind: MissionAttackVehicle, TargetVehicle: h})
			}
		} else {
			v.Missions = append(v.Missions, Mission{Kind: MissionPatrol})
		}
		c.AddVehicle(v)
		vid++
	}
	return c
}
