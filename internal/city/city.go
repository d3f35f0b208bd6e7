// Package city is the slice of the world model a city tile view reads: the
// tile grid, vehicles with their missions, and buildings.
package city

import (
	"log/slog"
	"sort"

	"github.com/Garsondee/tileframe/internal/logging"
)

// City owns its vehicles and buildings. The tile map only holds handles.
type City struct {
	Map *TileMap

	vehicles  map[VehicleID]*Vehicle
	buildings []*Building
	tick      int
}

// New returns an empty city over a map of the given size.
func New(size Vec3i) *City {
	return &City{
		Map:      NewTileMap(size, LayerCount),
		vehicles: make(map[VehicleID]*Vehicle),
	}
}

// AddVehicle takes ownership of v and places its handle on the map.
func (c *City) AddVehicle(v *Vehicle) {
	if _, dup := c.vehicles[v.ID]; dup {
		logging.For("city").Warn("duplicate vehicle id", slog.Int("id", int(v.ID)))
		return
	}
	c.vehicles[v.ID] = v
	if !c.Map.Insert(LayerVehicles, &vehicleObject{id: v.ID, city: c}) {
		logging.For("city").Warn("vehicle outside map", slog.Int("id", int(v.ID)))
	}
}

// Vehicle looks up a vehicle by id.
func (c *City) Vehicle(id VehicleID) (*Vehicle, bool) {
	v, ok := c.vehicles[id]
	return v, ok
}

// Vehicles returns all vehicles ordered by id.
func (c *City) Vehicles() []*Vehicle {
	out := make([]*Vehicle, 0, len(c.vehicles))
	for _, v := range c.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MoveVehicle relocates a vehicle and re-files its handle.
func (c *City) MoveVehicle(id VehicleID, to Vec3) {
	v, ok := c.vehicles[id]
	if !ok {
		return
	}
	ref := ObjectRef{Kind: KindVehicle, ID: int(id)}
	c.Map.Remove(v.Position, ref)
	v.Position = to
	c.Map.Insert(LayerVehicles, &vehicleObject{id: id, city: c})
}

// RemoveVehicle drops the vehicle and its handle.
func (c *City) RemoveVehicle(id VehicleID) {
	v, ok := c.vehicles[id]
	if !ok {
		return
	}
	c.Map.Remove(v.Position, ObjectRef{Kind: KindVehicle, ID: int(id)})
	delete(c.vehicles, id)
}

// AddBuilding takes ownership of b.
func (c *City) AddBuilding(b *Building) {
	c.buildings = append(c.buildings, b)
}

// Buildings returns the buildings in insertion order.
func (c *City) Buildings() []*Building {
	return c.buildings
}

// Building looks up a building by id.
func (c *City) Building(id BuildingID) (*Building, bool) {
	for _, b := range c.buildings {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// Tick advances per-tick city state.
func (c *City) Tick() {
	c.tick++
	for _, b := range c.buildings {
		b.Tick()
	}
}

// Ticks returns how many ticks the city has run.
func (c *City) Ticks() int { return c.tick }

// NearestVehicle returns the vehicle closest to p on the ground plane within
// maxDist tiles.
func (c *City) NearestVehicle(p Vec3, maxDist float64) (*Vehicle, bool) {
	var best *Vehicle
	bestD := maxDist * maxDist
	for _, v := range c.Vehicles() {
		dx := v.Position.X - p.X
		dy := v.Position.Y - p.Y
		d := dx*dx + dy*dy
		if d < bestD || (best == nil && d == bestD) {
			best, bestD = v, d
		}
	}
	return best, best != nil
}
