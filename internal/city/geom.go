package city

import "math"

// Vec3 is a continuous position in tile space: one unit is one tile.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Scale returns v*s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Floor returns the tile index containing v.
func (v Vec3) Floor() Vec3i {
	return Vec3i{int(math.Floor(v.X)), int(math.Floor(v.Y)), int(math.Floor(v.Z))}
}

// Vec3i is a tile index.
type Vec3i struct {
	X, Y, Z int
}

// Float converts the index to a position at the tile's origin corner.
func (v Vec3i) Float() Vec3 { return Vec3{float64(v.X), float64(v.Y), float64(v.Z)} }

// Vec2i is an integer 2D size or point.
type Vec2i struct {
	X, Y int
}

// Rect is a half-open tile rectangle on the ground plane: P0 inclusive,
// P1 exclusive.
type Rect struct {
	P0, P1 Vec2i
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.P0.X && x < r.P1.X && y >= r.P0.Y && y < r.P1.Y
}

// Center returns the integer midpoint used for overlays.
func (r Rect) Center() Vec2i {
	return Vec2i{(r.P0.X + r.P1.X) / 2, (r.P0.Y + r.P1.Y) / 2}
}

// ViewMode selects the projection a tile view draws with.
type ViewMode uint8

const (
	Isometric ViewMode = iota
	Strategy
)

func (m ViewMode) String() string {
	if m == Strategy {
		return "strategy"
	}
	return "isometric"
}
