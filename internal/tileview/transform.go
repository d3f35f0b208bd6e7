// Package tileview projects the city tile grid onto the screen and draws it
// in a fixed, reproducible order.
package tileview

import (
	"math"

	"github.com/Garsondee/tileframe/internal/city"
	"github.com/Garsondee/tileframe/internal/gfx"
)

// Transform maps between tile space and screen space for one view.
// Only Mode decides which tile size and which formulas apply; the grid
// itself is unaffected by a mode switch.
type Transform struct {
	IsoTileSize   city.Vec3i
	StratTileSize city.Vec2i
	Mode          city.ViewMode
	// ScreenOffset is added to projected coordinates to pan the view.
	ScreenOffset gfx.Vec2
	DisplaySize  city.Vec2i
}

// TileToScreen projects a tile-space position without the pan offset.
// Strategy mode ignores z.
func (t *Transform) TileToScreen(c city.Vec3) gfx.Vec2 {
	if t.Mode == city.Strategy {
		return gfx.Vec2{
			X: c.X * float64(t.StratTileSize.X),
			Y: c.Y * float64(t.StratTileSize.Y),
		}
	}
	hw := float64(t.IsoTileSize.X) / 2
	hh := float64(t.IsoTileSize.Y) / 2
	return gfx.Vec2{
		X: (c.X - c.Y) * hw,
		Y: (c.X+c.Y)*hh - c.Z*float64(t.IsoTileSize.Z),
	}
}

// ScreenToTile inverts TileToScreen on the plane at height z.
func (t *Transform) ScreenToTile(p gfx.Vec2, z float64) city.Vec3 {
	if t.Mode == city.Strategy {
		return city.Vec3{
			X: p.X / float64(t.StratTileSize.X),
			Y: p.Y / float64(t.StratTileSize.Y),
			Z: z,
		}
	}
	hw := float64(t.IsoTileSize.X) / 2
	hh := float64(t.IsoTileSize.Y) / 2
	sy := p.Y + z*float64(t.IsoTileSize.Z)
	return city.Vec3{
		X: (sy/hh + p.X/hw) / 2,
		Y: (sy/hh - p.X/hw) / 2,
		Z: z,
	}
}

// TileToOffsetScreen projects c and applies the pan offset.
func (t *Transform) TileToOffsetScreen(c city.Vec3) gfx.Vec2 {
	return t.TileToScreen(c).Add(t.ScreenOffset)
}

// OffsetScreenToTile removes the pan offset from p and inverts.
func (t *Transform) OffsetScreenToTile(p gfx.Vec2, z float64) city.Vec3 {
	return t.ScreenToTile(p.Sub(t.ScreenOffset), z)
}

// CenterOn pans so that c projects to the middle of the display.
func (t *Transform) CenterOn(c city.Vec3) {
	mid := gfx.Vec2{X: float64(t.DisplaySize.X) / 2, Y: float64(t.DisplaySize.Y) / 2}
	t.ScreenOffset = mid.Sub(t.TileToScreen(c))
}

// Bounds is a half-open range of tile indices on the ground plane.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Empty reports whether the range covers no tile.
func (b Bounds) Empty() bool {
	return b.MinX >= b.MaxX || b.MinY >= b.MaxY
}

// VisibleBounds returns the tile rectangle that can reach the display. The
// top corners are inverted at z=0 and the bottom corners at the top of the
// map, padded by one iso tile; each axis is clamped to [0, size) on its own.
func (t *Transform) VisibleBounds(size city.Vec3i) Bounds {
	pad := gfx.Vec2{X: float64(t.IsoTileSize.X), Y: float64(t.IsoTileSize.Y)}
	dpy := gfx.Vec2{X: float64(t.DisplaySize.X), Y: float64(t.DisplaySize.Y)}
	top := float64(size.Z)

	topLeft := t.OffsetScreenToTile(gfx.Vec2{X: -pad.X, Y: -pad.Y}, 0)
	topRight := t.OffsetScreenToTile(gfx.Vec2{X: dpy.X, Y: -pad.Y}, 0)
	bottomLeft := t.OffsetScreenToTile(gfx.Vec2{X: -pad.X, Y: dpy.Y}, top)
	bottomRight := t.OffsetScreenToTile(gfx.Vec2{X: dpy.X, Y: dpy.Y}, top)

	return Bounds{
		MinX: clampIndex(math.Floor(topLeft.X), size.X),
		MaxX: clampIndex(math.Ceil(bottomRight.X), size.X),
		MinY: clampIndex(math.Floor(topRight.Y), size.Y),
		MaxY: clampIndex(math.Ceil(bottomLeft.Y), size.Y),
	}
}

// clampIndex clamps v to [0, n].
func clampIndex(v float64, n int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > float64(n) {
		return n
	}
	return int(v)
}
