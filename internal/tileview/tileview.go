package tileview

import (
	"github.com/Garsondee/tileframe/internal/city"
	"github.com/Garsondee/tileframe/internal/event"
	"github.com/Garsondee/tileframe/internal/gfx"
)

// DefaultScrollSpeed is the pan speed in screen pixels per update.
const DefaultScrollSpeed = 12.0

// TileView is the camera over a tile map: projection, pan and the z range
// that gets drawn.
type TileView struct {
	Transform
	Map *city.TileMap
	// MaxZDraw is the exclusive upper z slice drawn, in [1, Map.Size.Z].
	MaxZDraw    int
	ScrollSpeed float64

	center                  city.Vec3
	scrollUp, scrollDown    bool
	scrollLeft, scrollRight bool
}

// NewTileView returns a view centred on the middle of m.
func NewTileView(m *city.TileMap, iso city.Vec3i, strat city.Vec2i, mode city.ViewMode, display city.Vec2i) *TileView {
	v := &TileView{
		Transform: Transform{
			IsoTileSize:   iso,
			StratTileSize: strat,
			Mode:          mode,
			DisplaySize:   display,
		},
		Map:         m,
		MaxZDraw:    m.Size.Z,
		ScrollSpeed: DefaultScrollSpeed,
	}
	v.SetCenter(city.Vec3{X: float64(m.Size.X) / 2, Y: float64(m.Size.Y) / 2})
	return v
}

// Center returns the tile-space point at the middle of the display.
func (v *TileView) Center() city.Vec3 { return v.center }

// SetCenter moves the camera, clamped to the map's ground rectangle.
func (v *TileView) SetCenter(c city.Vec3) {
	c.X = clampFloat(c.X, 0, float64(v.Map.Size.X))
	c.Y = clampFloat(c.Y, 0, float64(v.Map.Size.Y))
	c.Z = clampFloat(c.Z, 0, float64(v.Map.Size.Z))
	v.center = c
	v.CenterOn(c)
}

// SetMode switches projection and keeps the same tile at the display centre.
func (v *TileView) SetMode(m city.ViewMode) {
	v.Mode = m
	v.CenterOn(v.center)
}

// ToggleMode flips between isometric and strategy.
func (v *TileView) ToggleMode() {
	if v.Mode == city.Isometric {
		v.SetMode(city.Strategy)
	} else {
		v.SetMode(city.Isometric)
	}
}

// Resize updates the display size and re-centres.
func (v *TileView) Resize(w, h int) {
	v.DisplaySize = city.Vec2i{X: w, Y: h}
	v.CenterOn(v.center)
}

// EventOccurred handles camera input. It reports whether e was consumed.
func (v *TileView) EventOccurred(e *event.Event) bool {
	switch e.Type {
	case event.KeyDown, event.KeyUp:
		down := e.Type == event.KeyDown
		switch e.Keyboard.KeyCode {
		case event.KeyArrowUp:
			v.scrollUp = down
		case event.KeyArrowDown:
			v.scrollDown = down
		case event.KeyArrowLeft:
			v.scrollLeft = down
		case event.KeyArrowRight:
			v.scrollRight = down
		case event.KeyTab:
			if down {
				v.ToggleMode()
			}
		case event.KeyPageUp:
			if down && v.MaxZDraw < v.Map.Size.Z {
				v.MaxZDraw++
			}
		case event.KeyPageDown:
			if down && v.MaxZDraw > 1 {
				v.MaxZDraw--
			}
		default:
			return false
		}
		return true
	case event.WindowResize:
		v.Resize(e.Display.Width, e.Display.Height)
		return true
	}
	return false
}

// Update applies one step of panning.
func (v *TileView) Update() {
	var d gfx.Vec2
	if v.scrollUp {
		d.Y -= v.ScrollSpeed
	}
	if v.scrollDown {
		d.Y += v.ScrollSpeed
	}
	if v.scrollLeft {
		d.X -= v.ScrollSpeed
	}
	if v.scrollRight {
		d.X += v.ScrollSpeed
	}
	if d == (gfx.Vec2{}) {
		return
	}
	screen := v.TileToScreen(v.center).Add(d)
	v.SetCenter(v.ScreenToTile(screen, v.center.Z))
}

// ScreenToGround returns the tile under a screen point on the z=0 plane.
func (v *TileView) ScreenToGround(x, y int) city.Vec3 {
	return v.OffsetScreenToTile(gfx.Vec2{X: float64(x), Y: float64(y)}, 0)
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
