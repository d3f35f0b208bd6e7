package city

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/Garsondee/tileframe/internal/gfx"
)

// Sprites is the procedural art set used when no asset pack is installed.
type Sprites struct {
	Ground        Sprite
	Road          Sprite
	Block         Sprite
	GroundStrat   Sprite
	RoadStrat     Sprite
	BlockStrat    Sprite
	Vehicle       *VehicleType
	Hostile       *VehicleType
	Brackets      [4]*gfx.Image
	HostileMarks  [4]*gfx.Image
	Alert         *gfx.Image
	CrewIcon      *gfx.Image
	TileMarker    *gfx.Image
	TileMarkerOff gfx.Vec2
}

// NewSprites draws a sprite set for the given iso and strategy tile sizes.
func NewSprites(iso Vec3i, strat Vec2i) *Sprites {
	s := &Sprites{}
	s.Ground = Sprite{Image: isoDiamond("ground", iso.X, iso.Y, color.RGBA{R: 40, G: 70, B: 40, A: 255}, false), Anchor: gfx.Vec2{X: float64(iso.X) / 2, Y: float64(iso.Y) / 2}}
	s.Road = Sprite{Image: isoDiamond("road", iso.X, iso.Y, color.RGBA{R: 60, G: 58, B: 54, A: 255}, false), Anchor: s.Ground.Anchor}
	s.Block = Sprite{Image: isoBlock("block", iso), Anchor: gfx.Vec2{X: float64(iso.X) / 2, Y: float64(iso.Y)/2 + float64(iso.Z)}}
	s.GroundStrat = Sprite{Image: square("ground-strat", strat.X, strat.Y, color.RGBA{R: 40, G: 70, B: 40, A: 255}), Anchor: gfx.Vec2{X: float64(strat.X) / 2, Y: float64(strat.Y) / 2}}
	s.RoadStrat = Sprite{Image: square("road-strat", strat.X, strat.Y, color.RGBA{R: 60, G: 58, B: 54, A: 255}), Anchor: s.GroundStrat.Anchor}
	s.BlockStrat = Sprite{Image: square("block-strat", strat.X, strat.Y, color.RGBA{R: 120, G: 110, B: 96, A: 255}), Anchor: s.GroundStrat.Anchor}

	s.Vehicle = vehicleType("hovercar", color.RGBA{R: 200, G: 200, B: 60, A: 255}, strat)
	s.Hostile = vehicleType("ufo", color.RGBA{R: 200, G: 60, B: 200, A: 255}, strat)

	for i := range s.Brackets {
		s.Brackets[i] = bracketCorner(fmt.Sprintf("brackets-f%d", i), i, color.RGBA{G: 255, A: 255})
		s.HostileMarks[i] = bracketCorner(fmt.Sprintf("brackets-h%d", i), i, color.RGBA{R: 255, A: 255})
	}
	s.Alert = ring("building-circle", 32, color.RGBA{R: 255, G: 40, B: 40, A: 255})
	s.CrewIcon = square("crew-icon", 8, 8, color.RGBA{R: 120, G: 255, B: 120, A: 255})
	s.TileMarker = isoDiamond("selected-tile-front", iso.X, iso.Y, color.RGBA{R: 255, G: 230, B: 0, A: 200}, true)
	s.TileMarkerOff = gfx.Vec2{X: float64(iso.X) / 2, Y: float64(iso.Y) / 2}
	return s
}

func isoDiamond(name string, w, h int, c color.Color, outline bool) *gfx.Image {
	dc := gg.NewContext(w, h)
	fw, fh := float64(w), float64(h)
	dc.MoveTo(fw/2, 0)
	dc.LineTo(fw, fh/2)
	dc.LineTo(fw/2, fh)
	dc.LineTo(0, fh/2)
	dc.ClosePath()
	dc.SetColor(c)
	if outline {
		dc.SetLineWidth(1.5)
		dc.Stroke()
	} else {
		dc.Fill()
	}
	return gfx.NewImage(name, dc.Image())
}

func isoBlock(name string, iso Vec3i) *gfx.Image {
	w, h, z := float64(iso.X), float64(iso.Y), float64(iso.Z)
	dc := gg.NewContext(iso.X, iso.Y+iso.Z)
	// Left face.
	dc.MoveTo(0, h/2)
	dc.LineTo(w/2, h)
	dc.LineTo(w/2, h+z)
	dc.LineTo(0, h/2+z)
	dc.ClosePath()
	dc.SetRGB255(90, 84, 72)
	dc.Fill()
	// Right face.
	dc.MoveTo(w/2, h)
	dc.LineTo(w, h/2)
	dc.LineTo(w, h/2+z)
	dc.LineTo(w/2, h+z)
	dc.ClosePath()
	dc.SetRGB255(70, 66, 56)
	dc.Fill()
	// Roof.
	dc.MoveTo(w/2, 0)
	dc.LineTo(w, h/2)
	dc.LineTo(w/2, h)
	dc.LineTo(0, h/2)
	dc.ClosePath()
	dc.SetRGB255(130, 120, 104)
	dc.Fill()
	return gfx.NewImage(name, dc.Image())
}

func square(name string, w, h int, c color.Color) *gfx.Image {
	dc := gg.NewContext(w, h)
	dc.SetColor(c)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
	return gfx.NewImage(name, dc.Image())
}

func ring(name string, size int, c color.Color) *gfx.Image {
	dc := gg.NewContext(size, size)
	r := float64(size) / 2
	dc.DrawCircle(r, r, r-2)
	dc.SetColor(c)
	dc.SetLineWidth(3)
	dc.Stroke()
	return gfx.NewImage(name, dc.Image())
}

// bracketCorner draws one corner of a selection bracket. Corners are
// numbered top-left, bottom-left, top-right, bottom-right.
func bracketCorner(name string, corner int, c color.Color) *gfx.Image {
	const n = 6.0
	dc := gg.NewContext(int(n), int(n))
	x0, x1 := 0.5, n-0.5
	y0, y1 := 0.5, n-0.5
	left := corner == 0 || corner == 1
	top := corner == 0 || corner == 2
	cx, ex := x0, x1
	if !left {
		cx, ex = x1, x0
	}
	cy, ey := y0, y1
	if !top {
		cy, ey = y1, y0
	}
	dc.DrawLine(cx, cy, ex, cy)
	dc.DrawLine(cx, cy, cx, ey)
	dc.SetColor(c)
	dc.SetLineWidth(1)
	dc.Stroke()
	return gfx.NewImage(name, dc.Image())
}

func vehicleType(name string, c color.Color, strat Vec2i) *VehicleType {
	t := &VehicleType{Name: name}
	for f := 0; f < VoxelFacingCount; f++ {
		if f == VoxelNorth || f == VoxelSouth {
			t.Size[f] = Vec3{X: 0.5, Y: 1, Z: 0.5}
		} else {
			t.Size[f] = Vec3{X: 1, Y: 0.5, Z: 0.5}
		}
		dc := gg.NewContext(20, 12)
		dc.DrawEllipse(10, 6, 9, 5)
		dc.SetColor(c)
		dc.Fill()
		// Heading stub.
		ang := float64(f) * math.Pi / 2
		dc.DrawLine(10, 6, 10+8*math.Sin(ang), 6-5*math.Cos(ang))
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(1.5)
		dc.Stroke()
		t.IsoSprites[f] = Sprite{Image: gfx.NewImage(fmt.Sprintf("%s-%d", name, f), dc.Image()), Anchor: gfx.Vec2{X: 10, Y: 6}}
	}
	sw, sh := strat.X/2+1, strat.Y/2+1
	t.StratSprite = Sprite{Image: square(name+"-strat", sw, sh, c), Anchor: gfx.Vec2{X: float64(sw) / 2, Y: float64(sh) / 2}}
	return t
}
