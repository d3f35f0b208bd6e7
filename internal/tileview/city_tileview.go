package tileview

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/tileframe/internal/city"
	"github.com/Garsondee/tileframe/internal/event"
	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/logging"
)

// bracketInset shifts every bracket corner up and left of its anchor point.
const bracketInset = 2.0

// detectionBias keeps the alert pulse near full size when detection starts.
const detectionBias = 0.55

// alertZ is the tile height the detection pulse and crew rows are drawn at.
const alertZ = 2

// SnapshotName is the file F6 writes the current view to.
const SnapshotName = "tileview.png"

// Resources is what a city view loads and writes at runtime.
type Resources interface {
	LoadPalette(name string) *gfx.Palette
	WriteImage(name string, img image.Image) error
}

// CityArt holds the overlay images a city view draws on top of the grid.
// Bracket corners are ordered top-left, bottom-left, top-right, bottom-right.
type CityArt struct {
	BracketsFriendly [4]*gfx.Image
	BracketsHostile  [4]*gfx.Image
	Alert            *gfx.Image
	TileMarker       *gfx.Image
	TileMarkerOffset gfx.Vec2
}

// TraceFunc observes every object the view draws, in draw order.
type TraceFunc func(z, layer int, tile *city.Tile, obj city.TileObject)

// CityTileView draws a city with selection brackets in isometric mode and
// detection alerts in strategy mode.
type CityTileView struct {
	*TileView
	City    *city.City
	Art     CityArt
	Palette *gfx.Palette
	// PaletteNames are loaded by keys 1, 2 and 3.
	PaletteNames [3]string
	Resources    Resources

	// StrategyOverlay runs after the strategy grid pass.
	StrategyOverlay func(r gfx.Renderer)
	// DebugShowCrew draws occupant icons over every building in strategy mode.
	DebugShowCrew bool
	// DebugTileMarkers draws the tile marker on flagged tiles in isometric mode.
	DebugTileMarkers bool
	Trace            TraceFunc

	// CopyText puts text on the system clipboard.
	CopyText func(string) error

	selected    city.VehicleID
	hasSelected bool
}

// NewCityTileView returns a view over c.
func NewCityTileView(c *city.City, iso city.Vec3i, strat city.Vec2i, mode city.ViewMode, display city.Vec2i) *CityTileView {
	return &CityTileView{
		TileView: NewTileView(c.Map, iso, strat, mode, display),
		City:     c,
		CopyText: clipboard.WriteAll,
	}
}

// Select makes id the selected vehicle. The selection is resolved through
// the city on every render, so a removed vehicle simply stops being drawn.
func (v *CityTileView) Select(id city.VehicleID) {
	v.selected = id
	v.hasSelected = true
}

// ClearSelection drops the selection.
func (v *CityTileView) ClearSelection() {
	v.hasSelected = false
}

// Selected returns the selected vehicle if it still exists.
func (v *CityTileView) Selected() (*city.Vehicle, bool) {
	if !v.hasSelected {
		return nil, false
	}
	return v.City.Vehicle(v.selected)
}

// EventOccurred handles palette, debug and snapshot keys, then camera input.
func (v *CityTileView) EventOccurred(e *event.Event) bool {
	if e.Type == event.KeyDown {
		switch e.Keyboard.KeyCode {
		case event.Key1, event.Key2, event.Key3:
			v.loadPalette(int(e.Keyboard.KeyCode - event.Key1))
			return true
		case event.KeyF10:
			v.DebugShowCrew = !v.DebugShowCrew
			logging.For("tileview").Warn("debug crew display toggled", slog.Bool("enabled", v.DebugShowCrew))
			return true
		case event.KeyF6:
			v.WriteSnapshot()
			return true
		case event.KeyF5:
			v.copySummary()
			return true
		}
	}
	return v.TileView.EventOccurred(e)
}

func (v *CityTileView) loadPalette(i int) {
	name := v.PaletteNames[i]
	if name == "" || v.Resources == nil {
		return
	}
	if p := v.Resources.LoadPalette(name); p != nil {
		v.Palette = p
	}
}

// WriteSnapshot renders the current view with the software renderer and
// writes it through Resources.
func (v *CityTileView) WriteSnapshot() {
	log := logging.For("tileview")
	if v.Resources == nil {
		return
	}
	w, h := v.DisplaySize.X, v.DisplaySize.Y
	if w <= 0 || h <= 0 {
		return
	}
	log.Warn("writing tile view snapshot", slog.String("file", SnapshotName))
	sw := gfx.NewSoftware(w, h)
	trace := v.Trace
	v.Trace = nil
	v.Render(sw)
	v.Trace = trace
	if err := v.Resources.WriteImage(SnapshotName, sw.Image()); err != nil {
		log.Error("snapshot failed", slog.Any("err", err))
	}
}

// Summary describes the camera in one line.
func (v *CityTileView) Summary() string {
	b := v.VisibleBounds(v.Map.Size)
	c := v.Center()
	return fmt.Sprintf("mode=%s center=(%.2f,%.2f,%.2f) x=[%d,%d) y=[%d,%d) maxz=%d",
		v.Mode, c.X, c.Y, c.Z, b.MinX, b.MaxX, b.MinY, b.MaxY, v.MaxZDraw)
}

func (v *CityTileView) copySummary() {
	if v.CopyText == nil {
		return
	}
	if err := v.CopyText(v.Summary()); err != nil {
		logging.For("tileview").Warn("clipboard unavailable", slog.Any("err", err))
	}
}

// Render redraws the whole visible region.
func (v *CityTileView) Render(r gfx.Renderer) {
	r.Clear()
	r.SetPalette(v.Palette)

	b := v.VisibleBounds(v.Map.Size)
	switch v.Mode {
	case city.Isometric:
		v.renderIsometric(r, b)
	case city.Strategy:
		v.renderStrategy(r, b)
	}
}

// vehicleSet is an insertion-ordered set of vehicles.
type vehicleSet struct {
	list []*city.Vehicle
	seen map[city.VehicleID]bool
}

func newVehicleSet() *vehicleSet {
	return &vehicleSet{seen: make(map[city.VehicleID]bool)}
}

func (s *vehicleSet) add(vh *city.Vehicle) {
	if vh == nil || s.seen[vh.ID] {
		return
	}
	s.seen[vh.ID] = true
	s.list = append(s.list, vh)
}

// forEachObject walks z, then layer, then y, then x, then the tile's stored
// order. This walk is the draw order.
func (v *CityTileView) forEachObject(b Bounds, tileDone func(t *city.Tile), fn func(z, layer int, t *city.Tile, obj city.TileObject)) {
	maxZ := v.MaxZDraw
	if maxZ > v.Map.Size.Z {
		maxZ = v.Map.Size.Z
	}
	for z := 0; z < maxZ; z++ {
		for layer := 0; layer < v.Map.LayerCount(); layer++ {
			for y := b.MinY; y < b.MaxY; y++ {
				for x := b.MinX; x < b.MaxX; x++ {
					t := v.Map.Tile(x, y, z)
					if t == nil {
						continue
					}
					for _, obj := range t.Drawn[layer] {
						fn(z, layer, t, obj)
					}
					if tileDone != nil {
						tileDone(t)
					}
				}
			}
		}
	}
}

func (v *CityTileView) drawObject(r gfx.Renderer, z, layer int, t *city.Tile, obj city.TileObject) {
	obj.Draw(r, v.TileToOffsetScreen(obj.Center()), v.Mode)
	if v.Trace != nil {
		v.Trace(z, layer, t, obj)
	}
}

func (v *CityTileView) renderIsometric(r gfx.Renderer, b Bounds) {
	friendly := newVehicleSet()
	hostile := newVehicleSet()

	sel, hasSel := v.Selected()
	if hasSel {
		for _, id := range sel.AttackTargets() {
			if target, ok := v.City.Vehicle(id); ok {
				hostile.add(target)
			}
		}
	}

	var markTile func(t *city.Tile)
	if v.DebugTileMarkers && v.Art.TileMarker != nil {
		markTile = func(t *city.Tile) {
			if t.DebugFlag {
				r.Draw(v.Art.TileMarker, v.TileToOffsetScreen(t.Pos.Float()).Sub(v.Art.TileMarkerOffset))
			}
		}
	}

	v.forEachObject(b, markTile, func(z, layer int, t *city.Tile, obj city.TileObject) {
		v.drawObject(r, z, layer, t, obj)
		if hasSel && obj.Kind() == city.KindVehicle && obj.Ref().ID == int(sel.ID) {
			friendly.add(sel)
		}
	})

	for _, vh := range friendly.list {
		v.drawBrackets(r, vh, v.Art.BracketsFriendly)
	}
	for _, vh := range hostile.list {
		v.drawBrackets(r, vh, v.Art.BracketsHostile)
	}
}

// BracketCorners returns where the four bracket images of vh are drawn:
// top-left, bottom-left, top-right, bottom-right.
func (v *CityTileView) BracketCorners(vh *city.Vehicle) [4]gfx.Vec2 {
	var size city.Vec3
	if vh.Type != nil {
		size = vh.Type.HalfExtent(vh.Facing)
	}
	p := vh.Position
	top := v.TileToOffsetScreen(p.Add(city.Vec3{X: -size.X, Y: -size.Y, Z: size.Z}))
	left := v.TileToOffsetScreen(p.Add(city.Vec3{X: -size.X, Y: size.Y}))
	right := v.TileToOffsetScreen(p.Add(city.Vec3{X: size.X, Y: -size.Y}))
	bottom := v.TileToOffsetScreen(p.Add(city.Vec3{X: size.X, Y: size.Y, Z: -size.Z}))
	return [4]gfx.Vec2{
		{X: left.X - bracketInset, Y: top.Y - bracketInset},
		{X: left.X - bracketInset, Y: bottom.Y - bracketInset},
		{X: right.X - bracketInset, Y: top.Y - bracketInset},
		{X: right.X - bracketInset, Y: bottom.Y - bracketInset},
	}
}

func (v *CityTileView) drawBrackets(r gfx.Renderer, vh *city.Vehicle, imgs [4]*gfx.Image) {
	corners := v.BracketCorners(vh)
	for i, img := range imgs {
		r.Draw(img, corners[i])
	}
}

// DetectionRadius is the alert pulse size for a building with ticks left on
// its detection countdown. It starts at the icon's natural size and shrinks
// towards a little over half of it.
func DetectionRadius(initial float64, ticks int) float64 {
	computed := initial * (float64(ticks)/float64(city.TicksDetectionTimeout)/2 + detectionBias)
	return math.Min(initial, computed)
}

func (v *CityTileView) renderStrategy(r gfx.Renderer, b Bounds) {
	v.forEachObject(b, nil, func(z, layer int, t *city.Tile, obj city.TileObject) {
		v.drawObject(r, z, layer, t, obj)
	})

	if v.StrategyOverlay != nil {
		v.StrategyOverlay(r)
	}

	if alert := v.Art.Alert; alert != nil {
		initial := math.Max(float64(alert.Width()), float64(alert.Height()))
		for _, bld := range v.City.Buildings() {
			if !bld.Detected {
				continue
			}
			radius := DetectionRadius(initial, bld.TicksDetectionTimeOut)
			c := bld.Bounds.Center()
			pos := v.TileToOffsetScreen(city.Vec3i{X: c.X, Y: c.Y, Z: alertZ}.Float())
			pos = pos.Sub(gfx.Vec2{X: radius / 2, Y: radius / 2})
			if radius == initial {
				r.Draw(alert, pos)
			} else {
				r.DrawScaled(alert, pos, gfx.Vec2{X: radius, Y: radius})
			}
		}
	}

	if v.DebugShowCrew {
		for _, bld := range v.City.Buildings() {
			pos := v.TileToOffsetScreen(city.Vec3i{X: bld.Bounds.P0.X, Y: bld.Bounds.P0.Y, Z: alertZ}.Float())
			for _, crew := range bld.Crew {
				if crew.Species == nil || crew.Species.Icon == nil {
					continue
				}
				icon := crew.Species.Icon
				for i := 0; i < crew.Count; i++ {
					r.Draw(icon, pos)
					pos.X += float64(icon.Width() / 2)
				}
			}
		}
	}
}
