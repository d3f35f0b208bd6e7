package stages

import (
	"log/slog"

	"github.com/Garsondee/tileframe/internal/city"
	"github.com/Garsondee/tileframe/internal/event"
	"github.com/Garsondee/tileframe/internal/framework"
	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/logging"
	"github.com/Garsondee/tileframe/internal/stage"
	"github.com/Garsondee/tileframe/internal/tileview"
)

// pickPlane is the tile height clicks are resolved at; vehicles fly there.
const pickPlane = 1.0

// pickRadius is how far from the click a vehicle may be to get selected.
const pickRadius = 2.0

// CityStage shows the city and routes input to its tile view.
type CityStage struct {
	fw   *framework.Framework
	City *city.City
	View *tileview.CityTileView

	quit  bool
	pause bool
	log   *slog.Logger
}

// NewCityStage returns a city stage over c drawn with sp.
func NewCityStage(fw *framework.Framework, c *city.City, sp *city.Sprites) *CityStage {
	w, h := fw.Size()
	v := tileview.NewCityTileView(c, IsoTileSize, StratTileSize, city.Isometric, city.Vec2i{X: w, Y: h})
	v.Art = tileview.CityArt{
		BracketsFriendly: sp.Brackets,
		BracketsHostile:  sp.HostileMarks,
		Alert:            sp.Alert,
		TileMarker:       sp.TileMarker,
		TileMarkerOffset: sp.TileMarkerOff,
	}
	v.Resources = fw.Data
	s := fw.Settings
	v.PaletteNames = [3]string{
		s.GetString("Visual.CityPalette1"),
		s.GetString("Visual.CityPalette2"),
		s.GetString("Visual.CityPalette3"),
	}
	v.Palette = fw.Renderer.Palette()
	return &CityStage{fw: fw, City: c, View: v, log: logging.For("city-stage")}
}

func (s *CityStage) Name() string { return "city" }

func (s *CityStage) Update() stage.Command {
	if s.quit {
		return stage.QuitProgram()
	}
	if s.pause {
		s.pause = false
		return stage.PushStage(NewPauseStage(s.fw, s))
	}
	s.City.Tick()
	s.View.Update()
	return stage.Stay()
}

func (s *CityStage) Render() {
	s.View.Render(s.fw.Renderer)
}

func (s *CityStage) EventOccurred(e *event.Event) {
	switch e.Type {
	case event.KeyDown:
		switch e.Keyboard.KeyCode {
		case event.KeyEscape:
			s.quit = true
			return
		case event.KeyP:
			s.pause = true
			return
		case event.KeyN:
			s.fw.Jukebox.Next()
			return
		case event.KeyF9:
			s.View.DebugTileMarkers = !s.View.DebugTileMarkers
			return
		}
	case event.MouseDown:
		s.click(e.Mouse)
		return
	}
	s.View.EventOccurred(e)
}

func (s *CityStage) click(m event.Mouse) {
	p := gfx.Vec2{X: float64(m.X), Y: float64(m.Y)}
	switch m.Button {
	case event.ButtonRight:
		s.View.ClearSelection()
	case event.ButtonLeft:
		if s.View.DebugTileMarkers {
			ground := s.View.OffsetScreenToTile(p, 0).Floor()
			if t := s.City.Map.Tile(ground.X, ground.Y, 0); t != nil {
				t.DebugFlag = !t.DebugFlag
			}
		}
		at := s.View.OffsetScreenToTile(p, pickPlane)
		if v, ok := s.City.NearestVehicle(at, pickRadius); ok {
			s.View.Select(v.ID)
			s.log.Info("vehicle selected", slog.Int("id", int(v.ID)), slog.String("name", v.Name))
		}
	}
}

// Finish implements stage.Finisher.
func (s *CityStage) Finish() {
	s.log.Debug("city stage released", slog.Int("ticks", s.City.Ticks()))
}
