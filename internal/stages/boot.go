// Package stages holds the program's concrete stages: boot, the city view
// and the pause overlay.
package stages

import (
	"log/slog"

	"github.com/Garsondee/tileframe/internal/audio"
	"github.com/Garsondee/tileframe/internal/city"
	"github.com/Garsondee/tileframe/internal/data"
	"github.com/Garsondee/tileframe/internal/event"
	"github.com/Garsondee/tileframe/internal/framework"
	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/logging"
	"github.com/Garsondee/tileframe/internal/stage"
)

// Tile sizes of the city views.
var (
	IsoTileSize   = city.Vec3i{X: 64, Y: 32, Z: 16}
	StratTileSize = city.Vec2i{X: 8, Y: 8}
)

// BootUp starts the music, builds the city and hands over to CityStage on
// its first update.
type BootUp struct {
	fw *framework.Framework
}

// NewBootUp returns the first stage of the program.
func NewBootUp(fw *framework.Framework) *BootUp {
	return &BootUp{fw: fw}
}

func (b *BootUp) Name() string { return "boot" }

func (b *BootUp) Update() stage.Command {
	s := b.fw.Settings
	b.fw.Jukebox.Play(s.GetList("Audio.Playlist"), audio.Loop)

	sp := LoadSprites(b.fw.Data)
	size := city.Vec3i{X: s.GetInt("City.Width"), Y: s.GetInt("City.Height"), Z: s.GetInt("City.Depth")}
	seed := int64(s.GetInt("City.Seed"))
	c := city.GenerateDemo(seed, size, sp)
	logging.For("boot").Info("city generated",
		slog.Int64("seed", seed),
		slog.Int("vehicles", len(c.Vehicles())),
		slog.Int("buildings", len(c.Buildings())),
		slog.Int("objects", c.Map.ObjectCount()))

	return stage.ReplaceWith(NewCityStage(b.fw, c, sp))
}

func (b *BootUp) Render() {}

func (b *BootUp) EventOccurred(*event.Event) {}

// LoadSprites returns the procedural sprite set with any installed overlay
// art swapped in.
func LoadSprites(d *data.Data) *city.Sprites {
	sp := city.NewSprites(IsoTileSize, StratTileSize)
	override(d, &sp.Alert, "city/building-circle.png")
	override(d, &sp.CrewIcon, "city/crew-icon.png")
	override(d, &sp.TileMarker, "city/selected-tile-front.png")
	for i := range sp.Brackets {
		override(d, &sp.Brackets[i], "city/brackets-friendly-"+cornerNames[i]+".png")
		override(d, &sp.HostileMarks[i], "city/brackets-hostile-"+cornerNames[i]+".png")
	}
	return sp
}

var cornerNames = [4]string{"tl", "bl", "tr", "br"}

func override(d *data.Data, dst **gfx.Image, name string) {
	if d == nil {
		return
	}
	if _, err := d.Resolve(name); err != nil {
		return
	}
	if img := d.LoadImage(name); img != nil {
		*dst = img
	}
}
