package stages

import (
	"image/color"

	"github.com/fogleman/gg"

	"github.com/Garsondee/tileframe/internal/event"
	"github.com/Garsondee/tileframe/internal/framework"
	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/stage"
)

const (
	bannerWidth  = 240
	bannerHeight = 48
)

// PauseStage freezes the stage beneath it and shows a banner until a key
// is pressed.
type PauseStage struct {
	fw     *framework.Framework
	below  stage.Stage
	banner *gfx.Image
	done   bool
}

// NewPauseStage pauses below.
func NewPauseStage(fw *framework.Framework, below stage.Stage) *PauseStage {
	return &PauseStage{fw: fw, below: below, banner: pauseBanner()}
}

func pauseBanner() *gfx.Image {
	dc := gg.NewContext(bannerWidth, bannerHeight)
	dc.SetColor(color.RGBA{A: 190})
	dc.DrawRoundedRectangle(0, 0, bannerWidth, bannerHeight, 8)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored("PAUSED - press any key", bannerWidth/2, bannerHeight/2, 0.5, 0.5)
	return gfx.NewImage("pause-banner", dc.Image())
}

func (p *PauseStage) Name() string { return "pause" }

func (p *PauseStage) Update() stage.Command {
	if p.done {
		return stage.PopStage()
	}
	return stage.Stay()
}

func (p *PauseStage) Render() {
	if p.below != nil {
		p.below.Render()
	}
	w, h := p.fw.Size()
	pos := gfx.Vec2{X: float64(w-bannerWidth) / 2, Y: float64(h-bannerHeight) / 2}
	p.fw.Renderer.Draw(p.banner, pos)
}

// EventOccurred resumes on any key. Window events still reach the paused
// stage so it tracks the display.
func (p *PauseStage) EventOccurred(e *event.Event) {
	switch e.Type {
	case event.KeyDown:
		p.done = true
	case event.WindowResize, event.WindowActivate, event.WindowDeactivate:
		if p.below != nil {
			p.below.EventOccurred(e)
		}
	}
}
