package display

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/time/rate"

	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/logging"
)

// ScriptFunc returns the raw events to deliver before frame n.
type ScriptFunc func(frame int) []RawEvent

// Headless is an offscreen display for batch runs and tests. Input comes
// from Inject and an optional script.
type Headless struct {
	// MaxFrames stops Run after this many frames by delivering a
	// RawDisplayClose. Zero means no limit.
	MaxFrames int
	Script    ScriptFunc

	w, h    int
	title   string
	limiter *rate.Limiter

	mu      sync.Mutex
	pending []RawEvent

	frames   int
	software *gfx.Software
	last     image.Image
	log      *slog.Logger
}

// NewHeadless returns a w×h display. fps > 0 paces Run to that rate.
func NewHeadless(w, h int, fps int) *Headless {
	d := &Headless{w: w, h: h, log: logging.For("headless")}
	if fps > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(fps), 1)
	}
	return d
}

func (d *Headless) Name() string { return "headless" }

func (d *Headless) Size() (int, int) { return d.w, d.h }

// Resize changes the display size and queues the matching resize event.
func (d *Headless) Resize(w, h int) {
	d.w, d.h = w, h
	d.Inject(RawEvent{Kind: RawDisplayResize})
}

// Inject queues raw events for the next PollEvents.
func (d *Headless) Inject(evs ...RawEvent) {
	d.mu.Lock()
	d.pending = append(d.pending, evs...)
	d.mu.Unlock()
}

func (d *Headless) PollEvents(fn func(RawEvent)) {
	if d.Script != nil {
		d.Inject(d.Script(d.frames)...)
	}
	d.mu.Lock()
	evs := d.pending
	d.pending = nil
	d.mu.Unlock()
	for _, e := range evs {
		fn(e)
	}
}

func (d *Headless) Present() {
	d.frames++
	if d.software != nil {
		src := d.software.Image()
		frame := image.NewRGBA(src.Bounds())
		draw.Draw(frame, frame.Bounds(), src, src.Bounds().Min, draw.Src)
		d.last = frame
		syncSoftware(d.software, d.w, d.h)
	}
}

// Frames returns how many frames have been presented.
func (d *Headless) Frames() int { return d.frames }

// LastFrame returns the last presented software frame, or nil.
func (d *Headless) LastFrame() image.Image { return d.last }

func (d *Headless) SetTitle(title string) { d.title = title }

// Title returns the last title set.
func (d *Headless) Title() string { return d.title }

func (d *Headless) AttachSoftware(sw *gfx.Software) {
	d.software = sw
	syncSoftware(sw, d.w, d.h)
}

func (d *Headless) Run(step func() bool) error {
	ctx := context.Background()
	closing := false
	for {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		if !closing && d.MaxFrames > 0 && d.frames >= d.MaxFrames {
			d.log.Info("frame limit reached", slog.Int("frames", d.frames))
			d.Inject(RawEvent{Kind: RawDisplayClose})
			closing = true
		}
		if !step() {
			return nil
		}
		if closing {
			// The close event was not honoured; stop anyway.
			d.log.Warn("display close ignored, stopping")
			return nil
		}
	}
}

func (d *Headless) Close() error { return nil }
