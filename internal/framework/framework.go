// Package framework runs the program loop: it owns the display, renderer,
// sound backend and stage stack, translates backend input into engine
// events and drives one stage transition per frame.
package framework

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Garsondee/tileframe/internal/audio"
	"github.com/Garsondee/tileframe/internal/data"
	"github.com/Garsondee/tileframe/internal/display"
	"github.com/Garsondee/tileframe/internal/event"
	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/logging"
	"github.com/Garsondee/tileframe/internal/settings"
	"github.com/Garsondee/tileframe/internal/stage"
)

// Framework is the engine runtime. Everything except PushEvent must be
// called from the goroutine running the loop.
type Framework struct {
	Settings *settings.Store
	Data     *data.Data
	Display  display.Display
	Renderer gfx.Renderer
	Jukebox  *audio.Jukebox
	Metrics  *Metrics

	stack  stage.Stack
	queue  *event.Queue
	quit   bool
	closed bool
	frame  uint64

	snapshots snapshotStore
	debug     *debugServer
	log       *slog.Logger
}

// New opens the backends named in settings. It fails with ErrNoDisplay,
// ErrNoRenderer or ErrNoSoundBackend when none of the listed backends of a
// kind can be opened. A nil registry means DefaultRegistry; nil data loads
// from the configured resource directories.
func New(s *settings.Store, reg *Registry, d *data.Data) (*Framework, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	if d == nil {
		d = data.New(s.GetString("Resource.LocalDataDir"), s.GetString("Resource.SystemDataDir"))
	}
	f := &Framework{
		Settings: s,
		Data:     d,
		Metrics:  NewMetrics(),
		queue:    event.NewQueue(),
		log:      logging.For("framework"),
	}
	f.log.Info("starting framework", slog.String("language", s.GetString("Language")))
	f.probe()

	disp, _, ok := choose(f.log, "display", s.GetList("Visual.Display"), func(name string) (func() (display.Display, error), bool) {
		fac, ok := reg.displays[name]
		if !ok {
			return nil, false
		}
		return func() (display.Display, error) { return fac(s) }, true
	})
	if !ok {
		return nil, ErrNoDisplay
	}
	f.Display = disp

	r, _, ok := choose(f.log, "renderer", s.GetList("Visual.RendererList"), func(name string) (func() (gfx.Renderer, error), bool) {
		fac, ok := reg.renderers[name]
		if !ok {
			return nil, false
		}
		return func() (gfx.Renderer, error) { return fac(disp) }, true
	})
	if !ok {
		_ = disp.Close()
		return nil, ErrNoRenderer
	}
	f.Renderer = r

	snd, _, ok := choose(f.log, "sound", s.GetList("Audio.Backends"), func(name string) (func() (audio.Backend, error), bool) {
		fac, ok := reg.sounds[name]
		return fac, ok
	})
	if !ok {
		_ = disp.Close()
		return nil, ErrNoSoundBackend
	}
	f.Jukebox = audio.NewJukebox(snd, d)

	if addr := s.GetString("Debug.ListenAddr"); addr != "" {
		srv, err := startDebugServer(addr, NewDebugRouter(f.Metrics, f.snapshots.get), f.log)
		if err != nil {
			f.log.Error("debug server disabled", slog.Any("err", err))
		} else {
			f.debug = srv
		}
	}
	return f, nil
}

// probe checks the configured probe file can be opened.
func (f *Framework) probe() {
	name := f.Settings.GetString("Resource.ProbeFile")
	if name == "" {
		return
	}
	fh, err := f.Data.Open(name)
	if err != nil {
		f.log.Error("failed to open probe file", slog.String("file", name), slog.Any("err", err))
		return
	}
	_ = fh.Close()
}

// DebugAddr returns the debug server address, or "" when it is off.
func (f *Framework) DebugAddr() string {
	if f.debug == nil {
		return ""
	}
	return f.debug.Addr()
}

// Stack exposes the stage stack for inspection.
func (f *Framework) Stack() *stage.Stack { return &f.stack }

// Quitting reports whether the loop has been asked to stop.
func (f *Framework) Quitting() bool { return f.quit }

// Frame returns the number of completed iterations.
func (f *Framework) Frame() uint64 { return f.frame }

// Size returns the display size.
func (f *Framework) Size() (int, int) { return f.Display.Size() }

// SetTitle sets the window title.
func (f *Framework) SetTitle(title string) { f.Display.SetTitle(title) }

// PushEvent queues e for the next drain. Safe from any goroutine.
func (f *Framework) PushEvent(e event.Event) { f.queue.Push(e) }

// Run pushes initial and drives the loop until it stops.
func (f *Framework) Run(initial stage.Stage) error {
	f.SetTitle(f.Settings.GetString("Visual.Title"))
	if name := f.Settings.GetString("Visual.Palette"); name != "" {
		if p := f.Data.LoadPalette(name); p != nil {
			f.Renderer.SetPalette(p)
		}
	}
	f.stack.Push(initial)
	f.publish()
	f.log.Info("program loop started", slog.String("stage", stage.NameOf(initial)))
	err := f.Display.Run(f.Iterate)
	f.log.Info("program loop ended", slog.Uint64("frames", f.frame))
	return err
}

// Iterate runs one frame. It returns false when the loop must stop.
func (f *Framework) Iterate() bool {
	start := time.Now()
	defer func() {
		f.frame++
		f.Metrics.frames.Inc()
		f.Metrics.frameDuration.Observe(time.Since(start).Seconds())
		f.publish()
	}()

	f.Renderer.Clear()
	f.ProcessEvents()
	if f.stack.IsEmpty() {
		f.quit = true
		return false
	}

	cmd := f.stack.Current().Update()
	f.Metrics.commands.WithLabelValues(cmd.Kind.String()).Inc()
	if f.stack.Apply(cmd) {
		f.log.Info("quit requested")
		f.quit = true
	}

	if !f.stack.IsEmpty() {
		f.stack.Current().Render()
		f.Display.Present()
	}
	return !f.quit
}

// ProcessEvents translates pending backend input and dispatches the queue
// to the current stage. A WindowClosed event shuts the framework down and
// drops the rest of the batch.
func (f *Framework) ProcessEvents() {
	if f.stack.IsEmpty() {
		f.quit = true
		return
	}
	w, h := f.Display.Size()
	f.Display.PollEvents(func(raw display.RawEvent) {
		if e, ok := Translate(raw, w, h); ok {
			f.queue.Push(e)
		}
	})

	closed := false
	f.queue.Drain(func(e *event.Event) bool {
		if e.Type == event.WindowClosed {
			closed = true
			return false
		}
		if f.stack.IsEmpty() {
			return false
		}
		f.Metrics.events.WithLabelValues(e.Type.String()).Inc()
		f.stack.Current().EventOccurred(e)
		return true
	})
	if closed {
		f.log.Info("window closed")
		f.Shutdown()
		f.queue.Clear()
	}
}

// Shutdown releases every stage and stops the loop.
func (f *Framework) Shutdown() {
	f.stack.Clear()
	f.quit = true
}

// SaveSettings writes the settings file.
func (f *Framework) SaveSettings() error {
	if err := f.Settings.Save(); err != nil {
		return fmt.Errorf("framework: %w", err)
	}
	return nil
}

// Close releases the stages, saves settings and closes the backends. It is
// safe to call more than once.
func (f *Framework) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.stack.Clear()
	f.publish()

	var errs []error
	if err := f.SaveSettings(); err != nil {
		errs = append(errs, err)
	}
	if err := f.Jukebox.Close(); err != nil {
		errs = append(errs, fmt.Errorf("framework: close sound: %w", err))
	}
	if f.debug != nil {
		if err := f.debug.close(); err != nil {
			errs = append(errs, fmt.Errorf("framework: close debug server: %w", err))
		}
	}
	if err := f.Display.Close(); err != nil {
		errs = append(errs, fmt.Errorf("framework: close display: %w", err))
	}
	return errors.Join(errs...)
}

func (f *Framework) publish() {
	f.Metrics.stackDepth.Set(float64(f.stack.Len()))
	f.snapshots.set(StageSnapshot{Depth: f.stack.Len(), Stages: f.stack.Names(), Frame: f.frame})
}
