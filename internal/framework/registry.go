package framework

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Garsondee/tileframe/internal/audio"
	"github.com/Garsondee/tileframe/internal/display"
	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/settings"
)

var (
	ErrNoDisplay      = errors.New("framework: no usable display")
	ErrNoRenderer     = errors.New("framework: no usable renderer")
	ErrNoSoundBackend = errors.New("framework: no usable sound backend")
)

// DisplayFactory opens a display configured from s.
type DisplayFactory func(s *settings.Store) (display.Display, error)

// RendererFactory builds a renderer for d. It fails when d is not a
// display the renderer can draw to.
type RendererFactory func(d display.Display) (gfx.Renderer, error)

// SoundFactory opens a sound backend.
type SoundFactory func() (audio.Backend, error)

// Registry maps backend names to factories. It is built once at startup
// and passed to New.
type Registry struct {
	displays  map[string]DisplayFactory
	renderers map[string]RendererFactory
	sounds    map[string]SoundFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		displays:  make(map[string]DisplayFactory),
		renderers: make(map[string]RendererFactory),
		sounds:    make(map[string]SoundFactory),
	}
}

func (r *Registry) RegisterDisplay(name string, f DisplayFactory)   { r.displays[name] = f }
func (r *Registry) RegisterRenderer(name string, f RendererFactory) { r.renderers[name] = f }
func (r *Registry) RegisterSoundBackend(name string, f SoundFactory) {
	r.sounds[name] = f
}

// Names lists the registered displays, renderers and sound backends.
func (r *Registry) Names() (displays, renderers, sounds []string) {
	return sortedKeys(r.displays), sortedKeys(r.renderers), sortedKeys(r.sounds)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry registers every built-in backend.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterDisplay("ebiten", func(s *settings.Store) (display.Display, error) {
		return display.NewEbiten(
			s.GetInt("Visual.ScreenWidth"),
			s.GetInt("Visual.ScreenHeight"),
			s.GetBool("Visual.FullScreen"),
			s.GetString("Visual.Title"),
		), nil
	})
	r.RegisterDisplay("terminal", func(s *settings.Store) (display.Display, error) {
		return display.NewTerminal(s.GetInt("Visual.ScreenWidth"), s.GetInt("Visual.ScreenHeight"))
	})
	r.RegisterDisplay("headless", func(s *settings.Store) (display.Display, error) {
		return display.NewHeadless(
			s.GetInt("Visual.ScreenWidth"),
			s.GetInt("Visual.ScreenHeight"),
			s.GetInt("Visual.HeadlessFPS"),
		), nil
	})

	r.RegisterRenderer("ebiten", func(d display.Display) (gfx.Renderer, error) {
		ed, ok := d.(*display.Ebiten)
		if !ok {
			return nil, fmt.Errorf("ebiten renderer needs the ebiten display, not %s", d.Name())
		}
		return display.NewEbitenRenderer(ed), nil
	})
	r.RegisterRenderer("software", softwareRenderer)
	r.RegisterRenderer("terminal", func(d display.Display) (gfx.Renderer, error) {
		if _, ok := d.(*display.Terminal); !ok {
			return nil, fmt.Errorf("terminal renderer needs the terminal display, not %s", d.Name())
		}
		return softwareRenderer(d)
	})

	r.RegisterSoundBackend("ebiten", func() (audio.Backend, error) { return audio.NewEbiten() })
	r.RegisterSoundBackend("beep", func() (audio.Backend, error) { return audio.NewBeep() })
	r.RegisterSoundBackend("null", func() (audio.Backend, error) { return audio.Null{}, nil })
	return r
}

func softwareRenderer(d display.Display) (gfx.Renderer, error) {
	target, ok := d.(display.SoftwareTarget)
	if !ok {
		return nil, fmt.Errorf("display %s cannot present software frames", d.Name())
	}
	w, h := d.Size()
	sw := gfx.NewSoftware(w, h)
	target.AttachSoftware(sw)
	return sw, nil
}

// choose walks names in order and returns the first backend that builds.
// Unknown names and failing factories are logged and skipped.
func choose[T any](log *slog.Logger, kind string, names []string, lookup func(string) (func() (T, error), bool)) (T, string, bool) {
	var zero T
	for _, name := range names {
		build, ok := lookup(name)
		if !ok {
			log.Warn("unknown backend", slog.String("kind", kind), slog.String("name", name))
			continue
		}
		v, err := build()
		if err != nil {
			log.Warn("backend failed to initialise", slog.String("kind", kind), slog.String("name", name), slog.Any("err", err))
			continue
		}
		log.Info("backend selected", slog.String("kind", kind), slog.String("name", name))
		return v, name, true
	}
	return zero, "", false
}
