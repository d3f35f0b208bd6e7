package framework

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Garsondee/tileframe/internal/audio"
	"github.com/Garsondee/tileframe/internal/data"
	"github.com/Garsondee/tileframe/internal/display"
	"github.com/Garsondee/tileframe/internal/event"
	"github.com/Garsondee/tileframe/internal/gfx"
	"github.com/Garsondee/tileframe/internal/settings"
	"github.com/Garsondee/tileframe/internal/stage"
)

// scriptedDisplay delivers one batch of raw events per poll.
type scriptedDisplay struct {
	batches  [][]display.RawEvent
	polls    int
	presents int
	closed   bool
	title    string
}

func (d *scriptedDisplay) Name() string      { return "scripted" }
func (d *scriptedDisplay) Size() (int, int)  { return 320, 200 }
func (d *scriptedDisplay) Present()          { d.presents++ }
func (d *scriptedDisplay) SetTitle(t string) { d.title = t }
func (d *scriptedDisplay) Close() error      { d.closed = true; return nil }

func (d *scriptedDisplay) PollEvents(fn func(display.RawEvent)) {
	if d.polls < len(d.batches) {
		for _, e := range d.batches[d.polls] {
			fn(e)
		}
	}
	d.polls++
}

func (d *scriptedDisplay) Run(step func() bool) error {
	for i := 0; i < 1000; i++ {
		if !step() {
			return nil
		}
	}
	return errors.New("loop did not stop")
}

// journal records stage calls across stages in order.
type journal struct{ lines []string }

func (j *journal) add(format string, args ...any) {
	j.lines = append(j.lines, fmt.Sprintf(format, args...))
}

func (j *journal) String() string { return strings.Join(j.lines, "\n") }

type fakeStage struct {
	name    string
	j       *journal
	next    []stage.Command
	updates int
}

func (s *fakeStage) Name() string { return s.name }

func (s *fakeStage) Update() stage.Command {
	s.updates++
	s.j.add("%s.update", s.name)
	if len(s.next) == 0 {
		return stage.Stay()
	}
	cmd := s.next[0]
	s.next = s.next[1:]
	return cmd
}

func (s *fakeStage) Render() { s.j.add("%s.render", s.name) }

func (s *fakeStage) EventOccurred(e *event.Event) {
	s.j.add("%s.event %s", s.name, e.Type)
}

func (s *fakeStage) Finish() { s.j.add("%s.finish", s.name) }

func newTestFramework(t *testing.T, d *scriptedDisplay) *Framework {
	t.Helper()
	reg := NewRegistry()
	reg.RegisterDisplay("scripted", func(*settings.Store) (display.Display, error) { return d, nil })
	reg.RegisterRenderer("recorder", func(display.Display) (gfx.Renderer, error) { return gfx.NewRecorder(nil), nil })
	reg.RegisterSoundBackend("null", func() (audio.Backend, error) { return audio.Null{}, nil })

	s := settings.New(filepath.Join(t.TempDir(), settings.FileName))
	s.Set("Visual.Display", "scripted")
	s.Set("Visual.RendererList", "recorder")
	s.Set("Audio.Backends", "null")
	f, err := New(s, reg, data.New(t.TempDir()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func TestTranslate_WindowEventsCarryDisplaySize(t *testing.T) {
	cases := []struct {
		raw    display.RawKind
		typ    event.Type
		active bool
	}{
		{display.RawDisplayResize, event.WindowResize, true},
		{display.RawDisplaySwitchIn, event.WindowActivate, true},
		{display.RawDisplaySwitchOut, event.WindowDeactivate, false},
	}
	for _, c := range cases {
		e, ok := Translate(display.RawEvent{Kind: c.raw, X: 9, Y: 9}, 800, 600)
		if !ok || e.Type != c.typ {
			t.Fatalf("%s translated to %s, %v", c.raw, e.Type, ok)
		}
		want := event.Display{Width: 800, Height: 600, Active: c.active}
		if e.Display != want {
			t.Fatalf("%s payload got %+v, want %+v", c.raw, e.Display, want)
		}
	}
}

func TestTranslate_InputPayloadsCopied(t *testing.T) {
	e, _ := Translate(display.RawEvent{Kind: display.RawKeyChar, Key: event.KeyQ, Char: 'q', Mods: event.ModShift}, 0, 0)
	if e.Type != event.KeyPress || e.Keyboard != (event.Keyboard{KeyCode: event.KeyQ, UniChar: 'q', Modifiers: event.ModShift}) {
		t.Fatalf("key char got %+v", e)
	}
	raw := display.RawEvent{Kind: display.RawMouseButtonUp, X: 3, Y: 4, DX: 1, DY: -1, WheelV: 2, WheelH: -2, Button: event.ButtonRight}
	e, _ = Translate(raw, 0, 0)
	want := event.Mouse{X: 3, Y: 4, DeltaX: 1, DeltaY: -1, WheelVertical: 2, WheelHorizontal: -2, Button: event.ButtonRight}
	if e.Type != event.MouseUp || e.Mouse != want {
		t.Fatalf("mouse up got %+v", e)
	}
	e, _ = Translate(display.RawEvent{Kind: display.RawTimer, Source: "t1"}, 0, 0)
	if e.Type != event.TimerTick || e.Timer.Source != "t1" {
		t.Fatalf("timer got %+v", e)
	}
}

func TestTranslate_JoystickIgnoredUnknownKept(t *testing.T) {
	if _, ok := Translate(display.RawEvent{Kind: display.RawJoystickConfig}, 0, 0); ok {
		t.Fatal("joystick reconfiguration produced an event")
	}
	e, ok := Translate(display.RawEvent{Kind: display.RawKind(200)}, 0, 0)
	if !ok || e.Type != event.Undefined {
		t.Fatalf("unknown kind got %s, %v", e.Type, ok)
	}
}

func TestFramework_WindowCloseTruncatesBatch(t *testing.T) {
	d := &scriptedDisplay{batches: [][]display.RawEvent{{
		{Kind: display.RawKeyDown, Key: event.KeyA},
		{Kind: display.RawDisplayClose},
		{Kind: display.RawKeyDown, Key: event.KeyB},
	}}}
	f := newTestFramework(t, d)
	j := &journal{}
	a := &fakeStage{name: "a", j: j}
	f.Stack().Push(a)

	if f.Iterate() {
		t.Fatal("iterate continued after window close")
	}
	want := "a.event key-down\na.finish"
	if j.String() != want {
		t.Fatalf("journal got\n%s\nwant\n%s", j, want)
	}
	if a.updates != 0 || d.presents != 0 {
		t.Fatalf("updates=%d presents=%d after close", a.updates, d.presents)
	}
	if !f.Quitting() || !f.Stack().IsEmpty() {
		t.Fatal("framework not shut down")
	}
}

func TestFramework_QuitStopsWithinOneIteration(t *testing.T) {
	d := &scriptedDisplay{}
	f := newTestFramework(t, d)
	j := &journal{}
	bottom := &fakeStage{name: "bottom", j: j}
	top := &fakeStage{name: "top", j: j, next: []stage.Command{stage.QuitProgram()}}
	f.Stack().Push(bottom)
	f.Stack().Push(top)

	if f.Iterate() {
		t.Fatal("iterate continued after quit")
	}
	want := "top.update\ntop.finish\nbottom.finish"
	if j.String() != want {
		t.Fatalf("journal got\n%s\nwant\n%s", j, want)
	}
	if d.presents != 0 {
		t.Fatal("presented after quit")
	}
}

func TestFramework_ReplaceFinishesBeforeNextRenders(t *testing.T) {
	d := &scriptedDisplay{}
	f := newTestFramework(t, d)
	j := &journal{}
	y := &fakeStage{name: "y", j: j}
	x := &fakeStage{name: "x", j: j, next: []stage.Command{stage.ReplaceWith(y)}}
	f.Stack().Push(x)

	if !f.Iterate() {
		t.Fatal("iterate stopped after replace")
	}
	want := "x.update\nx.finish\ny.render"
	if j.String() != want {
		t.Fatalf("journal got\n%s\nwant\n%s", j, want)
	}
	if d.presents != 1 {
		t.Fatalf("presents got %d, want 1", d.presents)
	}
}

func TestFramework_PushPopAndEmptyStackStops(t *testing.T) {
	d := &scriptedDisplay{}
	f := newTestFramework(t, d)
	j := &journal{}
	pause := &fakeStage{name: "pause", j: j, next: []stage.Command{stage.PopStage()}}
	game := &fakeStage{name: "game", j: j, next: []stage.Command{stage.PushStage(pause), stage.PopStage()}}

	if err := f.Run(game); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := strings.Join([]string{
		"game.update", "pause.render",
		"pause.update", "pause.finish", "game.render",
		"game.update", "game.finish",
	}, "\n")
	if j.String() != want {
		t.Fatalf("journal got\n%s\nwant\n%s", j, want)
	}
	if !f.Quitting() {
		t.Fatal("empty stack did not set quit")
	}
}

func TestFramework_PushEventDeliveredNextDrain(t *testing.T) {
	d := &scriptedDisplay{batches: [][]display.RawEvent{{{Kind: display.RawKeyUp, Key: event.KeyA}}}}
	f := newTestFramework(t, d)
	j := &journal{}
	f.Stack().Push(&fakeStage{name: "s", j: j})
	f.PushEvent(event.Event{Type: event.TimerTick})
	f.Iterate()
	want := "s.event timer-tick\ns.event key-up\ns.update\ns.render"
	if j.String() != want {
		t.Fatalf("journal got\n%s\nwant\n%s", j, want)
	}
}

func TestFramework_CloseSavesAndReleases(t *testing.T) {
	d := &scriptedDisplay{}
	f := newTestFramework(t, d)
	j := &journal{}
	f.Stack().Push(&fakeStage{name: "s", j: j})
	f.Settings.Set("Visual.Title", "saved")
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if j.String() != "s.finish" || !d.closed {
		t.Fatalf("journal %q closed=%v", j, d.closed)
	}
	r := settings.New(f.Settings.Path())
	if err := r.Load(); err != nil || r.GetString("Visual.Title") != "saved" {
		t.Fatalf("settings not saved: %v %q", err, r.GetString("Visual.Title"))
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestNew_BackendSelection(t *testing.T) {
	reg := NewRegistry()
	d := &scriptedDisplay{}
	reg.RegisterDisplay("broken", func(*settings.Store) (display.Display, error) { return nil, errors.New("no gpu") })
	reg.RegisterDisplay("scripted", func(*settings.Store) (display.Display, error) { return d, nil })
	reg.RegisterRenderer("recorder", func(display.Display) (gfx.Renderer, error) { return gfx.NewRecorder(nil), nil })
	reg.RegisterSoundBackend("null", func() (audio.Backend, error) { return audio.Null{}, nil })

	s := settings.New("")
	s.Set("Visual.Display", "missing;broken;scripted")
	s.Set("Visual.RendererList", "recorder")
	s.Set("Audio.Backends", "null")
	f, err := New(s, reg, data.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.Display != d {
		t.Fatal("did not fall through to the working display")
	}

	s.Set("Visual.RendererList", "nope")
	if _, err := New(s, reg, data.New()); !errors.Is(err, ErrNoRenderer) {
		t.Fatalf("renderer error got %v", err)
	}
	s.Set("Visual.RendererList", "recorder")
	s.Set("Audio.Backends", "")
	if _, err := New(s, reg, data.New()); !errors.Is(err, ErrNoSoundBackend) {
		t.Fatalf("sound error got %v", err)
	}
	s.Set("Visual.Display", "broken")
	if _, err := New(s, reg, data.New()); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("display error got %v", err)
	}
}

func TestDefaultRegistry_HeadlessSoftware(t *testing.T) {
	s := settings.New("")
	s.Set("Visual.Display", "headless")
	s.Set("Visual.RendererList", "ebiten;software")
	s.Set("Audio.Backends", "null")
	s.SetInt("Visual.HeadlessFPS", 0)
	f, err := New(s, DefaultRegistry(), data.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.Renderer.Name() != "software" {
		t.Fatalf("renderer got %s, want software fallback", f.Renderer.Name())
	}
	disp, rend, snd := DefaultRegistry().Names()
	if len(disp) != 3 || len(rend) != 3 || len(snd) != 3 {
		t.Fatalf("registered backends %v %v %v", disp, rend, snd)
	}
}

func TestDebugRouter(t *testing.T) {
	m := NewMetrics()
	m.frames.Inc()
	snap := StageSnapshot{Depth: 2, Stages: []string{"city", "pause"}, Frame: 7}
	srv := httptest.NewServer(NewDebugRouter(m, func() StageSnapshot { return snap }))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("health: %v %v", err, resp)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/debug/stages")
	if err != nil {
		t.Fatal(err)
	}
	var got StageSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got.Depth != 2 || len(got.Stages) != 2 || got.Stages[1] != "pause" || got.Frame != 7 {
		t.Fatalf("stages got %+v", got)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "tileframe_frames_total 1") {
		t.Fatalf("metrics output missing frame counter:\n%s", body)
	}
}

func TestFramework_DebugServerServesStack(t *testing.T) {
	d := &scriptedDisplay{}
	reg := NewRegistry()
	reg.RegisterDisplay("scripted", func(*settings.Store) (display.Display, error) { return d, nil })
	reg.RegisterRenderer("recorder", func(display.Display) (gfx.Renderer, error) { return gfx.NewRecorder(nil), nil })
	reg.RegisterSoundBackend("null", func() (audio.Backend, error) { return audio.Null{}, nil })
	s := settings.New("")
	s.Set("Visual.Display", "scripted")
	s.Set("Visual.RendererList", "recorder")
	s.Set("Audio.Backends", "null")
	s.Set("Debug.ListenAddr", "127.0.0.1:0")
	f, err := New(s, reg, data.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer f.Close()
	if f.DebugAddr() == "" {
		t.Fatal("debug server not started")
	}

	f.Stack().Push(&fakeStage{name: "city", j: &journal{}})
	f.Iterate()

	resp, err := http.Get("http://" + f.DebugAddr() + "/debug/stages")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got StageSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Depth != 1 || got.Stages[0] != "city" || got.Frame != 1 {
		t.Fatalf("snapshot got %+v", got)
	}
}
