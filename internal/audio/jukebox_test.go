package audio

import (
	"errors"
	"sync"
	"testing"
)

type mapLoader map[string]*Track

func (m mapLoader) LoadMusic(name string) *Track { return m[name] }

func loaderFor(names ...string) mapLoader {
	m := mapLoader{}
	for _, n := range names {
		m[n] = &Track{Name: n, Format: FormatFromName(n)}
	}
	return m
}

// scriptedBackend records every started track and lets the test end the
// current one.
type scriptedBackend struct {
	mu      sync.Mutex
	started []string
	finish  func()
	stops   int
	refuse  map[string]bool
	closed  bool
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) PlayMusic(t *Track, onFinish func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refuse[t.Name] {
		return errors.New("refused")
	}
	b.started = append(b.started, t.Name)
	b.finish = onFinish
	return nil
}

func (b *scriptedBackend) StopMusic() {
	b.mu.Lock()
	b.stops++
	b.mu.Unlock()
}

func (b *scriptedBackend) Close() error {
	b.closed = true
	return nil
}

// end finishes the current track the way a backend goroutine would.
func (b *scriptedBackend) end() {
	b.mu.Lock()
	fn := b.finish
	b.finish = nil
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (b *scriptedBackend) history() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.started...)
}

func sameList(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestJukebox_LoopSkipsFailedTrack(t *testing.T) {
	b := &scriptedBackend{}
	j := NewJukebox(b, loaderFor("a.ogg", "c.ogg"))
	j.Play([]string{"a.ogg", "b.ogg", "c.ogg"}, Loop)
	if j.Len() != 2 {
		t.Fatalf("playlist len got %d, want 2", j.Len())
	}
	for i := 0; i < 3; i++ {
		b.end()
	}
	want := []string{"a.ogg", "c.ogg", "a.ogg", "c.ogg"}
	if got := b.history(); !sameList(got, want) {
		t.Fatalf("loop order got %v, want %v", got, want)
	}
}

func TestJukebox_PlayOnceStopsAtEnd(t *testing.T) {
	b := &scriptedBackend{}
	j := NewJukebox(b, loaderFor("a.ogg", "c.ogg"))
	j.Play([]string{"a.ogg", "b.ogg", "c.ogg"}, PlayOnce)
	b.end()
	b.end()
	b.end()
	want := []string{"a.ogg", "c.ogg"}
	if got := b.history(); !sameList(got, want) {
		t.Fatalf("once order got %v, want %v", got, want)
	}
	if j.Position() != 2 {
		t.Fatalf("position got %d, want 2", j.Position())
	}
}

func TestJukebox_EmptyPlaylistIsNoop(t *testing.T) {
	b := &scriptedBackend{}
	j := NewJukebox(b, loaderFor())
	j.Play([]string{"missing.ogg"}, Loop)
	j.Next()
	if got := b.history(); len(got) != 0 {
		t.Fatalf("empty playlist started %v", got)
	}
}

func TestJukebox_StaleFinishIgnored(t *testing.T) {
	b := &scriptedBackend{}
	j := NewJukebox(b, loaderFor("a.ogg", "b.ogg", "x.ogg"))
	j.Play([]string{"a.ogg", "b.ogg"}, Loop)
	stale := b.finish

	j.Play([]string{"x.ogg"}, PlayOnce)
	stale()
	want := []string{"a.ogg", "x.ogg"}
	if got := b.history(); !sameList(got, want) {
		t.Fatalf("history got %v, want %v", got, want)
	}

	j.Stop()
	b.end()
	if got := b.history(); !sameList(got, want) {
		t.Fatalf("finish after stop started a track: %v", got)
	}
}

func TestJukebox_RefusedTrackSkipped(t *testing.T) {
	b := &scriptedBackend{refuse: map[string]bool{"b.ogg": true}}
	j := NewJukebox(b, loaderFor("a.ogg", "b.ogg", "c.ogg"))
	j.Play([]string{"a.ogg", "b.ogg", "c.ogg"}, Loop)
	b.end()
	want := []string{"a.ogg", "c.ogg"}
	if got := b.history(); !sameList(got, want) {
		t.Fatalf("history got %v, want %v", got, want)
	}
}

func TestJukebox_AllRefusedGivesUp(t *testing.T) {
	b := &scriptedBackend{refuse: map[string]bool{"a.ogg": true, "b.ogg": true}}
	j := NewJukebox(b, loaderFor("a.ogg", "b.ogg"))
	j.Play([]string{"a.ogg", "b.ogg"}, Loop)
	if got := b.history(); len(got) != 0 {
		t.Fatalf("history got %v", got)
	}
}

func TestJukebox_ConcurrentFinishAndStop(t *testing.T) {
	b := &scriptedBackend{}
	j := NewJukebox(b, loaderFor("a.ogg", "b.ogg"))
	j.Play([]string{"a.ogg", "b.ogg"}, Loop)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); b.end() }()
		go func() { defer wg.Done(); _ = j.Position() }()
	}
	wg.Wait()
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !b.closed {
		t.Fatal("close did not reach the backend")
	}
}

func TestFormatFromName(t *testing.T) {
	cases := map[string]Format{
		"music/title.ogg": FormatVorbis,
		"A.WAV":           FormatWAV,
		"x.mp3":           FormatMP3,
		"readme":          FormatUnknown,
	}
	for name, want := range cases {
		if got := FormatFromName(name); got != want {
			t.Fatalf("FormatFromName(%q) got %s, want %s", name, got, want)
		}
	}
}

func TestBeep_CloseRefusesLaterTracks(t *testing.T) {
	b := &Beep{rate: SampleRate}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	err := b.PlayMusic(&Track{Name: "a.wav", Format: FormatWAV}, nil)
	if !errors.Is(err, errBeepClosed) {
		t.Fatalf("PlayMusic after Close got %v, want errBeepClosed", err)
	}
}
