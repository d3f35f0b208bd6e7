package audio

import (
	"log/slog"
	"sync"

	"github.com/Garsondee/tileframe/internal/logging"
)

// PlayMode says what happens after the last track.
type PlayMode uint8

const (
	Loop PlayMode = iota
	PlayOnce
)

func (m PlayMode) String() string {
	if m == PlayOnce {
		return "once"
	}
	return "loop"
}

// Jukebox plays a playlist through a Backend, advancing when the backend
// reports the end of a track.
type Jukebox struct {
	// playMu serialises backend calls so a Stop cannot interleave with a
	// track being started.
	playMu sync.Mutex

	mu       sync.Mutex
	backend  Backend
	loader   TrackLoader
	playlist []*Track
	position int
	mode     PlayMode
	// gen invalidates finish callbacks of earlier Play calls.
	gen uint64

	log *slog.Logger
}

// NewJukebox returns a stopped jukebox.
func NewJukebox(b Backend, l TrackLoader) *Jukebox {
	if b == nil {
		b = Null{}
	}
	return &Jukebox{backend: b, loader: l, log: logging.For("jukebox")}
}

// Backend returns the backend the jukebox plays through.
func (j *Jukebox) Backend() Backend { return j.backend }

// Play loads names, replaces the playlist and starts its first track.
// Tracks that fail to load are logged and left out.
func (j *Jukebox) Play(names []string, mode PlayMode) {
	tracks := make([]*Track, 0, len(names))
	for _, name := range names {
		var t *Track
		if j.loader != nil {
			t = j.loader.LoadMusic(name)
		}
		if t == nil {
			j.log.Warn("failed to load music track", slog.String("track", name))
			continue
		}
		tracks = append(tracks, t)
	}

	j.playMu.Lock()
	j.mu.Lock()
	j.gen++
	gen := j.gen
	j.playlist = tracks
	j.position = 0
	j.mode = mode
	j.mu.Unlock()
	j.backend.StopMusic()
	j.playMu.Unlock()

	j.progress(gen)
}

// Stop halts playback and drops the playlist.
func (j *Jukebox) Stop() {
	j.playMu.Lock()
	defer j.playMu.Unlock()
	j.mu.Lock()
	j.gen++
	j.playlist = nil
	j.position = 0
	j.mu.Unlock()
	j.backend.StopMusic()
}

// Next abandons the current track and starts the following one.
func (j *Jukebox) Next() {
	j.mu.Lock()
	gen := j.gen
	j.mu.Unlock()
	j.progress(gen)
}

// Close stops playback and releases the backend.
func (j *Jukebox) Close() error {
	j.Stop()
	return j.backend.Close()
}

// Position returns the index of the next track to start.
func (j *Jukebox) Position() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.position
}

// Len returns the number of loaded tracks.
func (j *Jukebox) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.playlist)
}

// Mode returns the current play mode.
func (j *Jukebox) Mode() PlayMode {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.mode
}

func (j *Jukebox) finished(gen uint64) func() {
	return func() { j.progress(gen) }
}

// progress starts the track at the current position and advances it, unless
// a later Play or Stop has superseded gen. A track the backend refuses is
// skipped; after a full pass of refusals the jukebox gives up.
func (j *Jukebox) progress(gen uint64) {
	j.playMu.Lock()
	defer j.playMu.Unlock()

	for attempt := 0; ; attempt++ {
		j.mu.Lock()
		if gen != j.gen {
			j.mu.Unlock()
			return
		}
		n := len(j.playlist)
		if n == 0 {
			j.mu.Unlock()
			j.log.Warn("trying to play empty playlist")
			return
		}
		if attempt >= n {
			j.mu.Unlock()
			j.log.Error("no track in the playlist could be played")
			return
		}
		if j.position >= n {
			j.mu.Unlock()
			j.log.Info("end of playlist")
			return
		}
		t := j.playlist[j.position]
		j.position++
		if j.mode == Loop {
			j.position %= n
		}
		j.mu.Unlock()

		err := j.backend.PlayMusic(t, j.finished(gen))
		if err == nil {
			j.log.Debug("playing track", slog.String("track", t.Name), slog.String("backend", j.backend.Name()))
			return
		}
		j.log.Warn("backend refused track", slog.String("track", t.Name), slog.Any("err", err))
	}
}
