package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// resampleQuality is the beep resampler quality used for off-rate tracks.
const resampleQuality = 4

// Beep plays music through the gopxl/beep speaker.
type Beep struct {
	rate beep.SampleRate

	mu      sync.Mutex
	current beep.StreamSeekCloser
	// playing is bumped on every start and stop so a callback from a
	// replaced stream can tell it is stale.
	playing uint64
	closed  bool
}

var errBeepClosed = errors.New("beep: backend closed")

// NewBeep opens the speaker.
func NewBeep() (*Beep, error) {
	rate := beep.SampleRate(SampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("beep: init speaker: %w", err)
	}
	return &Beep{rate: rate}, nil
}

func (b *Beep) Name() string { return "beep" }

func decodeBeep(t *Track) (beep.StreamSeekCloser, beep.Format, error) {
	rc := io.NopCloser(bytes.NewReader(t.Data))
	switch t.Format {
	case FormatVorbis:
		return vorbis.Decode(rc)
	case FormatWAV:
		return wav.Decode(rc)
	case FormatMP3:
		return mp3.Decode(rc)
	}
	return nil, beep.Format{}, fmt.Errorf("beep: unsupported format %s for %q", t.Format, t.Name)
}

func (b *Beep) PlayMusic(t *Track, onFinish func()) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return errBeepClosed
	}
	s, format, err := decodeBeep(t)
	if err != nil {
		return fmt.Errorf("beep: decode %q: %w", t.Name, err)
	}
	var src beep.Streamer = s
	if format.SampleRate != b.rate {
		src = beep.Resample(resampleQuality, format.SampleRate, b.rate, s)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		_ = s.Close()
		return errBeepClosed
	}
	b.stopLocked()
	b.playing++
	id := b.playing
	b.current = s
	speaker.Play(beep.Seq(src, beep.Callback(func() {
		// The callback runs on the speaker goroutine with the speaker
		// locked; hand off before touching the jukebox.
		go b.finish(id, onFinish)
	})))
	return nil
}

func (b *Beep) finish(id uint64, onFinish func()) {
	b.mu.Lock()
	live := id == b.playing
	b.mu.Unlock()
	if live && onFinish != nil {
		onFinish()
	}
}

func (b *Beep) stopLocked() {
	b.playing++
	speaker.Clear()
	if b.current != nil {
		_ = b.current.Close()
		b.current = nil
	}
}

func (b *Beep) StopMusic() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

// Close stops the music and shuts the speaker down. Later tracks are
// refused.
func (b *Beep) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.stopLocked()
	speaker.Close()
	return nil
}
