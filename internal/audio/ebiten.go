package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	eaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// SampleRate is the output rate both audio backends open the device at.
const SampleRate = 44100

// finishPoll is how often the ebiten backend checks for the end of a track.
const finishPoll = 100 * time.Millisecond

// Ebiten plays music through the ebiten audio context.
type Ebiten struct {
	ctx *eaudio.Context

	mu     sync.Mutex
	player *eaudio.Player
	done   chan struct{}
}

// NewEbiten returns a backend on the process-wide ebiten audio context,
// creating it on first use.
func NewEbiten() (*Ebiten, error) {
	ctx := eaudio.CurrentContext()
	if ctx == nil {
		ctx = eaudio.NewContext(SampleRate)
	}
	return &Ebiten{ctx: ctx}, nil
}

func (b *Ebiten) Name() string { return "ebiten" }

func (b *Ebiten) decode(t *Track) (io.Reader, error) {
	sr := b.ctx.SampleRate()
	src := bytes.NewReader(t.Data)
	switch t.Format {
	case FormatVorbis:
		return vorbis.DecodeWithSampleRate(sr, src)
	case FormatWAV:
		return wav.DecodeWithSampleRate(sr, src)
	case FormatMP3:
		return mp3.DecodeWithSampleRate(sr, src)
	}
	return nil, fmt.Errorf("ebiten audio: unsupported format %s for %q", t.Format, t.Name)
}

func (b *Ebiten) PlayMusic(t *Track, onFinish func()) error {
	stream, err := b.decode(t)
	if err != nil {
		return fmt.Errorf("ebiten audio: decode %q: %w", t.Name, err)
	}
	p, err := b.ctx.NewPlayer(stream)
	if err != nil {
		return fmt.Errorf("ebiten audio: player for %q: %w", t.Name, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
	done := make(chan struct{})
	b.player, b.done = p, done
	p.Play()
	go watchPlayer(p, done, onFinish)
	return nil
}

// watchPlayer calls onFinish once p stops playing by itself.
func watchPlayer(p *eaudio.Player, done <-chan struct{}, onFinish func()) {
	ticker := time.NewTicker(finishPoll)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !p.IsPlaying() {
				select {
				case <-done:
				default:
					if onFinish != nil {
						onFinish()
					}
				}
				return
			}
		}
	}
}

func (b *Ebiten) stopLocked() {
	if b.player == nil {
		return
	}
	close(b.done)
	b.player.Pause()
	_ = b.player.Close()
	b.player, b.done = nil, nil
}

func (b *Ebiten) StopMusic() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

func (b *Ebiten) Close() error {
	b.StopMusic()
	return nil
}
