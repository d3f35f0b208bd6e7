// Package audio plays music through a pluggable backend and sequences
// playlists with a Jukebox.
package audio

import (
	"path/filepath"
	"strings"
)

// Format is the encoding of a music track.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatVorbis
	FormatWAV
	FormatMP3
)

func (f Format) String() string {
	switch f {
	case FormatVorbis:
		return "vorbis"
	case FormatWAV:
		return "wav"
	case FormatMP3:
		return "mp3"
	}
	return "unknown"
}

// FormatFromName guesses the format from a file extension.
func FormatFromName(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ogg", ".oga":
		return FormatVorbis
	case ".wav":
		return FormatWAV
	case ".mp3":
		return FormatMP3
	}
	return FormatUnknown
}

// Track is an encoded music resource held in memory.
type Track struct {
	Name   string
	Format Format
	Data   []byte
}

// Backend plays one music track at a time.
//
// onFinish is called once when the track ends on its own. It is never called
// for a track that was stopped or replaced, and never from inside PlayMusic.
// It may run on any goroutine.
type Backend interface {
	Name() string
	PlayMusic(t *Track, onFinish func()) error
	StopMusic()
	Close() error
}

// TrackLoader resolves a playlist entry. It returns nil when the track
// cannot be loaded.
type TrackLoader interface {
	LoadMusic(name string) *Track
}

// Null accepts every track and never finishes one.
type Null struct{}

func (Null) Name() string                   { return "null" }
func (Null) PlayMusic(*Track, func()) error { return nil }
func (Null) StopMusic()                     {}
func (Null) Close() error                   { return nil }
