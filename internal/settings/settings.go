// Package settings is the typed key/value configuration store. Keys are
// dotted names such as Visual.ScreenWidth; values persist to a dotenv file.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/Garsondee/tileframe/internal/logging"
)

// ListSeparator splits list-valued settings such as Visual.RendererList.
const ListSeparator = ";"

// FileName is the settings file under the user config directory.
const FileName = "settings.cfg"

// Defaults returns a fresh copy of the built-in values.
func Defaults() map[string]string {
	return map[string]string{
		"Visual.ScreenWidth":     "1600",
		"Visual.ScreenHeight":    "900",
		"Visual.FullScreen":      "false",
		"Visual.Title":           "tileframe",
		"Visual.Display":         "ebiten",
		"Visual.RendererList":    "ebiten;software",
		"Visual.Palette":         "palettes/pal_06.dat",
		"Visual.CityPalette1":    "palettes/pal_01.dat",
		"Visual.CityPalette2":    "palettes/pal_02.dat",
		"Visual.CityPalette3":    "palettes/pal_03.dat",
		"Visual.HeadlessFPS":     "60",
		"Audio.Backends":         "ebiten;beep;null",
		"Audio.Playlist":         "music/intro.ogg;music/city.ogg",
		"Language":               "en_gb",
		"Resource.LocalDataDir":  "./data",
		"Resource.SystemDataDir": "./data",
		"Resource.ProbeFile":     "",
		"Debug.ListenAddr":       "",
		"City.Seed":              "1",
		"City.Width":             "64",
		"City.Height":            "64",
		"City.Depth":             "4",
	}
}

// Store holds settings values over a set of defaults. It is safe for
// concurrent use.
type Store struct {
	path string

	mu       sync.RWMutex
	values   map[string]string
	defaults map[string]string
	log      *slog.Logger
}

// New returns a store backed by path with the built-in defaults.
func New(path string) *Store {
	return &Store{
		path:     path,
		values:   make(map[string]string),
		defaults: Defaults(),
		log:      logging.For("settings"),
	}
}

// DefaultPath returns the settings file in the user config directory, or
// FileName in the working directory when there is none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, "tileframe", FileName)
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load merges the backing file into the store. A missing file is not an
// error.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	vals, err := godotenv.Read(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("no settings file, using defaults", slog.String("path", s.path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("settings: load %s: %w", s.path, err)
	}
	s.mu.Lock()
	for k, v := range vals {
		s.values[k] = v
	}
	s.mu.Unlock()
	return nil
}

// Save writes every known key, defaults included, to the backing file.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("settings: create dir: %w", err)
	}
	if err := godotenv.Write(s.All(), s.path); err != nil {
		return fmt.Errorf("settings: save %s: %w", s.path, err)
	}
	return nil
}

// All returns the effective values.
func (s *Store) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.defaults)+len(s.values))
	for k, v := range s.defaults {
		out[k] = v
	}
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Keys returns the effective keys in sorted order.
func (s *Store) Keys() []string {
	all := s.All()
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key has a value or a default.
func (s *Store) Has(key string) bool {
	_, ok := s.lookup(key)
	return ok
}

func (s *Store) lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v, true
	}
	v, ok := s.defaults[key]
	return v, ok
}

// GetString returns the value of key, or "" when unset.
func (s *Store) GetString(key string) string {
	v, _ := s.lookup(key)
	return v
}

// GetInt returns key as an integer. A malformed value is logged and the
// default used instead.
func (s *Store) GetInt(key string) int {
	v, ok := s.lookup(key)
	if !ok || v == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err == nil {
		return n
	}
	s.log.Warn("setting is not an integer", slog.String("key", key), slog.String("value", v))
	s.mu.RLock()
	def := s.defaults[key]
	s.mu.RUnlock()
	n, _ = strconv.Atoi(def)
	return n
}

// GetBool returns key as a boolean. Accepts the strconv.ParseBool forms
// plus yes/no and on/off.
func (s *Store) GetBool(key string) bool {
	v, _ := s.lookup(key)
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "on":
		return true
	case "no", "off", "":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		s.log.Warn("setting is not a boolean", slog.String("key", key), slog.String("value", v))
		return false
	}
	return b
}

// GetList splits key on ListSeparator and drops empty items.
func (s *Store) GetList(key string) []string {
	var out []string
	for _, item := range strings.Split(s.GetString(key), ListSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Set stores a string value.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

// SetInt stores an integer value.
func (s *Store) SetInt(key string, v int) { s.Set(key, strconv.Itoa(v)) }

// SetBool stores a boolean value.
func (s *Store) SetBool(key string, v bool) { s.Set(key, strconv.FormatBool(v)) }

// ApplyOverrides applies command-line items of the form Key=Value. Items
// without '=' or with an empty key are logged and ignored. It returns the
// number of items applied.
func (s *Store) ApplyOverrides(args []string) int {
	applied := 0
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			s.log.Warn("ignoring malformed command line override", slog.String("arg", arg))
			continue
		}
		s.log.Info("command line override", slog.String("key", key), slog.String("value", value))
		s.Set(key, value)
		applied++
	}
	return applied
}
