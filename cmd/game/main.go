package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/Garsondee/tileframe/internal/framework"
	"github.com/Garsondee/tileframe/internal/logging"
	"github.com/Garsondee/tileframe/internal/settings"
	"github.com/Garsondee/tileframe/internal/stages"
)

func main() {
	var level slog.Level
	settingsPath := flag.String("settings", settings.DefaultPath(), "settings file")
	flag.TextVar(&level, "log-level", slog.LevelInfo, "log level (debug, info, warn, error)")
	flag.Parse()

	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	s := settings.New(*settingsPath)
	if err := s.Load(); err != nil {
		log.Fatal(err)
	}
	// Trailing Key=Value arguments override the settings file.
	s.ApplyOverrides(flag.Args())

	fw, err := framework.New(s, nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := fw.Close(); err != nil {
			logging.Logger().Error("shutdown", slog.Any("err", err))
		}
	}()
	if err := fw.Run(stages.NewBootUp(fw)); err != nil {
		logging.Logger().Error("program loop", slog.Any("err", err))
	}
}
