package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/cellbreak/internal/audio"
	"github.com/tomz197/cellbreak/internal/config"
	"github.com/tomz197/cellbreak/internal/loop"
	"github.com/tomz197/cellbreak/internal/store"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// The terminal is in raw mode while playing, so logs go to a file.
	logger, closeLog, err := newLogger(config.GetEnv("CELLBREAK_LOG", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := config.GameFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid tuning: %v\n", err)
		os.Exit(1)
	}

	scores, err := store.Open(config.GetEnv("CELLBREAK_SCORES", defaultScoresPath()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open scores: %v\n", err)
		os.Exit(1)
	}
	player := scores.ForPlayer(config.GetEnv("USER", "player"))

	var sound *audio.SoundManager
	if config.GetEnvBool("CELLBREAK_SOUND", true) {
		sound = audio.NewSoundManager(logger)
		if err := sound.Initialize(); err != nil {
			logger.Warn("playing without sound", "err", err)
		}
		defer sound.Close()
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	c := loop.NewClient(bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Game:       cfg,
		Logger:     logger,
		HighScores: player,
		Submitter:  player,
		Sound:      sound,
	})
	if err := c.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "cellbreak",
	})
	if level, err := log.ParseLevel(config.GetEnv("CELLBREAK_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}
	return logger, func() { _ = f.Close() }, nil
}

func defaultScoresPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cellbreak-scores.yaml"
	}
	return filepath.Join(home, ".cellbreak", "scores.yaml")
}
