package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nick-dorsch/todoboard/internal/config"
	"github.com/nick-dorsch/todoboard/internal/logging"
	"github.com/nick-dorsch/todoboard/internal/mirror"
	"github.com/nick-dorsch/todoboard/internal/seed"
	"github.com/nick-dorsch/todoboard/internal/store"
	"github.com/nick-dorsch/todoboard/internal/todo"
)

type options struct {
	configPath   string
	seedPath     string
	mirrorJSONL  string
	mirrorSQLite string
}

// app holds everything a command needs: config, logger, the todo service
// and the mirrors attached to it.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	todos   *todo.Service
	closers []func() error
}

func newApp(ctx context.Context, opts options, logOut io.Writer) (*app, error) {
	cfg, err := config.Read(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.seedPath != "" {
		cfg.Seed.Path = opts.seedPath
	}
	if opts.mirrorJSONL != "" {
		cfg.Mirror.JSONL = opts.mirrorJSONL
	}
	if opts.mirrorSQLite != "" {
		cfg.Mirror.SQLite = opts.mirrorSQLite
	}

	logger := logging.New(logOut, cfg.Env, cfg.Log)

	initial := seed.Defaults()
	if cfg.Seed.Path != "" {
		initial, err = seed.Load(cfg.Seed.Path)
		if err != nil {
			return nil, fmt.Errorf("load seed file: %w", err)
		}
		logger.Info("loaded seed file", "path", cfg.Seed.Path, "count", len(initial))
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		todos:  todo.NewService(store.New(initial...), logger),
	}

	if cfg.Mirror.JSONL != "" {
		a.attach(mirror.NewJSONL(cfg.Mirror.JSONL))
	}
	if cfg.Mirror.SQLite != "" {
		sink, err := mirror.OpenSQLite(ctx, cfg.Mirror.SQLite)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open sqlite mirror: %w", err)
		}
		a.attach(sink)
	}

	return a, nil
}

func (a *app) attach(sink mirror.Sink) {
	detach := mirror.Attach(a.todos, sink, a.logger)
	a.closers = append(a.closers, sink.Close, func() error {
		detach()
		return nil
	})
	a.logger.Debug("attached mirror", "mirror", sink.Name())
}

// Close detaches mirrors before closing them, newest first.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

