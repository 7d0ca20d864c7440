package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/exstruct-md/pkg/exstruct"
)

// Watch extracts the input once and again every time it is written or
// replaced, until ctx is cancelled or SIGINT/SIGTERM arrives. Failed runs
// are logged and watching continues.
func Watch(ctx context.Context, opts ...Option) error {
	a, err := newApplication(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return a.watch(gCtx)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			a.logger.Info("received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	return g.Wait()
}

func (a *application) watch(ctx context.Context) error {
	abs, err := filepath.Abs(a.input)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}
	dir := filepath.Dir(abs)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Editors often replace the file, so the directory is watched.
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger := a.logger.With(slog.String("input", abs))
	logger.Info("watcher: started", slog.Duration("debounce", a.config.Watch.Debounce))

	a.runOnce(ctx, logger)

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(a.config.Watch.Debounce)
			fire = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(a.config.Watch.Debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			a.runOnce(ctx, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				logger.Debug("watcher: change", slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (a *application) runOnce(ctx context.Context, logger *slog.Logger) {
	res, err := a.extract(ctx)
	switch {
	case err == nil:
	case errors.Is(err, exstruct.ErrInputNotFound):
		logger.Warn("watcher: input not present yet")
	case errors.Is(err, context.Canceled):
	default:
		logger.Error("watcher: extraction failed", slog.String("error", err.Error()))
	}
	if a.hook != nil {
		a.hook(res, err)
	}
}
