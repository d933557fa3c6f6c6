package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orrery/internal/asset"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/engine"
	"github.com/san-kum/orrery/internal/gui"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/render"
	"github.com/san-kum/orrery/internal/tui"
)

// loadConfig returns the config file if one was given, else the preset.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if segments != 0 {
		cfg.Segments = segments
	}
	return cfg, nil
}

func resolver(cfg *config.Config) asset.Resolver {
	dir := assetsDir
	if dir == "" {
		dir = cfg.Assets
	}
	if dir == "" {
		return nil
	}
	return asset.NewFileResolver(dir)
}

// logger writes to the log file, or to stderr unless the terminal UI owns
// the screen.
func logger(screen bool) (*slog.Logger, func() error, error) {
	if logFile == "" && screen {
		l, err := logging.New(logLevel, io.Discard)
		return l, func() error { return nil }, err
	}
	return logging.Open(logLevel, logFile)
}

func newEngine(cfg *config.Config, log *slog.Logger, opts ...engine.Option) *engine.Engine {
	base := []engine.Option{
		engine.WithLogger(log),
		engine.WithResolver(resolver(cfg)),
		engine.WithSegments(cfg.Segments),
	}
	return engine.New(append(base, opts...)...)
}

func mount(eng *engine.Engine, host render.Host, cfg *config.Config) error {
	bodies, env, err := cfg.ToScene()
	if err != nil {
		return err
	}
	_, err = eng.Mount(host, bodies, env)
	return err
}

func frameRate(cfg *config.Config) int {
	if fps > 0 {
		return fps
	}
	return cfg.FPS
}

// watchConfig rebuilds the mounted scene whenever the config file changes.
// A broken file keeps the running scene.
func watchConfig(ctx context.Context, eng *engine.Engine, log *slog.Logger, notify func(string)) error {
	return config.Watch(ctx, configFile, func(cfg *config.Config, err error) {
		if err != nil {
			log.Warn("config reload failed", "path", configFile, "err", err)
			notify("reload failed: " + err.Error())
			return
		}
		if err := cfg.Validate(); err != nil {
			log.Warn("config rejected", "path", configFile, "err", err)
			notify("config rejected, keeping current scene")
			return
		}
		bodies, env, err := cfg.ToScene()
		if err != nil {
			log.Warn("config rejected", "path", configFile, "err", err)
			notify("config rejected, keeping current scene")
			return
		}
		warnings, err := eng.Reload(bodies, env)
		if err != nil {
			log.Error("reload", "err", err)
			notify("reload failed: " + err.Error())
			return
		}
		log.Info("config reloaded", "path", configFile, "bodies", len(bodies), "warnings", len(warnings))
		notify(fmt.Sprintf("reloaded %d bodies", len(bodies)))
	})
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := logger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	rate := frameRate(cfg)
	eng := newEngine(cfg, log, engine.WithFPS(rate))
	host := tui.NewHost()
	if err := mount(eng, host, cfg); err != nil {
		return err
	}
	defer eng.Unmount()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var program atomic.Pointer[tea.Program]
	title := cfg.Name
	g.Go(func() error {
		defer cancel()
		return tui.Run(gctx, host, eng, tui.Options{Title: title, Theme: theme, FPS: rate}, program.Store)
	})
	if watch && configFile != "" {
		g.Go(func() error {
			return watchConfig(gctx, eng, log, func(s string) {
				if p := program.Load(); p != nil {
					p.Send(tui.StatusMsg(s))
				}
			})
		})
	}
	return g.Wait()
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := logger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	rate := frameRate(cfg)
	eng := newEngine(cfg, log, engine.WithFPS(rate))
	win := gui.NewWindow("orrery: "+cfg.Name, winWidth, winHeight)
	if err := mount(eng, win, cfg); err != nil {
		return err
	}
	defer eng.Unmount()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	done := make(chan error, 1)
	if watch && configFile != "" {
		go func() {
			done <- watchConfig(ctx, eng, log, func(s string) { log.Info(s) })
		}()
	} else {
		done <- nil
	}

	win.Run(rate, eng.Controller)
	cancel()
	return <-done
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
