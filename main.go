package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/survival-singularity/internal/app"
	"github.com/iburimskiy/survival-singularity/internal/audio"
	"github.com/iburimskiy/survival-singularity/internal/config"
	"github.com/iburimskiy/survival-singularity/internal/game"
	"github.com/iburimskiy/survival-singularity/internal/gate"
	"github.com/iburimskiy/survival-singularity/internal/interaction"
	"github.com/iburimskiy/survival-singularity/internal/logger"
	"github.com/iburimskiy/survival-singularity/internal/metrics"
	"github.com/iburimskiy/survival-singularity/internal/persistence"
	"github.com/iburimskiy/survival-singularity/internal/render"
	"github.com/iburimskiy/survival-singularity/internal/scene"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	pinGate := gate.New(cfg.PIN, cfg.PINAttempts, gate.ZenityPrompter{Title: config.WindowTitle}, log.Named("gate"))
	if err := pinGate.Unlock(ctx); err != nil {
		if errors.Is(err, gate.ErrCanceled) {
			return nil
		}
		_ = zenity.Error("Access denied: "+err.Error(), zenity.Title(config.WindowTitle), zenity.ErrorIcon)
		return err
	}

	m := metrics.NewManager()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Error(ctx, "metrics server stopped", logger.Error(err))
			}
		}()
	}

	var (
		sound  game.Sound
		chimer game.Chimer
	)
	if cfg.AudioEnabled {
		player, err := audio.NewPlayer(log.Named("audio"))
		if err != nil {
			log.Warn(ctx, "audio unavailable, running silently", logger.Error(err))
		} else {
			defer player.Close()
			sound, chimer = player, player
			if cfg.Soundtrack != "" {
				if err := player.PlaySoundtrack(ctx, cfg.Soundtrack); err != nil {
					log.Warn(ctx, "soundtrack not played", logger.String("path", cfg.Soundtrack), logger.Error(err))
				}
			}
		}
	}

	files := persistence.NewFileStore(cfg.DataPath,
		persistence.WithSeedDefaults(cfg.SeedDefaults),
		persistence.WithLogger(log.Named("persistence")),
		persistence.WithMetrics(m),
	)
	store := scene.NewStore(scene.WithLogger(log.Named("scene")), scene.WithMetrics(m))
	cam := render.NewCamera(float64(cfg.WindowWidth), float64(cfg.WindowHeight))
	overlay := game.NewOverlay(chimer)
	ctrl := interaction.NewController(store, render.Picker{Camera: cam}, overlay.Callbacks(),
		interaction.WithLogger(log.Named("interaction")),
		interaction.WithMetrics(m),
	)
	coord := app.NewCoordinator(store, ctrl, files,
		app.WithLogger(log.Named("app")),
		app.WithMetrics(m),
	)
	coord.Start(ctx)
	log.Info(ctx, "loading events", logger.String("path", files.Path()))

	g := game.New(ctx, game.Deps{
		Coordinator: coord,
		Controller:  ctrl,
		Store:       store,
		Clock:       scene.NewClock(store),
		Camera:      cam,
		Overlay:     overlay,
		Dialogs:     game.ZenityDialogs{},
		Sound:       sound,
		Log:         log.Named("game"),
		Width:       cfg.WindowWidth,
		Height:      cfg.WindowHeight,
	})

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle + " - click an event, Tab: next, R: reset, Esc/Q: quit")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
