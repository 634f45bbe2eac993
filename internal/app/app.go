// Package app runs the viewer: window, renderer, input and the frame loop.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/floorview/internal/assets"
	"github.com/Faultbox/floorview/internal/config"
	"github.com/Faultbox/floorview/internal/engine/input"
	"github.com/Faultbox/floorview/internal/engine/lighting"
	"github.com/Faultbox/floorview/internal/engine/renderer"
	"github.com/Faultbox/floorview/internal/engine/window"
	"github.com/Faultbox/floorview/internal/logger"
	"github.com/Faultbox/floorview/internal/viewer"
)

const title = "Floorview"

// App is the main viewer instance.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	loader   *assets.Loader
	watcher  *assets.Watcher
	scene    *viewer.Scene
	log      *zap.Logger
}

// New creates the window, renderer and scene.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("app")
	log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("models", cfg.Scene.ModelDir),
	)

	a := &App{
		cfg: cfg,
		log: log,
	}

	// Window first: it owns the OpenGL context.
	var err error
	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		FOV:        cfg.Graphics.FOV,
		Background: cfg.Graphics.Background,
		Sun:        lighting.DefaultSun(),
	}, logger.Named("renderer"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.loader = assets.NewLoader(logger.Named("assets"))
	a.scene = viewer.New(cfg, a.loader, logger.Named("scene"))

	if cfg.Scene.HotReload {
		a.watcher, err = assets.NewWatcher(logger.Named("watch"), a.scene.ModelPaths()...)
		if err != nil {
			// Viewing still works without reload.
			log.Warn("hot reload disabled", zap.Error(err))
			a.watcher = nil
		}
	}

	log.Info("viewer initialized")
	return a, nil
}

// Run starts the main loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true
	a.scene.Mount()
	defer a.scene.Unmount()

	var frameBudget time.Duration
	if a.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		start := time.Now()

		// 1. Input
		if a.input.Update(a.window) {
			a.running = false
			break
		}
		if w, h, ok := a.input.Resized(); ok {
			a.renderer.Resize(w, h)
		}
		if !a.scene.HandleInput(a.input) {
			a.running = false
			break
		}

		// 2. Model reloads
		a.drainWatcher()

		// 3. Animation
		a.scene.Frame(start)

		// 4. Render and present
		cam := a.scene.Camera()
		a.renderer.Render(cam.ViewMatrix(), cam.Position(), a.scene.Roots()...)
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.window.SetTitle(fmt.Sprintf("%s - %d fps", title, frameCount))
			a.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spare := frameBudget - time.Since(start); spare > 0 {
				time.Sleep(spare)
			}
		}
	}

	return nil
}

func (a *App) drainWatcher() {
	if a.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-a.watcher.Events:
			if !ok {
				a.watcher = nil
				return
			}
			a.scene.ModelChanged(path)
		case err, ok := <-a.watcher.Errors:
			if !ok {
				a.watcher = nil
				return
			}
			a.log.Warn("watcher error", zap.Error(err))
		default:
			return
		}
	}
}

// Close releases every resource.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	hits, misses := a.loader.Stats()
	a.log.Debug("loader stats", zap.Int("hits", hits), zap.Int("misses", misses))
}
