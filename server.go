package cosmic

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cosmic-development/cosmic/controller"
	"github.com/cosmic-development/cosmic/core"
	"github.com/cosmic-development/cosmic/templates"
)

type RuntimeConfig struct {
	Env         string
	EnableCache bool
	Port        int
	ConfigPath  string
}

// App is a fully wired site: templates, renderer, router and controllers.
type App struct {
	Config     core.Config
	Env        string
	Engine     *core.Engine
	Controller *controller.MainController

	router   chi.Router
	reloader *core.LiveReloader
	watcher  *core.Watcher
}

func NewApp(config core.Config, env string) (*App, error) {
	fsys, onDisk := core.OpenTemplates(config.TemplatesDir, templates.FS)
	engine := core.NewEngine(fsys)
	router := core.NewRouter(config)

	app := &App{Config: config, Env: env, Engine: engine, router: router}
	rc := core.RuntimeContext{Env: env}

	if env == "dev" {
		reloader := core.NewLiveReloader()
		router.Method(http.MethodGet, core.ReloadPath, reloader)
		rc.ReloadPath = core.ReloadPath
		app.reloader = reloader

		if onDisk {
			watcher, err := core.WatchTemplates(config.TemplatesDir, func(path string) {
				if config.DebugLogs {
					log.Printf("cosmic: changed %s", path)
				}
				engine.Invalidate()
				if n := reloader.Reload(); n > 0 && config.DebugLogs {
					log.Printf("cosmic: reloaded %d client(s)", n)
				}
			})
			if err != nil {
				reloader.Close()
				return nil, fmt.Errorf("watching %s: %w", config.TemplatesDir, err)
			}
			app.watcher = watcher
		}
	}

	view := core.NewView(engine, config, rc)
	app.Controller = controller.NewMainController(view)
	app.Controller.Routes(router)

	return app, nil
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Close stops the template watcher and disconnects live reload clients.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	if a.reloader != nil {
		errs = append(errs, a.reloader.Close())
	}
	return errors.Join(errs...)
}

var Start = func(cfg RuntimeConfig) error {
	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = core.DefaultConfigFile
	}

	fmt.Println("Starting Cosmic in", cfg.Env, "mode...")

	config := core.LoadConfig(configPath)
	config.CacheEnabled = cfg.EnableCache
	if cfg.Port != 0 {
		config.Port = cfg.Port
	}

	app, err := NewApp(config, cfg.Env)
	if err != nil {
		return err
	}
	defer app.Close()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("✅ Cosmic running at http://localhost:%d\n", config.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("could not listen on %s: %w", server.Addr, err)
		}
		return nil
	case <-stop:
	}

	fmt.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not gracefully shutdown the server: %w", err)
	}
	fmt.Println("Server stopped")
	return nil
}
