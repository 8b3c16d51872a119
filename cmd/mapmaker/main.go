package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"

	"github.com/joeblew999/plat-mapmaker/internal/api"
	"github.com/joeblew999/plat-mapmaker/internal/config"
	"github.com/joeblew999/plat-mapmaker/internal/db"
	"github.com/joeblew999/plat-mapmaker/internal/logs"
	"github.com/joeblew999/plat-mapmaker/internal/server"
	"github.com/joeblew999/plat-mapmaker/internal/service"
	"github.com/joeblew999/plat-mapmaker/internal/snippet"
	"github.com/joeblew999/plat-mapmaker/internal/store"
)

// Options defines all CLI flags and env vars for the map editor.
// Flags: --host, --port, --data-dir, --config, --store, --persist-view, ...
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_CONFIG, ...
type Options struct {
	Host         string `doc:"Host to bind to" default:"0.0.0.0"`
	Port         int    `doc:"Port to listen on" short:"p" default:"8086"`
	DataDir      string `doc:"Directory for the quick-save" default:".data"`
	Config       string `doc:"Path to the YAML settings file" default:"mapmaker.yaml"`
	Store        string `doc:"Quick-save backend: file or duckdb (overrides the settings file)"`
	PersistView  bool   `doc:"Also quick-save on pan and zoom"`
	FragmentsDir string `doc:"Serve editor fragments from this directory (development)"`
	LogLevel     string `doc:"Log level: debug, info, warn or error" default:"info"`
	LogPretty    bool   `doc:"Human-readable logs instead of JSON"`
}

// app is the wired editor: settings, controller and quick-save backend.
type app struct {
	log      *slog.Logger
	settings config.Settings
	ctrl     *service.Controller
	snippet  *snippet.Generator
	store    string
	savedAt  api.SavedAtFunc
	close    func() error
}

// newApp wires the editor from opts. When persist is false no quick-save
// backend is opened and nothing is restored.
func newApp(ctx context.Context, opts *Options, persist bool) (*app, error) {
	logger, err := logs.New(os.Stderr, opts.LogLevel, opts.LogPretty)
	if err != nil {
		return nil, err
	}
	settings, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	providers, err := settings.Providers()
	if err != nil {
		return nil, fmt.Errorf("basemaps: %w", err)
	}

	a := &app{
		log:      logger,
		settings: settings,
		snippet:  snippet.New(settings.Embed),
		close:    func() error { return nil },
	}
	svcOpts := service.Options{
		Providers:   providers,
		Logger:      logger,
		PersistView: opts.PersistView,
	}
	if p := settings.Persistence.PersistView; p != nil && !opts.PersistView {
		svcOpts.PersistView = *p
	}

	if persist {
		a.store = opts.Store
		if a.store == "" {
			a.store = settings.Persistence.Store
		}
		if a.store == "" {
			a.store = config.StoreFile
		}
		switch a.store {
		case config.StoreFile:
			fs := store.NewFileStore(opts.DataDir)
			svcOpts.Snapshots = fs
			a.savedAt = fs.SavedAt
		case config.StoreDuckDB:
			conn, err := db.Open(db.Config{DataDir: opts.DataDir})
			if err != nil {
				return nil, err
			}
			ds, err := store.NewDuckStore(ctx, conn)
			if err != nil {
				conn.Close()
				return nil, err
			}
			svcOpts.Snapshots = ds
			a.savedAt = ds.SavedAt
			a.close = conn.Close
		default:
			return nil, fmt.Errorf("unknown store %q (want %s or %s)", a.store, config.StoreFile, config.StoreDuckDB)
		}
	}

	a.ctrl = service.New(svcOpts)
	if persist {
		if err := a.ctrl.Restore(ctx); err != nil {
			// A corrupt quick-save must not keep the editor from starting.
			logger.Warn("quick-save not restored", "error", err)
		}
	}
	return a, nil
}

func (a *app) server(opts *Options) (*server.Server, error) {
	return server.New(server.Config{
		Host:         opts.Host,
		Port:         fmt.Sprintf("%d", opts.Port),
		Store:        a.store,
		SavedAt:      a.savedAt,
		FragmentsDir: opts.FragmentsDir,
		Logger:       a.log,
	}, a.ctrl, a.snippet)
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("reading .env: %v", err)
	}

	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		var (
			a   *app
			srv *server.Server
		)

		hooks.OnStart(func() {
			var err error
			a, err = newApp(context.Background(), opts, true)
			if err != nil {
				log.Fatalf("Startup error: %v", err)
			}
			srv, err = a.server(opts)
			if err != nil {
				log.Fatalf("Startup error: %v", err)
			}

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("plat-mapmaker starting...\n")
			fmt.Printf("  Editor:  %s/editor\n", baseURL)
			fmt.Printf("  Store:   %s (%s)\n", a.store, opts.DataDir)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			a.log.Info("listening", "addr", addr, "layers", a.ctrl.View().Layers)
			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})

		hooks.OnStop(func() {
			if a != nil {
				a.close()
			}
		})
	})

	cli.Root().Use = "mapmaker"
	cli.Root().Short = "Map annotation editor with export and embed"
	cli.Root().Version = api.Version

	addCommands(cli)
	cli.Run()
}
