package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/appmand/internal/server/busclient"
	"github.com/atlanticdynamic/appmand/internal/server/handlers"
	"github.com/atlanticdynamic/appmand/internal/server/lifecycle"
	"github.com/atlanticdynamic/appmand/internal/server/packages"
	"github.com/atlanticdynamic/appmand/internal/server/publisher"
	"github.com/atlanticdynamic/appmand/internal/settings"
	"github.com/robbyt/go-supervisor/supervisor"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the application manager daemon",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "settings",
				Usage: "Path to the settings TOML file",
			},
			&cli.StringFlag{
				Name:     "apps",
				Usage:    "Path to the app catalog TOML file",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			handler := setupLogger(cmd)
			return runServer(ctx, handler, cmd.String("settings"), cmd.String("apps"))
		},
	}
}

// runServer wires the lifecycle core and blocks until shutdown.
func runServer(ctx context.Context, logHandler slog.Handler, settingsPath, appsPath string) error {
	logger := slog.New(logHandler)

	cfg := settings.DefaultSettings()
	if settingsPath != "" {
		loaded, err := settings.Load(settingsPath)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		cfg = loaded
	}

	catalog, err := packages.LoadCatalog(appsPath)
	if err != nil {
		return fmt.Errorf("failed to load app catalog: %w", err)
	}

	// The platform bus transport is injected here; standalone mode
	// answers every call locally so the daemon runs without a device.
	caller := newStandaloneCaller(logHandler)

	pub := publisher.New(logHandler)
	loop := lifecycle.NewLoop(logHandler)
	memoryManager := busclient.NewMemoryManager(ctx, caller, logHandler)

	var runner *lifecycle.Runner

	manager, err := lifecycle.NewManager(lifecycle.Config{
		Settings:      cfg,
		Lookup:        catalog,
		MemoryManager: memoryManager,
		Publisher:     pub,
		Dispatcher:    loop,
		LastAppLauncher: func() {
			if cfg.FallbackAppID == "" || runner == nil {
				return
			}
			logger.Info("launching fallback app", "appId", cfg.FallbackAppID)
			runner.Launch(lifecycle.NewTask(settings.InternalServiceID,
				map[string]any{"id": cfg.FallbackAppID}, nil))
		},
		LogHandler: logHandler,
	})
	if err != nil {
		return fmt.Errorf("failed to create lifecycle manager: %w", err)
	}

	events := manager.BackendEvents()
	native := handlers.NewNativeHandler(newExecNativeClient(catalog), events, manager.Post, logHandler)
	web := handlers.NewWebHandler(newWebRuntimeClient(ctx, caller), events, manager.Post, logHandler)
	qml := handlers.NewQmlHandler(newQmlRuntimeClient(ctx, caller), events, manager.Post, logHandler)
	manager.SetHandler(packages.HandlerTypeNative, native)
	manager.SetHandler(packages.HandlerTypeWeb, web)
	manager.SetHandler(packages.HandlerTypeQml, qml)

	runner, err = lifecycle.NewRunner(manager, loop,
		lifecycle.WithLogHandler(logHandler),
		lifecycle.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create lifecycle runner: %w", err)
	}

	// Web runtime connectivity gates web launches and tears down
	// loading web apps on disconnect.
	wamStatus := busclient.NewBase("com.palm.webappmanager", caller, logHandler)
	wamStatus.OnServerStatusChanged = func(connected bool) {
		web.SetConnected(connected)
		runner.WebRuntimeStatusChanged(connected)
	}
	wamStatus.ServerStatusChanged(true)

	configd := busclient.NewConfigd(caller, logHandler)
	configd.AddRequiredKey("com.webos.applicationManager.keepAliveApps")
	configd.AddRequiredKey("com.webos.applicationManager.fullscreenWindowTypes")
	configd.EventConfigInfo = func(configs map[string]any) {
		loop.Post(func() { cfg.Merge(configs) })
	}
	if err := configd.Start(ctx); err != nil {
		logger.Warn("config service unavailable", "error", err)
	}

	lsm := busclient.NewLSM(caller, logHandler)
	lsm.EventForegroundAppInfoChanged = runner.ForegroundInfoChanged
	if err := lsm.Start(ctx); err != nil {
		logger.Warn("window manager unavailable", "error", err)
	}

	db := busclient.NewDB8(caller, logHandler)
	if err := bootstrapStorage(ctx, db); err != nil {
		logger.Warn("storage bootstrap failed", "error", err)
	}

	super, err := supervisor.New(
		supervisor.WithLogHandler(logHandler),
		supervisor.WithRunnables(runner),
		supervisor.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}
	if err := super.Run(); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	logger.Info("Server shutdown complete")
	return nil
}

// bookmarkKind is the database kind backing launch-point bookmarks.
const bookmarkKind = "com.webos.applicationManager.bookmarks:1"

// bootstrapStorage registers the database kind and permissions the
// launch-point layer stores bookmarks under.
func bootstrapStorage(ctx context.Context, db *busclient.DB8) error {
	if err := db.PutKind(ctx, map[string]any{
		"id":    bookmarkKind,
		"owner": settings.InternalServiceID,
		"indexes": []any{
			map[string]any{
				"name":  "appId",
				"props": []any{map[string]any{"name": "appId"}},
			},
		},
	}); err != nil {
		return err
	}

	return db.PutPermissions(ctx, map[string]any{
		"permissions": []any{
			map[string]any{
				"type":   "db.kind",
				"object": bookmarkKind,
				"caller": settings.InternalServiceID,
				"operations": map[string]any{
					"create": "allow", "read": "allow",
					"update": "allow", "delete": "allow",
				},
			},
		},
	})
}
