package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"gorm.io/gorm"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/adapters/db/gormdb"
	httpadapter "github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/adapters/http"
	rpcadapter "github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/adapters/rpcjson"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/auth"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/config"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/logging"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "tourist-guide",
		Usage: "Universal tourist guide API server and CLI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a YAML config file", Sources: cli.EnvVars(config.ConfigPathEnvVar)},
		},
		Commands: []*cli.Command{
			serverCommand(),
			migrateCommand(),
			seedCommand(),
			citiesCommand(),
			healthCommand(),
			authCommand(),
			landmarksCommand(),
			notificationsCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		logging.Fatal().Err(err).Msg("command failed")
	}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Run the HTTP API and the JSON-RPC socket",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "rpc-socket", Usage: "JSON-RPC unix socket path"},
			&cli.StringFlag{Name: "db-driver", Usage: "sqlite or postgres"},
			&cli.StringFlag{Name: "db-path", Usage: "SQLite database path"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadServerConfig(c)
			if err != nil {
				return err
			}
			return runServer(ctx, cfg)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations and exit",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadServerConfig(c)
			if err != nil {
				return err
			}
			db, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = gormdb.Close(db) }()
			version, err := gormdb.MigrationVersion(db)
			if err != nil {
				return err
			}
			logging.Info().Int64("version", version).Msg("database is up to date")
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Insert the sample landmarks when the catalogue is empty",
		Action: func(ctx context.Context, c *cli.Command) error {
			return withService(ctx, c, func(svc *application.Service) error {
				n, err := seedLandmarks(ctx, svc)
				if err != nil {
					return err
				}
				logging.Info().Int("created", n).Msg("seed finished")
				return nil
			})
		},
	}
}

func citiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "cities",
		Usage: "City profiles and aggregate maintenance",
		Commands: append([]*cli.Command{
			{
				Name:  "recompute",
				Usage: "Rebuild city profiles and category counts from source tables",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "output raw JSON"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withService(ctx, c, func(svc *application.Service) error {
						res, err := svc.RecomputeCityStats(ctx)
						if err != nil {
							return err
						}
						if c.Bool("json") {
							return printJSON(res)
						}
						printKV([][2]string{
							{"cities", fmt.Sprint(res.Cities)},
							{"categories", fmt.Sprint(res.Categories)},
							{"reconciled", fmt.Sprint(res.Reconciled)},
							{"duration", res.Duration.String()},
						})
						return nil
					})
				},
			},
		}, cityClientCommands()...),
	}
}

// loadServerConfig reads the layered config and applies command flags on top.
func loadServerConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	if c.IsSet("rpc-socket") {
		cfg.Server.RPCSocket = c.String("rpc-socket")
	}
	if c.IsSet("db-driver") {
		cfg.Database.Driver = c.String("db-driver")
	}
	if c.IsSet("db-path") {
		cfg.Database.Path = c.String("db-path")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	if cfg.Security.SecretKey == config.DefaultSecretKey {
		logging.Warn().Msg("security.secret_key is the built-in default; set SECRET_KEY before exposing the server")
	}
	return cfg, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	db, err := gormdb.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	if err := gormdb.RunMigrations(ctx, db); err != nil {
		_ = gormdb.Close(db)
		return nil, err
	}
	return db, nil
}

func newService(cfg *config.Config, db *gorm.DB) (*application.Service, error) {
	tokens, err := auth.NewJWTManager(cfg.Security.SecretKey, cfg.Security.AccessTokenTTL())
	if err != nil {
		return nil, err
	}
	return application.NewService(gormdb.NewRepository(db), tokens), nil
}

func withService(ctx context.Context, c *cli.Command, fn func(*application.Service) error) error {
	cfg, err := loadServerConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = gormdb.Close(db) }()
	svc, err := newService(cfg, db)
	if err != nil {
		return err
	}
	return fn(svc)
}

func runServer(ctx context.Context, cfg *config.Config) error {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = gormdb.Close(db) }()

	service, err := newService(cfg, db)
	if err != nil {
		return err
	}

	router := httpadapter.NewRouter(service, httpadapter.Options{
		ProjectName:        cfg.App.Name,
		Version:            cfg.App.Version,
		APIPrefix:          cfg.App.APIPrefix,
		CORSAllowedOrigins: cfg.Security.CORSAllowedOrigins,
		RateLimitRequests:  cfg.Security.RateLimitRequests,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
	})
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router, ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout}

	rpcSrv, err := rpcadapter.Start(cfg.Server.RPCSocket, cfg.App.Version, service)
	if err != nil {
		return err
	}
	defer func() {
		_ = rpcSrv.Close()
	}()
	logging.Info().Str("socket", cfg.Server.RPCSocket).Msg("json-rpc listening")

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", srv.Addr).
			Str("driver", cfg.Database.Driver).
			Str("version", cfg.App.Version).
			Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
