// BrewOps: inventory and reservation ledger for a small brewery.
//
// Runs the terminal UI by default; -serve runs only the HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brewops/brewops/internal/api"
	"github.com/brewops/brewops/internal/config"
	"github.com/brewops/brewops/internal/database"
	"github.com/brewops/brewops/internal/database/seed"
	"github.com/brewops/brewops/internal/metrics"
	"github.com/brewops/brewops/internal/repository"
	"github.com/brewops/brewops/internal/services/ledger"
	"github.com/brewops/brewops/internal/tui"
	"github.com/brewops/brewops/internal/util"
)

// Build information (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

type options struct {
	configPath  string
	migrateOnly bool
	serve       bool
	debug       bool
	brewery     string
	user        string
}

func main() {
	var (
		opts        options
		showVersion bool
	)
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.BoolVar(&opts.migrateOnly, "migrate-only", false, "Run migrations and exit")
	flag.BoolVar(&opts.serve, "serve", false, "Run the HTTP API only, without the TUI")
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flag.StringVar(&opts.brewery, "brewery", "", "Brewery (tenant) name, overrides config")
	flag.StringVar(&opts.user, "user", "", "Acting username, overrides config")
	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("BrewOps version %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		// Force exit if shutdown hangs
		time.AfterFunc(10*time.Second, func() {
			slog.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	if err := run(ctx, opts); err != nil {
		slog.Error("application error", "error", err)
		fmt.Fprintln(os.Stderr, "brewops:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, cfgPath, err := config.Load(opts.configPath, true)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := config.ApplyOverrides(cfg, opts.brewery, opts.user); err != nil {
		return fmt.Errorf("applying flags: %w", err)
	}

	closeLog, err := setupLogging(cfg, opts.debug)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Info("BrewOps starting",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cfgPath,
		"brewery", cfg.Brewery.Name,
	)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		slog.Info("closing database")
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	result, err := migrator.MigrateUp(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if len(result.Applied) > 0 {
		slog.Info("applied migrations",
			"count", len(result.Applied),
			"to_version", result.CurrentVersion,
		)
	}

	if opts.migrateOnly {
		slog.Info("migrations complete, exiting")
		return nil
	}

	if cfg.Database.BackupOnStart {
		if path, err := db.Backup(ctx); err != nil {
			slog.Warn("startup backup failed", "error", err)
		} else {
			slog.Info("startup backup written", "path", path)
		}
	}

	clock := util.SystemClock{}

	ledgerOpts := []ledger.Option{
		ledger.WithSeed(seed.Func(cfg.Brewery.User)),
		ledger.WithDefaultUnit(cfg.Brewery.DefaultUnit),
		ledger.WithLogger(slog.Default()),
		ledger.WithClock(clock),
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Brewery.Name)
		ledgerOpts = append(ledgerOpts, ledger.WithObserver(collector))
	}

	l, err := ledger.Open(ctx, repository.NewStore(db, clock), cfg.Brewery.Name, ledgerOpts...)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	var server *api.Server
	if cfg.API.Enabled || opts.serve {
		apiOpts := []api.Option{
			api.WithLogger(slog.Default()),
			api.WithHealthCheck(db.HealthCheck),
		}
		if collector != nil {
			apiOpts = append(apiOpts, api.WithMetrics(collector, cfg.Metrics.Path))
		}
		server = api.New(l, apiOpts...)
	}

	if opts.serve {
		slog.Info("starting API server", "listen", cfg.API.Listen)
		if err := server.Run(ctx, cfg.API.Listen); err != nil {
			return fmt.Errorf("API server: %w", err)
		}
		slog.Info("BrewOps shutdown complete")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverDone := make(chan error, 1)
	if server != nil {
		slog.Info("starting API server", "listen", cfg.API.Listen)
		go func() { serverDone <- server.Run(ctx, cfg.API.Listen) }()
	} else {
		close(serverDone)
	}

	tui.Version = Version
	tui.BuildTime = BuildTime

	slog.Info("starting TUI", "user", cfg.Brewery.User)
	tuiErr := tui.Run(ctx, l, cfg, clock)

	cancel()
	if err := <-serverDone; err != nil {
		slog.Error("API server stopped with error", "error", err)
	}
	if tuiErr != nil {
		return fmt.Errorf("TUI error: %w", tuiErr)
	}

	slog.Info("BrewOps shutdown complete")
	return nil
}

// setupLogging installs the default slog logger and returns a func that
// releases the log file.
func setupLogging(cfg *config.Config, debug bool) (func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	} else {
		switch cfg.Logging.Level {
		case config.LogLevelDebug:
			level = slog.LevelDebug
		case config.LogLevelWarn:
			level = slog.LevelWarn
		case config.LogLevelError:
			level = slog.LevelError
		}
	}

	logPath, err := config.EnsureLogDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if logPath == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)))
		return func() {}, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logFile, handlerOpts)))
	return func() { logFile.Close() }, nil
}

// openDatabase opens the configured database, restoring the newest good
// backup once if the file fails its integrity check.
func openDatabase(cfg *config.Config) (*database.DB, error) {
	dbPath, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("ensuring data directory: %w", err)
	}

	backupDir, err := config.BackupDir(cfg)
	if err != nil {
		slog.Warn("failed to create backup directory", "error", err)
		backupDir = ""
	}

	db, err := database.Open(dbPath, &cfg.Database, backupDir)
	if err == nil {
		return db, nil
	}
	if backupDir == "" {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	slog.Error("database failed to open, trying latest backup", "path", dbPath, "error", err)
	backup, restoreErr := database.RestoreLatestBackup(dbPath, backupDir)
	if restoreErr != nil {
		return nil, fmt.Errorf("opening database: %w", errors.Join(err, restoreErr))
	}
	slog.Warn("database restored from backup", "backup", backup)

	db, err = database.Open(dbPath, &cfg.Database, backupDir)
	if err != nil {
		return nil, fmt.Errorf("opening restored database: %w", err)
	}
	return db, nil
}
