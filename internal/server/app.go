// Package server wires configuration, storage, services and the REST server
// together and runs them until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/logging"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/metrics"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/ratelimit"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/auth"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/config"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/repomanager"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/rest"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	rest   *rest.RESTServer
}

// OpenDatabase connects to PostgreSQL and applies pending migrations.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}
	return db, rm, nil
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	db, rm, err := OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	authority := auth.NewAuthority([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)

	svc := rest.Services{
		Users:      services.NewUserService(db, rm, cfg, authority, logger),
		Detections: services.NewDetectionService(db, rm, logger),
		Claims:     services.NewClaimService(db, rm, logger),
		Admin:      services.NewAdminService(db, rm),
	}

	app := &App{config: cfg, logger: logger, db: db}

	if cfg.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			logger.Warn(ctx, "redis unreachable, login limiter will fail open", "addr", cfg.RedisAddr, "error", err)
		}
		svc.Users.SetLoginLimiter(ratelimit.NewLoginLimiter(app.redis, cfg.LoginAttemptLimit, cfg.LoginAttemptWindow))
	}

	app.rest = rest.NewRESTServer(cfg.HTTPAddr, logger, svc, authority, metrics.New(), db)
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until a signal arrives or the server fails, then releases the
// database and Redis connections.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.rest.Run(ctx); err != nil {
			app.logger.Error(ctx, "rest server stopped", "error", err)
			runErr = err
			cancelFunc()
		}
	}()
	wg.Wait()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close failed", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
