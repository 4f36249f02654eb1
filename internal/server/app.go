// Package server wires the gophauth server together: logging, PostgreSQL,
// migrations, credential primitives, rate limiters and the HTTP transport,
// and runs it until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/ratelimit"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/rest"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/redis/go-redis/v9"
)

// openDB is a seam for tests.
var openDB = repomanager.OpenDB

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	repomanager repomanager.RepositoryManager
	server      *rest.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewLogger(os.Stdout, c.LogLevel, c.LogFormat)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	codec := auth.NewTokenCodec(c)
	hasher := auth.NewBcryptHasher(c.BcryptCost)
	us := services.NewUserService(db, rm, hasher, codec, c, logger.With("module", "services"))

	limiters, rdb, err := newLimiters(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		redis:       rdb,
		repomanager: rm,
		server:      rest.NewServer(c, logger, us, codec, limiters),
	}, nil
}

// newLimiters builds the request budgets. Counters live in Redis when an
// address is configured and in process memory otherwise.
func newLimiters(ctx context.Context, c *config.Config) (rest.Limiters, *redis.Client, error) {
	if !c.RateLimitEnabled {
		return rest.Limiters{}, nil, nil
	}

	authPolicy := ratelimit.Policy{Name: "auth", Max: c.AuthRateLimit, Window: c.RateLimitWindow}
	apiPolicy := ratelimit.Policy{Name: "api", Max: c.APIRateLimit, Window: c.RateLimitWindow}

	if c.RedisAddr == "" {
		return rest.Limiters{
			Auth: ratelimit.NewMemory(authPolicy),
			API:  ratelimit.NewMemory(apiPolicy),
		}, nil, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return rest.Limiters{}, nil, fmt.Errorf("redis init error: %w", err)
	}

	return rest.Limiters{
		Auth: ratelimit.NewRedis(rdb, authPolicy),
		API:  ratelimit.NewRedis(rdb, apiPolicy),
	}, rdb, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run migrates the schema, serves HTTP until ctx is cancelled or a signal
// arrives, then releases the database and Redis connections.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer app.close(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return nil
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "error closing redis", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "error closing db", "error", err)
		}
	}
}
