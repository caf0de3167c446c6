// Package server wires the ideapool application together: it opens the
// PostgreSQL pool and applies migrations, connects the Redis refresh-token
// registry, builds the services and runs the HTTP API until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/ideapool/internal/logging"
	"github.com/dmitrijs2005/ideapool/internal/server/auth"
	"github.com/dmitrijs2005/ideapool/internal/server/config"
	"github.com/dmitrijs2005/ideapool/internal/server/metrics"
	"github.com/dmitrijs2005/ideapool/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ideapool/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ideapool/internal/server/rest"
	"github.com/dmitrijs2005/ideapool/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	redis    *redis.Client
	sessions *services.SessionService
	ideas    *services.IdeaService
	metrics  *metrics.Metrics
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	registry := refreshtokens.NewRedisRegistry(rc)
	if err := registry.Ping(ctx); err != nil {
		_ = rc.Close()
		_ = db.Close()
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	issuer := auth.NewIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	hasher := auth.NewBcryptHasher(c.BcryptCost)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		redis:    rc,
		sessions: services.NewSessionService(db, rm, registry, issuer, hasher, c.RefreshAllowsExpired),
		ideas:    services.NewIdeaService(db, rm),
		metrics:  metrics.New(),
	}, nil
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

	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.sessions, app.ideas,
		app.metrics, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) close(ctx context.Context) {
	if err := app.redis.Close(); err != nil {
		app.logger.Error(ctx, "redis close error", "error", err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
}
