// Package server wires the balance server together: storage, services,
// the gRPC transport and the Prometheus endpoint.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/balance/internal/logging"
	"github.com/dmitrijs2005/balance/internal/server/config"
	"github.com/dmitrijs2005/balance/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/balance/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gs "github.com/dmitrijs2005/balance/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	messageService *services.MessageService
	metrics        *gs.Metrics
	registry       *prometheus.Registry
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	var archive services.Archive
	if c.S3Bucket != "" {
		archive = services.NewS3Archive(c)
	}

	registry := prometheus.NewRegistry()
	metrics, err := gs.NewMetrics(gs.MetricsOptions{Registerer: registry})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("metrics init error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	ms := services.NewMessageService(db, rm, archive, logger)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		userService:    us,
		messageService: ms,
		metrics:        metrics,
		registry:       registry,
	}, nil
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.messageService, app.config.SecretKey, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: app.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "metrics server failed", "error", err.Error())
	}
}

// purgeExpiredTokens removes expired refresh tokens until ctx is done.
func (app *App) purgeExpiredTokens(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.userService.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Warn(ctx, "purge expired tokens", "error", err.Error())
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired refresh tokens purged", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx)
		}()
	}

	if app.config.TokenPurgeInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.purgeExpiredTokens(ctx, app.config.TokenPurgeInterval)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err.Error())
	}
	app.logger.Info(context.Background(), "App stopped")
}
