// Package app holds the process-wide resources every service binary needs
// and runs the HTTP server, the gRPC health server and any background
// workers until shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/MikeMC777/perfulandia/internal/config"
	"github.com/MikeMC777/perfulandia/internal/db"
	"github.com/MikeMC777/perfulandia/internal/healthx"
	"github.com/MikeMC777/perfulandia/internal/httpx"
	"github.com/MikeMC777/perfulandia/internal/logging"
	"github.com/MikeMC777/perfulandia/internal/metrics"
	"github.com/MikeMC777/perfulandia/internal/queue"
	"github.com/MikeMC777/perfulandia/internal/telemetry"
)

// Container holds expensive-to-create singleton resources.
type Container struct {
	Config    config.Config
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Telemetry *telemetry.Providers
	Health    *healthx.Server

	mu      sync.Mutex
	pool    *pgxpool.Pool
	memq    *queue.Memory
	closers []func() error
}

// NewContainer loads configuration and sets up telemetry, logging and
// metrics for the named service.
func NewContainer(ctx context.Context, service string) (*Container, error) {
	cfg := config.Load(service)

	providers, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
	})
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}
	logger, err := logging.NewLogger(cfg.ServiceName, cfg.Env, providers.Enabled())
	if err != nil {
		_ = providers.Shutdown(ctx)
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Container{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics.New(prometheus.NewRegistry()),
		Telemetry: providers,
		Health:    healthx.New(cfg.ServiceName, logger),
	}, nil
}

// UsePostgres reports whether repositories should be backed by Postgres
// rather than kept in memory.
func (c *Container) UsePostgres() bool { return c.Config.StoreDriver == config.StorePostgres }

// Pool connects to Postgres on first use.
func (c *Container) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool != nil {
		return c.pool, nil
	}
	pool, err := db.Connect(ctx, c.Config.PostgresDSN)
	if err != nil {
		return nil, err
	}
	c.pool = pool
	c.closers = append(c.closers, func() error { pool.Close(); return nil })
	return pool, nil
}

// memoryQueue is shared by the sender and receiver of one process.
func (c *Container) memoryQueue() *queue.Memory {
	if c.memq == nil {
		c.memq = queue.NewMemory(c.Config.QueueName, 0)
		c.closers = append(c.closers, c.memq.Close)
	}
	return c.memq
}

// QueueSender opens the configured queue driver for publishing.
func (c *Container) QueueSender() (queue.Sender, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.Config.QueueDriver {
	case config.QueueMemory:
		return c.memoryQueue(), nil
	case config.QueueKafka:
		s, err := queue.NewKafkaSender(c.Config.KafkaBrokers, c.Config.QueueName, c.Config.ServiceName, c.Telemetry.TracerProvider)
		if err != nil {
			return nil, fmt.Errorf("kafka sender: %w", err)
		}
		c.closers = append(c.closers, s.Close)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", c.Config.QueueDriver)
	}
}

// QueueReceiver opens the configured queue driver for consuming.
func (c *Container) QueueReceiver() (queue.Receiver, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.Config.QueueDriver {
	case config.QueueMemory:
		return c.memoryQueue(), nil
	case config.QueueKafka:
		r, err := queue.NewKafkaReceiver(c.Config.KafkaBrokers, c.Config.QueueName, c.Config.KafkaGroupID)
		if err != nil {
			return nil, fmt.Errorf("kafka receiver: %w", err)
		}
		c.closers = append(c.closers, r.Close)
		return r, nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", c.Config.QueueDriver)
	}
}

// Router returns a gin engine with the shared middleware, /healthz and
// /metrics.
func (c *Container) Router() *gin.Engine {
	return httpx.NewRouter(c.Logger, c.Metrics)
}

// Worker is a background loop that returns when its context is cancelled.
type Worker func(ctx context.Context) error

// Run serves handler on addr together with the gRPC health server and the
// given workers. It returns when ctx is cancelled or any of them fails, after
// draining HTTP requests for at most the configured grace period.
func (c *Container) Run(ctx context.Context, addr string, handler http.Handler, workers ...Worker) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 2+len(workers))
	var wg sync.WaitGroup
	start := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errc <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}

	start("http", func() error {
		c.Logger.Info("http_listen", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	start("grpc_health", func() error { return c.Health.ListenAndServe(c.Config.GRPCHealthAddr) })
	for i, w := range workers {
		w := w
		start(fmt.Sprintf("worker_%d", i), func() error { return w(ctx) })
	}
	c.Health.MarkServing()

	var runErr error
	select {
	case <-ctx.Done():
		c.Logger.Info("shutdown_signal")
	case runErr = <-errc:
		c.Logger.Error("component_failed", zap.Error(runErr))
	}
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), c.Config.ShutdownGracePeriod)
	defer done()
	c.Health.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.Logger.Error("http_shutdown_failed", zap.Error(err))
	}
	wg.Wait()
	return runErr
}

// Close releases pools, queues and telemetry exporters in reverse order of
// acquisition.
func (c *Container) Close(ctx context.Context) {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			c.Logger.Error("close_failed", zap.Error(err))
		}
	}
	if err := c.Telemetry.Shutdown(ctx); err != nil {
		c.Logger.Error("telemetry_shutdown_failed", zap.Error(err))
	}
	_ = c.Logger.Sync()
}
