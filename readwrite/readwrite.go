//go:build !solution

// Package readwrite spawns reader and writer agents around one shared resource.
package readwrite

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Rogov-KS/readwrite/agent"
	"github.com/Rogov-KS/readwrite/config"
	"github.com/Rogov-KS/readwrite/eventlog"
	"github.com/Rogov-KS/readwrite/metrics"
	"github.com/Rogov-KS/readwrite/sharedres"
)

const shutdownTimeout = 5 * time.Second

// Runner owns the resource and the agents working on it.
type Runner struct {
	cfg      config.Config
	logger   *zap.Logger
	clock    clockwork.Clock
	registry *prometheus.Registry
	metrics  *metrics.Lock
	resource *sharedres.Resource[string]
	agents   []*agent.Agent[string]

	// listener is set once the metrics server is listening.
	listener chan net.Addr
}

type Option func(*Runner)

func WithClock(clock clockwork.Clock) Option {
	return func(r *Runner) { r.clock = clock }
}

// New validates cfg and builds the resource and its agents.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}

	r := &Runner{
		cfg:      cfg,
		logger:   logger.With(zap.Stringer("run_id", id)),
		clock:    clockwork.NewRealClock(),
		registry: prometheus.NewRegistry(),
		listener: make(chan net.Addr, 1),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.registry.MustRegister(collectors.NewGoCollector())
	r.metrics = metrics.NewLock(r.registry)
	r.resource = sharedres.New(cfg.InitialValue,
		sharedres.WithSink(eventlog.NewZapSink(r.logger)),
		sharedres.WithClock(r.clock),
		sharedres.WithHold(cfg.ReadHold, cfg.WriteHold),
		sharedres.WithMetrics(r.metrics),
	)
	r.registry.MustRegister(metrics.NewStateCollector(r.resource.Stats))

	for i := 0; i < cfg.Readers; i++ {
		r.agents = append(r.agents, r.newAgent(agent.RoleReader, i, cfg.ReadPacing))
	}
	for i := 0; i < cfg.Writers; i++ {
		r.agents = append(r.agents, r.newAgent(agent.RoleWriter, i, cfg.WritePacing))
	}
	return r, nil
}

func (r *Runner) newAgent(role agent.Role, id int, pacing time.Duration) *agent.Agent[string] {
	a := &agent.Agent[string]{
		Role:    role,
		ID:      id,
		Target:  r.resource,
		Pacer:   agent.ClockPacer{Clock: r.clock, Interval: pacing},
		Logger:  r.logger,
		Metrics: r.metrics,
	}
	if role == agent.RoleWriter {
		a.Payload = agent.DefaultPayload
	}
	return a
}

// Resource returns the shared resource the agents work on.
func (r *Runner) Resource() *sharedres.Resource[string] {
	return r.resource
}

// MetricsAddr blocks until the metrics server listens and returns its address.
func (r *Runner) MetricsAddr(ctx context.Context) (net.Addr, error) {
	select {
	case addr := <-r.listener:
		r.listener <- addr
		return addr, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run starts every agent and, if configured, the metrics server.
// It returns after ctx is cancelled and every agent has finished its current
// operation.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("starting agents",
		zap.Int("readers", r.cfg.Readers),
		zap.Int("writers", r.cfg.Writers),
		zap.Duration("read_pacing", r.cfg.ReadPacing),
		zap.Duration("write_pacing", r.cfg.WritePacing),
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, a := range r.agents {
		g.Go(func() error { return a.Run(ctx) })
	}

	if r.cfg.MetricsAddr != "" {
		g.Go(func() error { return r.serve(ctx) })
	}

	err := g.Wait()
	r.logger.Info("agents stopped", zap.Error(err))
	return err
}

// Handler serves /metrics and /healthz.
func (r *Runner) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	return router
}

func (r *Runner) serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", r.cfg.MetricsAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.cfg.MetricsAddr, err)
	}

	srv := &http.Server{
		Handler:      r.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Error("metrics server shutdown error", zap.Error(err))
		}
	}()

	r.logger.Info("serving metrics", zap.Stringer("addr", lis.Addr()))
	r.listener <- lis.Addr()

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
