package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	simulator "github.com/radieske/boliche-reservas-poc/internal/mercadopago-simulator"
	"github.com/radieske/boliche-reservas-poc/internal/shared/config"
	"github.com/radieske/boliche-reservas-poc/internal/shared/logger"
	"github.com/radieske/boliche-reservas-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	// Métricas Prometheus do simulador
	simEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mp_simulator_events_total",
		Help: "preferências, pagamentos e notificações simulados",
	}, []string{"kind"})
	prometheus.MustRegister(simEvents)

	sim := simulator.NewServer(log, simulator.NewStore(), cfg.SimulatorPublicURL)
	sim.OnEvent = func(kind string) { simEvents.WithLabelValues(kind).Inc() }

	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, nil)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           sim.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("mercadopago simulator running",
			zap.String("addr", srv.Addr),
			zap.String("paths", "/checkout/preferences,/v1/payments/{id},/simulate/pay"),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("public server error", zap.Error(err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
