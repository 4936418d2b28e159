package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	gateway "github.com/radieske/boliche-reservas-poc/internal/api-gateway"
	"github.com/radieske/boliche-reservas-poc/internal/shared/config"
	"github.com/radieske/boliche-reservas-poc/internal/shared/logger"
	"github.com/radieske/boliche-reservas-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	proxied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_proxied_requests_total",
		Help: "requisições repassadas por rota e status",
	}, []string{"route", "status"})
	prometheus.MustRegister(proxied)

	// targets
	handler, err := gateway.NewRouter(log, gateway.Targets{
		Preference: cfg.PreferenceURL,
		Webhook:    cfg.WebhookSvcURL,
		Email:      cfg.EmailURL,
		Dashboard:  cfg.DashboardURL,
	}, func(route string, status int) {
		proxied.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
	if err != nil {
		log.Fatal("gateway routes", zap.Error(err))
	}

	metrics.StartMetricsServer(log, cfg.MetricsPort, nil)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("api-gateway listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}
