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

	"github.com/radieske/boliche-reservas-poc/internal/mercadopago"
	"github.com/radieske/boliche-reservas-poc/internal/preference-service/checkout"
	phttp "github.com/radieske/boliche-reservas-poc/internal/preference-service/http"
	"github.com/radieske/boliche-reservas-poc/internal/reservation/repo"
	"github.com/radieske/boliche-reservas-poc/internal/shared/config"
	"github.com/radieske/boliche-reservas-poc/internal/shared/db"
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

	// Postgres (reservas, clientes e configurations)
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()
	store := repo.NewPostgres(pg)

	creator := checkout.NewCreator(log, store, mercadopago.New(cfg.MercadoPagoBaseURL), checkout.Options{
		SiteURL:           cfg.SiteURL,
		WebhookURL:        cfg.WebhookURL,
		DefaultPayerEmail: cfg.DefaultPayerEmail,
	})

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "preference_requests_total",
		Help: "pedidos de checkout por resultado",
	}, []string{"outcome"})
	prometheus.MustRegister(requests)

	api := phttp.NewServer(log, creator)
	api.OnResult = func(outcome string) { requests.WithLabelValues(outcome).Inc() }

	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, store.Ping)

	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("preference-service listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api", zap.Error(err))
		}
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("preference-service stopped")
}
