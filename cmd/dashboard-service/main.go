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

	dcache "github.com/radieske/boliche-reservas-poc/internal/dashboard-service/cache"
	httpapi "github.com/radieske/boliche-reservas-poc/internal/dashboard-service/http"
	"github.com/radieske/boliche-reservas-poc/internal/dashboard-service/repo"
	"github.com/radieske/boliche-reservas-poc/internal/dashboard-service/ws"
	"github.com/radieske/boliche-reservas-poc/internal/shared/cache"
	"github.com/radieske/boliche-reservas-poc/internal/shared/config"
	"github.com/radieske/boliche-reservas-poc/internal/shared/db"
	"github.com/radieske/boliche-reservas-poc/internal/shared/logger"
	"github.com/radieske/boliche-reservas-poc/internal/shared/metrics"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	// conecta com db Postgres (sqlx, só leitura)
	pg, err := db.ConnectPostgresX(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	readRepo := &repo.ReadRepo{DB: pg}

	// conecta com cache Redis
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	wsClients := prometheus.NewGauge(prometheus.GaugeOpts{Name: "dashboard_ws_connections", Help: "painéis conectados via WebSocket"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "dashboard_cache_lookups_total", Help: "consultas ao cache por resultado"}, []string{"result"})
	prometheus.MustRegister(wsClients, cacheLookups)

	// feed ao vivo: Redis Pub/Sub -> Hub -> clientes WS
	hub := ws.NewHub(log, func(r *http.Request) bool { return true })
	hub.OnConnections = func(n int) { wsClients.Set(float64(n)) }
	ws.StartRedisSubscriber(ctx, log, redisClient, cfg.RedisPubSubChannel, hub)

	api := &httpapi.API{
		Log:      log,
		ReadRepo: readRepo,
		Cache:    dcache.New(redisClient),
		WS:       http.HandlerFunc(hub.HandleWS),
		OnCache: func(hit bool) {
			if hit {
				cacheLookups.WithLabelValues("hit").Inc()
				return
			}
			cacheLookups.WithLabelValues("miss").Inc()
		},
	}

	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, func(ctx context.Context) error {
		if err := readRepo.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("dashboard-service listening", zap.String("addr", srv.Addr), zap.String("channel", cfg.RedisPubSubChannel))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("dashboard-service stopped")
}
