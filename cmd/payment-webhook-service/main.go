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
	"github.com/radieske/boliche-reservas-poc/internal/reservation/repo"
	"github.com/radieske/boliche-reservas-poc/internal/shared/cache"
	"github.com/radieske/boliche-reservas-poc/internal/shared/config"
	"github.com/radieske/boliche-reservas-poc/internal/shared/db"
	"github.com/radieske/boliche-reservas-poc/internal/shared/kafka"
	"github.com/radieske/boliche-reservas-poc/internal/shared/logger"
	"github.com/radieske/boliche-reservas-poc/internal/shared/metrics"
	"github.com/radieske/boliche-reservas-poc/internal/webhook-service/confirm"
	"github.com/radieske/boliche-reservas-poc/internal/webhook-service/dedup"
	whttp "github.com/radieske/boliche-reservas-poc/internal/webhook-service/http"
	"github.com/radieske/boliche-reservas-poc/internal/webhook-service/producer"
	"github.com/radieske/boliche-reservas-poc/internal/webhook-service/pubsub"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()
	store := repo.NewPostgres(pg)

	receiver := confirm.NewReceiver(log, store, mercadopago.New(cfg.MercadoPagoBaseURL))

	// Kafka writer (topic reservation_paid)
	writer := kafka.NewWriter(cfg.Brokers(), cfg.TopicReservationPaid)
	defer writer.Close()
	receiver.Publisher = producer.NewKafkaPublisher(writer)

	// Redis é auxiliar: sem ele a confirmação segue, só perde dedup e feed ao vivo
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Warn("redis unavailable, running without dedup/broadcast", zap.Error(err))
	} else {
		defer redisClient.Close()
		receiver.Dedup = dedup.NewRedis(redisClient, dedup.DefaultTTL)
		receiver.Broadcaster = pubsub.NewRedisBroadcaster(redisClient, cfg.RedisPubSubChannel)
	}

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_notifications_total",
		Help: "notificações do Mercado Pago por resultado",
	}, []string{"outcome"})
	prometheus.MustRegister(notifications)

	api := whttp.NewServer(log, receiver)
	api.OnResult = func(outcome string) { notifications.WithLabelValues(outcome).Inc() }

	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, func(ctx context.Context) error {
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	})

	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("payment-webhook-service listening",
			zap.String("addr", apiSrv.Addr),
			zap.String("publish", cfg.TopicReservationPaid),
		)
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api", zap.Error(err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("payment-webhook-service stopped")
}
