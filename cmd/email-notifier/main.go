package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/boliche-reservas-poc/internal/email-notifier/consumer"
	ehttp "github.com/radieske/boliche-reservas-poc/internal/email-notifier/http"
	"github.com/radieske/boliche-reservas-poc/internal/email-notifier/notify"
	"github.com/radieske/boliche-reservas-poc/internal/reservation/repo"
	"github.com/radieske/boliche-reservas-poc/internal/resend"
	"github.com/radieske/boliche-reservas-poc/internal/shared/config"
	"github.com/radieske/boliche-reservas-poc/internal/shared/db"
	"github.com/radieske/boliche-reservas-poc/internal/shared/kafka"
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

	if cfg.ResendAPIKey == "" {
		log.Fatal("RESEND_API_KEY is required")
	}

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()
	store := repo.NewPostgres(pg)

	notifier := notify.NewNotifier(log, store, resend.New(cfg.ResendBaseURL, cfg.ResendAPIKey), cfg.EmailFrom)

	// Métricas Prometheus
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "email_trigger_requests_total",
		Help: "chamadas do trigger do banco por resultado",
	}, []string{"outcome"})
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "email_events_consumed_total", Help: "eventos reservation_paid consumidos"})
	sent := prometheus.NewCounter(prometheus.CounterOpts{Name: "email_events_sent_total", Help: "emails enviados a partir do Kafka"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "email_consumer_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(results, consumed, sent, errorsBy)

	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, store.Ping)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup

	// Consumer Kafka (consumer group email-notifier) com DLQ
	if cfg.ConsumesKafka() {
		reader := kafka.NewReader(cfg.Brokers(), cfg.TopicReservationPaid, "email-notifier")
		defer reader.Close()
		dlq := kafka.NewWriter(cfg.Brokers(), cfg.TopicReservationPaidDLQ)
		defer dlq.Close()

		proc := &consumer.Processor{
			Log:        log,
			Reader:     reader,
			Loader:     store,
			Notifier:   notifier,
			DLQ:        dlq,
			Backoff:    300 * time.Millisecond,
			OnConsumed: func() { consumed.Inc() },
			OnSent:     func() { sent.Inc() },
			OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("email consumer started", zap.String("consume", cfg.TopicReservationPaid), zap.String("dlq", cfg.TopicReservationPaidDLQ))
			if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("email consumer stopped with error", zap.Error(err))
			}
		}()
	}

	// Endpoint do trigger do banco
	var apiSrv *http.Server
	if cfg.ServesTrigger() {
		api := ehttp.NewServer(log, notifier)
		api.OnResult = func(outcome string) { results.WithLabelValues(outcome).Inc() }
		apiSrv = &http.Server{
			Addr:              ":" + cfg.HTTPPort,
			Handler:           api.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("email-notifier listening", zap.String("addr", apiSrv.Addr))
			if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal("api", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if apiSrv != nil {
		_ = apiSrv.Shutdown(shutdownCtx)
	}
	_ = metricsSrv.Shutdown(shutdownCtx)
	wg.Wait()
	log.Info("email-notifier stopped")
}
