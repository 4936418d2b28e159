package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/boliche-reservas-poc/internal/email-notifier/notify"
	"github.com/radieske/boliche-reservas-poc/internal/reservation"
	skafka "github.com/radieske/boliche-reservas-poc/internal/shared/kafka"
	"github.com/radieske/boliche-reservas-poc/pkg/contracts/events"
)

const (
	defaultRetries = 3
	readBackoff    = 500 * time.Millisecond
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ReservationLoader interface {
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
}

type Notifier interface {
	Notify(ctx context.Context, r reservation.Reservation) (notify.Outcome, error)
}

// DeadLetter é o que vai para o tópico de DLQ quando o email não pôde ser enviado
type DeadLetter struct {
	Event  events.ReservationPaid `json:"event"`
	Error  string                 `json:"error"`
	Failed time.Time              `json:"failed_at"`
}

// Processor consome reservation_paid e dispara o email de confirmação
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log      *zap.Logger
	Reader   MessageReader
	Loader   ReservationLoader
	Notifier Notifier
	DLQ      skafka.MessageWriter // opcional

	Retries int           // tentativas de envio antes da DLQ (default 3)
	Backoff time.Duration // espera base entre tentativas

	OnConsumed func()       // métricas (counter++)
	OnSent     func()       // métricas
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(readBackoff):
			}
			continue
		}
		if p.OnConsumed != nil {
			p.OnConsumed()
		}
		_ = p.Handle(ctx, m)
	}
}

// Handle processa uma mensagem; erros já foram logados e, quando cabível, enviados à DLQ
func (p *Processor) Handle(ctx context.Context, m kafka.Message) error {
	var ev events.ReservationPaid
	if err := json.Unmarshal(m.Value, &ev); err != nil || ev.ReservationID == "" {
		p.Log.Warn("invalid message", zap.ByteString("key", m.Key), zap.Error(err))
		p.fail("decode")
		return fmt.Errorf("invalid reservation_paid message: %v", err)
	}

	res, err := p.Loader.GetReservation(ctx, ev.ReservationID)
	if errors.Is(err, reservation.ErrNotFound) {
		// reserva removida depois do pagamento: nada a enviar
		p.Log.Warn("reservation not found", zap.String("reservationId", ev.ReservationID))
		p.fail("not_found")
		return err
	}
	if err != nil {
		p.Log.Error("load reservation failed", zap.String("reservationId", ev.ReservationID), zap.Error(err))
		p.fail("db")
		p.deadLetter(ctx, ev, err)
		return err
	}

	out, err := p.notifyWithRetry(ctx, *res)
	if err != nil {
		p.Log.Error("email send failed", zap.String("reservationId", ev.ReservationID), zap.Error(err))
		p.fail("send")
		p.deadLetter(ctx, ev, err)
		return err
	}
	if out.Sent {
		p.Log.Info("confirmation email sent",
			zap.String("reservationId", ev.ReservationID),
			zap.String("paymentId", ev.PaymentID),
			zap.String("emailId", out.EmailID),
		)
		if p.OnSent != nil {
			p.OnSent()
		}
		return nil
	}
	p.Log.Info("email skipped", zap.String("reservationId", ev.ReservationID), zap.String("reason", out.Message))
	return nil
}

// notifyWithRetry só repete falhas do provedor de email
func (p *Processor) notifyWithRetry(ctx context.Context, r reservation.Reservation) (notify.Outcome, error) {
	retries := p.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	var (
		out notify.Outcome
		err error
	)
	for i := 0; i < retries; i++ {
		if i > 0 && p.Backoff > 0 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(time.Duration(i) * p.Backoff):
			}
		}
		out, err = p.Notifier.Notify(ctx, r)
		if err == nil || !errors.Is(err, reservation.ErrEmailProvider) {
			return out, err
		}
	}
	return out, err
}

func (p *Processor) deadLetter(ctx context.Context, ev events.ReservationPaid, cause error) {
	if p.DLQ == nil {
		return
	}
	b, _ := json.Marshal(DeadLetter{Event: ev, Error: cause.Error(), Failed: time.Now().UTC()})
	if err := skafka.WriteJSON(ctx, p.DLQ, ev.ReservationID, b); err != nil {
		p.Log.Error("dlq write failed", zap.String("reservationId", ev.ReservationID), zap.Error(err))
		p.fail("dlq")
	}
}

func (p *Processor) fail(phase string) {
	if p.OnError != nil {
		p.OnError(phase)
	}
}
