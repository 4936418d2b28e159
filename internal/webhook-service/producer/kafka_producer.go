package producer

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	skafka "github.com/radieske/boliche-reservas-poc/internal/shared/kafka"
	"github.com/radieske/boliche-reservas-poc/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

// PublishReservationPaid usa o id da reserva como chave da mensagem
func (p *KafkaPublisher) PublishReservationPaid(ctx context.Context, e events.ReservationPaid) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return skafka.WriteJSON(ctx, p.Writer, e.ReservationID, b)
}
