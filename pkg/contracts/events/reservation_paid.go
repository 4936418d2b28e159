package events

import "time"

// Evento emitido pelo payment-webhook-service após confirmar o pagamento de uma reserva.
type ReservationPaid struct {
	ReservationID string    `json:"reservation_id"`
	PaymentID     string    `json:"payment_id"`
	AmountCents   int64     `json:"amount_cents"`
	Ts            time.Time `json:"ts"`
}
