package events

import "time"

// Publicado no canal Redis "reservations_updates_broadcast" e repassado aos clientes WS do dashboard
type ReservationUpdated struct {
	ReservationID string    `json:"reservation_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Source        string    `json:"source"` // ex: "payment-webhook-service"
	UpdatedAt     time.Time `json:"updated_at"`
}
