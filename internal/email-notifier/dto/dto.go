package dto

import "github.com/radieske/boliche-reservas-poc/internal/reservation"

// TriggerPayload é o corpo enviado pelo webhook do banco ao atualizar uma reserva
type TriggerPayload struct {
	Type      string                   `json:"type,omitempty"` // INSERT | UPDATE
	Table     string                   `json:"table,omitempty"`
	Schema    string                   `json:"schema,omitempty"`
	Record    *reservation.Reservation `json:"record"`
	OldRecord *reservation.Reservation `json:"old_record,omitempty"`
}

type SentResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
