package dto

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"

	ActionPaymentCreated = "payment.created"
	ActionPaymentUpdated = "payment.updated"
)

// Payment é o recurso GET /v1/payments/{id}; é a única fonte confiável de status
type Payment struct {
	ID                FlexibleID `json:"id"`
	Status            string     `json:"status"`
	StatusDetail      string     `json:"status_detail"`
	ExternalReference string     `json:"external_reference"`
	TransactionAmount float64    `json:"transaction_amount"`
}

// Notification é o corpo enviado pelo provedor ao webhook
type Notification struct {
	Action string           `json:"action"`
	Type   string           `json:"type,omitempty"`
	Data   NotificationData `json:"data"`
}

type NotificationData struct {
	ID FlexibleID `json:"id"`
	// qualquer outro campo (inclusive um "status") é ignorado de propósito
}

// FlexibleID aceita id como string ou número JSON
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

func (f FlexibleID) String() string { return string(f) }

// ErrorResponse é o formato de erro da API ({message, error, status})
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}
