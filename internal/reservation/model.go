package reservation

import "strings"

// Valores gravados pelo painel em status / payment_status
const (
	StatusPending   = "Pendente"
	StatusConfirmed = "Confirmada"
	StatusCancelled = "Cancelada"

	PaymentPending = "Pendente"
	PaymentPaid    = "Pago"
)

// Reservation é a linha da tabela reservations, também usada como payload
// do trigger do banco ({record: ...}).
type Reservation struct {
	ID               string    `json:"id" db:"id"`
	CreatedAt        Timestamp `json:"created_at" db:"created_at"`
	Date             string    `json:"date" db:"date"` // YYYY-MM-DD
	Time             string    `json:"time" db:"time"` // HH:MM
	Lanes            int       `json:"lanes" db:"lanes"`
	People           int       `json:"people" db:"people"`
	EventType        string    `json:"event_type" db:"event_type"`
	TotalValue       Price     `json:"total_value" db:"total_value"`
	Status           string    `json:"status" db:"status"`
	PaymentStatus    string    `json:"payment_status" db:"payment_status"`
	ClientID         string    `json:"client_id" db:"client_id"`
	ClientName       string    `json:"client_name" db:"client_name"`
	BirthdayPerson   string    `json:"birthday_person" db:"birthday_person"`
	TableReservation bool      `json:"table_reservation" db:"table_reservation"`
	TableSeats       int       `json:"table_seats" db:"table_seats"`
	Observations     string    `json:"observations" db:"observations"`
}

// Client é somente leitura para este fluxo
type Client struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// IsPaid aceita o valor gravado pelo painel ("Pago") e o legado "paid"
func (r Reservation) IsPaid() bool {
	s := strings.TrimSpace(r.PaymentStatus)
	return strings.EqualFold(s, PaymentPaid) || strings.EqualFold(s, "paid")
}

func (r Reservation) IsCancelled() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), StatusCancelled)
}

// IsBirthday: tipo de evento de aniversário ou aniversariante informado
func (r Reservation) IsBirthday() bool {
	if strings.TrimSpace(r.BirthdayPerson) != "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.EventType), "anivers")
}

// PaymentNote é a nota de auditoria gravada em observations ao confirmar o pagamento
func PaymentNote(paymentID string) string {
	return "Pagamento confirmado via Mercado Pago. ID do pagamento: " + paymentID
}
