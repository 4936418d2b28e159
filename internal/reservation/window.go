package reservation

import "time"

// PaymentWindow: a reserva só pode ser paga até 30 minutos após created_at
const PaymentWindow = 30 * time.Minute

// PaymentDeadline também é enviado ao provedor como expiration_date_to
func (r Reservation) PaymentDeadline() time.Time {
	return r.CreatedAt.Time.Add(PaymentWindow)
}

// Payable vale enquanto now <= created_at + 30min, independente do payment_status
func (r Reservation) Payable(now time.Time) bool {
	return !now.After(r.PaymentDeadline())
}
