package topics

const (
	// Reservas
	ReservationPaid = "reservation_paid"

	// DLQs
	ReservationPaidDLQ = "reservation_paid_dlq"

	// Redis Pub/Sub (feed ao vivo do dashboard)
	ReservationsBroadcast = "reservations_updates_broadcast"
)
