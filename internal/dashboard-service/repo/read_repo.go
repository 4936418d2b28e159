package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/radieske/boliche-reservas-poc/internal/reservation"
)

// ReadRepo faz as consultas de leitura do dashboard
type ReadRepo struct {
	DB *sqlx.DB
}

const listByRange = `
	SELECT id, created_at,
		COALESCE("date"::text, '') AS "date", COALESCE("time"::text, '') AS "time",
		COALESCE(lanes, 0) AS lanes, COALESCE(people, 0) AS people,
		COALESCE(event_type, '') AS event_type, total_value,
		COALESCE(status, '') AS status, COALESCE(payment_status, '') AS payment_status,
		COALESCE(client_id::text, '') AS client_id, COALESCE(client_name, '') AS client_name,
		COALESCE(birthday_person, '') AS birthday_person,
		COALESCE(table_reservation, false) AS table_reservation,
		COALESCE(table_seats, 0) AS table_seats, COALESCE(observations, '') AS observations
	FROM reservations
	WHERE "date" BETWEEN $1 AND $2
	ORDER BY "date", "time";
`

// ListByDateRange devolve as reservas com data entre from e to (inclusive)
func (r *ReadRepo) ListByDateRange(ctx context.Context, from, to string) ([]reservation.Reservation, error) {
	var out []reservation.Reservation
	if err := r.DB.SelectContext(ctx, &out, listByRange, from, to); err != nil {
		return nil, fmt.Errorf("%w: list reservations: %v", reservation.ErrDatabase, err)
	}
	return out, nil
}

func (r *ReadRepo) Ping(ctx context.Context) error { return r.DB.PingContext(ctx) }
