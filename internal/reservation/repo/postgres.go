package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/radieske/boliche-reservas-poc/internal/reservation"
)

// Postgres implementa o acesso às tabelas reservations, clients e configurations
// do banco gerenciado
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de reservas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const reservationColumns = `
	id, created_at, COALESCE(date::text, ''), COALESCE(time::text, ''),
	COALESCE(lanes, 0), COALESCE(people, 0), COALESCE(event_type, ''), total_value,
	COALESCE(status, ''), COALESCE(payment_status, ''), COALESCE(client_id::text, ''),
	COALESCE(client_name, ''), COALESCE(birthday_person, ''), COALESCE(table_reservation, false),
	COALESCE(table_seats, 0), COALESCE(observations, '')`

// AccessToken lê o token do Mercado Pago da tabela configurations.
// Contrato de singleton: exatamente uma linha, com token preenchido.
func (p *Postgres) AccessToken(ctx context.Context) (string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT COALESCE(mp_access_token, '') FROM configurations LIMIT 2`)
	if err != nil {
		return "", fmt.Errorf("%w: read configurations: %v", reservation.ErrDatabase, err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return "", fmt.Errorf("%w: scan configurations: %v", reservation.ErrDatabase, err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("%w: read configurations: %v", reservation.ErrDatabase, err)
	}
	return singletonToken(tokens)
}

func singletonToken(tokens []string) (string, error) {
	switch len(tokens) {
	case 0:
		return "", fmt.Errorf("%w: no configuration row", reservation.ErrConfiguration)
	case 1:
		t := strings.TrimSpace(tokens[0])
		if t == "" {
			return "", fmt.Errorf("%w: access token is empty", reservation.ErrConfiguration)
		}
		return t, nil
	default:
		return "", fmt.Errorf("%w: more than one configuration row", reservation.ErrConfiguration)
	}
}

// GetReservation busca a reserva pelo id
func (p *Postgres) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	var r reservation.Reservation
	err := p.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1`, id).Scan(
		&r.ID, &r.CreatedAt, &r.Date, &r.Time,
		&r.Lanes, &r.People, &r.EventType, &r.TotalValue,
		&r.Status, &r.PaymentStatus, &r.ClientID,
		&r.ClientName, &r.BirthdayPerson, &r.TableReservation,
		&r.TableSeats, &r.Observations,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reservation %s", reservation.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get reservation: %v", reservation.ErrDatabase, err)
	}
	return &r, nil
}

// GetClient busca o cliente pelo id
func (p *Postgres) GetClient(ctx context.Context, id string) (*reservation.Client, error) {
	var c reservation.Client
	err := p.db.QueryRowContext(ctx,
		`SELECT id::text, COALESCE(name, ''), COALESCE(email, '') FROM clients WHERE id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: client %s", reservation.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get client: %v", reservation.ErrDatabase, err)
	}
	return &c, nil
}

// MarkPaid confirma a reserva (Confirmada/Pago) e grava a nota de auditoria.
// Reaplicar o mesmo estado é inofensivo; retorna false se o id não existe.
func (p *Postgres) MarkPaid(ctx context.Context, id, paymentID string) (bool, error) {
	res, err := p.db.ExecContext(ctx,
		`UPDATE reservations SET status=$1, payment_status=$2, observations=$3 WHERE id=$4`,
		reservation.StatusConfirmed, reservation.PaymentPaid, reservation.PaymentNote(paymentID), id,
	)
	if err != nil {
		return false, fmt.Errorf("%w: update reservation: %v", reservation.ErrDatabase, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: update reservation: %v", reservation.ErrDatabase, err)
	}
	return n > 0, nil
}

// Ping é usado no /healthz
func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
