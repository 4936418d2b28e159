package http

import (
	"errors"

	"github.com/radieske/boliche-reservas-poc/internal/reservation"
)

// outcomeOf rotula o erro para a métrica de resultados
func outcomeOf(err error) string {
	switch {
	case errors.Is(err, reservation.ErrConfiguration):
		return "configuration"
	case errors.Is(err, reservation.ErrNotFound):
		return "not_found"
	case errors.Is(err, reservation.ErrExpired):
		return "expired"
	case errors.Is(err, reservation.ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, reservation.ErrProviderSubmit):
		return "provider"
	default:
		return "error"
	}
}
