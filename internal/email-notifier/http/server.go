package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/boliche-reservas-poc/internal/email-notifier/dto"
	"github.com/radieske/boliche-reservas-poc/internal/email-notifier/notify"
	"github.com/radieske/boliche-reservas-poc/internal/reservation"
	"github.com/radieske/boliche-reservas-poc/internal/shared/httpx"
)

type Notifier interface {
	Notify(ctx context.Context, r reservation.Reservation) (notify.Outcome, error)
}

// Server recebe o trigger do banco quando uma reserva muda
type Server struct {
	log      *zap.Logger
	notifier Notifier

	OnResult func(outcome string) // métricas
}

func NewServer(log *zap.Logger, n Notifier) *Server { return &Server{log: log, notifier: n} }

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Post("/", s.trigger)
	return httpx.CORS(r)
}

func (s *Server) trigger(w http.ResponseWriter, r *http.Request) {
	var p dto.TriggerPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.observe("bad_request")
		httpx.WriteError(w, errors.New("invalid JSON body"))
		return
	}
	if p.Record == nil || p.Record.ID == "" {
		s.observe("bad_request")
		httpx.WriteError(w, errors.New("record is required"))
		return
	}

	// UPDATE que não muda o pagamento (ex.: editar observações) não reenvia email
	if p.Record.IsPaid() && p.OldRecord != nil && p.OldRecord.IsPaid() {
		s.observe("skipped")
		httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: notify.MessageAlreadyPaid})
		return
	}

	out, err := s.notifier.Notify(r.Context(), *p.Record)
	if err != nil {
		s.log.Error("email notification failed", zap.String("reservationId", p.Record.ID), zap.Error(err))
		s.observe("error")
		httpx.WriteError(w, err)
		return
	}

	if !out.Sent {
		s.observe("skipped")
		httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: out.Message})
		return
	}
	s.observe("sent")
	httpx.WriteJSON(w, http.StatusOK, dto.SentResponse{Success: true, ID: out.EmailID})
}

func (s *Server) observe(outcome string) {
	if s.OnResult != nil {
		s.OnResult(outcome)
	}
}
