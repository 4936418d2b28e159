package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	mpdto "github.com/radieske/boliche-reservas-poc/internal/mercadopago/dto"
	"github.com/radieske/boliche-reservas-poc/internal/shared/httpx"
	"github.com/radieske/boliche-reservas-poc/internal/webhook-service/confirm"
)

type Receiver interface {
	Handle(ctx context.Context, n mpdto.Notification) (confirm.Result, error)
}

// Server recebe as notificações do Mercado Pago
type Server struct {
	log      *zap.Logger
	receiver Receiver

	OnResult func(outcome string) // métricas
}

func NewServer(log *zap.Logger, r Receiver) *Server { return &Server{log: log, receiver: r} }

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Post("/", s.notify)
	return httpx.CORS(r)
}

// notify responde 400 nas falhas duras para o provedor reenviar
func (s *Server) notify(w http.ResponseWriter, r *http.Request) {
	var n mpdto.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		s.observe("bad_request")
		httpx.WriteError(w, errors.New("invalid JSON body"))
		return
	}

	res, err := s.receiver.Handle(r.Context(), n)
	if err != nil {
		s.log.Error("webhook failed",
			zap.String("action", n.Action),
			zap.String("paymentId", n.Data.ID.String()),
			zap.Error(err),
		)
		s.observe("error")
		httpx.WriteError(w, err)
		return
	}

	switch {
	case res.Confirmed:
		s.observe("confirmed")
	case res.Message == confirm.MessageIgnored:
		s.observe("ignored")
	default:
		s.observe("noop")
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": res.Message})
}

func (s *Server) observe(outcome string) {
	if s.OnResult != nil {
		s.OnResult(outcome)
	}
}
