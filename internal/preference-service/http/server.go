package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/boliche-reservas-poc/internal/preference-service/dto"
	"github.com/radieske/boliche-reservas-poc/internal/shared/httpx"
)

// Creator é a operação exposta por este serviço
type Creator interface {
	CreateCheckout(ctx context.Context, reservationID string) (string, error)
}

// Server expõe o endpoint de criação de preferência de pagamento
type Server struct {
	log     *zap.Logger
	creator Creator

	OnResult func(outcome string) // métricas por resultado
}

func NewServer(log *zap.Logger, c Creator) *Server { return &Server{log: log, creator: c} }

// Router: POST / (e OPTIONS via CORS)
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Post("/", s.createPreference)
	return httpx.CORS(r)
}

func (s *Server) createPreference(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, "bad_request", errors.New("invalid JSON body"))
		return
	}
	req.ReservationID = strings.TrimSpace(req.ReservationID)
	if req.ReservationID == "" {
		s.fail(w, "bad_request", errors.New("reservationId is required"))
		return
	}

	url, err := s.creator.CreateCheckout(r.Context(), req.ReservationID)
	if err != nil {
		s.log.Warn("create preference failed", zap.String("reservationId", req.ReservationID), zap.Error(err))
		s.fail(w, outcomeOf(err), err)
		return
	}

	s.observe("created")
	httpx.WriteJSON(w, http.StatusOK, dto.CreatePreferenceResponse{URL: url})
}

func (s *Server) fail(w http.ResponseWriter, outcome string, err error) {
	s.observe(outcome)
	httpx.WriteError(w, err)
}

func (s *Server) observe(outcome string) {
	if s.OnResult != nil {
		s.OnResult(outcome)
	}
}
