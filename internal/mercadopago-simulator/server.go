package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	mpdto "github.com/radieske/boliche-reservas-poc/internal/mercadopago/dto"
	sdto "github.com/radieske/boliche-reservas-poc/internal/mercadopago-simulator/dto"
)

// Server imita o pedaço da API do Mercado Pago usado pelos serviços
type Server struct {
	log     *zap.Logger
	store   *Store
	baseURL string       // base pública usada no init_point
	http    *http.Client // chamadas à notification_url

	OnEvent func(kind string) // métricas: preference | payment | notify_ok | notify_failed
}

func NewServer(log *zap.Logger, store *Store, baseURL string) *Server {
	return &Server{
		log:     log,
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(requireBearer)
		r.Post("/checkout/preferences", s.createPreference)
		r.Get("/v1/payments/{id}", s.getPayment)
	})
	r.Post("/simulate/pay", s.simulatePay)
	return r
}

func (s *Server) createPreference(w http.ResponseWriter, r *http.Request) {
	var req mpdto.PreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "bad_request")
		return
	}
	if err := validatePreference(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_items")
		return
	}

	id := s.store.SavePreference(req)
	s.observe("preference")
	s.log.Info("preference created",
		zap.String("preferenceId", id),
		zap.String("externalReference", req.ExternalReference),
		zap.String("idempotencyKey", r.Header.Get("X-Idempotency-Key")),
	)
	writeJSON(w, http.StatusCreated, mpdto.PreferenceResponse{
		ID:               id,
		InitPoint:        s.baseURL + "/checkout/v1/redirect?pref_id=" + id,
		SandboxInitPoint: s.baseURL + "/checkout/v1/redirect?sandbox=true&pref_id=" + id,
	})
}

func (s *Server) getPayment(w http.ResponseWriter, r *http.Request) {
	p, ok := s.store.Payment(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Payment not found", "not_found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// simulatePay cria o pagamento e avisa a notification_url como o provedor faria
func (s *Server) simulatePay(w http.ResponseWriter, r *http.Request) {
	var req sdto.SimulatePayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "bad_request")
		return
	}
	pref, ok := s.store.Preference(req.PreferenceID)
	if !ok {
		writeError(w, http.StatusNotFound, "Preference not found", "not_found")
		return
	}
	status := req.Status
	if status == "" {
		status = mpdto.StatusApproved
	}

	p := s.store.CreatePayment(pref, status)
	s.observe("payment")
	resp := sdto.SimulatePayResponse{PaymentID: p.ID.String(), Status: p.Status}

	if pref.NotificationURL != "" {
		code, err := s.notify(r.Context(), pref.NotificationURL, p.ID.String())
		resp.Notified = err == nil
		resp.NotifyResponse = code
		if err != nil {
			resp.NotifyError = err.Error()
			s.observe("notify_failed")
			s.log.Warn("notification failed", zap.String("paymentId", p.ID.String()), zap.Error(err))
		} else {
			s.observe("notify_ok")
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) notify(ctx context.Context, url, paymentID string) (int, error) {
	body, _ := json.Marshal(mpdto.Notification{
		Action: mpdto.ActionPaymentCreated,
		Type:   "payment",
		Data:   mpdto.NotificationData{ID: mpdto.FlexibleID(paymentID)},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := s.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return res.StatusCode, errors.New("webhook http " + res.Status)
	}
	return res.StatusCode, nil
}

func validatePreference(p mpdto.PreferenceRequest) error {
	if len(p.Items) == 0 {
		return errors.New("items must not be empty")
	}
	for _, it := range p.Items {
		if it.UnitPrice <= 0 {
			return errors.New("unit_price must be positive")
		}
		if it.Quantity <= 0 {
			return errors.New("quantity must be positive")
		}
	}
	return nil
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if strings.TrimSpace(tok) == "" || tok == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "invalid access token", "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, mpdto.ErrorResponse{Message: msg, Error: code, Status: status})
}

func (s *Server) observe(kind string) {
	if s.OnEvent != nil {
		s.OnEvent(kind)
	}
}
