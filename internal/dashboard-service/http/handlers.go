package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/boliche-reservas-poc/internal/dashboard-service/analytics"
	"github.com/radieske/boliche-reservas-poc/internal/dashboard-service/cache"
	"github.com/radieske/boliche-reservas-poc/internal/reservation"
	"github.com/radieske/boliche-reservas-poc/internal/shared/httpx"
)

type ReservationLister interface {
	ListByDateRange(ctx context.Context, from, to string) ([]reservation.Reservation, error)
}

type ResultCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

// API expõe as métricas da agenda e o faturamento
// Utiliza um repositório de leitura (Postgres) e cache (Redis)
type API struct {
	Log      *zap.Logger
	ReadRepo ReservationLister
	Cache    ResultCache  // opcional
	WS       http.Handler // feed ao vivo, opcional

	Now func() time.Time

	OnCache func(hit bool) // métricas
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Get("/v1/agenda", a.getAgenda)   // ?date=YYYY-MM-DD (default hoje)
	r.Get("/v1/revenue", a.getRevenue) // ?from=&to=
	if a.WS != nil {
		r.Handle("/ws", a.WS)
	}
	return httpx.CORSMethods("GET, OPTIONS", r)
}

func (a *API) getAgenda(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = a.now().Format("2006-01-02")
	}
	if _, _, err := analytics.ParseRange(date, date); err != nil {
		httpx.WriteError(w, errors.New("invalid date, expected YYYY-MM-DD"))
		return
	}

	key := cache.KeyAgenda(date)
	var cached analytics.AgendaMetrics
	if a.fromCache(r.Context(), key, &cached) {
		httpx.WriteJSON(w, http.StatusOK, cached)
		return
	}

	rs, err := a.ReadRepo.ListByDateRange(r.Context(), date, date)
	if err != nil {
		a.Log.Error("agenda query failed", zap.String("date", date), zap.Error(err))
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	m := analytics.Agenda(date, rs)
	a.toCache(r.Context(), key, m)
	httpx.WriteJSON(w, http.StatusOK, m)
}

func (a *API) getRevenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if _, _, err := analytics.ParseRange(from, to); err != nil {
		httpx.WriteError(w, err)
		return
	}

	key := cache.KeyRevenue(from, to)
	var cached analytics.RevenueAnalytics
	if a.fromCache(r.Context(), key, &cached) {
		httpx.WriteJSON(w, http.StatusOK, cached)
		return
	}

	rs, err := a.ReadRepo.ListByDateRange(r.Context(), from, to)
	if err != nil {
		a.Log.Error("revenue query failed", zap.String("from", from), zap.String("to", to), zap.Error(err))
		httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	rev := analytics.Revenue(from, to, rs)
	a.toCache(r.Context(), key, rev)
	httpx.WriteJSON(w, http.StatusOK, rev)
}

// falha de cache nunca derruba a consulta
func (a *API) fromCache(ctx context.Context, key string, dst any) bool {
	if a.Cache == nil {
		return false
	}
	ok, err := a.Cache.Get(ctx, key, dst)
	if err != nil {
		a.Log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		ok = false
	}
	if a.OnCache != nil {
		a.OnCache(ok)
	}
	return ok
}

func (a *API) toCache(ctx context.Context, key string, v any) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.Set(ctx, key, v, cache.TTL); err != nil {
		a.Log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (a *API) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
