package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/boliche-reservas-poc/internal/dashboard-service/analytics"
	"github.com/radieske/boliche-reservas-poc/internal/reservation"
)

type fakeRepo struct {
	rs    []reservation.Reservation
	err   error
	calls [][2]string
}

func (f *fakeRepo) ListByDateRange(ctx context.Context, from, to string) ([]reservation.Reservation, error) {
	f.calls = append(f.calls, [2]string{from, to})
	return f.rs, f.err
}

// memCache guarda o JSON como o Redis faria
type memCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m *memCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = b
	m.ttls[key] = ttl
	return nil
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func sample() []reservation.Reservation {
	return []reservation.Reservation{
		{ID: "R1", Date: "2026-10-24", Time: "20:00:00", Lanes: 2, People: 8, Status: reservation.StatusConfirmed, PaymentStatus: reservation.PaymentPaid, TotalValue: reservation.Price{Cents: 19990, Valid: true}},
		{ID: "R2", Date: "2026-10-24", Time: "18:00:00", Lanes: 1, People: 4, Status: reservation.StatusPending, PaymentStatus: reservation.PaymentPending, TotalValue: reservation.Price{Cents: 10000, Valid: true}},
	}
}

func TestAgenda_ComputesAndCaches(t *testing.T) {
	repo := &fakeRepo{rs: sample()}
	c := newMemCache()
	var hits []bool
	api := &API{Log: zap.NewNop(), ReadRepo: repo, Cache: c, OnCache: func(hit bool) { hits = append(hits, hit) }}
	h := api.Router()

	rec := get(t, h, "/v1/agenda?date=2026-10-24")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var m analytics.AgendaMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m.Total != 2 || m.LanesBooked != 3 || m.Paid != 1 {
		t.Fatalf("unexpected metrics %+v", m)
	}
	if c.ttls["dashboard:agenda:2026-10-24"] != 30*time.Second {
		t.Fatalf("expected result cached for 30s, got %v", c.ttls)
	}

	rec = get(t, h, "/v1/agenda?date=2026-10-24")
	if rec.Code != http.StatusOK || len(repo.calls) != 1 {
		t.Fatalf("second request should come from cache: code=%d calls=%d", rec.Code, len(repo.calls))
	}
	if len(hits) != 2 || hits[0] || !hits[1] {
		t.Fatalf("unexpected cache observations %v", hits)
	}
}

func TestAgenda_DefaultsToToday(t *testing.T) {
	repo := &fakeRepo{}
	api := &API{Log: zap.NewNop(), ReadRepo: repo, Now: func() time.Time { return time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC) }}

	if rec := get(t, api.Router(), "/v1/agenda"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(repo.calls) != 1 || repo.calls[0] != [2]string{"2026-10-18", "2026-10-18"} {
		t.Fatalf("unexpected query %v", repo.calls)
	}
}

func TestAgenda_InvalidDate(t *testing.T) {
	api := &API{Log: zap.NewNop(), ReadRepo: &fakeRepo{}}
	if rec := get(t, api.Router(), "/v1/agenda?date=24/10/2026"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRevenue(t *testing.T) {
	repo := &fakeRepo{rs: sample()}
	api := &API{Log: zap.NewNop(), ReadRepo: repo}
	h := api.Router()

	rec := get(t, h, "/v1/revenue?from=2026-10-01&to=2026-10-31")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var rev analytics.RevenueAnalytics
	if err := json.Unmarshal(rec.Body.Bytes(), &rev); err != nil {
		t.Fatal(err)
	}
	if rev.TotalCents != 19990 || rev.PendingCents != 10000 || rev.PaidCount != 1 {
		t.Fatalf("unexpected revenue %+v", rev)
	}

	for _, url := range []string{"/v1/revenue", "/v1/revenue?from=2026-10-31&to=2026-10-01", "/v1/revenue?from=x&to=y"} {
		if rec := get(t, h, url); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", url, rec.Code)
		}
	}
	if len(repo.calls) != 1 {
		t.Fatalf("invalid ranges must not reach the database, calls=%v", repo.calls)
	}
}

func TestRevenue_DatabaseFailure(t *testing.T) {
	api := &API{Log: zap.NewNop(), ReadRepo: &fakeRepo{err: fmt.Errorf("%w: timeout", reservation.ErrDatabase)}}
	rec := get(t, api.Router(), "/v1/revenue?from=2026-10-01&to=2026-10-31")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) (bool, error) { return false, errors.New("redis down") }
func (brokenCache) Set(context.Context, string, any, time.Duration) error {
	return errors.New("redis down")
}

func TestAgenda_CacheFailureFallsBackToDatabase(t *testing.T) {
	repo := &fakeRepo{rs: sample()}
	api := &API{Log: zap.NewNop(), ReadRepo: repo, Cache: brokenCache{}}
	if rec := get(t, api.Router(), "/v1/agenda?date=2026-10-24"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(repo.calls) != 1 {
		t.Fatal("expected database query")
	}
}
