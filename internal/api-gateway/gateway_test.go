package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// echo responde com método e path recebidos
func echo(name string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_, _ = io.WriteString(w, name+" "+r.Method+" "+r.URL.RequestURI())
	}))
}

func TestRouter_ProxiesByPrefix(t *testing.T) {
	pref, hook, email, dash := echo("preference"), echo("webhook"), echo("email"), echo("dashboard")
	defer pref.Close()
	defer hook.Close()
	defer email.Close()
	defer dash.Close()

	var seen []string
	h, err := NewRouter(zap.NewNop(), Targets{Preference: pref.URL, Webhook: hook.URL, Email: email.URL, Dashboard: dash.URL},
		func(prefix string, status int) { seen = append(seen, prefix) })
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct{ method, path, want string }{
		{http.MethodPost, "/api/payments/preference", "preference POST /"},
		{http.MethodPost, "/api/payments/webhook", "webhook POST /"},
		{http.MethodPost, "/api/notifications/email/", "email POST /"},
		{http.MethodGet, "/api/dashboard/v1/revenue?from=2026-10-01&to=2026-10-31", "dashboard GET /v1/revenue?from=2026-10-01&to=2026-10-31"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, strings.NewReader("{}")))
		if rec.Code != http.StatusOK || rec.Body.String() != c.want {
			t.Fatalf("%s %s: got %d %q", c.method, c.path, rec.Code, rec.Body.String())
		}
		if got := rec.Header().Values("Access-Control-Allow-Origin"); len(got) != 1 {
			t.Fatalf("expected a single CORS origin header, got %v", got)
		}
	}
	if len(seen) != len(cases) {
		t.Fatalf("expected proxy observations, got %v", seen)
	}
}

func TestRouter_PreflightAndBadGateway(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	url := down.URL
	down.Close()

	h, err := NewRouter(zap.NewNop(), Targets{Preference: url, Webhook: url, Email: url, Dashboard: url}, nil)
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/payments/preference", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected preflight %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/payments/preference", strings.NewReader("{}")))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestNewRouter_RejectsInvalidTargets(t *testing.T) {
	if _, err := NewRouter(zap.NewNop(), Targets{Preference: "localhost:8084"}, nil); err == nil {
		t.Fatal("expected error for target without scheme")
	}
}
