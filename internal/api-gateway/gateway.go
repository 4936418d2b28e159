package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/radieske/boliche-reservas-poc/internal/shared/httpx"
)

// Targets são as URLs internas de cada serviço
type Targets struct {
	Preference string
	Webhook    string
	Email      string
	Dashboard  string
}

// rota pública -> serviço
type route struct {
	prefix string
	target string
}

func (t Targets) routes() []route {
	return []route{
		{"/api/payments/preference", t.Preference},
		{"/api/payments/webhook", t.Webhook},
		{"/api/notifications/email", t.Email},
		{"/api/dashboard", t.Dashboard},
	}
}

// NewRouter monta o proxy reverso; OnProxy recebe o prefixo e o status devolvido (métricas)
func NewRouter(log *zap.Logger, t Targets, onProxy func(prefix string, status int)) (http.Handler, error) {
	mux := http.NewServeMux()
	for _, rt := range t.routes() {
		u, err := url.Parse(rt.target)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid target for %s: %q", rt.prefix, rt.target)
		}
		h := strip(rt.prefix, rp(log, rt.prefix, u, onProxy))
		mux.Handle(rt.prefix, h)
		mux.Handle(rt.prefix+"/", h)
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return httpx.CORSMethods("GET, POST, OPTIONS", mux), nil
}

func rp(log *zap.Logger, prefix string, to *url.URL, onProxy func(string, int)) *httputil.ReverseProxy {
	p := httputil.NewSingleHostReverseProxy(to)
	p.ModifyResponse = func(res *http.Response) error {
		// o gateway já responde CORS; evita cabeçalhos duplicados vindos do serviço
		res.Header.Del("Access-Control-Allow-Origin")
		res.Header.Del("Access-Control-Allow-Headers")
		res.Header.Del("Access-Control-Allow-Methods")
		if onProxy != nil {
			onProxy(prefix, res.StatusCode)
		}
		return nil
	}
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn("upstream unavailable", zap.String("prefix", prefix), zap.String("target", to.Host), zap.Error(err))
		if onProxy != nil {
			onProxy(prefix, http.StatusBadGateway)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream unavailable"}`))
	}
	return p
}

// strip remove o prefixo público e garante um path absoluto para o serviço
func strip(prefix string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r2 := new(http.Request)
		*r2 = *r
		u := *r.URL
		u.Path = strings.TrimPrefix(r.URL.Path, prefix)
		if !strings.HasPrefix(u.Path, "/") {
			u.Path = "/" + u.Path
		}
		u.RawPath = ""
		r2.URL = &u
		h.ServeHTTP(w, r2)
	})
}
