package httpx

import (
	"encoding/json"
	"net/http"
)

const (
	allowHeaders = "authorization, x-client-info, apikey, content-type"
	allowMethods = "POST, OPTIONS"
)

// CORS libera qualquer origem e responde o preflight OPTIONS com "ok"
func CORS(h http.Handler) http.Handler { return CORSMethods(allowMethods, h) }

// CORSMethods é o mesmo wrapper com outra lista de métodos (gateway/dashboard)
func CORSMethods(methods string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		w.Header().Set("Access-Control-Allow-Methods", methods)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		h.ServeHTTP(w, r)
	})
}

// WriteJSON serializa a resposta em JSON e define o status HTTP
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError segue o contrato das funções: qualquer falha vira 400 {error}
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}
