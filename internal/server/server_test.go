package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/config"
)

func TestServer_HealthAndCORS(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	h := NewServer(cfg).Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status want=200 got=%d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("CORS header got=%q", got)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/pricelist/full", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status want=204 got=%d", w.Code)
	}
}

func TestServer_ShutdownBeforeRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	if err := NewServer(cfg).Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
