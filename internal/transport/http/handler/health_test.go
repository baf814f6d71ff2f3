package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/health-check/{action}", NewHealthHandler().Ping)

	req := httptest.NewRequest(http.MethodGet, "/v1/health-check/ping", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rr.Body.String())
}

func TestPing_UnknownAction(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/health-check/{action}", NewHealthHandler().Ping)

	req := httptest.NewRequest(http.MethodGet, "/v1/health-check/status", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
