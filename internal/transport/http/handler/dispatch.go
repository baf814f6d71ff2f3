package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-push-api/internal/application/dispatcher"
	"github.com/go-push-api/internal/application/export"
	"github.com/go-push-api/internal/application/registry"
	"github.com/go-push-api/internal/domain"
	"github.com/go-push-api/internal/pkg/validate"
)

// DispatchHandler exposes the trusted backend-to-backend surface: dispatch,
// registry inspection, and audit export.
type DispatchHandler struct {
	dispatcher dispatcher.Service
	registry   registry.Service
	exporter   export.Service
}

func NewDispatchHandler(d dispatcher.Service, r registry.Service, e export.Service) *DispatchHandler {
	return &DispatchHandler{dispatcher: d, registry: r, exporter: e}
}

// Send dispatches to a single recipient. The raw transport receipt is
// returned on success; a transport failure has already been logged as a
// failed notification by the time the error surfaces here.
func (h *DispatchHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	receipt, err := h.dispatcher.SendOne(r.Context(), req.RecipientID, req.Title, req.Body, req.Data)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *DispatchHandler) SendBulk(w http.ResponseWriter, r *http.Request) {
	var req domain.SendBulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	results := h.dispatcher.SendBulk(r.Context(), req.RecipientIDs, req.Title, req.Body, req.Data)
	writeJSON(w, http.StatusOK, results)
}

func (h *DispatchHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req domain.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := h.dispatcher.SendToAll(r.Context(), req.Title, req.Body, req.Data)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *DispatchHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.registry.ListAll(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	if tokens == nil {
		tokens = []domain.PushToken{}
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (h *DispatchHandler) LookupToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.registry.Lookup(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"push_token": token})
}

// ReverseLookup resolves a push address back to the user who registered it.
// Useful when a transport-side bounce only carries the device token.
func (h *DispatchHandler) ReverseLookup(w http.ResponseWriter, r *http.Request) {
	reg, err := h.registry.ReverseLookup(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (h *DispatchHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipientID string `json:"recipient_id"`
	}
	// An empty body means "export everything".
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	key, count, err := h.exporter.Export(r.Context(), req.RecipientID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExportEnvelope{Key: key, Count: count})
}
