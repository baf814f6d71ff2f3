package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-push-api/internal/application/registry"
	"github.com/go-push-api/internal/domain"
	"github.com/go-push-api/internal/pkg/validate"
	"github.com/go-push-api/internal/transport/http/middleware"
)

// PushTokenHandler handles push-token registration.
type PushTokenHandler struct {
	svc registry.Service
}

func NewPushTokenHandler(svc registry.Service) *PushTokenHandler {
	return &PushTokenHandler{svc: svc}
}

// Register upserts the caller's push token. The user identity comes from the
// verified claims — the body cannot register on behalf of another user.
func (h *PushTokenHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.RegisterTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	regID, err := h.svc.Register(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegistrationEnvelope{RegistrationID: regID})
}
