package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-notify-links/internal/domain"
	"github.com/go-notify-links/internal/pkg/validate"
)

// ActionRouter resolves a triggered action into a navigation target.
type ActionRouter interface {
	Trigger(ctx context.Context, actionID, encoded string, nid domain.NotificationID) (domain.DeepLinkTarget, error)
}

// ActionHandler accepts action reports from clients that cannot hold a
// WebSocket open.
type ActionHandler struct {
	router ActionRouter
}

func NewActionHandler(router ActionRouter) *ActionHandler {
	return &ActionHandler{router: router}
}

func (h *ActionHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	target, err := h.router.Trigger(r.Context(), req.ActionID, req.Link, req.NotificationID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ActionEnvelope{ActionID: req.ActionID, Target: target})
}
