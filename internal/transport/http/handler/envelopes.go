package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-notify-links/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// LiveEnvelope lists the notifications currently displayed.
type LiveEnvelope struct {
	Count int          `json:"count"`
	Data  []LiveRecord `json:"data"`
}

// LiveRecord is one displayed notification.
type LiveRecord struct {
	ID        domain.NotificationID `json:"id"`
	ChannelID string                `json:"channel_id"`
}

// ActionRequest reports a triggered notification action.
type ActionRequest struct {
	ActionID       string                `json:"action_id" validate:"required,max=64"`
	Link           string                `json:"link" validate:"required,max=2048"`
	NotificationID domain.NotificationID `json:"notification_id"`
}

// ActionEnvelope returns the resolved navigation target.
type ActionEnvelope struct {
	ActionID string                `json:"action_id"`
	Target   domain.DeepLinkTarget `json:"target"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, ErrorCode: status})
}

// httpError maps domain errors to status codes. More specific sentinels are
// checked before the ones they wrap.
func httpError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownChannel):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrMalformedLink), errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrIdentifierExhausted):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, msg)
}
