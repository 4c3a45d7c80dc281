package handler

import (
	"cmp"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-notify-links/internal/application/notification"
	"github.com/go-notify-links/internal/domain"
	"github.com/go-notify-links/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	d, err := h.svc.Notify(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *NotificationHandler) List(w http.ResponseWriter, _ *http.Request) {
	live := h.svc.Live()
	out := LiveEnvelope{Count: len(live), Data: make([]LiveRecord, 0, len(live))}
	for id, ch := range live {
		out.Data = append(out.Data, LiveRecord{ID: id, ChannelID: ch})
	}
	slices.SortFunc(out.Data, func(a, b LiveRecord) int { return cmp.Compare(a.ID, b.ID) })
	writeJSON(w, http.StatusOK, out)
}

func (h *NotificationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := notificationID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Cancel(r.Context(), id); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "notification cancelled"})
}

func (h *NotificationHandler) CancelAll(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelAll(r.Context()); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "all notifications cancelled"})
}

// Dismiss records a dismissal the platform performed on its own.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, ok := notificationID(w, r)
	if !ok {
		return
	}
	if !h.svc.Dismissed(id) {
		writeError(w, http.StatusNotFound, "notification not live")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "notification dismissed"})
}

func notificationID(w http.ResponseWriter, r *http.Request) (domain.NotificationID, bool) {
	n, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return 0, false
	}
	return domain.NotificationID(n), true
}
