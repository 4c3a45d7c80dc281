package handler

import (
	"net/http"

	"github.com/go-notify-links/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ChannelCatalog is what the channel endpoints read from.
type ChannelCatalog interface {
	List() []domain.ChannelDescriptor
	Lookup(id string) (domain.ChannelDescriptor, error)
}

// ChannelHandler exposes the registered channels read-only.
type ChannelHandler struct {
	channels ChannelCatalog
}

func NewChannelHandler(channels ChannelCatalog) *ChannelHandler {
	return &ChannelHandler{channels: channels}
}

func (h *ChannelHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.channels.List())
}

func (h *ChannelHandler) Get(w http.ResponseWriter, r *http.Request) {
	ch, err := h.channels.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		// An unknown id in the path is a plain 404 here, not a request error.
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ch)
}
