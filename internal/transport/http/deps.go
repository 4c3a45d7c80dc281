package http

import (
	"net/http"

	"github.com/go-notify-links/internal/application/notification"
	jwtinfra "github.com/go-notify-links/internal/infrastructure/jwt"
	"github.com/go-notify-links/internal/transport/http/handler"
	"github.com/rs/zerolog"
)

// Deps holds everything the router serves.
type Deps struct {
	Notifications notification.Service
	Channels      handler.ChannelCatalog
	Actions       handler.ActionRouter
	// Hub serves /v1/ws; nil unless the websocket surface is active.
	Hub http.Handler
	// JWTProvider enables bearer auth; nil disables it (development only).
	JWTProvider *jwtinfra.Provider
	Log         zerolog.Logger
}
