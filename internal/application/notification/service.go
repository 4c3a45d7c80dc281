package notification

import (
	"context"
	"errors"

	"github.com/go-notify-links/internal/application/channel"
	"github.com/go-notify-links/internal/domain"
	"github.com/rs/zerolog"
)

type Service interface {
	// Notify builds and shows req; the returned descriptor carries the assigned id.
	Notify(ctx context.Context, req domain.NotificationRequest) (*domain.NotificationDescriptor, error)
	Cancel(ctx context.Context, id domain.NotificationID) error
	CancelAll(ctx context.Context) error
	Dismissed(id domain.NotificationID) bool
	Live() map[domain.NotificationID]string
}

type builder interface {
	Build(req domain.NotificationRequest) (*domain.NotificationDescriptor, error)
}

type dispatcher interface {
	Show(ctx context.Context, d *domain.NotificationDescriptor) (domain.NotificationID, error)
	Cancel(ctx context.Context, id domain.NotificationID) error
	CancelAll(ctx context.Context) error
	Dismissed(id domain.NotificationID) bool
	Live() map[domain.NotificationID]string
}

// ServiceDeps holds the collaborators of the notification service.
type ServiceDeps struct {
	Builder    builder
	Dispatcher dispatcher
	Log        zerolog.Logger
	// FallbackChannel makes an unknown channel id fall back to the kind's
	// built-in channel instead of failing the request.
	FallbackChannel bool
}

type service struct {
	builder    builder
	dispatcher dispatcher
	log        zerolog.Logger
	fallback   bool
}

func NewService(deps ServiceDeps) Service {
	return &service{
		builder:    deps.Builder,
		dispatcher: deps.Dispatcher,
		log:        deps.Log.With().Str("component", "notifications").Logger(),
		fallback:   deps.FallbackChannel,
	}
}

func (s *service) Notify(ctx context.Context, req domain.NotificationRequest) (*domain.NotificationDescriptor, error) {
	d, err := s.builder.Build(req)
	if err != nil && s.fallback && errors.Is(err, domain.ErrUnknownChannel) {
		s.log.Warn().
			Str("channel", req.ChannelID).
			Str("fallback", channel.DefaultFor(req.Kind)).
			Msg("unknown channel, using default")
		req.ChannelID = ""
		d, err = s.builder.Build(req)
	}
	if err != nil {
		return nil, err
	}

	nid, err := s.dispatcher.Show(ctx, d)
	if err != nil {
		return nil, err
	}
	shown := *d
	shown.ID = nid
	s.log.Info().
		Int64("id", int64(nid)).
		Str("kind", string(req.Kind)).
		Str("channel", d.Channel.ID).
		Msg("notification shown")
	return &shown, nil
}

func (s *service) Cancel(ctx context.Context, id domain.NotificationID) error {
	return s.dispatcher.Cancel(ctx, id)
}

func (s *service) CancelAll(ctx context.Context) error {
	return s.dispatcher.CancelAll(ctx)
}

func (s *service) Dismissed(id domain.NotificationID) bool {
	return s.dispatcher.Dismissed(id)
}

func (s *service) Live() map[domain.NotificationID]string {
	return s.dispatcher.Live()
}
