// Package logsurface is a development surface that writes every dispatcher
// call to the log instead of a device.
package logsurface

import (
	"context"

	"github.com/go-notify-links/internal/domain"
	"github.com/rs/zerolog"
)

type Surface struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Surface {
	return &Surface{log: log.With().Str("component", "logsurface").Logger()}
}

func (s *Surface) Post(_ context.Context, d *domain.NotificationDescriptor) error {
	ev := s.log.Info().
		Int64("id", int64(d.ID)).
		Str("channel", d.Channel.ID).
		Str("level", string(d.InterruptionLevel)).
		Str("title", d.Title).
		Str("body", d.Body).
		Str("content_link", d.ContentLink).
		Bool("full_screen", d.FullScreen)
	if len(d.Actions) > 0 {
		arr := zerolog.Arr()
		for _, a := range d.Actions {
			arr.Str(a.ActionID + " " + a.Link)
		}
		ev = ev.Array("actions", arr)
	}
	ev.Msg("post")
	return nil
}

func (s *Surface) Cancel(_ context.Context, id domain.NotificationID) error {
	s.log.Info().Int64("id", int64(id)).Msg("cancel")
	return nil
}

func (s *Surface) CancelAll(context.Context) error {
	s.log.Info().Msg("cancel all")
	return nil
}
