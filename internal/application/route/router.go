// Package route resolves triggered notification actions into navigation
// targets and hands them to the application.
package route

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-notify-links/internal/domain"
	"github.com/go-notify-links/internal/pkg/deeplink"
	"github.com/go-notify-links/internal/pkg/id"
	"github.com/rs/zerolog"
)

// ReasonMalformedLink is the only routing failure reason.
const ReasonMalformedLink = "MalformedLink"

// RouteError reports a link that could not be resolved for an action.
type RouteError struct {
	Reason   string
	ActionID string
	Err      error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("route action %q: %s: %v", e.ActionID, e.Reason, e.Err)
}

func (e *RouteError) Unwrap() error { return e.Err }

// Navigator receives every successfully routed action.
type Navigator func(ctx context.Context, actionID string, target domain.DeepLinkTarget)

// EventPublisher records triggered actions outside the process.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.ActionEvent) error
}

// Option configures a Router.
type Option func(*Router)

// WithPublisher sends an ActionEvent for every routed action.
func WithPublisher(p EventPublisher) Option {
	return func(r *Router) { r.publisher = p }
}

// WithNow replaces the clock used for event timestamps.
func WithNow(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

type Router struct {
	codec     *deeplink.Codec
	publisher EventPublisher
	now       func() time.Time
	log       zerolog.Logger

	mu   sync.RWMutex
	subs []Navigator
}

func NewRouter(codec *deeplink.Codec, log zerolog.Logger, opts ...Option) *Router {
	r := &Router{
		codec: codec,
		now:   time.Now,
		log:   log.With().Str("component", "router").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers n to receive routed actions.
func (r *Router) Subscribe(n Navigator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, n)
}

// Route decodes encoded into a target. actionID is carried into errors only.
func (r *Router) Route(actionID, encoded string) (domain.DeepLinkTarget, error) {
	t, err := r.codec.Decode(encoded)
	if err != nil {
		return domain.DeepLinkTarget{}, &RouteError{Reason: ReasonMalformedLink, ActionID: actionID, Err: err}
	}
	return t, nil
}

// Trigger routes an action, notifies subscribers and publishes an event.
// A malformed link reaches no subscriber. Publish failures are only logged.
func (r *Router) Trigger(ctx context.Context, actionID, encoded string, nid domain.NotificationID) (domain.DeepLinkTarget, error) {
	t, err := r.Route(actionID, encoded)
	if err != nil {
		r.log.Warn().Err(err).Str("action", actionID).Msg("dropping action")
		return domain.DeepLinkTarget{}, err
	}

	r.mu.RLock()
	subs := make([]Navigator, len(r.subs))
	copy(subs, r.subs)
	r.mu.RUnlock()

	for _, n := range subs {
		n(ctx, actionID, t.Clone())
	}
	r.log.Debug().Str("action", actionID).Str("screen", t.Screen).Msg("action routed")

	if r.publisher != nil {
		ev := domain.ActionEvent{
			EventID:        id.New(),
			ActionID:       actionID,
			Screen:         t.Screen,
			Link:           encoded,
			NotificationID: nid,
			At:             r.now().UTC(),
		}
		if err := r.publisher.Publish(ctx, ev); err != nil {
			r.log.Error().Err(err).Str("event", ev.EventID).Msg("publish action event")
		}
	}
	return t, nil
}
