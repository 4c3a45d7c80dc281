package channel

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-notify-links/internal/domain"
	"github.com/go-notify-links/internal/pkg/validate"
	"github.com/rs/zerolog"
)

// Built-in channel ids.
const (
	CallChannelID    = "call_channel_id"
	DefaultChannelID = "default_channel_id"
)

// Builtins returns the channels every process starts with: a high
// interruption channel for incoming calls and a default one for ordinary alerts.
func Builtins() []domain.ChannelDescriptor {
	return []domain.ChannelDescriptor{
		{
			ID:                CallChannelID,
			Name:              "Incoming Calls",
			Description:       "Notifications for incoming voice and video calls.",
			InterruptionLevel: domain.LevelHigh,
			LightColor:        "#FF0000",
			EnableLights:      true,
			EnableVibration:   true,
			VibrationPattern:  []time.Duration{0, time.Second, 500 * time.Millisecond, time.Second},
		},
		{
			ID:                DefaultChannelID,
			Name:              "General Notifications",
			Description:       "General application notifications.",
			InterruptionLevel: domain.LevelDefault,
			LightColor:        "#0000FF",
			EnableLights:      true,
			EnableVibration:   true,
		},
	}
}

// DefaultFor returns the built-in channel id used when a request names none.
func DefaultFor(kind domain.Kind) string {
	if kind == domain.KindCall {
		return CallChannelID
	}
	return DefaultChannelID
}

// Registry holds the registered channel descriptors. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]domain.ChannelDescriptor
	order []string
	log   zerolog.Logger
}

func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		byID: make(map[string]domain.ChannelDescriptor),
		log:  log.With().Str("component", "channels").Logger(),
	}
}

// NewDefaultRegistry returns a registry pre-populated with Builtins.
func NewDefaultRegistry(log zerolog.Logger) *Registry {
	r := NewRegistry(log)
	if err := r.RegisterAll(Builtins()...); err != nil {
		panic("builtin channels: " + err.Error())
	}
	return r
}

// Register installs d. Re-registering an identical descriptor is a no-op;
// a different descriptor under a used id is rejected with ErrConfigConflict.
func (r *Registry) Register(d domain.ChannelDescriptor) error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("channel %q: %s: %w", d.ID, err, domain.ErrBadRequest)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[d.ID]; ok {
		if existing.Equal(d) {
			return nil
		}
		return fmt.Errorf("channel %q already registered with different settings: %w", d.ID, domain.ErrConfigConflict)
	}
	r.byID[d.ID] = d.Clone()
	r.order = append(r.order, d.ID)
	r.log.Debug().Str("channel", d.ID).Str("level", string(d.InterruptionLevel)).Msg("channel registered")
	return nil
}

// RegisterAll registers every descriptor and stops at the first failure.
func (r *Registry) RegisterAll(ds ...domain.ChannelDescriptor) error {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the descriptor registered under id.
func (r *Registry) Lookup(id string) (domain.ChannelDescriptor, error) {
	r.mu.RLock()
	d, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return domain.ChannelDescriptor{}, fmt.Errorf("channel %q: %w", id, domain.ErrUnknownChannel)
	}
	return d.Clone(), nil
}

// List returns every descriptor in registration order.
func (r *Registry) List() []domain.ChannelDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ChannelDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out
}
