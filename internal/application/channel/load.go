package channel

import (
	"context"
	"fmt"

	"github.com/go-notify-links/internal/domain"
)

// Source yields channel descriptors to register at startup
// (a channel file, the DynamoDB catalog, ...).
type Source interface {
	Name() string
	Channels(ctx context.Context) ([]domain.ChannelDescriptor, error)
}

// Load registers the descriptors of every source, in order. Any failure,
// including a ConfigConflict between sources, aborts the load.
func (r *Registry) Load(ctx context.Context, sources ...Source) error {
	for _, src := range sources {
		ds, err := src.Channels(ctx)
		if err != nil {
			return fmt.Errorf("load channels from %s: %w", src.Name(), err)
		}
		if err := r.RegisterAll(ds...); err != nil {
			return fmt.Errorf("load channels from %s: %w", src.Name(), err)
		}
		r.log.Info().Str("source", src.Name()).Int("count", len(ds)).Msg("channels loaded")
	}
	return nil
}
