package notification

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/go-notify-links/internal/domain"
	"github.com/go-notify-links/internal/pkg/id"
	"github.com/rs/zerolog"
)

// Surface is the platform notification surface that renders descriptors.
// Implementations may block; failures are returned to the caller untouched.
type Surface interface {
	Post(ctx context.Context, d *domain.NotificationDescriptor) error
	Cancel(ctx context.Context, id domain.NotificationID) error
	CancelAll(ctx context.Context) error
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithClock replaces the millisecond clock identifiers are derived from.
func WithClock(clock func() uint64) DispatcherOption {
	return func(d *Dispatcher) { d.clock = clock }
}

// WithIDLimit restricts identifiers to [0, limit). Surfaces that only accept
// 32-bit ids use math.MaxInt32.
func WithIDLimit(limit int64) DispatcherOption {
	return func(d *Dispatcher) {
		if limit > 0 {
			d.limit = uint64(limit)
		}
	}
}

// Dispatcher assigns identifiers, posts descriptors to the surface and tracks
// which notifications are live. It is safe for concurrent use.
type Dispatcher struct {
	surface Surface
	clock   func() uint64
	limit   uint64
	log     zerolog.Logger

	// mu covers allocation and recording as a single step.
	mu     sync.Mutex
	live   map[domain.NotificationID]string
	last   uint64
	issued bool
}

func NewDispatcher(surface Surface, log zerolog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		surface: surface,
		clock:   id.Millis,
		limit:   math.MaxInt64,
		log:     log.With().Str("component", "dispatcher").Logger(),
		live:    make(map[domain.NotificationID]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Show allocates an id for desc, records it as live and posts a copy of desc
// carrying that id. desc itself is not modified.
func (d *Dispatcher) Show(ctx context.Context, desc *domain.NotificationDescriptor) (domain.NotificationID, error) {
	d.mu.Lock()
	nid, err := d.allocateLocked()
	if err != nil {
		d.mu.Unlock()
		return 0, err
	}
	d.live[nid] = desc.Channel.ID
	d.mu.Unlock()

	posted := *desc
	posted.ID = nid
	if err := d.surface.Post(ctx, &posted); err != nil {
		d.mu.Lock()
		delete(d.live, nid)
		d.mu.Unlock()
		return 0, fmt.Errorf("post notification %d: %w", nid, err)
	}
	d.log.Debug().
		Int64("id", int64(nid)).
		Str("channel", desc.Channel.ID).
		Str("title", desc.Title).
		Msg("notification displayed")
	return nid, nil
}

// allocateLocked picks the next identifier: the clock reading, bumped past the
// last issued id, then probed forward until it misses the live set. Among
// len(live)+1 consecutive ids at least one is free, which bounds the probe.
func (d *Dispatcher) allocateLocked() (domain.NotificationID, error) {
	if uint64(len(d.live)) >= d.limit {
		return 0, fmt.Errorf("%d notifications live: %w", len(d.live), domain.ErrIdentifierExhausted)
	}
	candidate := d.clock()
	if d.issued && candidate <= d.last {
		candidate = d.last + 1
	}
	candidate %= d.limit
	for probes := 0; probes <= len(d.live); probes++ {
		nid := domain.NotificationID(candidate)
		if _, taken := d.live[nid]; !taken {
			d.last = candidate
			d.issued = true
			return nid, nil
		}
		candidate = (candidate + 1) % d.limit
	}
	return 0, fmt.Errorf("no free id after %d probes: %w", len(d.live)+1, domain.ErrIdentifierExhausted)
}

// Cancel removes one notification. An id that is not live is a no-op.
func (d *Dispatcher) Cancel(ctx context.Context, nid domain.NotificationID) error {
	d.mu.Lock()
	_, tracked := d.live[nid]
	delete(d.live, nid)
	d.mu.Unlock()
	if !tracked {
		return nil
	}
	if err := d.surface.Cancel(ctx, nid); err != nil {
		return fmt.Errorf("cancel notification %d: %w", nid, err)
	}
	d.log.Debug().Int64("id", int64(nid)).Msg("notification cancelled")
	return nil
}

// CancelAll asks the surface to clear every notification, then forgets the
// ids that were live when the call started. On surface failure nothing is
// forgotten, so ids still on screen are not reissued.
func (d *Dispatcher) CancelAll(ctx context.Context) error {
	d.mu.Lock()
	cleared := slices.Collect(maps.Keys(d.live))
	d.mu.Unlock()

	if err := d.surface.CancelAll(ctx); err != nil {
		return fmt.Errorf("cancel all notifications: %w", err)
	}

	d.mu.Lock()
	for _, nid := range cleared {
		delete(d.live, nid)
	}
	d.mu.Unlock()
	d.log.Debug().Int("count", len(cleared)).Msg("all notifications cleared")
	return nil
}

// Dismissed records that the platform removed a notification on its own
// (for example auto-cancel on tap). The surface is not called.
func (d *Dispatcher) Dismissed(nid domain.NotificationID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, tracked := d.live[nid]
	delete(d.live, nid)
	return tracked
}

// Live returns a snapshot of live ids and their channel ids.
func (d *Dispatcher) Live() map[domain.NotificationID]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return maps.Clone(d.live)
}

// Len returns the number of live notifications.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}
