package notification

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/go-notify-links/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSurface struct{ mock.Mock }

func (m *mockSurface) Post(ctx context.Context, d *domain.NotificationDescriptor) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockSurface) Cancel(ctx context.Context, id domain.NotificationID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockSurface) CancelAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// recordingSurface keeps every posted descriptor; safe for concurrent use.
type recordingSurface struct {
	mu     sync.Mutex
	posted []domain.NotificationDescriptor
}

func (r *recordingSurface) Post(_ context.Context, d *domain.NotificationDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posted = append(r.posted, *d)
	return nil
}
func (r *recordingSurface) Cancel(context.Context, domain.NotificationID) error { return nil }
func (r *recordingSurface) CancelAll(context.Context) error                    { return nil }

// --- helpers ---

func fixedClock(ms uint64) func() uint64 { return func() uint64 { return ms } }

func descriptor(channelID string) *domain.NotificationDescriptor {
	return &domain.NotificationDescriptor{
		Channel: domain.ChannelDescriptor{ID: channelID},
		Title:   "t",
	}
}

func TestShow_PostsCopyWithID(t *testing.T) {
	surface := &recordingSurface{}
	d := NewDispatcher(surface, zerolog.Nop(), WithClock(fixedClock(1700000000000)))
	desc := descriptor("call_channel_id")

	nid, err := d.Show(context.Background(), desc)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationID(1700000000000), nid)
	assert.Zero(t, desc.ID, "caller descriptor must not be modified")
	require.Len(t, surface.posted, 1)
	assert.Equal(t, nid, surface.posted[0].ID)
	assert.Equal(t, map[domain.NotificationID]string{nid: "call_channel_id"}, d.Live())
}

func TestShow_SameMillisecond_DistinctIDs(t *testing.T) {
	d := NewDispatcher(&recordingSurface{}, zerolog.Nop(), WithClock(fixedClock(5000)))
	a, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)
	b, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, domain.NotificationID(5001), b)
}

func TestShow_ClockGoingBackwards_StaysMonotonic(t *testing.T) {
	readings := []uint64{100, 50, 50}
	i := 0
	clock := func() uint64 { v := readings[i]; i++; return v }
	d := NewDispatcher(&recordingSurface{}, zerolog.Nop(), WithClock(clock))

	var ids []domain.NotificationID
	for range readings {
		nid, err := d.Show(context.Background(), descriptor("c"))
		require.NoError(t, err)
		ids = append(ids, nid)
	}
	assert.Equal(t, []domain.NotificationID{100, 101, 102}, ids)
}

func TestShow_Concurrent_NoCollisions(t *testing.T) {
	const n = 200
	surface := &recordingSurface{}
	d := NewDispatcher(surface, zerolog.Nop(), WithClock(fixedClock(42)))

	var wg sync.WaitGroup
	ids := make(chan domain.NotificationID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nid, err := d.Show(context.Background(), descriptor("c"))
			assert.NoError(t, err)
			ids <- nid
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[domain.NotificationID]struct{}{}
	for nid := range ids {
		seen[nid] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, d.Len())
	assert.Len(t, surface.posted, n)
}

func TestShow_IDLimit_WrapsAroundLiveSet(t *testing.T) {
	d := NewDispatcher(&recordingSurface{}, zerolog.Nop(), WithClock(fixedClock(10)), WithIDLimit(4))
	var ids []domain.NotificationID
	for i := 0; i < 4; i++ {
		nid, err := d.Show(context.Background(), descriptor("c"))
		require.NoError(t, err)
		ids = append(ids, nid)
	}
	assert.ElementsMatch(t, []domain.NotificationID{0, 1, 2, 3}, ids)
	for _, nid := range ids {
		assert.Less(t, int64(nid), int64(4))
	}
}

func TestShow_IDLimit_Exhausted(t *testing.T) {
	d := NewDispatcher(&recordingSurface{}, zerolog.Nop(), WithClock(fixedClock(7)), WithIDLimit(2))
	_, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)
	kept, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)

	_, err = d.Show(context.Background(), descriptor("c"))
	assert.ErrorIs(t, err, domain.ErrIdentifierExhausted)
	assert.Equal(t, 2, d.Len(), "no live notification may be overwritten")

	require.NoError(t, d.Cancel(context.Background(), kept))
	nid, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)
	assert.Equal(t, kept, nid)
}

func TestShow_Android32BitLimit(t *testing.T) {
	d := NewDispatcher(&recordingSurface{}, zerolog.Nop(), WithClock(fixedClock(1700000000000)), WithIDLimit(math.MaxInt32))
	nid, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationID(1700000000000%math.MaxInt32), nid)
}

func TestShow_SurfaceFailure_Untracks(t *testing.T) {
	surface := &mockSurface{}
	surface.On("Post", mock.Anything, mock.Anything).Return(errors.New("permission denied"))
	d := NewDispatcher(surface, zerolog.Nop())

	_, err := d.Show(context.Background(), descriptor("c"))
	assert.ErrorContains(t, err, "permission denied")
	assert.Zero(t, d.Len())
}

func TestCancel_TrackedForwardsUntrackedNoop(t *testing.T) {
	surface := &mockSurface{}
	surface.On("Post", mock.Anything, mock.Anything).Return(nil)
	surface.On("Cancel", mock.Anything, domain.NotificationID(9)).Return(nil).Once()
	d := NewDispatcher(surface, zerolog.Nop(), WithClock(fixedClock(9)))

	nid, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)
	require.NoError(t, d.Cancel(context.Background(), nid))
	assert.Zero(t, d.Len())

	require.NoError(t, d.Cancel(context.Background(), nid))
	require.NoError(t, d.Cancel(context.Background(), 12345))
	surface.AssertExpectations(t)
	surface.AssertNumberOfCalls(t, "Cancel", 1)
}

func TestCancel_SurfaceError(t *testing.T) {
	surface := &mockSurface{}
	surface.On("Post", mock.Anything, mock.Anything).Return(nil)
	surface.On("Cancel", mock.Anything, mock.Anything).Return(errors.New("boom"))
	d := NewDispatcher(surface, zerolog.Nop())

	nid, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)
	assert.ErrorContains(t, d.Cancel(context.Background(), nid), "boom")
}

func TestCancelAll_EmptiesSetThenCancelIsNoop(t *testing.T) {
	surface := &mockSurface{}
	surface.On("Post", mock.Anything, mock.Anything).Return(nil)
	surface.On("CancelAll", mock.Anything).Return(nil).Once()
	d := NewDispatcher(surface, zerolog.Nop(), WithClock(fixedClock(1)))

	var ids []domain.NotificationID
	for i := 0; i < 3; i++ {
		nid, err := d.Show(context.Background(), descriptor("c"))
		require.NoError(t, err)
		ids = append(ids, nid)
	}
	require.NoError(t, d.CancelAll(context.Background()))
	assert.Zero(t, d.Len())

	for _, nid := range ids {
		assert.NoError(t, d.Cancel(context.Background(), nid))
	}
	surface.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	surface.AssertExpectations(t)
}

func TestCancelAll_SurfaceError_KeepsLiveSet(t *testing.T) {
	surface := &mockSurface{}
	surface.On("Post", mock.Anything, mock.Anything).Return(nil)
	surface.On("CancelAll", mock.Anything).Return(errors.New("unavailable"))
	d := NewDispatcher(surface, zerolog.Nop(), WithClock(fixedClock(0)), WithIDLimit(2))

	first, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)
	second, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)

	assert.ErrorContains(t, d.CancelAll(context.Background()), "unavailable")
	assert.Equal(t, map[domain.NotificationID]string{first: "c", second: "c"}, d.Live())

	// Both ids are still on screen, so none may be handed out again.
	_, err = d.Show(context.Background(), descriptor("c"))
	assert.ErrorIs(t, err, domain.ErrIdentifierExhausted)
}

func TestCancelAll_KeepsIDsShownDuringSurfaceCall(t *testing.T) {
	surface := &mockSurface{}
	surface.On("Post", mock.Anything, mock.Anything).Return(nil)
	d := NewDispatcher(surface, zerolog.Nop(), WithClock(fixedClock(1)))

	before, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)

	var during domain.NotificationID
	surface.On("CancelAll", mock.Anything).Run(func(mock.Arguments) {
		var err error
		during, err = d.Show(context.Background(), descriptor("late"))
		require.NoError(t, err)
	}).Return(nil)

	require.NoError(t, d.CancelAll(context.Background()))
	live := d.Live()
	assert.NotContains(t, live, before)
	assert.Equal(t, map[domain.NotificationID]string{during: "late"}, live)
}

func TestDismissed(t *testing.T) {
	surface := &mockSurface{}
	surface.On("Post", mock.Anything, mock.Anything).Return(nil)
	d := NewDispatcher(surface, zerolog.Nop())

	nid, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)
	assert.True(t, d.Dismissed(nid))
	assert.False(t, d.Dismissed(nid))
	assert.Zero(t, d.Len())
	surface.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestLive_ReturnsSnapshot(t *testing.T) {
	d := NewDispatcher(&recordingSurface{}, zerolog.Nop())
	_, err := d.Show(context.Background(), descriptor("c"))
	require.NoError(t, err)

	snap := d.Live()
	clear(snap)
	assert.Equal(t, 1, d.Len())
}
