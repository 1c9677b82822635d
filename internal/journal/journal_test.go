package journal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/event"
	"github.com/udisondev/skirmish/internal/model"
)

type memStore struct {
	mu      sync.Mutex
	matches []uuid.UUID
	rows    []Row
	fail    error
}

func (s *memStore) CreateMatch(_ context.Context, id uuid.UUID, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, id)
	return nil
}

func (s *memStore) AppendEvents(_ context.Context, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.rows = append(s.rows, rows...)
	return nil
}

func (s *memStore) snapshot() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}

func run(t *testing.T, r *Recorder) (stop func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()
	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("recorder did not stop")
			return nil
		}
	}
}

func TestNewRecorder_NilStore(t *testing.T) {
	_, err := NewRecorder(nil, config.JournalConfig{})
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestRecorder_FlushesOnStop(t *testing.T) {
	store := &memStore{}
	r, err := NewRecorder(store, config.JournalConfig{FlushInterval: time.Hour, BatchSize: 100})
	require.NoError(t, err)

	bus := event.NewBus()
	r.Attach(bus)

	src := model.Handle{Index: 1, Gen: 1}
	dst := model.Handle{Index: 2, Gen: 1}
	bus.Publish(event.Event{Kind: event.KindDamaged, Time: 1.5, Agent: dst, Source: src, Amount: 12})
	bus.Publish(event.Event{Kind: event.KindCue, Agent: dst, Cue: "Hit"})
	bus.Publish(event.Event{Kind: event.KindDied, Time: 2, Agent: dst})

	stop := run(t, r)
	require.NoError(t, stop())

	rows := store.snapshot()
	require.Len(t, rows, 2)
	assert.Equal(t, []uuid.UUID{r.MatchID()}, store.matches)

	assert.Equal(t, int64(1), rows[0].Seq)
	assert.Equal(t, "DAMAGED", rows[0].Kind)
	assert.Equal(t, "1#1", rows[0].Source)
	assert.Equal(t, "2#1", rows[0].Target)
	assert.Equal(t, 12.0, rows[0].Amount)
	assert.Equal(t, r.MatchID(), rows[0].MatchID)

	assert.Equal(t, int64(2), rows[1].Seq)
	assert.Equal(t, "DIED", rows[1].Kind)
	assert.Equal(t, "none", rows[1].Source)
}

func TestRecorder_FlushesFullBatch(t *testing.T) {
	store := &memStore{}
	r, err := NewRecorder(store, config.JournalConfig{FlushInterval: time.Hour, BatchSize: 2})
	require.NoError(t, err)

	bus := event.NewBus()
	r.Attach(bus)
	stop := run(t, r)

	for i := range 4 {
		bus.Publish(event.Event{Kind: event.KindSpawned, Time: float64(i)})
	}

	assert.Eventually(t, func() bool { return len(store.snapshot()) == 4 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, stop())
}

func TestRecorder_FailedFlushKeepsRows(t *testing.T) {
	boom := errors.New("boom")
	store := &memStore{fail: boom}
	r, err := NewRecorder(store, config.JournalConfig{FlushInterval: time.Hour, BatchSize: 10})
	require.NoError(t, err)

	bus := event.NewBus()
	r.Attach(bus)
	bus.Publish(event.Event{Kind: event.KindHealed, Amount: 3})

	stop := run(t, r)
	assert.ErrorIs(t, stop(), boom)
	assert.Empty(t, store.snapshot())
	assert.Len(t, r.buf, 1)
}

func TestRecorder_DropsWhenQueueFull(t *testing.T) {
	r, err := NewRecorder(&memStore{}, config.JournalConfig{BatchSize: 1})
	require.NoError(t, err)

	bus := event.NewBus()
	r.Attach(bus)
	for range 6 {
		bus.Publish(event.Event{Kind: event.KindDamaged})
	}

	assert.Len(t, r.in, 4)
	assert.Equal(t, 2, r.Dropped())
}
