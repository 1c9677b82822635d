// Package journal records combat history into an append-only store.
//
// The Recorder subscribes to the simulation bus on the simulation thread
// and hands copies of events to its own goroutine through a channel, so the
// store never touches live world state.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/event"
)

// ErrNoStore is returned by NewRecorder without a store.
var ErrNoStore = errors.New("journal store is nil")

// Row is one persisted combat event.
type Row struct {
	MatchID uuid.UUID
	Seq     int64
	SimTime float64
	Kind    string
	Source  string
	Target  string
	Amount  float64
}

// Store persists matches and their event rows.
type Store interface {
	CreateMatch(ctx context.Context, id uuid.UUID, startedAt time.Time) error
	AppendEvents(ctx context.Context, rows []Row) error
}

// Recorder batches bus events and flushes them to a Store.
type Recorder struct {
	store    Store
	matchID  uuid.UUID
	interval time.Duration
	batch    int

	in      chan event.Event
	dropped int
	seq     int64
	buf     []Row
}

// NewRecorder creates a recorder with a fresh match id.
func NewRecorder(store Store, cfg config.JournalConfig) (*Recorder, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = time.Second
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 512
	}
	return &Recorder{
		store:    store,
		matchID:  uuid.New(),
		interval: interval,
		batch:    batch,
		in:       make(chan event.Event, batch*4),
		buf:      make([]Row, 0, batch),
	}, nil
}

// MatchID returns the id stamped on every row.
func (r *Recorder) MatchID() uuid.UUID { return r.matchID }

// Dropped returns how many events were lost to a full queue.
// Only meaningful on the simulation thread.
func (r *Recorder) Dropped() int { return r.dropped }

// Attach subscribes the recorder to bus. Cues are not journaled.
func (r *Recorder) Attach(bus *event.Bus) (unsubscribe func()) {
	return bus.Subscribe(r.handle)
}

func (r *Recorder) handle(e event.Event) {
	if e.Kind == event.KindCue {
		return
	}
	select {
	case r.in <- e:
	default:
		r.dropped++
		if r.dropped == 1 || r.dropped%1000 == 0 {
			slog.Warn("journal queue full, dropping events", "dropped", r.dropped)
		}
	}
}

// Start registers the match and flushes buffered rows every interval or
// once a batch fills. On cancellation it drains the queue, writes the
// remainder and returns nil.
func (r *Recorder) Start(ctx context.Context) error {
	if err := r.store.CreateMatch(ctx, r.matchID, time.Now()); err != nil {
		return fmt.Errorf("creating match %s: %w", r.matchID, err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("combat journal started", "match", r.matchID, "interval", r.interval, "batch", r.batch)

	for {
		select {
		case <-ctx.Done():
			r.drain()
			// контекст уже отменён, последний flush идёт с отдельным таймаутом
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			err := r.flush(flushCtx)
			cancel()
			slog.Info("combat journal stopped", "match", r.matchID, "events", r.seq)
			return err

		case e := <-r.in:
			r.add(e)
			if len(r.buf) >= r.batch {
				if err := r.flush(ctx); err != nil {
					slog.Warn("journal flush failed", "error", err)
				}
			}

		case <-ticker.C:
			if err := r.flush(ctx); err != nil {
				slog.Warn("journal flush failed", "error", err)
			}
		}
	}
}

func (r *Recorder) drain() {
	for {
		select {
		case e := <-r.in:
			r.add(e)
		default:
			return
		}
	}
}

func (r *Recorder) add(e event.Event) {
	r.seq++
	r.buf = append(r.buf, Row{
		MatchID: r.matchID,
		Seq:     r.seq,
		SimTime: e.Time,
		Kind:    e.Kind.String(),
		Source:  e.Source.String(),
		Target:  e.Agent.String(),
		Amount:  e.Amount,
	})
}

// flush keeps the buffer on failure so the next tick retries it.
func (r *Recorder) flush(ctx context.Context) error {
	if len(r.buf) == 0 {
		return nil
	}
	if err := r.store.AppendEvents(ctx, r.buf); err != nil {
		return fmt.Errorf("appending %d events: %w", len(r.buf), err)
	}
	r.buf = r.buf[:0]
	return nil
}
