// Package event carries lifecycle and combat notifications out of the
// simulation. Delivery is synchronous on the simulation thread.
package event

import (
	"github.com/udisondev/skirmish/internal/model"
)

// Kind identifies what happened.
type Kind int

const (
	KindSpawned   Kind = iota // agent registered
	KindDied                  // health reached zero
	KindDamaged               // damage applied
	KindHealed                // heal applied
	KindDestroyed             // agent removed after grace or capture
	KindCue                   // cosmetic trigger
)

func (k Kind) String() string {
	switch k {
	case KindSpawned:
		return "SPAWNED"
	case KindDied:
		return "DIED"
	case KindDamaged:
		return "DAMAGED"
	case KindHealed:
		return "HEALED"
	case KindDestroyed:
		return "DESTROYED"
	case KindCue:
		return "CUE"
	default:
		return "UNKNOWN"
	}
}

// Event is one notification. Fields irrelevant to a kind stay zero.
type Event struct {
	Kind     Kind
	Time     float64      // simulation seconds
	Agent    model.Handle // subject
	Source   model.Handle // damage or heal origin, zero for spells
	Faction  model.Faction
	Template string
	Position model.Vec2
	Amount   float64
	Cue      string
}

// Handler receives published events.
type Handler func(Event)

// Bus fans events out to subscribers in subscription order.
// Not safe for concurrent use; subscribers that hand events to other
// goroutines must copy them through a channel.
type Bus struct {
	handlers map[int]Handler
	order    []int
	nextID   int
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.order = append(b.order, id)

	return func() {
		if _, ok := b.handlers[id]; !ok {
			return
		}
		delete(b.handlers, id)
		// новый срез: Publish может идти по старому
		order := make([]int, 0, len(b.order))
		for _, v := range b.order {
			if v != id {
				order = append(order, v)
			}
		}
		b.order = order
	}
}

// Publish delivers e to every subscriber. With none it does nothing.
func (b *Bus) Publish(e Event) {
	for _, id := range b.order {
		if h, ok := b.handlers[id]; ok {
			h(e)
		}
	}
}

// Subscribers returns the number of registered handlers.
func (b *Bus) Subscribers() int {
	return len(b.handlers)
}
