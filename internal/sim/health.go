package sim

import (
	"log/slog"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/combat"
	"github.com/udisondev/skirmish/internal/event"
	"github.com/udisondev/skirmish/internal/model"
)

// healthWatch turns health notifications of one agent into bus events.
type healthWatch struct {
	w *World
	h model.Handle
}

func (o *healthWatch) publish(kind event.Kind, amount float64) {
	e := event.Event{
		Kind:   kind,
		Time:   o.w.now,
		Agent:  o.h,
		Source: o.w.source,
		Amount: amount,
	}
	if a, ok := o.w.reg.Resolve(o.h); ok {
		e.Faction = a.Faction()
		e.Template = a.Template()
		e.Position = a.Position()
	}
	o.w.bus.Publish(e)
}

func (o *healthWatch) OnDamaged(amount float64) {
	o.publish(event.KindDamaged, amount)
}

func (o *healthWatch) OnHealed(amount float64) {
	o.publish(event.KindHealed, amount)
}

// OnDeath starts the death grace: contacts off, pending attacks dropped.
func (o *healthWatch) OnDeath() {
	a, ok := o.w.reg.Resolve(o.h)
	if !ok {
		return
	}
	o.w.ctrl.Cancel(a)
	a.MarkDying(o.w.now)
	o.w.Cue(o.h, combat.CueDie)
	o.publish(event.KindDied, 0)

	if ai.IsDebugEnabled() {
		slog.Debug("agent died", "agent", o.h, "template", a.Template(), "killer", o.w.source)
	}
}
