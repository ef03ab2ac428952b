package pending

import "github.com/oxy-go/oxyres/resource"

// Finalizer is invoked once every child of a composite request (a GL
// program's shaders, a GL texture's images) has reached a terminal status.
// It inspects/mutates Entry.Payload and returns the status the parent
// request should move to.
type Finalizer func(e *Entry) resource.Status

// Pump drives the "update_and_process_all" tick described in spec §4.E: on
// each call it sweeps cancellations propagated from failed parents, then
// finalizes any composite request whose children have all completed.
type Pump struct {
	arena      *Arena
	finalizers map[resource.Kind]Finalizer
}

// NewPump builds a Pump over arena. finalizers maps each composite Kind
// (KindGLProgram, KindGLTexture, KindGLBuffer, ...) to the function that
// decides its final status once its children are done; kinds absent from
// the map are left to transition through other means (e.g. a single fetch
// completing, with no children to join).
func NewPump(arena *Arena, finalizers map[resource.Kind]Finalizer) *Pump {
	return &Pump{arena: arena, finalizers: finalizers}
}

// Tick runs one pass: propagate cancellation from failed parents to their
// still-loading children, then finalize any composite request whose
// children are all terminal. It returns the RequestIDs that changed status
// this tick, for callers that want to fire "load_status_changed" style
// notifications (spec §4.F).
func (p *Pump) Tick() []resource.RequestID {
	changed := p.arena.SweepCancelled()

	for i := range p.arena.entries {
		e := &p.arena.entries[i]
		if e.free || e.Status != resource.StatusLoading || len(e.Children) == 0 {
			continue
		}
		allTerminal, _ := p.arena.AllChildrenTerminal(e.ID)
		if !allTerminal {
			continue
		}
		fin, ok := p.finalizers[e.Kind]
		if !ok {
			continue
		}
		e.Status = fin(e)
		changed = append(changed, e.ID)
	}
	return changed
}
