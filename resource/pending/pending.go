// Package pending implements the Pending Request State Machine (spec §4.E):
// a dense arena of in-flight resource requests, each tracked by a
// resource.RequestID, transitioning loading → {loaded, cancelled, error} →
// finished, with continuation chaining modeled as index references into the
// same arena rather than the original's shared_ptr/weak_ptr graph (spec §9
// Design Notes, "Pending-request ownership").
package pending

import (
	"fmt"

	"github.com/oxy-go/oxyres/resource"
)

// Entry is one slot in the arena: the kind-tagged state of a single
// in-flight (or just-finished) request.
type Entry struct {
	ID     resource.RequestID
	Kind   resource.Kind
	Status resource.Status
	Label  string

	// URL is the locator this request was issued against (spec §4.F
	// "load_status_changed(status, request_id, kind, url)"), carried
	// separately from Label since a request is very often unlabeled.
	URL string

	// Continuation is the RequestID this entry feeds into once it reaches
	// `loaded` — e.g. a JSON source's value-tree stage feeding a shape
	// generator. Invalid (0) means this entry is terminal. Continuation is
	// a *weak* reference in the sense the spec requires (§3 "Continuation
	// invariant"): the arena never keeps an entry alive because something
	// else's Continuation points at it — see Arena.Release.
	Continuation resource.RequestID

	// Parent is the composite request (if any) that spawned this entry as
	// a child; AddChild sets it. SweepCancelled uses it to cancel children
	// of a parent that failed, without a full graph walk.
	Parent resource.RequestID

	// Children are in-flight requests this entry spawned and is waiting on
	// (a GL program's shader requests, a GL texture's image requests) —
	// the "pending child requests" field the spec's Data Model lists for
	// program/texture/buffer payload variants.
	Children []resource.RequestID

	// Payload holds whatever kind-specific state the driving builder needs
	// between update_and_process_all ticks (a *builder.GLTexture, a
	// *builder.FloatVector, ...). The arena itself never inspects it.
	Payload any

	generation uint32
	free       bool
}

// Arena is the dense-index store backing every in-flight request. RequestID
// values are a (generation, slot) pair packed into a uint64 so a released
// and reused slot can't be mistaken for its previous occupant.
type Arena struct {
	entries []Entry
	freeIdx []uint32
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

func packID(slot, generation uint32) resource.RequestID {
	return resource.RequestID(uint64(generation)<<32 | uint64(slot))
}

func unpackID(id resource.RequestID) (slot, generation uint32) {
	return uint32(id), uint32(id >> 32)
}

// Alloc reserves a new arena slot for kind, returning its RequestID.
func (a *Arena) Alloc(kind resource.Kind, params resource.Params) resource.RequestID {
	var slot uint32
	if n := len(a.freeIdx); n > 0 {
		slot = a.freeIdx[n-1]
		a.freeIdx = a.freeIdx[:n-1]
		a.entries[slot].generation++
		a.entries[slot].free = false
	} else {
		slot = uint32(len(a.entries))
		a.entries = append(a.entries, Entry{generation: 1})
	}
	e := &a.entries[slot]
	id := packID(slot, e.generation)
	*e = Entry{
		ID:         id,
		Kind:       kind,
		Status:     resource.StatusLoading,
		Label:      params.Label,
		URL:        params.URL,
		generation: e.generation,
	}
	return id
}

// Get returns the entry for id, or (nil, false) if id is invalid or stale
// (its slot was released and reused under a new generation).
func (a *Arena) Get(id resource.RequestID) (*Entry, bool) {
	if id == resource.Invalid {
		return nil, false
	}
	slot, gen := unpackID(id)
	if int(slot) >= len(a.entries) {
		return nil, false
	}
	e := &a.entries[slot]
	if e.free || e.generation != gen {
		return nil, false
	}
	return e, true
}

// Release frees id's slot for reuse. Per the continuation invariant (spec
// §3), releasing an entry never cascades to whatever it names as its
// Continuation — only Parent/Children links, which this package treats as
// strong ("owns"), are walked by SweepCancelled.
func (a *Arena) Release(id resource.RequestID) {
	slot, gen := unpackID(id)
	if int(slot) >= len(a.entries) {
		return
	}
	e := &a.entries[slot]
	if e.free || e.generation != gen {
		return
	}
	e.free = true
	e.Payload = nil
	a.freeIdx = append(a.freeIdx, slot)
}

// Transition moves id to status, validating it is a legal move from the
// entry's current status (spec §4.E "States").
func (a *Arena) Transition(id resource.RequestID, status resource.Status) error {
	e, ok := a.Get(id)
	if !ok {
		return fmt.Errorf("pending: unknown request %d", id)
	}
	if e.Status.Terminal() && status != resource.StatusCancelled {
		return fmt.Errorf("pending: request %d already terminal (%s), cannot move to %s", id, e.Status, status)
	}
	e.Status = status
	return nil
}

// SweepCancelled walks every entry still in StatusLoading whose Parent ended
// in StatusError or StatusNotFound, and cancels it. Children of a cancelled
// (forgotten) parent are left to complete or fail on their own.
func (a *Arena) SweepCancelled() []resource.RequestID {
	var cancelled []resource.RequestID
	for i := range a.entries {
		e := &a.entries[i]
		if e.free || e.Status != resource.StatusLoading || e.Parent == resource.Invalid {
			continue
		}
		parent, ok := a.Get(e.Parent)
		if !ok {
			continue
		}
		if parent.Status == resource.StatusError || parent.Status == resource.StatusNotFound {
			e.Status = resource.StatusCancelled
			cancelled = append(cancelled, e.ID)
		}
	}
	return cancelled
}

// AllChildrenTerminal reports whether every child of id has reached a
// terminal status, and whether all of them loaded successfully.
func (a *Arena) AllChildrenTerminal(id resource.RequestID) (allTerminal, allLoaded bool) {
	e, ok := a.Get(id)
	if !ok || len(e.Children) == 0 {
		return true, true
	}
	allTerminal, allLoaded = true, true
	for _, childID := range e.Children {
		child, ok := a.Get(childID)
		if !ok {
			continue
		}
		if !child.Status.Terminal() {
			allTerminal = false
		}
		if child.Status != resource.StatusLoaded {
			allLoaded = false
		}
	}
	return allTerminal, allLoaded
}

// AddChild records childID as a child request of id.
func (a *Arena) AddChild(id, childID resource.RequestID) {
	if e, ok := a.Get(id); ok {
		e.Children = append(e.Children, childID)
	}
	if child, ok := a.Get(childID); ok {
		child.Parent = id
	}
}

// Len reports the number of live (non-free) entries, for diagnostics.
func (a *Arena) Len() int {
	n := 0
	for i := range a.entries {
		if !a.entries[i].free {
			n++
		}
	}
	return n
}
