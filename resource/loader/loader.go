// Package loader implements the Resource Loader Facade (spec §4.F): the
// typed request_<kind> surface applications call, the cooperative update
// pump that drives bytes from the Provider Registry (resource/provider)
// through the Streaming Builders (resource/builder) into the Pending
// Request State Machine (resource/pending), and the synchronous signal
// fan-out observers attach to.
//
// Grounded in the teacher's `New*` + functional-option constructor shape
// (`engine/loader/loader_builder.go`) and its single update-tick method
// (`engine_builder.go`'s render loop calling into one driving call per
// frame) — this package's Loader is an exported struct built by `New` with
// functional options and advanced by one `Update` call per tick, driving
// resource requests instead of frames.
package loader

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oxy-go/oxyres/internal/gpu"
	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/locator"
	"github.com/oxy-go/oxyres/resource/pending"
	"github.com/oxy-go/oxyres/resource/provider"
)

// Error taxonomy (spec §7). Every non-recoverable pending-request failure
// wraps one of these.
var (
	ErrNoProvider       = fmt.Errorf("loader: no provider claims resource")
	ErrBuilderFailed    = fmt.Errorf("loader: builder reported parse failure")
	ErrDependencyFailed = fmt.Errorf("loader: dependency request failed")
	ErrCancelled        = fmt.Errorf("loader: request cancelled")
)

// driver is what every concrete request kind implements to react to its own
// source bytes. onFinished is called exactly once, when the backing BlobIO
// reports Finished; it is responsible for decoding data and calling one of
// the Loader's complete* methods — except for composite kinds (program,
// texture) that still have outstanding child requests, which instead leave
// the entry in StatusLoading for the pump to finalize once every child
// joins (spec §4.E "Child joins").
type driver interface {
	onFinished(l *Loader, id resource.RequestID, url string, data []byte)
}

// fetchState is the Entry.Payload of every request still pulling bytes from
// its BlobIO (spec Data Model "Pending request", `progress` field).
type fetchState struct {
	loc      locator.Locator
	blob     blobio.BlobIO
	consumed int64
	buf      bytes.Buffer
	drv      driver
}

// Loader is the Resource Loader Facade (spec §4.F). Every request_<kind>
// method allocates a pending-request entry, resolves a BlobIO through the
// Registry, and registers the kind-specific driver that decodes it once
// bytes stop arriving. Update must be called once per application tick; all
// of the facade's work happens on the caller's goroutine (spec §5
// "single-threaded cooperative" — Loader holds no mutex).
type Loader struct {
	registry *provider.Registry
	gpu      gpu.Context
	log      *logrus.Entry
	arena    *pending.Arena
	pump     *pending.Pump
	signals  Signals

	active  []resource.RequestID
	pumping bool
	sideBuf []resource.RequestID

	terminalLastTick []resource.RequestID
}

// Option configures a Loader at construction time.
type Option func(*Loader)

// WithGPUContext attaches the GPU context every GL-kind request (shader,
// program, texture, buffer) builds its handles through. A Loader with no
// GPU context can still serve text/list/vector/value-tree/mapped-struct
// requests; any gl_* request fails with a context-unavailable error.
func WithGPUContext(ctx gpu.Context) Option {
	return func(l *Loader) { l.gpu = ctx }
}

// WithLogger attaches a structured logger every provider/builder/pump
// failure path logs through. Defaults to logrus.StandardLogger().
func WithLogger(log *logrus.Entry) Option {
	return func(l *Loader) { l.log = log }
}

// New creates a Loader over registry, following the teacher's New* +
// functional-option shape (`engine/loader/loader_builder.go`).
func New(registry *provider.Registry, opts ...Option) *Loader {
	l := &Loader{
		registry: registry,
		arena:    pending.NewArena(),
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.pump = pending.NewPump(l.arena, map[resource.Kind]pending.Finalizer{
		resource.KindGLProgram: l.finalizeGLProgramEntry,
		resource.KindGLTexture: l.finalizeGLTextureEntry,
	})
	return l
}

// Signals returns the observer bus applications attach handlers to (spec
// §4.F "Signals").
func (l *Loader) Signals() *Signals { return &l.signals }

// Info is the terminal/in-flight snapshot of one pending request, the
// `info` half of a ResourceRequestResult (spec §4.F).
type Info struct {
	RequestID resource.RequestID
	Kind      resource.Kind
	URL       string
	Status    resource.Status
	Err       error
}

// Result is returned by every request_<kind> call (spec §4.F
// "ResourceRequestResult"): the new request's id, a live info snapshot, and
// whether the request was rejected (cancelled) before it was even queued
// (no provider claims the URL — spec's `was_cancelled` covers this
// immediate-rejection case as well as later cancellation).
type Result struct {
	RequestID    resource.RequestID
	Info         *Info
	WasCancelled bool

	loader *Loader
}

// SetContinuation records other as the weak continuation target of r's
// source (spec §3 "Continuation invariant") in r's pending entry. The link
// is only stored: the loader does not route r's bytes into other's builder,
// r still fires its own terminal signal, and other fetches and decodes its
// own URL.
func (r Result) SetContinuation(other Result) {
	if r.loader == nil {
		return
	}
	if e, ok := r.loader.arena.Get(r.RequestID); ok {
		e.Continuation = other.RequestID
	}
}

func (l *Loader) newUUID() string {
	return uuid.NewString()
}

// trace returns a logrus field set every failure path includes, matching
// the request_id/kind/url correlation fields SPEC_FULL's AMBIENT STACK
// section calls for.
func (l *Loader) trace(id resource.RequestID, kind resource.Kind, url string) *logrus.Entry {
	return l.log.WithFields(logrus.Fields{
		"request_id": uint64(id),
		"trace_id":   l.newUUID(),
		"kind":       kind.String(),
		"url":        url,
	})
}

// allocSource resolves loc through the registry and, on success, registers
// drv as the entry's driver, queuing it for Update to drain. On failure it
// allocates the entry anyway (so the caller gets a consistent Result) but
// immediately transitions it to the terminal failure status.
func (l *Loader) allocSource(kind resource.Kind, params resource.Params, drv driver) Result {
	id := l.arena.Alloc(kind, params)
	return l.allocSourceWithID(id, params, drv)
}

// allocSourceWithID is allocSource for a request whose id was already
// reserved — used by composite requests (gl_program, gl_texture) whose
// builder needs the parent id in hand before it can construct the
// child-request adapter it streams against.
func (l *Loader) allocSourceWithID(id resource.RequestID, params resource.Params, drv driver) Result {
	loc, err := locator.Parse(params.URL)
	if err != nil {
		l.completeError(id, fmt.Errorf("loader: parse url %q: %w", params.URL, err))
		return l.result(id)
	}

	io, ok, err := l.registry.GetResourceIO(id, loc)
	if err != nil {
		l.completeError(id, err)
		return l.result(id)
	}
	if !ok {
		l.completeNotFound(id)
		return l.result(id)
	}

	st := &fetchState{loc: loc, blob: io, drv: drv}
	if e, ok := l.arena.Get(id); ok {
		e.Payload = st
	}
	l.queue(id)
	return l.result(id)
}

func (l *Loader) result(id resource.RequestID) Result {
	e, _ := l.arena.Get(id)
	info := l.infoOf(e)
	rejected := info.Status.Terminal() && info.Status != resource.StatusLoaded
	return Result{RequestID: id, Info: info, WasCancelled: rejected, loader: l}
}

func (l *Loader) infoOf(e *pending.Entry) *Info {
	if e == nil {
		return &Info{Status: resource.StatusCancelled}
	}
	return &Info{RequestID: e.ID, Kind: e.Kind, Status: e.Status, URL: e.URL}
}

// queue registers id to be drained by Update. Per spec §5 "Re-entrancy", a
// request issued from inside a signal handler (while Update is mid-tick) is
// deferred to a side buffer merged at the top of the next Update call.
func (l *Loader) queue(id resource.RequestID) {
	if l.pumping {
		l.sideBuf = append(l.sideBuf, id)
		return
	}
	l.active = append(l.active, id)
}

// GetInfo returns a live snapshot of id, or (nil, false) if it is unknown
// (never issued, or already swept).
func (l *Loader) GetInfo(id resource.RequestID) (*Info, bool) {
	e, ok := l.arena.Get(id)
	if !ok {
		return nil, false
	}
	return l.infoOf(e), true
}

// ForgetResource marks id for cancellation (spec §4.F / §5): the next
// Update call fires its load_status_changed(cancelled) signal and sweeps it
// the call after that. In-flight child requests are not auto-cancelled
// (spec §5 "a design trade-off to keep child reuse cheap").
func (l *Loader) ForgetResource(id resource.RequestID) {
	e, ok := l.arena.Get(id)
	if !ok || e.Status.Terminal() {
		return
	}
	l.completeCancelled(id)
}

// HasPendingRequests reports whether any request is still in StatusLoading.
func (l *Loader) HasPendingRequests() bool {
	for _, queued := range [][]resource.RequestID{l.active, l.sideBuf} {
		for _, id := range queued {
			if e, ok := l.arena.Get(id); ok && e.Status == resource.StatusLoading {
				return true
			}
		}
	}
	return false
}

// Update drains one tick of work (spec §4.E "Update pump"): it merges
// re-entrant insertions, advances every active BlobIO by one bounded unit of
// Prepare work, decodes any that just finished, finalizes composite
// requests whose children have all joined, fires every signal the tick's
// transitions imply, and sweeps entries that were already terminal on the
// previous tick. It returns whether any work was done this tick.
func (l *Loader) Update() bool {
	didWork := len(l.sideBuf) > 0 || len(l.active) > 0

	for _, id := range l.terminalLastTick {
		l.arena.Release(id)
	}
	l.terminalLastTick = l.terminalLastTick[:0]

	if len(l.sideBuf) > 0 {
		l.active = append(l.active, l.sideBuf...)
		l.sideBuf = l.sideBuf[:0]
	}

	l.pumping = true
	remaining := l.active[:0]
	for _, id := range l.active {
		e, ok := l.arena.Get(id)
		if !ok || e.Status != resource.StatusLoading {
			continue
		}
		st, ok := e.Payload.(*fetchState)
		if !ok {
			continue
		}
		if l.driveFetch(id, e, st) {
			continue
		}
		remaining = append(remaining, id)
	}
	l.active = remaining

	changed := l.pump.Tick()
	l.pumping = false

	for _, id := range changed {
		l.fireTerminal(id)
	}

	return didWork
}

// driveFetch advances one fetch by a bounded unit of Prepare work. It
// returns true once the request has reached a terminal status this tick
// (so the caller can drop it from the active set).
func (l *Loader) driveFetch(id resource.RequestID, e *pending.Entry, st *fetchState) bool {
	progress, err := st.blob.Prepare()
	if err != nil {
		l.completeError(id, err)
		return true
	}

	if total := st.blob.TotalSize(); total > st.consumed {
		chunk := make([]byte, total-st.consumed)
		n := st.blob.FetchFragment(st.consumed, chunk)
		st.buf.Write(chunk[:n])
		st.consumed += int64(n)
	}

	if !progress.Done() {
		return false
	}
	if progress.State == blobio.Failed {
		l.completeError(id, fmt.Errorf("loader: %s: blob prepare failed", e.Kind))
		return true
	}

	st.drv.onFinished(l, id, st.loc.String(), st.buf.Bytes())
	return true
}

// completeLoaded transitions id to loaded, firing fireTyped (the kind's
// `<kind>_loaded` signal) before load_status_changed, matching the ordering
// spec §5 names explicitly ("load_status_changed(loaded|cancelled|error)
// fires after the typed <kind>_loaded signal on success").
func (l *Loader) completeLoaded(id resource.RequestID, fireTyped func()) {
	if fireTyped != nil {
		fireTyped()
	}
	if err := l.arena.Transition(id, resource.StatusLoaded); err != nil {
		l.log.WithError(err).Warn("loader: transition to loaded failed")
		return
	}
	l.fireStatusChanged(id)
	l.markTerminal(id)
}

func (l *Loader) completeError(id resource.RequestID, err error) {
	e, _ := l.arena.Get(id)
	if e != nil {
		l.trace(id, e.Kind, e.URL).WithError(err).Warn("loader: request failed")
	}
	if terr := l.arena.Transition(id, resource.StatusError); terr != nil {
		return
	}
	l.fireStatusChanged(id)
	l.markTerminal(id)
}

func (l *Loader) completeNotFound(id resource.RequestID) {
	if err := l.arena.Transition(id, resource.StatusNotFound); err != nil {
		return
	}
	l.fireStatusChanged(id)
	l.markTerminal(id)
}

func (l *Loader) completeCancelled(id resource.RequestID) {
	if err := l.arena.Transition(id, resource.StatusCancelled); err != nil {
		return
	}
	l.fireStatusChanged(id)
	l.markTerminal(id)
}

func (l *Loader) markTerminal(id resource.RequestID) {
	l.terminalLastTick = append(l.terminalLastTick, id)
}

func (l *Loader) fireStatusChanged(id resource.RequestID) {
	e, ok := l.arena.Get(id)
	if !ok {
		return
	}
	l.signals.fireStatusChanged(LoadStatusEvent{
		RequestID: id,
		Kind:      e.Kind,
		Status:    e.Status,
		URL:       e.URL,
	})
}

// fireTerminal fires the typed-then-status-changed signal pair for a
// composite request the pump just finalized (spec §4.E "Child joins").
func (l *Loader) fireTerminal(id resource.RequestID) {
	e, ok := l.arena.Get(id)
	if !ok {
		return
	}
	switch e.Status {
	case resource.StatusLoaded:
		l.fireTypedForComposite(e)
		l.fireStatusChanged(id)
		l.markTerminal(id)
	case resource.StatusError, resource.StatusCancelled, resource.StatusNotFound:
		l.fireStatusChanged(id)
		l.markTerminal(id)
	}
}
