package builder

// InputMapping receives the three kinds of UI wiring an InputSetup builder
// applies on each finished sibling object (spec §4.D "Input-setup builder").
type InputMapping interface {
	AddInputControl(name string, class, method int64)
	BindSlot(name string, class, method int64)
	AddFeedback(name string, class, method int64)
}

// inputKind is the 3-value tag distinguishing which sibling object
// ("input", "slot" or "feedback") is currently being parsed.
type inputKind int

const (
	inputKindNone inputKind = iota
	inputKindInput
	inputKindSlot
	inputKindFeedback
)

// InputSetup parses three sibling objects — `input`, `slot` and
// `feedback` — each terminated by a 2-component message id written as
// `[class, method]`, applying the declared mapping on each object's finish
// (spec §4.D "Input-setup builder").
type InputSetup struct {
	target InputMapping

	kind       inputKind
	name       string
	class      int64
	method     int64
	haveClass  bool
	haveMethod bool
	failed     bool
}

// NewInputSetup creates an InputSetup builder dispatching finished mappings
// onto target.
func NewInputSetup(target InputMapping) *InputSetup {
	return &InputSetup{target: target}
}

func (b *InputSetup) MaxTokenSize() int { return defaultMaxTokenSize }

func kindOf(name string) inputKind {
	switch name {
	case "input":
		return inputKindInput
	case "slot":
		return inputKindSlot
	case "feedback":
		return inputKindFeedback
	default:
		return inputKindNone
	}
}

// AddObject opens one of the three sibling objects, resetting the message-id
// accumulator and recording the object's name (its single path component,
// "input"/"slot"/"feedback") plus, when nested one level deeper, the
// mapping's human-readable name.
func (b *InputSetup) AddObject(p Path) {
	if len(p) == 1 {
		b.kind = kindOf(p[0])
		b.name = ""
		b.haveClass, b.haveMethod = false, false
		return
	}
	if len(p) == 2 && b.kind != inputKindNone {
		b.name = p[1]
	}
}

func (b *InputSetup) AddInts(p Path, values []int64) {
	if b.kind == inputKindNone || len(values) == 0 {
		return
	}
	if len(p) < 2 || p[len(p)-2] != "id" {
		return
	}
	switch p[len(p)-1] {
	case "0":
		b.class, b.haveClass = values[0], true
	case "1":
		b.method, b.haveMethod = values[0], true
	}
}

func (*InputSetup) AddFloats(Path, []float64)  {}
func (*InputSetup) AddBools(Path, []bool)      {}
func (*InputSetup) AddStrings(Path, []string)  {}

// FinishObject applies the declared mapping once the id pair is complete,
// when the path closes the top-level `input`/`slot`/`feedback` object.
func (b *InputSetup) FinishObject(p Path) {
	if len(p) != 1 || kindOf(p[0]) == inputKindNone {
		return
	}
	if !(b.haveClass && b.haveMethod) {
		b.failed = true
		b.kind = inputKindNone
		return
	}
	switch b.kind {
	case inputKindInput:
		b.target.AddInputControl(b.name, b.class, b.method)
	case inputKindSlot:
		b.target.BindSlot(b.name, b.class, b.method)
	case inputKindFeedback:
		b.target.AddFeedback(b.name, b.class, b.method)
	}
	b.kind = inputKindNone
}

func (*InputSetup) Finish()       {}
func (b *InputSetup) Failed() bool { return b.failed }

var _ Builder = (*InputSetup)(nil)
