// Package builder implements the Streaming Value-Tree Builders (spec §4.D):
// push-parsers that consume value-tree traversal events and incrementally
// assemble a typed artifact without materializing the whole source. Every
// builder in this package implements the same Builder interface; the
// pending-request state machine in resource/pending drives it purely
// through that interface, so adding a new builder never touches the state
// machine.
package builder

// Path is a value-tree traversal path: a sequence of string components,
// e.g. {"values", "3", "x"} for `values[3].x`.
type Path []string

// Last returns the final path component, or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Builder is the shared shape every streaming builder implements (spec
// §4.D): typed do_add overloads, object-scope bracketing, and the
// finish/failed termination pair. A zero value of every concrete builder in
// this package is ready to use; none require a constructor beyond their own
// struct literal or a lightweight New function capturing configuration
// (size hints, target structs, GL context references, a child-request
// callback for builders that issue sub-requests).
type Builder interface {
	// MaxTokenSize bounds the largest single string/blob token this builder
	// accepts; traversal implementations may use it to size read buffers.
	MaxTokenSize() int

	// AddInts, AddFloats, AddBools and AddStrings feed sp's values, each
	// under the value-tree path p, into the builder.
	AddInts(p Path, values []int64)
	AddFloats(p Path, values []float64)
	AddBools(p Path, values []bool)
	AddStrings(p Path, values []string)

	// AddObject / FinishObject bracket a nested object at the given path;
	// builders that coalesce partial data (the vector builders) do so in
	// FinishObject.
	AddObject(p Path)
	FinishObject(p Path)

	// Finish is called once, after the final FinishObject, to let the
	// builder do any whole-artifact validation or cleanup. Failed reports
	// whether the builder considers itself to have failed — checked after
	// every call, and authoritative after Finish.
	Finish()
	Failed() bool
}

// defaultMaxTokenSize is used by builders with no opinion of their own.
const defaultMaxTokenSize = 4096
