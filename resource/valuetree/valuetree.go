// Package valuetree drives a resource/builder.Builder from a JSON document,
// standing in for the "value-tree traversal" input spec.md lists as a
// pending-state payload (Data Model, "Pending-state variants") and
// explicitly assumes available rather than specifies (§1 Non-goals:
// "implementing a value-tree parser (assumed available)").
//
// It uses encoding/json.Decoder.Token rather than Unmarshal-into-struct so
// the path shape every builder in resource/builder already expects
// ("values[i]", "data[i]{rc}", "inputs[name]", ...) falls out of the JSON
// structure directly, with no per-builder schema. It decodes a whole
// in-memory document rather than driving the builder off individual
// transport chunks — original_source/source/modules/eagine/
// resource_basic_impl.cpp shows the original's own plain-text/string-list
// builders read a full buffer and only convert at finish(), so this
// decode-at-finish shape matches the pack's precedent rather than
// introducing a new one; true incremental (chunk-at-a-time) JSON tokenizing
// is the parser responsibility spec.md assumes is supplied elsewhere.
package valuetree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/oxy-go/oxyres/resource/builder"
)

// Stream decodes data as JSON and drives every AddInts/AddFloats/AddBools/
// AddStrings/AddObject/FinishObject call against b that its structure
// implies, then calls b.Finish(). It returns a decode error for malformed
// JSON; a builder that rejects the shape it was given signals that through
// Builder.Failed(), not through Stream's return value.
func Stream(data []byte, b builder.Builder) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if _, err := decodeValue(dec, nil, b); err != nil {
		return fmt.Errorf("valuetree: %w", err)
	}
	b.Finish()
	return nil
}

// decodeValue reads the next token from dec — object, array, or scalar —
// dispatching it onto b at path, and recurses into containers.
func decodeValue(dec *json.Decoder, path builder.Path, b builder.Builder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return nil, decodeObject(dec, path, b)
		case '[':
			return nil, decodeArray(dec, path, b)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			b.AddInts(path, []int64{i})
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", t.String(), err)
		}
		b.AddFloats(path, []float64{f})
		return f, nil
	case string:
		b.AddStrings(path, []string{t})
		return t, nil
	case bool:
		b.AddBools(path, []bool{t})
		return t, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}

func decodeObject(dec *json.Decoder, path builder.Path, b builder.Builder) error {
	b.AddObject(path)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("object key is not a string: %v", keyTok)
		}
		childPath := childOf(path, key)
		if _, err := decodeValue(dec, childPath, b); err != nil {
			return err
		}
	}
	// consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return err
	}
	b.FinishObject(path)
	return nil
}

func decodeArray(dec *json.Decoder, path builder.Path, b builder.Builder) error {
	for i := 0; dec.More(); i++ {
		childPath := childOf(path, strconv.Itoa(i))
		if _, err := decodeValue(dec, childPath, b); err != nil {
			return err
		}
	}
	// consume the closing ']'
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func childOf(path builder.Path, component string) builder.Path {
	child := make(builder.Path, len(path)+1)
	copy(child, path)
	child[len(path)] = component
	return child
}
