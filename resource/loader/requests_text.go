package loader

import (
	"strings"

	"github.com/oxy-go/oxyres/resource"
)

// plainTextDriver decodes a finished fetch as a whole UTF-8 string (spec
// §4.D "plain-text buffers the whole blob, converts at finish()").
type plainTextDriver struct{}

func (plainTextDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	text := string(data)
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.PlainTextLoaded {
			fn(PlainTextEvent{RequestID: id, URL: url, Text: text})
		}
	})
}

// RequestPlainText fetches url and delivers it as a single in-memory string
// through PlainTextLoaded once it finishes (spec §4.D "Plain-text builder").
func (l *Loader) RequestPlainText(params resource.Params) Result {
	return l.allocSource(resource.KindPlainText, params, plainTextDriver{})
}

// stringListDriver splits a finished fetch on "\n", firing one
// StringLineLoaded per line (spec §4.E "string-list splits on \n and emits
// string_line_loaded per line") before the aggregate StringListLoaded.
type stringListDriver struct{}

func (stringListDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	lines := splitNonEmptyLines(data)
	for i, line := range lines {
		for _, fn := range l.signals.StringLineLoaded {
			fn(StringLineEvent{RequestID: id, URL: url, Index: i, Line: line})
		}
	}
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.StringListLoaded {
			fn(StringListEvent{RequestID: id, URL: url, Lines: lines})
		}
	})
}

// RequestStringList fetches url and splits it into lines (spec §4.D
// "String-list builder").
func (l *Loader) RequestStringList(params resource.Params) Result {
	return l.allocSource(resource.KindStringList, params, stringListDriver{})
}

// urlListDriver is a stringListDriver whose lines are resource URLs rather
// than freeform text (spec §4.D "URL-list builder": "same line-splitting as
// string-list, typed as resource locators").
type urlListDriver struct{}

func (urlListDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	urls := splitNonEmptyLines(data)
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.URLListLoaded {
			fn(URLListEvent{RequestID: id, URL: url, URLs: urls})
		}
	})
}

// RequestURLList fetches url and splits it into a list of resource URLs
// (spec §4.D "URL-list builder").
func (l *Loader) RequestURLList(params resource.Params) Result {
	return l.allocSource(resource.KindURLList, params, urlListDriver{})
}

// glslSourceDriver decodes a finished fetch as GLSL source text (spec §4.D
// "GLSL accumulates char pointers + lengths as a glsl_source_ref" — this
// binding has no separate-allocation char-pointer concept, so the whole
// decoded string plays that role).
type glslSourceDriver struct{}

func (glslSourceDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	source := string(data)
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.GLSLSourceLoaded {
			fn(GLSLSourceEvent{RequestID: id, URL: url, Source: source})
		}
	})
}

// RequestGLSLSource fetches url as raw GLSL source text (spec §4.D "GLSL
// source builder").
func (l *Loader) RequestGLSLSource(params resource.Params) Result {
	return l.allocSource(resource.KindGLSLSource, params, glslSourceDriver{})
}

// splitNonEmptyLines splits data on "\n", trimming a trailing "\r" from each
// line and dropping the empty elements that trailing newlines produce; empty
// lines inside the text are kept.
func splitNonEmptyLines(data []byte) []string {
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
