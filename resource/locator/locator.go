// Package locator parses and inspects the URL grammar the resource
// subsystem uses to address resources (spec §6, "URL grammar (consumed)"):
// a standard RFC-3986 subset with scheme, host, path and a query parsed as
// repeated key=value pairs separated by & or +.
package locator

import (
	"net/url"
	"strconv"
	"strings"
)

// Locator is an immutable, parsed resource URL. Query values are
// percent-decoded on demand rather than eagerly, matching the spec's
// "percent-decoded on demand" wording.
type Locator struct {
	raw    string
	scheme string
	host   string
	path   string
	query  []queryArg
}

type queryArg struct {
	key, value string
}

// Parse parses raw into a Locator. Query arguments are split on both '&'
// and '+' separators per §6.
func Parse(raw string) (Locator, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Locator{}, err
	}

	loc := Locator{
		raw:    raw,
		scheme: u.Scheme,
		host:   u.Host,
		path:   u.Path,
	}

	rawQuery := u.RawQuery
	if rawQuery == "" {
		return loc, nil
	}
	for _, part := range splitAny(rawQuery, "&+") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		loc.query = append(loc.query, queryArg{key: k, value: v})
	}
	return loc, nil
}

// MustParse parses raw and panics on error; intended for compile-time known
// literal URLs (provider-registered canonical URLs, test fixtures).
func MustParse(raw string) Locator {
	loc, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

func splitAny(s, seps string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
}

// String returns the original URL text the Locator was parsed from.
func (l Locator) String() string { return l.raw }

// Scheme returns the URL scheme (e.g. "file", "eagitexi", "json").
func (l Locator) Scheme() string { return l.scheme }

// Host returns the URL host component.
func (l Locator) Host() string { return l.host }

// Path returns the URL path component.
func (l Locator) Path() string { return l.path }

// HasScheme reports whether the locator's scheme equals s.
func (l Locator) HasScheme(s string) bool { return l.scheme == s }

// HasPath reports whether the locator's path equals p.
func (l Locator) HasPath(p string) bool { return l.path == p }

// HasPathSuffix reports whether the locator's path ends with s.
func (l Locator) HasPathSuffix(s string) bool { return strings.HasSuffix(l.path, s) }

// ArgValue returns the percent-decoded string value of the first query
// argument named name, and whether it was present.
func (l Locator) ArgValue(name string) (string, bool) {
	for _, a := range l.query {
		if a.key == name {
			decoded, err := url.QueryUnescape(a.value)
			if err != nil {
				return a.value, true
			}
			return decoded, true
		}
	}
	return "", false
}

// ArgValueOr returns ArgValue(name) or def if the argument is absent.
func (l Locator) ArgValueOr(name, def string) string {
	if v, ok := l.ArgValue(name); ok {
		return v
	}
	return def
}

// ArgInt parses the named query argument as an int.
func ArgInt(l Locator, name string, def int) int {
	v, ok := l.ArgValue(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// ArgFloat parses the named query argument as a float64.
func ArgFloat(l Locator, name string, def float64) float64 {
	v, ok := l.ArgValue(name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// ArgBool parses the named query argument as a bool ("1"/"true"/"yes").
func ArgBool(l Locator, name string, def bool) bool {
	v, ok := l.ArgValue(name)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return def
	}
}
