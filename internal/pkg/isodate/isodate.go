// Package isodate canonicalizes timestamp strings to ISO-8601 UTC form with a
// trailing "Z". Normalization is best-effort: input that does not parse is
// passed through (optionally stamped), never rejected.
package isodate

import (
	"strings"
	"time"
)

// Kind classifies a normalization outcome.
type Kind int

const (
	// KindEmpty means the input was empty; the caller decides the default.
	KindEmpty Kind = iota
	// KindCanonical means Value is ISO-8601 UTC with a trailing "Z".
	KindCanonical
	// KindFallbackStamped means the input did not parse but looked
	// date-time-shaped, so a "Z" was appended as a best effort.
	KindFallbackStamped
	// KindPassthroughUnparsed means the input did not parse and was
	// returned unchanged.
	KindPassthroughUnparsed
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindCanonical:
		return "canonical"
	case KindFallbackStamped:
		return "fallback-stamped"
	case KindPassthroughUnparsed:
		return "passthrough-unparsed"
	}
	return "unknown"
}

// Result is the outcome of normalizing one timestamp string.
type Result struct {
	Value string
	Kind  Kind
}

// canonicalLayout renders UTC instants with a literal "Z" and keeps
// sub-second precision only when present.
const canonicalLayout = "2006-01-02T15:04:05.999999999Z07:00"

// layouts tried in parse order. Layouts without an offset are interpreted as
// UTC (time.Parse already yields UTC for them).
var layouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Normalize maps an arbitrary timestamp representation to canonical ISO-8601
// UTC form. A value already ending in "Z" is assumed canonical and returned
// unchanged. Otherwise any literal "Z" is rewritten to "+00:00", the string
// is parsed as an ISO-8601 date-time (UTC assumed when no offset is given)
// and re-serialized in UTC with a trailing "Z". When parsing fails the value
// is kept: date-time-shaped strings (containing "T") get a "Z" appended,
// anything else passes through untouched.
//
// Normalize is idempotent: feeding a Result.Value back in returns it as-is.
func Normalize(input string) Result {
	if input == "" {
		return Result{Kind: KindEmpty}
	}
	if strings.HasSuffix(input, "Z") {
		// Assumed already canonical, not re-validated.
		return Result{Value: input, Kind: KindCanonical}
	}
	candidate := strings.ReplaceAll(input, "Z", "+00:00")
	for _, layout := range layouts {
		t, err := time.Parse(layout, candidate)
		if err != nil {
			continue
		}
		return Result{Value: Stamp(t), Kind: KindCanonical}
	}
	if strings.Contains(input, "T") {
		return Result{Value: input + "Z", Kind: KindFallbackStamped}
	}
	return Result{Value: input, Kind: KindPassthroughUnparsed}
}

// Stamp renders t in canonical ISO-8601 UTC form.
func Stamp(t time.Time) string {
	return t.UTC().Format(canonicalLayout)
}
