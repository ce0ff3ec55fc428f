// Package scan extracts ticket identifiers from scanned QR payloads.
//
// Three payload shapes are accepted, tried in order: a JSON object with
// ticket_id and/or ticket_code fields, free text containing a
// "Ticket Code: <code>" line, or the raw code itself.
package scan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var ticketCodeLine = regexp.MustCompile(`(?im)^\s*ticket\s+code\s*:\s*(\S+)`)

// Query is what a payload resolves to. ID is only set when the payload
// carried an explicit ticket identifier.
type Query struct {
	ID   string
	Code string
}

// Empty reports whether the payload yielded nothing to look up
func (q Query) Empty() bool {
	return q.ID == "" && q.Code == ""
}

// Parse resolves a raw scanned payload into a lookup query
func Parse(raw string) Query {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Query{}
	}

	if q, ok := parseJSON(trimmed); ok {
		return q
	}

	if m := ticketCodeLine.FindStringSubmatch(trimmed); m != nil {
		return Query{Code: m[1]}
	}

	return Query{Code: trimmed}
}

func parseJSON(s string) (Query, bool) {
	if !strings.HasPrefix(s, "{") {
		return Query{}, false
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return Query{}, false
	}

	q := Query{
		ID:   stringField(fields["ticket_id"]),
		Code: stringField(fields["ticket_code"]),
	}
	return q, !q.Empty()
}

func stringField(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%.0f", val))
	default:
		return ""
	}
}
