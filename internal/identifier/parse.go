// Package identifier turns raw scanned payloads into structured
// part/order identifier pairs. Parsing is total: any input, including
// the empty string, yields a Candidate.
package identifier

import (
	"encoding/json"
	"strings"
)

// Candidate is the resolved identifier pair produced by parsing a scan.
// Either field may be empty; undecodable payloads land whole in PartNumber.
type Candidate struct {
	PartNumber  string `json:"part_number"`
	OrderNumber string `json:"order_number"`
}

// IsEmpty reports whether both fields are empty (an unparsed scan).
func (c Candidate) IsEmpty() bool {
	return c.PartNumber == "" && c.OrderNumber == ""
}

// partAliases and orderAliases are tried in order; the first key present
// wins. The ordering is a deliberate tie-break and must not be changed.
var (
	partAliases  = []string{"part_no", "partNumber", "part"}
	orderAliases = []string{"order_no", "orderNumber", "order"}
)

// altDelimiters is probed in order when the payload has no pipe.
// The first delimiter found in the text wins; later ones are not tried.
var altDelimiters = []string{",", ";", ":", "/"}

// rule is one guarded entry of the parse cascade. apply reports whether
// the rule matched; a non-match falls through to the next rule.
type rule func(raw string) (Candidate, bool)

// parseRules is evaluated top to bottom; first match wins. Adding a new
// payload format means inserting a rule, not editing conditionals.
var parseRules = []rule{
	parseStructured,
	parsePipe,
	parseAltDelimiter,
}

// Parse resolves a raw scanned payload into a Candidate. It never fails:
// if no rule matches, the whole payload becomes the part number.
func Parse(raw string) Candidate {
	for _, r := range parseRules {
		if c, ok := r(raw); ok {
			return c
		}
	}
	return Candidate{PartNumber: raw}
}

// parseStructured matches JSON object payloads such as
// {"part_no":"PN-001","order_no":"ORD-2023-001"}. Non-object JSON
// (arrays, bare strings, numbers) does not count as a match.
func parseStructured(raw string) (Candidate, bool) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Candidate{}, false
	}
	// A JSON null decodes without error but leaves the map nil.
	if doc == nil {
		return Candidate{}, false
	}
	return Candidate{
		PartNumber:  firstAlias(doc, partAliases),
		OrderNumber: firstAlias(doc, orderAliases),
	}, true
}

// firstAlias returns the value of the first alias present in doc.
// Non-string values are treated as absent.
func firstAlias(doc map[string]any, aliases []string) string {
	for _, key := range aliases {
		if v, ok := doc[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// parsePipe matches payloads such as "PN-001|ORD-2023-001". Only the
// first two segments are used; anything past a second pipe is discarded.
func parsePipe(raw string) (Candidate, bool) {
	if !strings.Contains(raw, "|") {
		return Candidate{}, false
	}
	return splitPair(raw, "|"), true
}

// parseAltDelimiter probes the alternate delimiter set in order and
// splits on the first delimiter that appears in the payload.
func parseAltDelimiter(raw string) (Candidate, bool) {
	for _, sep := range altDelimiters {
		if strings.Contains(raw, sep) {
			return splitPair(raw, sep), true
		}
	}
	return Candidate{}, false
}

// splitPair splits raw on sep and maps the first two trimmed segments to
// part and order number. Extra segments are discarded.
func splitPair(raw, sep string) Candidate {
	parts := strings.Split(raw, sep)
	c := Candidate{PartNumber: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		c.OrderNumber = strings.TrimSpace(parts[1])
	}
	return c
}
