// Package proto implements the wire grammar the model uses to request UI
// actions. A call is a single span embedded in otherwise free text:
//
//	<start_function_call>call:NAME{key:<escape>value<escape>,...}<end_function_call>
//
// The grammar supports exactly one call per response. Everything between the
// first start marker and the last end marker is considered the call span, so
// should the model emit several calls, only the first is honored and the rest
// vanish with the span. This matches the model's fine tuning, which emits
// call-only responses.
package proto

import (
	"regexp"
	"slices"
	"strings"

	"github.com/edvinh/lui/internal/tools"
)

const (
	StartMarker = "<start_function_call>"
	EndMarker   = "<end_function_call>"
	callPrefix  = "call:"
	escapeOpen  = "<escape>"
	// Some checkpoints close values with an xml-style spelling. Both are
	// stripped on decode.
	escapeClose = "</escape>"
)

var (
	// Non-greedy on the parameter body: the first '}' terminates the
	// parameter list, a call never spans nested braces.
	callRe = regexp.MustCompile(`<start_function_call>\s*call:(\w+)\{([^}]*)\}\s*<end_function_call>`)
	spanRe = regexp.MustCompile(`(?s)<start_function_call>.*<end_function_call>`)
)

// HasCall reports whether text contains the start-of-call marker. It is a
// cheap pre-check, a superset of what Decode accepts.
func HasCall(text string) bool {
	return strings.Contains(text, StartMarker)
}

// Decode scans text for the first well-formed call span and returns the
// decoded call. A response with a call marker but failing the full grammar
// (for example a missing end marker) is treated as a non-call.
func Decode(text string) (tools.Call, bool) {
	m := callRe.FindStringSubmatch(text)
	if m == nil {
		return tools.Call{}, false
	}
	inputs := tools.Input{}
	body := m[2]
	if strings.TrimSpace(body) != "" {
		// Flat key/value list, no nested commas in this grammar.
		for _, segment := range strings.Split(body, ",") {
			key, rawValue, found := strings.Cut(segment, ":")
			if !found {
				// Segment without a colon is dropped, not an error.
				continue
			}
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			// Last occurrence of a duplicate key wins.
			inputs[key] = stripEscapes(rawValue)
		}
	}
	return tools.Call{Name: m[1], Inputs: inputs}, true
}

// Encode renders the canonical wire string for a call. Keys are sorted for
// deterministic output; the grammar is order-independent.
func Encode(call tools.Call) string {
	var sb strings.Builder
	sb.WriteString(StartMarker)
	sb.WriteString(callPrefix)
	sb.WriteString(call.Name)
	sb.WriteByte('{')
	keys := make([]string, 0, len(call.Inputs))
	for k := range call.Inputs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte(':')
		sb.WriteString(escapeOpen)
		sb.WriteString(call.Inputs[k])
		sb.WriteString(escapeOpen)
	}
	sb.WriteByte('}')
	sb.WriteString(EndMarker)
	return sb.String()
}

// ExtractProseText removes the call span from text and trims surrounding
// whitespace, returning the residual human readable text. Idempotent. On a
// text without a complete span the input is returned trimmed.
func ExtractProseText(text string) string {
	return strings.TrimSpace(spanRe.ReplaceAllString(text, ""))
}

func stripEscapes(value string) string {
	value = strings.ReplaceAll(value, escapeOpen, "")
	return strings.ReplaceAll(value, escapeClose, "")
}
