package trip

import (
	"encoding/json"
	"errors"
	"strings"

	"tripsmith/internal/domain"
)

const fenceMarker = "```json"

// ParseError wraps a decode failure and keeps the original payload for
// diagnostics. Callers present a generic "could not read trip information"
// state and log the cause; the raw string never reaches the user.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string { return "trip data unreadable: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// Parse returns the decoded trip data object for a stored record.
//
// TripData may be the model's raw text (optionally inside a markdown code
// fence), an already-decoded object, or absent entirely; in the last case
// the record itself is treated as the data object, which covers early
// records that stored hotels/itinerary at the top level.
func Parse(rec domain.TripRecord) (map[string]any, error) {
	switch td := rec.TripData.(type) {
	case string:
		return ParseRaw(td)
	case map[string]any:
		return td, nil
	case nil:
		return roundTrip(rec)
	default:
		// Driver-specific map/document flavors land here.
		return roundTrip(td)
	}
}

// ParseRaw decodes a raw model response. When the text contains a
// "```json" fence, the object between the first '{' and the last '}' is
// decoded; otherwise the whole string must be JSON.
func ParseRaw(s string) (map[string]any, error) {
	raw := s
	if strings.Contains(raw, fenceMarker) {
		start := strings.IndexByte(raw, '{')
		end := strings.LastIndexByte(raw, '}')
		if start < 0 || end < start {
			return nil, &ParseError{Raw: s, Err: errors.New("fenced block contains no JSON object")}
		}
		raw = raw[start : end+1]
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, &ParseError{Raw: s, Err: err}
	}
	return m, nil
}

func roundTrip(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, &ParseError{Raw: string(b), Err: err}
	}
	return m, nil
}
