package sia

import (
	"fmt"
	"strings"
)

// TimeRange is a query interval in MJD. A nil End means the interval is
// open-ended: it matches any observation still in progress at or after Start.
type TimeRange struct {
	Start float64
	End   *float64
}

// ParseTimeRange parses "start" or "start end".
func ParseTimeRange(field, s string) (TimeRange, error) {
	tokens := strings.Fields(s)
	switch len(tokens) {
	case 1:
		start, err := parseFinite(field, s, tokens[0])
		if err != nil {
			return TimeRange{}, err
		}
		return TimeRange{Start: start}, nil
	case 2:
		start, err := parseFinite(field, s, tokens[0])
		if err != nil {
			return TimeRange{}, err
		}
		end, err := parseFinite(field, s, tokens[1])
		if err != nil {
			return TimeRange{}, err
		}
		return TimeRange{Start: start, End: &end}, nil
	default:
		return TimeRange{}, &ParseError{Field: field, Value: s, Msg: fmt.Sprintf("expected one or two values, got %d", len(tokens))}
	}
}
