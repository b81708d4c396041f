package sia

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePos parses a DALI POS string. The first token (case-insensitive)
// selects the shape; the remaining tokens are its numeric arguments.
func ParsePos(field, s string) (Region, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return nil, &ParseError{Field: field, Value: s, Msg: "empty POS value"}
	}
	shape := strings.ToUpper(tokens[0])
	args, err := parseFinites(field, s, tokens[1:])
	if err != nil {
		return nil, err
	}

	switch shape {
	case "CIRCLE":
		if len(args) != 3 {
			return nil, &ParseError{Field: field, Value: s, Msg: fmt.Sprintf("CIRCLE expects 3 values (lon lat radius), got %d", len(args))}
		}
		return NewCircle(args[0], args[1], args[2])
	case "RANGE":
		if len(args) != 4 {
			return nil, &ParseError{Field: field, Value: s, Msg: fmt.Sprintf("RANGE expects 4 values (lon1 lon2 lat1 lat2), got %d", len(args))}
		}
		return NewRange(args[0], args[1], args[2], args[3])
	case "POLYGON":
		return NewPolygon(args)
	default:
		return nil, &ParseError{Field: field, Value: s, Msg: fmt.Sprintf("unknown POS shape %q", tokens[0])}
	}
}

func parseFinite(field, value, token string) (float64, error) {
	f, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &ParseError{Field: field, Value: value, Msg: fmt.Sprintf("invalid float value %q", token)}
	}
	return f, nil
}

func parseFinites(field, value string, tokens []string) ([]float64, error) {
	out := make([]float64, len(tokens))
	for i, t := range tokens {
		f, err := parseFinite(field, value, t)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
