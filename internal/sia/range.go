package sia

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MinMaxRange is a closed numeric interval. Either bound may be infinite,
// written "Inf" / "-Inf" on the wire per the DALI numeric-interval grammar.
type MinMaxRange struct {
	Min float64
	Max float64
}

// ParseMinMaxRange parses a "min max" string. Exactly two whitespace-separated
// tokens are required; each token is a finite float or one of the literal
// infinity sentinels.
func ParseMinMaxRange(field, s string) (MinMaxRange, error) {
	tokens := strings.Fields(s)
	if len(tokens) != 2 {
		return MinMaxRange{}, &ParseError{Field: field, Value: s, Msg: fmt.Sprintf("expected two values, got %d", len(tokens))}
	}
	minVal, err := parseBound(field, s, tokens[0])
	if err != nil {
		return MinMaxRange{}, err
	}
	maxVal, err := parseBound(field, s, tokens[1])
	if err != nil {
		return MinMaxRange{}, err
	}
	return MinMaxRange{Min: minVal, Max: maxVal}, nil
}

func parseBound(field, value, token string) (float64, error) {
	switch token {
	case "Inf":
		return math.Inf(1), nil
	case "-Inf":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &ParseError{Field: field, Value: value, Msg: fmt.Sprintf("invalid float or Inf value %q", token)}
	}
	return f, nil
}

// String renders the range back to its wire form.
func (r MinMaxRange) String() string {
	return formatBound(r.Min) + " " + formatBound(r.Max)
}

func formatBound(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
