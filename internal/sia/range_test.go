package sia

import (
	"errors"
	"math"
	"testing"
)

func TestParseMinMaxRange_Valid(t *testing.T) {
	r, err := ParseMinMaxRange("BAND", "0.5 2.0")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r.Min != 0.5 || r.Max != 2.0 {
		t.Fatalf("got %+v", r)
	}
}

func TestParseMinMaxRange_InfSentinels(t *testing.T) {
	r, err := ParseMinMaxRange("BAND", "-Inf Inf")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !math.IsInf(r.Min, -1) || !math.IsInf(r.Max, 1) {
		t.Fatalf("got %+v", r)
	}
}

func TestParseMinMaxRange_RoundTrip(t *testing.T) {
	for _, s := range []string{"1 2", "-Inf 5", "5 Inf", "-Inf Inf", "0.125 2.5"} {
		r, err := ParseMinMaxRange("BAND", s)
		if err != nil {
			t.Fatalf("%q: unexpected err: %v", s, err)
		}
		again, err := ParseMinMaxRange("BAND", r.String())
		if err != nil {
			t.Fatalf("%q: reparse: %v", r.String(), err)
		}
		if again != r {
			t.Fatalf("round trip %q: got %+v want %+v", s, again, r)
		}
	}
}

func TestParseMinMaxRange_WrongArity(t *testing.T) {
	for _, s := range []string{"1.0", "1.0 2.0 3.0", ""} {
		_, err := ParseMinMaxRange("FOV", s)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%q: want ParseError, got %v", s, err)
		}
		if pe.Field != "FOV" {
			t.Fatalf("%q: error not attributed to field: %+v", s, pe)
		}
	}
}

func TestParseMinMaxRange_BadToken(t *testing.T) {
	for _, s := range []string{"abc 2", "1 inf", "NaN 2", "1 +Inf"} {
		if _, err := ParseMinMaxRange("BAND", s); err == nil {
			t.Fatalf("%q: expected error", s)
		}
	}
}
