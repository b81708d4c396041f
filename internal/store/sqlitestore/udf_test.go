package sqlitestore

import (
	"math"
	"testing"
)

func TestAngularSeparation(t *testing.T) {
	if d := angularSeparation(10, 20, 10, 20); d != 0 {
		t.Fatalf("same point: %g", d)
	}
	// one degree of declination at fixed RA is one degree of separation
	if d := angularSeparation(10, 20, 10, 21); math.Abs(d-1) > 1e-9 {
		t.Fatalf("dec offset: %g", d)
	}
	// RA separation shrinks with cos(dec)
	d := angularSeparation(10, 60, 11, 60)
	if math.Abs(d-math.Cos(60*math.Pi/180)) > 1e-3 {
		t.Fatalf("ra offset at dec 60: %g", d)
	}
}

func TestRadialMatch(t *testing.T) {
	if !radialMatch(10.7, -74.0, 10.684, -74.044, 0.1) {
		t.Fatal("point near center should match")
	}
	if radialMatch(12.0, -74.0, 10.684, -74.044, 0.1) {
		t.Fatal("distant point should not match")
	}
}

func TestBoxMatch_WrapsRA(t *testing.T) {
	if !boxMatch(359.5, 0, 0, 0, 1, 1) {
		t.Fatal("RA 359.5 is within 1 degree of RA 0 across the wrap")
	}
	if boxMatch(357, 0, 0, 0, 1, 1) {
		t.Fatal("RA 357 is 3 degrees from RA 0")
	}
	if boxMatch(0, 2, 0, 0, 1, 1) {
		t.Fatal("dec outside half-height")
	}
}

func TestPolyMatch(t *testing.T) {
	tri := []float64{0, 0, 10, 0, 10, 10}
	if !polyMatch(8, 2, tri) {
		t.Fatal("interior point should match")
	}
	if polyMatch(2, 8, tri) {
		t.Fatal("point outside the hypotenuse should not match")
	}
	if polyMatch(20, 5, tri) {
		t.Fatal("far point should not match")
	}
}

func TestParsePolyString(t *testing.T) {
	got, err := parsePolyString("0 0, 10 0, 10 10")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 6 || got[2] != 10 || got[5] != 10 {
		t.Fatalf("got %v", got)
	}
	if _, err := parsePolyString("0 0, 10"); err == nil {
		t.Fatal("expected error for incomplete vertex")
	}
	if _, err := parsePolyString("0 0, 1 1"); err == nil {
		t.Fatal("expected error for 2 vertices")
	}
}

func TestPolyStringRoundTrip(t *testing.T) {
	coords := []float64{0, 0, 10.5, 0, 10.5, 10, 0, 10}
	got, err := parsePolyString(polyString(coords))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != len(coords) {
		t.Fatalf("got %v want %v", got, coords)
	}
	for i := range coords {
		if got[i] != coords[i] {
			t.Fatalf("index %d: got %g want %g", i, got[i], coords[i])
		}
	}
}
