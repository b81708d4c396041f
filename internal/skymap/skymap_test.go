package skymap

import (
	"slices"
	"testing"
)

func TestNew_RejectsBadResolution(t *testing.T) {
	if _, err := New(-1); err == nil {
		t.Fatal("expected error for res -1")
	}
	if _, err := New(16); err == nil {
		t.Fatal("expected error for res 16")
	}
}

func TestCellForPosition_Deterministic(t *testing.T) {
	m, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, err := m.CellForPosition(10.684, -74.044)
	if err != nil {
		t.Fatalf("CellForPosition: %v", err)
	}
	b, err := m.CellForPosition(10.684, -74.044)
	if err != nil {
		t.Fatalf("CellForPosition: %v", err)
	}
	if a == "" || a != b {
		t.Fatalf("got %q / %q", a, b)
	}
}

func TestCellForPosition_HighRAFolds(t *testing.T) {
	m, _ := New(3)
	// RA above 180 must fold into H3's longitude range instead of erroring
	if _, err := m.CellForPosition(350.5, 12.0); err != nil {
		t.Fatalf("CellForPosition: %v", err)
	}
}

func TestCellsForCircle_CoversCenter(t *testing.T) {
	m, _ := New(3)
	cells, err := m.CellsForCircle(120, 45, 0.5)
	if err != nil {
		t.Fatalf("CellsForCircle: %v", err)
	}
	if len(cells) == 0 {
		t.Fatal("expected a prefilter disk")
	}
	center, err := m.CellForPosition(120, 45)
	if err != nil {
		t.Fatalf("CellForPosition: %v", err)
	}
	if !slices.Contains(cells, center) {
		t.Fatalf("disk %v does not contain center cell %s", cells, center)
	}
	if !slices.IsSorted(cells) {
		t.Fatal("disk not sorted")
	}
}

func TestCellsForCircle_PolarGuard(t *testing.T) {
	m, _ := New(3)
	cells, err := m.CellsForCircle(10, 85, 0.5)
	if err != nil {
		t.Fatalf("CellsForCircle: %v", err)
	}
	if cells != nil {
		t.Fatalf("expected nil prefilter near the pole, got %d cells", len(cells))
	}
}

func TestCellsForCircle_OversizedDiskFallsBack(t *testing.T) {
	m, _ := New(8)
	cells, err := m.CellsForCircle(10, 10, 30)
	if err != nil {
		t.Fatalf("CellsForCircle: %v", err)
	}
	if cells != nil {
		t.Fatalf("expected nil prefilter for oversized disk, got %d cells", len(cells))
	}
}
