package sqlitestore

import (
	"strings"
	"testing"

	"github.com/skysurvey-io/sia-obscore/internal/obscore"
	"github.com/skysurvey-io/sia-obscore/internal/query"
)

func TestCompile_NilIsEmpty(t *testing.T) {
	c := &compiler{}
	where, err := c.compile(nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if where != "" || len(c.args) != 0 {
		t.Fatalf("got %q args %v", where, c.args)
	}
}

func TestCompile_CompareAndBooleans(t *testing.T) {
	c := &compiler{}
	where, err := c.compile(query.And{Preds: []query.Predicate{
		query.Or{Preds: []query.Predicate{
			query.Compare{Attr: obscore.ColObsCollection, Op: query.OpEq, Value: "SurveyA"},
			query.Compare{Attr: obscore.ColObsCollection, Op: query.OpEq, Value: "SurveyB"},
		}},
		query.Compare{Attr: obscore.ColEmMin, Op: query.OpGe, Value: 5.0},
	}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := "((obs_collection = ? OR obs_collection = ?) AND em_min >= ?)"
	if where != want {
		t.Fatalf("got %q want %q", where, want)
	}
	if len(c.args) != 3 || c.args[0] != "SurveyA" || c.args[2] != 5.0 {
		t.Fatalf("args %v", c.args)
	}
}

func TestCompile_RejectsUnknownAttribute(t *testing.T) {
	c := &compiler{}
	_, err := c.compile(query.Compare{Attr: "obs_id; DROP TABLE obscore", Op: query.OpEq, Value: "x"})
	if err == nil {
		t.Fatal("expected error for unknown attribute")
	}
}

func TestCompile_RadialWithoutPrefilter(t *testing.T) {
	c := &compiler{}
	where, err := c.compile(query.RadialTest{RA: 10, Dec: 20, Radius: 0.5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if where != "sia_radial_query(s_ra, s_dec, ?, ?, ?)" {
		t.Fatalf("got %q", where)
	}
	if len(c.args) != 3 {
		t.Fatalf("args %v", c.args)
	}
}

func TestCompile_RadialWithPrefilter(t *testing.T) {
	c := &compiler{prefilter: func(query.RadialTest) []string {
		return []string{"cellA", "cellB"}
	}}
	where, err := c.compile(query.RadialTest{RA: 10, Dec: 20, Radius: 0.5})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := "(s_cell IN (?, ?) AND sia_radial_query(s_ra, s_dec, ?, ?, ?))"
	if where != want {
		t.Fatalf("got %q want %q", where, want)
	}
	if len(c.args) != 5 || c.args[0] != "cellA" || c.args[1] != "cellB" {
		t.Fatalf("args %v", c.args)
	}
}

func TestCompile_BoxAndPolygon(t *testing.T) {
	c := &compiler{}
	where, err := c.compile(query.Or{Preds: []query.Predicate{
		query.BoxTest{RA: 15, Dec: -20, HalfWidthRA: 5, HalfWidthDec: 10},
		query.PolygonTest{Coordinates: []float64{0, 0, 10, 0, 10, 10}},
	}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(where, "sia_box_query(s_ra, s_dec, ?, ?, ?, ?)") {
		t.Fatalf("got %q", where)
	}
	if !strings.Contains(where, "sia_poly_query(s_ra, s_dec, ?)") {
		t.Fatalf("got %q", where)
	}
	if c.args[len(c.args)-1] != "0 0, 10 0, 10 10" {
		t.Fatalf("poly arg %v", c.args[len(c.args)-1])
	}
}
