// Package query translates validated SIA search parameters into a predicate
// tree the row store can execute. The translator never touches storage; it
// only describes the query.
package query

import "fmt"

// Predicate is one node of the tree. The variant set is closed: And, Or,
// Compare and the three region tests.
type Predicate interface {
	pred()
}

// And is the conjunction of its children. Translation never produces an
// empty And.
type And struct {
	Preds []Predicate
}

func (And) pred() {}

// Or is the disjunction of its children. Translation never produces an empty
// Or; an empty-but-present value list is rejected up front instead.
type Or struct {
	Preds []Predicate
}

func (Or) pred() {}

// Op is a comparison operator.
type Op string

const (
	OpEq Op = "="
	OpGe Op = ">="
	OpLe Op = "<="
)

// Compare tests one catalog attribute against a constant.
type Compare struct {
	Attr  string
	Op    Op
	Value any
}

func (Compare) pred() {}

// RadialTest matches positions within Radius degrees of (RA, Dec).
type RadialTest struct {
	RA     float64
	Dec    float64
	Radius float64
}

func (RadialTest) pred() {}

// BoxTest matches positions inside a box given by its midpoint and
// half-widths, all in degrees.
type BoxTest struct {
	RA           float64
	Dec          float64
	HalfWidthRA  float64
	HalfWidthDec float64
}

func (BoxTest) pred() {}

// PolygonTest matches positions inside the polygon whose vertices are the
// consecutive lon/lat pairs of Coordinates, in input order.
type PolygonTest struct {
	Coordinates []float64
}

func (PolygonTest) pred() {}

// Plan is the complete, immutable query description handed to the row store:
// the root predicate (nil means match all) and an optional record cap.
type Plan struct {
	Root   Predicate
	MaxRec *int
}

// TranslationError reports an internally inconsistent parameter set, e.g. a
// field that is present but carries no values. Translating such a state
// would yield a vacuous OR whose truth value is convention-dependent, so it
// is rejected instead of silently widening or narrowing the query.
type TranslationError struct {
	Field string
	Msg   string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("cannot translate %s: %s", e.Field, e.Msg)
}
