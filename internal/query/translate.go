package query

import (
	"math"

	"github.com/skysurvey-io/sia-obscore/internal/obscore"
	"github.com/skysurvey-io/sia-obscore/internal/sia"
)

// Translate converts validated search parameters into a query plan. Fields
// combine conjunctively; values within a field are alternatives. Absent
// fields contribute nothing. The input is assumed validated; Translate does
// not re-check grammars or bounds, but it does fail fast on states no valid
// parse can produce.
func Translate(p sia.SearchParams) (Plan, error) {
	var groups []Predicate

	for _, ft := range translatorTable {
		group, err := ft.translate(p)
		if err != nil {
			return Plan{}, err
		}
		if group != nil {
			groups = append(groups, group)
		}
	}

	plan := Plan{MaxRec: p.MaxRec}
	switch len(groups) {
	case 0:
		// match all
	case 1:
		plan.Root = groups[0]
	default:
		plan.Root = And{Preds: groups}
	}
	return plan, nil
}

// translatorTable pairs every field with its predicate builder, mirroring
// the parser table in the sia package.
var translatorTable = []struct {
	field     string
	translate func(p sia.SearchParams) (Predicate, error)
}{
	{sia.FieldPos, func(p sia.SearchParams) (Predicate, error) { return translatePos(p.Pos) }},
	{sia.FieldBand, func(p sia.SearchParams) (Predicate, error) {
		return translateRanges(sia.FieldBand, obscore.ColEmMin, p.Band)
	}},
	{sia.FieldTime, func(p sia.SearchParams) (Predicate, error) { return translateTime(p.Time) }},
	{sia.FieldPol, func(p sia.SearchParams) (Predicate, error) {
		return translateEquals(sia.FieldPol, obscore.ColPolStates, labelsToAny(p.Pol))
	}},
	{sia.FieldFov, func(p sia.SearchParams) (Predicate, error) {
		return translateRanges(sia.FieldFov, obscore.ColSFov, p.Fov)
	}},
	{sia.FieldSpatRes, func(p sia.SearchParams) (Predicate, error) {
		return translateRanges(sia.FieldSpatRes, obscore.ColSResolution, p.SpatRes)
	}},
	{sia.FieldSpecRP, func(p sia.SearchParams) (Predicate, error) {
		return translateRanges(sia.FieldSpecRP, obscore.ColEmResPower, p.SpecRP)
	}},
	{sia.FieldExpTime, func(p sia.SearchParams) (Predicate, error) {
		return translateRanges(sia.FieldExpTime, obscore.ColTExpTime, p.ExpTime)
	}},
	{sia.FieldTimeRes, func(p sia.SearchParams) (Predicate, error) {
		return translateRanges(sia.FieldTimeRes, obscore.ColTResolution, p.TimeRes)
	}},
	{sia.FieldID, func(p sia.SearchParams) (Predicate, error) {
		return translateEquals(sia.FieldID, obscore.ColObsID, stringsToAny(p.ID))
	}},
	{sia.FieldCollection, func(p sia.SearchParams) (Predicate, error) {
		return translateEquals(sia.FieldCollection, obscore.ColObsCollection, stringsToAny(p.Collection))
	}},
	{sia.FieldFacility, func(p sia.SearchParams) (Predicate, error) {
		return translateEquals(sia.FieldFacility, obscore.ColFacilityName, stringsToAny(p.Facility))
	}},
	{sia.FieldInstrument, func(p sia.SearchParams) (Predicate, error) {
		return translateEquals(sia.FieldInstrument, obscore.ColInstrumentName, stringsToAny(p.Instrument))
	}},
	{sia.FieldDPType, func(p sia.SearchParams) (Predicate, error) {
		var vals []any
		if p.DPType != nil {
			vals = make([]any, len(p.DPType))
			for i, v := range p.DPType {
				vals[i] = string(v)
			}
		}
		return translateEquals(sia.FieldDPType, obscore.ColDataProductType, vals)
	}},
	{sia.FieldCalib, func(p sia.SearchParams) (Predicate, error) {
		var vals []any
		if p.Calib != nil {
			vals = make([]any, len(p.Calib))
			for i, v := range p.Calib {
				vals[i] = int64(v)
			}
		}
		return translateEquals(sia.FieldCalib, obscore.ColCalibLevel, vals)
	}},
	{sia.FieldTarget, func(p sia.SearchParams) (Predicate, error) {
		return translateEquals(sia.FieldTarget, obscore.ColTargetName, stringsToAny(p.Target))
	}},
	{sia.FieldFormat, func(p sia.SearchParams) (Predicate, error) {
		return translateEquals(sia.FieldFormat, obscore.ColAccessFormat, stringsToAny(p.Format))
	}},
}

// stringsToAny preserves the nil/empty distinction: nil means the field was
// absent, a non-nil empty slice means present-but-empty.
func stringsToAny(vals []string) []any {
	if vals == nil {
		return nil
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func labelsToAny(vals []sia.PolarizationLabel) []any {
	if vals == nil {
		return nil
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func orOf(preds []Predicate) Predicate {
	if len(preds) == 1 {
		return preds[0]
	}
	return Or{Preds: preds}
}

// translateRanges builds the OR-of-closed-intervals group for one attribute.
// An infinite bound degenerates to a one-sided comparison; a fully unbounded
// range makes the whole group vacuously true, so the field is dropped.
func translateRanges(field, attr string, ranges []sia.MinMaxRange) (Predicate, error) {
	if ranges == nil {
		return nil, nil
	}
	if len(ranges) == 0 {
		return nil, &TranslationError{Field: field, Msg: "present but has no values"}
	}
	alts := make([]Predicate, 0, len(ranges))
	for _, r := range ranges {
		var cmps []Predicate
		if !math.IsInf(r.Min, -1) {
			cmps = append(cmps, Compare{Attr: attr, Op: OpGe, Value: r.Min})
		}
		if !math.IsInf(r.Max, 1) {
			cmps = append(cmps, Compare{Attr: attr, Op: OpLe, Value: r.Max})
		}
		switch len(cmps) {
		case 0:
			// "-Inf Inf" matches everything, so the OR group does too.
			return nil, nil
		case 1:
			alts = append(alts, cmps[0])
		default:
			alts = append(alts, And{Preds: cmps})
		}
	}
	return orOf(alts), nil
}

// translateTime builds the OR of interval-overlap tests. A closed query
// interval [start, end] overlaps an observation [t_min, t_max] when
// t_max >= start and t_min <= end; an open-ended query keeps only the first
// comparison.
func translateTime(times []sia.TimeRange) (Predicate, error) {
	if times == nil {
		return nil, nil
	}
	if len(times) == 0 {
		return nil, &TranslationError{Field: sia.FieldTime, Msg: "present but has no values"}
	}
	alts := make([]Predicate, 0, len(times))
	for _, t := range times {
		after := Compare{Attr: obscore.ColTMax, Op: OpGe, Value: t.Start}
		if t.End == nil {
			alts = append(alts, after)
			continue
		}
		alts = append(alts, And{Preds: []Predicate{
			after,
			Compare{Attr: obscore.ColTMin, Op: OpLe, Value: *t.End},
		}})
	}
	return orOf(alts), nil
}

// translatePos builds the OR of region tests. Dispatch is exhaustive over
// the closed region set; anything else is an internal inconsistency.
func translatePos(regions []sia.Region) (Predicate, error) {
	if regions == nil {
		return nil, nil
	}
	if len(regions) == 0 {
		return nil, &TranslationError{Field: sia.FieldPos, Msg: "present but has no values"}
	}
	alts := make([]Predicate, 0, len(regions))
	for _, r := range regions {
		switch reg := r.(type) {
		case sia.Circle:
			alts = append(alts, RadialTest{RA: reg.Longitude, Dec: reg.Latitude, Radius: reg.Radius})
		case sia.Range:
			alts = append(alts, BoxTest{
				RA:           (reg.Lon1 + reg.Lon2) / 2,
				Dec:          (reg.Lat1 + reg.Lat2) / 2,
				HalfWidthRA:  math.Abs(reg.Lon2-reg.Lon1) / 2,
				HalfWidthDec: math.Abs(reg.Lat2-reg.Lat1) / 2,
			})
		case sia.Polygon:
			alts = append(alts, PolygonTest{Coordinates: reg.Coordinates})
		default:
			return nil, &TranslationError{Field: sia.FieldPos, Msg: "unknown region variant"}
		}
	}
	return orOf(alts), nil
}

// translateEquals builds the OR of equality tests for an enumeration or
// exact-match field.
func translateEquals(field, attr string, vals []any) (Predicate, error) {
	if vals == nil {
		return nil, nil
	}
	if len(vals) == 0 {
		return nil, &TranslationError{Field: field, Msg: "present but has no values"}
	}
	alts := make([]Predicate, len(vals))
	for i, v := range vals {
		alts[i] = Compare{Attr: attr, Op: OpEq, Value: v}
	}
	return orOf(alts), nil
}
