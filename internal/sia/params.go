package sia

import "net/url"

// Field names of the SIA query interface. The middleware layer uppercases
// incoming parameter names, so these are the only spellings the parser sees.
const (
	FieldPos        = "POS"
	FieldBand       = "BAND"
	FieldTime       = "TIME"
	FieldPol        = "POL"
	FieldFov        = "FOV"
	FieldSpatRes    = "SPATRES"
	FieldSpecRP     = "SPECRP"
	FieldExpTime    = "EXPTIME"
	FieldTimeRes    = "TIMERES"
	FieldID         = "ID"
	FieldCollection = "COLLECTION"
	FieldFacility   = "FACILITY"
	FieldInstrument = "INSTRUMENT"
	FieldDPType     = "DPTYPE"
	FieldCalib      = "CALIB"
	FieldTarget     = "TARGET"
	FieldFormat     = "FORMAT"
	FieldMaxRec     = "MAXREC"
)

// SearchParams is the validated, typed form of a SIA request. A nil slice
// means the field was not supplied and contributes no filter; multiple values
// within one field are alternatives (logical OR).
type SearchParams struct {
	Pos        []Region
	Band       []MinMaxRange
	Time       []TimeRange
	Pol        []PolarizationLabel
	Fov        []MinMaxRange
	SpatRes    []MinMaxRange
	SpecRP     []MinMaxRange
	ExpTime    []MinMaxRange
	TimeRes    []MinMaxRange
	ID         []string
	Collection []string
	Facility   []string
	Instrument []string
	DPType     []DataProductType
	Calib      []int
	Target     []string
	Format     []string
	MaxRec     *int
}

// fieldParser consumes one raw value of its field and appends the parsed
// result to the params aggregate.
type fieldParser func(p *SearchParams, field, raw string) error

func rangeField(dst func(*SearchParams) *[]MinMaxRange) fieldParser {
	return func(p *SearchParams, field, raw string) error {
		r, err := ParseMinMaxRange(field, raw)
		if err != nil {
			return err
		}
		*dst(p) = append(*dst(p), r)
		return nil
	}
}

func stringField(dst func(*SearchParams) *[]string) fieldParser {
	return func(p *SearchParams, _, raw string) error {
		*dst(p) = append(*dst(p), raw)
		return nil
	}
}

// fieldTable enumerates every recognized multi-valued field with its parser.
// Adding or removing a supported field is a one-line edit here.
var fieldTable = []struct {
	name  string
	parse fieldParser
}{
	{FieldPos, func(p *SearchParams, field, raw string) error {
		r, err := ParsePos(field, raw)
		if err != nil {
			return err
		}
		p.Pos = append(p.Pos, r)
		return nil
	}},
	{FieldBand, rangeField(func(p *SearchParams) *[]MinMaxRange { return &p.Band })},
	{FieldTime, func(p *SearchParams, field, raw string) error {
		t, err := ParseTimeRange(field, raw)
		if err != nil {
			return err
		}
		p.Time = append(p.Time, t)
		return nil
	}},
	{FieldPol, func(p *SearchParams, field, raw string) error {
		l, err := ParsePolarization(field, raw)
		if err != nil {
			return err
		}
		p.Pol = append(p.Pol, l)
		return nil
	}},
	{FieldFov, rangeField(func(p *SearchParams) *[]MinMaxRange { return &p.Fov })},
	{FieldSpatRes, rangeField(func(p *SearchParams) *[]MinMaxRange { return &p.SpatRes })},
	{FieldSpecRP, rangeField(func(p *SearchParams) *[]MinMaxRange { return &p.SpecRP })},
	{FieldExpTime, rangeField(func(p *SearchParams) *[]MinMaxRange { return &p.ExpTime })},
	{FieldTimeRes, rangeField(func(p *SearchParams) *[]MinMaxRange { return &p.TimeRes })},
	{FieldID, stringField(func(p *SearchParams) *[]string { return &p.ID })},
	{FieldCollection, stringField(func(p *SearchParams) *[]string { return &p.Collection })},
	{FieldFacility, stringField(func(p *SearchParams) *[]string { return &p.Facility })},
	{FieldInstrument, stringField(func(p *SearchParams) *[]string { return &p.Instrument })},
	{FieldDPType, func(p *SearchParams, field, raw string) error {
		t, err := ParseDataProductType(field, raw)
		if err != nil {
			return err
		}
		p.DPType = append(p.DPType, t)
		return nil
	}},
	{FieldCalib, func(p *SearchParams, field, raw string) error {
		n, err := ParseCalibLevel(field, raw)
		if err != nil {
			return err
		}
		p.Calib = append(p.Calib, n)
		return nil
	}},
	{FieldTarget, stringField(func(p *SearchParams) *[]string { return &p.Target })},
	{FieldFormat, stringField(func(p *SearchParams) *[]string { return &p.Format })},
}

// ParseSearchParams parses and validates every recognized field from the raw
// query values. Unrecognized parameter names are ignored, per DALI. All
// failing values are collected so the response can name each one.
func ParseSearchParams(values url.Values) (SearchParams, error) {
	var p SearchParams
	var errs ParamErrors

	for _, f := range fieldTable {
		for _, raw := range values[f.name] {
			if err := f.parse(&p, f.name, raw); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if raw := values.Get(FieldMaxRec); raw != "" {
		n, err := ParseMaxRec(FieldMaxRec, raw)
		if err != nil {
			errs = append(errs, err)
		} else {
			p.MaxRec = &n
		}
	}

	if len(errs) > 0 {
		return SearchParams{}, errs
	}
	return p, nil
}
