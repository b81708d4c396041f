package sia

import (
	"fmt"
	"strconv"
)

// PolarizationLabel is one of the polarization states recognized by the
// ObsCore pol_states column.
type PolarizationLabel string

const (
	PolI    PolarizationLabel = "I"
	PolQ    PolarizationLabel = "Q"
	PolU    PolarizationLabel = "U"
	PolV    PolarizationLabel = "V"
	PolRR   PolarizationLabel = "RR"
	PolLL   PolarizationLabel = "LL"
	PolRL   PolarizationLabel = "RL"
	PolLR   PolarizationLabel = "LR"
	PolXX   PolarizationLabel = "XX"
	PolYY   PolarizationLabel = "YY"
	PolXY   PolarizationLabel = "XY"
	PolYX   PolarizationLabel = "YX"
	PolPOLI PolarizationLabel = "POLI"
	PolPOLA PolarizationLabel = "POLA"
)

var polarizationLabels = map[PolarizationLabel]struct{}{
	PolI: {}, PolQ: {}, PolU: {}, PolV: {},
	PolRR: {}, PolLL: {}, PolRL: {}, PolLR: {},
	PolXX: {}, PolYY: {}, PolXY: {}, PolYX: {},
	PolPOLI: {}, PolPOLA: {},
}

// ParsePolarization maps a raw token onto the closed polarization set.
func ParsePolarization(field, s string) (PolarizationLabel, error) {
	l := PolarizationLabel(s)
	if _, ok := polarizationLabels[l]; !ok {
		return "", &ParseError{Field: field, Value: s, Msg: "not a recognized polarization state"}
	}
	return l, nil
}

// DataProductType is the subset of ObsCore dataproduct_type values a SIA
// service may return. The catalog itself knows more types (spectrum, sed,
// timeseries, ...), but the SIA API surface is restricted to these two.
type DataProductType string

const (
	DataProductImage DataProductType = "image"
	DataProductCube  DataProductType = "cube"
)

// ParseDataProductType maps a raw token onto the closed DPTYPE set.
func ParseDataProductType(field, s string) (DataProductType, error) {
	switch DataProductType(s) {
	case DataProductImage:
		return DataProductImage, nil
	case DataProductCube:
		return DataProductCube, nil
	}
	return "", &ParseError{Field: field, Value: s, Msg: `must be "image" or "cube"`}
}

// ParseCalibLevel accepts the literal calibration levels 1, 2 and 3.
func ParseCalibLevel(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Field: field, Value: s, Msg: "not an integer"}
	}
	if n < 1 || n > 3 {
		return 0, &ParseError{Field: field, Value: s, Msg: fmt.Sprintf("calibration level must be 1, 2 or 3, got %d", n)}
	}
	return n, nil
}

// ParseMaxRec parses the record cap. Zero is a valid cap meaning "return no
// records".
func ParseMaxRec(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Field: field, Value: s, Msg: "not an integer"}
	}
	if n < 0 {
		return 0, &ValidationError{Field: field, Msg: fmt.Sprintf("must be non-negative, got %d", n)}
	}
	return n, nil
}
