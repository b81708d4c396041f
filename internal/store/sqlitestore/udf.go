package sqlitestore

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"

	"modernc.org/sqlite"
)

// The original deployment delegated region tests to Postgres' q3c extension
// (q3c_radial_query / q3c_box_query / q3c_poly_query). SQLite has no such
// extension, so the same predicates are registered as scalar functions on
// the driver.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("sia_radial_query", 5,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			ra, dec, cra, cdec, radius, err := fiveFloats(args)
			if err != nil {
				return nil, fmt.Errorf("sia_radial_query: %w", err)
			}
			return boolInt(radialMatch(ra, dec, cra, cdec, radius)), nil
		})

	sqlite.MustRegisterDeterministicScalarFunction("sia_box_query", 6,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			if len(args) != 6 {
				return nil, fmt.Errorf("sia_box_query: want 6 args, got %d", len(args))
			}
			vals := make([]float64, 6)
			for i, a := range args {
				f, err := toFloat(a)
				if err != nil {
					return nil, fmt.Errorf("sia_box_query arg %d: %w", i, err)
				}
				vals[i] = f
			}
			return boolInt(boxMatch(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])), nil
		})

	sqlite.MustRegisterDeterministicScalarFunction("sia_poly_query", 3,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			if len(args) != 3 {
				return nil, fmt.Errorf("sia_poly_query: want 3 args, got %d", len(args))
			}
			ra, err := toFloat(args[0])
			if err != nil {
				return nil, fmt.Errorf("sia_poly_query ra: %w", err)
			}
			dec, err := toFloat(args[1])
			if err != nil {
				return nil, fmt.Errorf("sia_poly_query dec: %w", err)
			}
			poly, err := parsePolyString(toString(args[2]))
			if err != nil {
				return nil, fmt.Errorf("sia_poly_query: %w", err)
			}
			return boolInt(polyMatch(ra, dec, poly)), nil
		})
}

func fiveFloats(args []driver.Value) (a, b, c, d, e float64, err error) {
	if len(args) != 5 {
		return 0, 0, 0, 0, 0, fmt.Errorf("want 5 args, got %d", len(args))
	}
	vals := make([]float64, 5)
	for i, arg := range args {
		vals[i], err = toFloat(arg)
		if err != nil {
			return 0, 0, 0, 0, 0, fmt.Errorf("arg %d: %w", i, err)
		}
	}
	return vals[0], vals[1], vals[2], vals[3], vals[4], nil
}

func toFloat(v driver.Value) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("not numeric: %T", v)
	}
}

func toString(v driver.Value) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return ""
	}
}

func boolInt(b bool) driver.Value {
	if b {
		return int64(1)
	}
	return int64(0)
}

// radialMatch reports whether (ra, dec) lies within radius degrees of
// (cra, cdec), by great-circle separation.
func radialMatch(ra, dec, cra, cdec, radius float64) bool {
	return angularSeparation(ra, dec, cra, cdec) <= radius
}

// angularSeparation computes the great-circle distance between two sky
// positions in degrees, using the haversine form for numerical stability at
// small separations.
func angularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	const degToRad = math.Pi / 180
	phi1 := dec1 * degToRad
	phi2 := dec2 * degToRad
	dPhi := (dec2 - dec1) * degToRad
	dLam := (ra2 - ra1) * degToRad

	sinPhi := math.Sin(dPhi / 2)
	sinLam := math.Sin(dLam / 2)
	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLam*sinLam
	return 2 * math.Asin(math.Min(1, math.Sqrt(h))) / degToRad
}

// boxMatch reports whether (ra, dec) lies inside the box centered on
// (cra, cdec) with the given half-widths in degrees. The RA delta wraps
// around 0/360.
func boxMatch(ra, dec, cra, cdec, halfRA, halfDec float64) bool {
	dRA := math.Abs(wrapDelta(ra - cra))
	dDec := math.Abs(dec - cdec)
	return dRA <= halfRA && dDec <= halfDec
}

func wrapDelta(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

// polyMatch reports whether (ra, dec) lies inside the polygon, by ray
// casting over the lon/lat plane. Vertices are consecutive (lon, lat) pairs
// in input order; the closing edge is implicit.
func polyMatch(ra, dec float64, poly []float64) bool {
	n := len(poly) / 2
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := poly[2*i], poly[2*i+1]
		xj, yj := poly[2*j], poly[2*j+1]
		if (yi > dec) != (yj > dec) &&
			ra < (xj-xi)*(dec-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// parsePolyString parses the "lon lat, lon lat, ..." wire form the compiler
// emits (the same shape q3c_poly_query accepts).
func parsePolyString(s string) ([]float64, error) {
	pairs := strings.Split(s, ",")
	out := make([]float64, 0, len(pairs)*2)
	for _, p := range pairs {
		fields := strings.Fields(p)
		if len(fields) != 2 {
			return nil, fmt.Errorf("bad vertex %q", strings.TrimSpace(p))
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("bad coordinate %q", f)
			}
			out = append(out, v)
		}
	}
	if len(out) < 6 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(out)/2)
	}
	return out, nil
}
