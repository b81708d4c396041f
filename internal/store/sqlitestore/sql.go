package sqlitestore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skysurvey-io/sia-obscore/internal/obscore"
	"github.com/skysurvey-io/sia-obscore/internal/query"
)

// columns every predicate may reference. Anything else is rejected: the
// translator is the only producer of attribute names, but the compiler does
// not rely on that.
var queryableColumns = map[string]struct{}{
	obscore.ColDataProductType: {},
	obscore.ColCalibLevel:      {},
	obscore.ColObsCollection:   {},
	obscore.ColObsID:           {},
	obscore.ColAccessFormat:    {},
	obscore.ColTargetName:      {},
	obscore.ColSFov:            {},
	obscore.ColSResolution:     {},
	obscore.ColTMin:            {},
	obscore.ColTMax:            {},
	obscore.ColTExpTime:        {},
	obscore.ColTResolution:     {},
	obscore.ColEmMin:           {},
	obscore.ColEmResPower:      {},
	obscore.ColPolStates:       {},
	obscore.ColFacilityName:    {},
	obscore.ColInstrumentName:  {},
}

type compiler struct {
	prefilter func(q query.RadialTest) []string
	args      []any
}

// compile renders the predicate tree as a WHERE expression with bound
// parameters. A nil predicate compiles to the empty string (no WHERE).
func (c *compiler) compile(p query.Predicate) (string, error) {
	if p == nil {
		return "", nil
	}
	switch t := p.(type) {
	case query.And:
		return c.compileJoin(t.Preds, " AND ")
	case query.Or:
		return c.compileJoin(t.Preds, " OR ")
	case query.Compare:
		return c.compileCompare(t)
	case query.RadialTest:
		return c.compileRadial(t), nil
	case query.BoxTest:
		c.args = append(c.args, t.RA, t.Dec, t.HalfWidthRA, t.HalfWidthDec)
		return "sia_box_query(s_ra, s_dec, ?, ?, ?, ?)", nil
	case query.PolygonTest:
		c.args = append(c.args, polyString(t.Coordinates))
		return "sia_poly_query(s_ra, s_dec, ?)", nil
	default:
		return "", fmt.Errorf("unsupported predicate %T", p)
	}
}

func (c *compiler) compileJoin(preds []query.Predicate, sep string) (string, error) {
	if len(preds) == 0 {
		return "", fmt.Errorf("empty boolean group")
	}
	parts := make([]string, len(preds))
	for i, p := range preds {
		s, err := c.compile(p)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (c *compiler) compileCompare(cmp query.Compare) (string, error) {
	if _, ok := queryableColumns[cmp.Attr]; !ok {
		return "", fmt.Errorf("attribute %q is not queryable", cmp.Attr)
	}
	switch cmp.Op {
	case query.OpEq, query.OpGe, query.OpLe:
	default:
		return "", fmt.Errorf("unsupported operator %q", cmp.Op)
	}
	c.args = append(c.args, cmp.Value)
	return fmt.Sprintf("%s %s ?", cmp.Attr, cmp.Op), nil
}

// compileRadial emits the exact radial test, narrowed by an s_cell IN list
// when the sky mapper can produce a safe disk for the circle.
func (c *compiler) compileRadial(t query.RadialTest) string {
	radial := "sia_radial_query(s_ra, s_dec, ?, ?, ?)"
	var cells []string
	if c.prefilter != nil {
		cells = c.prefilter(t)
	}
	if len(cells) == 0 {
		c.args = append(c.args, t.RA, t.Dec, t.Radius)
		return radial
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cells)), ", ")
	for _, cell := range cells {
		c.args = append(c.args, cell)
	}
	c.args = append(c.args, t.RA, t.Dec, t.Radius)
	return "(s_cell IN (" + marks + ") AND " + radial + ")"
}

func polyString(coords []float64) string {
	var b strings.Builder
	for i := 0; i+1 < len(coords); i += 2 {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(coords[i], 'g', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(coords[i+1], 'g', -1, 64))
	}
	return b.String()
}
