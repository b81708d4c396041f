// Package skymap maps sky positions onto H3 cells. The store keeps one cell
// per catalog row and uses grid disks as a coarse prefilter for radial
// searches, the same role q3c's index plays in the original Postgres layout.
package skymap

import (
	"fmt"
	"sort"

	h3 "github.com/uber/h3-go/v4"
)

const (
	// kmPerDegree is the mean arc length of one degree on the unit sphere
	// scaled to Earth's radius, which is the sphere H3 cells are sized for.
	kmPerDegree = 111.2

	// maxDiskCells bounds the IN-list a prefilter may produce; larger disks
	// fall back to a full scan with the exact radial test.
	maxDiskCells = 512

	// maxPrefilterDec guards the polar caps, where hexagon geometry distorts
	// enough that a disk estimated from average edge lengths may undercover.
	maxPrefilterDec = 80.0
)

// avgEdgeKm is the average hexagon edge length per H3 resolution, in km.
var avgEdgeKm = [16]float64{
	1107.712591, 418.6760055, 158.2446558, 59.81085794,
	22.6063794, 8.544408276, 3.229482772, 1.220629759,
	0.461354684, 0.174375668, 0.065907807, 0.024910561,
	0.009415526, 0.003559893, 0.001348575, 0.000509713,
}

type Mapper struct {
	res int
}

func New(res int) (*Mapper, error) {
	if res < 0 || res > 15 {
		return nil, fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return &Mapper{res: res}, nil
}

func (m *Mapper) Resolution() int { return m.res }

// CellForPosition returns the cell containing (ra, dec) at the mapper's
// resolution. RA is given in [0, 360] and folded into H3's [-180, 180]
// longitude convention.
func (m *Mapper) CellForPosition(ra, dec float64) (string, error) {
	cell, err := h3.LatLngToCell(h3.LatLng{Lat: dec, Lng: lngForRA(ra)}, m.res)
	if err != nil {
		return "", fmt.Errorf("h3 cell for (%g, %g): %w", ra, dec, err)
	}
	return cell.String(), nil
}

// CellsForCircle returns a sorted superset of the cells any position within
// radius degrees of (ra, dec) can fall into, or nil when no safe prefilter
// exists (polar region, oversized disk). Callers must still apply the exact
// radial test; the disk only narrows the scan.
func (m *Mapper) CellsForCircle(ra, dec, radius float64) ([]string, error) {
	if radius < 0 {
		return nil, fmt.Errorf("negative radius %g", radius)
	}
	if dec-radius < -maxPrefilterDec || dec+radius > maxPrefilterDec {
		return nil, nil
	}

	edgeDeg := avgEdgeKm[m.res] / kmPerDegree
	k := int(radius/edgeDeg) + 2
	// disk size grows as ~3k(k+1)+1
	if 3*k*(k+1)+1 > maxDiskCells {
		return nil, nil
	}

	origin, err := h3.LatLngToCell(h3.LatLng{Lat: dec, Lng: lngForRA(ra)}, m.res)
	if err != nil {
		return nil, fmt.Errorf("h3 origin cell: %w", err)
	}
	disk, err := h3.GridDisk(origin, k)
	if err != nil {
		return nil, fmt.Errorf("h3 grid disk k=%d: %w", k, err)
	}

	seen := make(map[string]struct{}, len(disk))
	out := make([]string, 0, len(disk))
	for _, c := range disk {
		s := c.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

func lngForRA(ra float64) float64 {
	if ra > 180 {
		return ra - 360
	}
	return ra
}
