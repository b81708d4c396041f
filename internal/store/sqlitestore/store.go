// Package sqlitestore implements the observation catalog on an embedded
// SQLite database. It executes query plans produced by the translator; the
// region predicates run as registered scalar functions, with an H3 cell
// prefilter standing in for the original deployment's q3c index.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/skysurvey-io/sia-obscore/internal/obscore"
	"github.com/skysurvey-io/sia-obscore/internal/observability"
	"github.com/skysurvey-io/sia-obscore/internal/query"
	"github.com/skysurvey-io/sia-obscore/internal/skymap"
)

const schema = `
CREATE TABLE IF NOT EXISTS obscore (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dataproduct_type TEXT NOT NULL,
	calib_level INTEGER NOT NULL,
	obs_collection TEXT NOT NULL,
	obs_id TEXT NOT NULL,
	obs_publisher_did TEXT NOT NULL,
	access_url TEXT NOT NULL DEFAULT '',
	access_format TEXT NOT NULL DEFAULT '',
	access_estsize INTEGER NOT NULL DEFAULT 0,
	target_name TEXT NOT NULL DEFAULT '',
	s_ra REAL NOT NULL,
	s_dec REAL NOT NULL,
	s_fov REAL NOT NULL DEFAULT 0,
	s_region TEXT NOT NULL DEFAULT '',
	s_resolution REAL NOT NULL DEFAULT 0,
	s_xel1 INTEGER NOT NULL DEFAULT 0,
	s_xel2 INTEGER NOT NULL DEFAULT 0,
	t_min REAL NOT NULL DEFAULT 0,
	t_max REAL NOT NULL DEFAULT 0,
	t_exptime REAL NOT NULL DEFAULT 0,
	t_resolution REAL NOT NULL DEFAULT 0,
	t_xel INTEGER NOT NULL DEFAULT 0,
	em_min REAL NOT NULL DEFAULT 0,
	em_max REAL NOT NULL DEFAULT 0,
	em_res_power REAL NOT NULL DEFAULT 0,
	em_xel INTEGER NOT NULL DEFAULT 0,
	o_ucd TEXT NOT NULL DEFAULT '',
	pol_states TEXT NOT NULL DEFAULT '',
	pol_xel INTEGER NOT NULL DEFAULT 0,
	facility_name TEXT NOT NULL DEFAULT '',
	instrument_name TEXT NOT NULL DEFAULT '',
	s_cell TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_obscore_s_cell ON obscore (s_cell);
CREATE INDEX IF NOT EXISTS idx_obscore_collection ON obscore (obs_collection);
CREATE INDEX IF NOT EXISTS idx_obscore_time ON obscore (t_min, t_max);
`

// selectColumns matches the scan order of scanRecord.
var selectColumns = strings.Join([]string{
	obscore.ColDataProductType, obscore.ColCalibLevel, obscore.ColObsCollection,
	obscore.ColObsID, obscore.ColObsPublisherDID, obscore.ColAccessURL,
	obscore.ColAccessFormat, obscore.ColAccessEstSize, obscore.ColTargetName,
	obscore.ColSRA, obscore.ColSDec, obscore.ColSFov, obscore.ColSRegion,
	obscore.ColSResolution, obscore.ColSXel1, obscore.ColSXel2,
	obscore.ColTMin, obscore.ColTMax, obscore.ColTExpTime, obscore.ColTResolution,
	obscore.ColTXel, obscore.ColEmMin, obscore.ColEmMax, obscore.ColEmResPower,
	obscore.ColEmXel, obscore.ColOUcd, obscore.ColPolStates, obscore.ColPolXel,
	obscore.ColFacilityName, obscore.ColInstrumentName,
}, ", ")

type Store struct {
	db     *sql.DB
	mapper *skymap.Mapper
}

// New opens (or creates) the catalog database. The mapper is optional; with
// a nil mapper rows carry no cell and radial queries always scan.
func New(path string, mapper *skymap.Mapper) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, mapper: mapper}, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Insert adds one catalog row, computing its sky cell when a mapper is
// configured.
func (s *Store) Insert(ctx context.Context, r obscore.Record) error {
	cell := ""
	if s.mapper != nil {
		c, err := s.mapper.CellForPosition(r.SRA, r.SDec)
		if err != nil {
			return fmt.Errorf("map position: %w", err)
		}
		cell = c
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO obscore (`+selectColumns+`, s_cell)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.DataProductType, r.CalibLevel, r.ObsCollection,
		r.ObsID, r.ObsPublisherDID, r.AccessURL,
		r.AccessFormat, r.AccessEstSize, r.TargetName,
		r.SRA, r.SDec, r.SFov, r.SRegion,
		r.SResolution, r.SXel1, r.SXel2,
		r.TMin, r.TMax, r.TExpTime, r.TResolution,
		r.TXel, r.EmMin, r.EmMax, r.EmResPower,
		r.EmXel, r.OUcd, r.PolStates, r.PolXel,
		r.FacilityName, r.InstrumentName, cell,
	)
	if err != nil {
		return fmt.Errorf("insert record %q: %w", r.ObsID, err)
	}
	return nil
}

// Count returns the number of catalog rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM obscore").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Search executes a query plan and returns the matching rows. A nil root
// matches everything; MaxRec caps the result set (zero means no rows).
func (s *Store) Search(ctx context.Context, plan query.Plan) ([]obscore.Record, error) {
	start := time.Now()
	recs, err := s.search(ctx, plan)
	observability.ObserveStoreQuery(err, len(recs), time.Since(start).Seconds())
	return recs, err
}

func (s *Store) search(ctx context.Context, plan query.Plan) ([]obscore.Record, error) {
	c := &compiler{prefilter: s.radialPrefilter}
	where, err := c.compile(plan.Root)
	if err != nil {
		return nil, fmt.Errorf("compile plan: %w", err)
	}

	q := "SELECT " + selectColumns + " FROM obscore"
	if where != "" {
		q += " WHERE " + where
	}
	args := c.args
	if plan.MaxRec != nil {
		q += " LIMIT ?"
		args = append(args, *plan.MaxRec)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []obscore.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// radialPrefilter asks the mapper for a covering disk; nil means no safe
// prefilter and the compiler falls back to the bare radial test.
func (s *Store) radialPrefilter(t query.RadialTest) []string {
	if s.mapper == nil {
		return nil
	}
	cells, err := s.mapper.CellsForCircle(t.RA, t.Dec, t.Radius)
	if err != nil {
		return nil
	}
	return cells
}

func scanRecord(rows *sql.Rows) (obscore.Record, error) {
	var r obscore.Record
	err := rows.Scan(
		&r.DataProductType, &r.CalibLevel, &r.ObsCollection,
		&r.ObsID, &r.ObsPublisherDID, &r.AccessURL,
		&r.AccessFormat, &r.AccessEstSize, &r.TargetName,
		&r.SRA, &r.SDec, &r.SFov, &r.SRegion,
		&r.SResolution, &r.SXel1, &r.SXel2,
		&r.TMin, &r.TMax, &r.TExpTime, &r.TResolution,
		&r.TXel, &r.EmMin, &r.EmMax, &r.EmResPower,
		&r.EmXel, &r.OUcd, &r.PolStates, &r.PolXel,
		&r.FacilityName, &r.InstrumentName,
	)
	if err != nil {
		return obscore.Record{}, fmt.Errorf("scan row: %w", err)
	}
	return r, nil
}
