// Command sia-seed fills the catalog with synthetic observations so the
// query endpoint can be exercised without a real archive.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/skysurvey-io/sia-obscore/internal/logger"
	"github.com/skysurvey-io/sia-obscore/internal/obscore"
	"github.com/skysurvey-io/sia-obscore/internal/sia"
	"github.com/skysurvey-io/sia-obscore/internal/skymap"
	"github.com/skysurvey-io/sia-obscore/internal/store/sqlitestore"
)

var collections = []string{
	"SurveyA",
	"SurveyB",
	"DeepSky",
	"GalacticCenter",
	"ExoplanetSurvey",
	"CosmicMicrowaveBackground",
	"QuickLook",
	"TransientEvents",
	"HighEnergyAstrophysics",
}

var formats = []string{
	"image/fits",
	"image/jpeg",
	"application/fits",
	"application/x+votable+xml",
	"text/csv",
	"image/x-fits-gzip",
}

var facilities = []string{
	"HST",
	"JWST",
	"Chandra",
	"Spitzer",
	"VLA",
	"ALMA",
	"Fermi",
	"LSST",
	"Euclid",
	"SKA",
}

var instruments = []string{
	"WFC3",
	"MIRI",
	"ACIS",
	"IRAC",
	"ACS",
	"SPITZER-IRAC",
	"VLA-CASA",
	"ALMA-ACA",
	"Fermi-LAT",
	"LSST-Camera",
}

var polLabels = []sia.PolarizationLabel{
	sia.PolI, sia.PolQ, sia.PolU, sia.PolV,
	sia.PolRR, sia.PolLL, sia.PolRL, sia.PolLR,
	sia.PolXX, sia.PolYY, sia.PolXY, sia.PolYX,
	sia.PolPOLI, sia.PolPOLA,
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		dbPath = flag.String("db", "obscore.db", "catalog database path")
		count  = flag.Int("n", 100, "number of records to insert")
		seed   = flag.Int64("seed", 42, "random seed")
		res    = flag.Int("res", 3, "sky cell resolution")
	)
	flag.Parse()

	zl := logger.Build(logger.Config{Level: "info", Component: "sia-seed"}, os.Stdout)
	log := logger.NewSlog(&zl)

	mapper, err := skymap.New(*res)
	if err != nil {
		log.Error("sky mapper init failed", "err", err)
		return 1
	}
	st, err := sqlitestore.New(*dbPath, mapper)
	if err != nil {
		log.Error("catalog store init failed", "err", err)
		return 1
	}
	defer func() { _ = st.Close() }()

	rng := rand.New(rand.NewSource(*seed))
	ctx := context.Background()

	for i := 0; i < *count; i++ {
		if err := st.Insert(ctx, fakeRecord(rng)); err != nil {
			log.Error("insert failed", "err", err, "record", i)
			return 1
		}
	}

	total, err := st.Count(ctx)
	if err != nil {
		log.Error("count failed", "err", err)
		return 1
	}
	log.Info("seed complete", "inserted", *count, "total", total, "db", *dbPath)
	return 0
}

func fakeRecord(rng *rand.Rand) obscore.Record {
	facility := facilities[rng.Intn(len(facilities))]
	instrument := instruments[rng.Intn(len(instruments))]
	obsID := uuid.New().String()

	dpType := "image"
	if rng.Intn(2) == 1 {
		dpType = "cube"
	}

	ra := rng.Float64() * 360
	dec := rng.Float64()*180 - 90
	fov := 0.1 + rng.Float64()*4.9

	tMin := 50000 + rng.Float64()*10000
	tMax := tMin + rng.Float64()*100

	emMin := 0.1 + rng.Float64()*499.9
	emMax := emMin + 0.1 + rng.Float64()*99.9

	nPol := 1 + rng.Intn(5)
	states := make([]string, nPol)
	for i := range states {
		states[i] = string(polLabels[rng.Intn(len(polLabels))])
	}

	return obscore.Record{
		DataProductType: dpType,
		CalibLevel:      int64(1 + rng.Intn(3)),
		ObsCollection:   collections[rng.Intn(len(collections))],
		ObsID:           obsID,
		ObsPublisherDID: fmt.Sprintf("ivo://%s/%s", strings.ToLower(facility), obsID),
		AccessURL:       fmt.Sprintf("https://data.%s.org/%s", strings.ToLower(facility), obsID),
		AccessFormat:    formats[rng.Intn(len(formats))],
		AccessEstSize:   int64(1000 + rng.Intn(99000)),
		TargetName:      fmt.Sprintf("Target-%d", 1+rng.Intn(1000)),
		SRA:             ra,
		SDec:            dec,
		SFov:            fov,
		SRegion:         fmt.Sprintf("CIRCLE %g %g %g", ra, dec, fov/2),
		SResolution:     0.1 + rng.Float64()*9.9,
		SXel1:           1,
		SXel2:           1,
		TMin:            tMin,
		TMax:            tMax,
		TExpTime:        1 + rng.Float64()*3599,
		TResolution:     0.1 + rng.Float64()*9.9,
		TXel:            1,
		EmMin:           emMin,
		EmMax:           emMax,
		EmResPower:      float64(1 + rng.Intn(1000)),
		EmXel:           1,
		OUcd:            "phot.mag;em.opt",
		PolStates:       "/" + strings.Join(states, "/") + "/",
		PolXel:          int64(nPol),
		FacilityName:    facility,
		InstrumentName:  instrument,
	}
}
