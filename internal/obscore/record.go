// Package obscore defines the observation catalog row (the IVOA ObsCore 1.1
// attribute set) and its VOTable column metadata.
package obscore

import (
	"strconv"

	"github.com/skysurvey-io/sia-obscore/internal/votable"
)

// Catalog attribute names. The query translator emits predicates over these
// and the store maps them one-to-one onto table columns.
const (
	ColDataProductType = "dataproduct_type"
	ColCalibLevel      = "calib_level"
	ColObsCollection   = "obs_collection"
	ColObsID           = "obs_id"
	ColObsPublisherDID = "obs_publisher_did"
	ColAccessURL       = "access_url"
	ColAccessFormat    = "access_format"
	ColAccessEstSize   = "access_estsize"
	ColTargetName      = "target_name"
	ColSRA             = "s_ra"
	ColSDec            = "s_dec"
	ColSFov            = "s_fov"
	ColSRegion         = "s_region"
	ColSResolution     = "s_resolution"
	ColSXel1           = "s_xel1"
	ColSXel2           = "s_xel2"
	ColTMin            = "t_min"
	ColTMax            = "t_max"
	ColTExpTime        = "t_exptime"
	ColTResolution     = "t_resolution"
	ColTXel            = "t_xel"
	ColEmMin           = "em_min"
	ColEmMax           = "em_max"
	ColEmResPower      = "em_res_power"
	ColEmXel           = "em_xel"
	ColOUcd            = "o_ucd"
	ColPolStates       = "pol_states"
	ColPolXel          = "pol_xel"
	ColFacilityName    = "facility_name"
	ColInstrumentName  = "instrument_name"
)

// Record is one catalog row.
type Record struct {
	DataProductType string
	CalibLevel      int64
	ObsCollection   string
	ObsID           string
	ObsPublisherDID string
	AccessURL       string
	AccessFormat    string
	AccessEstSize   int64
	TargetName      string
	SRA             float64
	SDec            float64
	SFov            float64
	SRegion         string
	SResolution     float64
	SXel1           int64
	SXel2           int64
	TMin            float64
	TMax            float64
	TExpTime        float64
	TResolution     float64
	TXel            int64
	EmMin           float64
	EmMax           float64
	EmResPower      float64
	EmXel           int64
	OUcd            string
	PolStates       string
	PolXel          int64
	FacilityName    string
	InstrumentName  string
}

// Columns is the VOTable metadata table, one entry per catalog attribute, in
// the order Record.Row emits cells. Units, UCDs and utypes follow ObsCore
// 1.1 table 1.
var Columns = []votable.Field{
	{Name: ColDataProductType, Datatype: "char", UCD: "meta.code.class", UType: "obscore:ObsDataset.dataProductType"},
	{Name: ColCalibLevel, Datatype: "int", UCD: "meta.code;obs.calib", UType: "obscore:ObsDataset.calibLevel"},
	{Name: ColObsCollection, Datatype: "char", UCD: "meta.id", UType: "obscore:DataID.collection"},
	{Name: ColObsID, Datatype: "char", UCD: "meta.id", UType: "obscore:DataID.observationID"},
	{Name: ColObsPublisherDID, Datatype: "char", UCD: "meta.ref.ivoid", UType: "obscore:Curation.publisherDID"},
	{Name: ColAccessURL, Datatype: "char", UCD: "meta.ref.url", UType: "obscore:Access.reference"},
	{Name: ColAccessFormat, Datatype: "char", UCD: "meta.code.mime", UType: "obscore:Access.format"},
	{Name: ColAccessEstSize, Datatype: "long", Unit: "kbyte", UCD: "phys.size;meta.file", UType: "obscore:Access.size"},
	{Name: ColTargetName, Datatype: "char", UCD: "meta.id;src", UType: "obscore:Target.name"},
	{Name: ColSRA, Datatype: "double", Unit: "deg", UCD: "pos.eq.ra", UType: "obscore:Char.SpatialAxis.Coverage.Location.Coord.Position2D.Value2.C1"},
	{Name: ColSDec, Datatype: "double", Unit: "deg", UCD: "pos.eq.dec", UType: "obscore:Char.SpatialAxis.Coverage.Location.Coord.Position2D.Value2.C2"},
	{Name: ColSFov, Datatype: "double", Unit: "deg", UCD: "phys.angSize;instr.fov", UType: "obscore:Char.SpatialAxis.Coverage.Bounds.Extent.diameter"},
	{Name: ColSRegion, Datatype: "char", UCD: "pos.outline;obs.field", UType: "obscore:Char.SpatialAxis.Coverage.Support.Area"},
	{Name: ColSResolution, Datatype: "double", Unit: "arcsec", UCD: "pos.angResolution", UType: "obscore:Char.SpatialAxis.Resolution.refval.value"},
	{Name: ColSXel1, Datatype: "long", UCD: "meta.number", UType: "obscore:Char.SpatialAxis.numBins1"},
	{Name: ColSXel2, Datatype: "long", UCD: "meta.number", UType: "obscore:Char.SpatialAxis.numBins2"},
	{Name: ColTMin, Datatype: "double", Unit: "d", UCD: "time.start;obs.exposure", UType: "obscore:Char.TimeAxis.Coverage.Bounds.Limits.StartTime"},
	{Name: ColTMax, Datatype: "double", Unit: "d", UCD: "time.end;obs.exposure", UType: "obscore:Char.TimeAxis.Coverage.Bounds.Limits.StopTime"},
	{Name: ColTExpTime, Datatype: "double", Unit: "s", UCD: "time.duration;obs.exposure", UType: "obscore:Char.TimeAxis.Coverage.Support.Extent"},
	{Name: ColTResolution, Datatype: "double", Unit: "s", UCD: "time.resolution", UType: "obscore:Char.TimeAxis.Resolution.refval.value"},
	{Name: ColTXel, Datatype: "long", UCD: "meta.number", UType: "obscore:Char.TimeAxis.numBins"},
	{Name: ColEmMin, Datatype: "double", Unit: "m", UCD: "em.wl;stat.min", UType: "obscore:Char.SpectralAxis.Coverage.Bounds.Limits.LoLimit"},
	{Name: ColEmMax, Datatype: "double", Unit: "m", UCD: "em.wl;stat.max", UType: "obscore:Char.SpectralAxis.Coverage.Bounds.Limits.HiLimit"},
	{Name: ColEmResPower, Datatype: "double", UCD: "spect.resolution", UType: "obscore:Char.SpectralAxis.Resolution.ResolPower.refVal"},
	{Name: ColEmXel, Datatype: "long", UCD: "meta.number", UType: "obscore:Char.SpectralAxis.numBins"},
	{Name: ColOUcd, Datatype: "char", UCD: "meta.ucd", UType: "obscore:Char.ObservableAxis.ucd"},
	{Name: ColPolStates, Datatype: "char", UCD: "meta.code;phys.polarization", UType: "obscore:Char.PolarizationAxis.stateList"},
	{Name: ColPolXel, Datatype: "long", UCD: "meta.number", UType: "obscore:Char.PolarizationAxis.numBins"},
	{Name: ColFacilityName, Datatype: "char", UCD: "meta.id;instr.tel", UType: "obscore:Provenance.ObsConfig.Facility.name"},
	{Name: ColInstrumentName, Datatype: "char", UCD: "meta.id;instr", UType: "obscore:Provenance.ObsConfig.Instrument.name"},
}

// Row renders the record as one VOTable cell per Columns entry, in order.
func (r Record) Row() []string {
	return []string{
		r.DataProductType,
		strconv.FormatInt(r.CalibLevel, 10),
		r.ObsCollection,
		r.ObsID,
		r.ObsPublisherDID,
		r.AccessURL,
		r.AccessFormat,
		strconv.FormatInt(r.AccessEstSize, 10),
		r.TargetName,
		fmtFloat(r.SRA),
		fmtFloat(r.SDec),
		fmtFloat(r.SFov),
		r.SRegion,
		fmtFloat(r.SResolution),
		strconv.FormatInt(r.SXel1, 10),
		strconv.FormatInt(r.SXel2, 10),
		fmtFloat(r.TMin),
		fmtFloat(r.TMax),
		fmtFloat(r.TExpTime),
		fmtFloat(r.TResolution),
		strconv.FormatInt(r.TXel, 10),
		fmtFloat(r.EmMin),
		fmtFloat(r.EmMax),
		fmtFloat(r.EmResPower),
		strconv.FormatInt(r.EmXel, 10),
		r.OUcd,
		r.PolStates,
		strconv.FormatInt(r.PolXel, 10),
		r.FacilityName,
		r.InstrumentName,
	}
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
