/*
Package factory provides JSON to Go report conversion.

PURPOSE:
  Converts JSON report definitions into xbrl.Builder values bound to an
  entity and a taxonomy. This lets callers describe a report as data (a
  file, an HTTP body, a database row) and get a renderable document back.

JSON SCHEMA:
  {
    "kind": "installation",
    "entity": "A Company",
    "taxonomy": "solar",
    "report_date": "2024-03-15",
    "systems": [
      {
        "id": "1",
        "fields": {"installer": "These guys I know", "COD": "2018-01-21"},
        "site": {"latitude": 42, "longitude": -170},
        "arrays": [{"tilt": 20, "azimuth": 180, "capacity_dc_kw": 4.5}],
        "inverters": [{"capacity_ac_kw": 8.0, "inverter_model": "THX1138"}]
      }
    ]
  }

  {
    "kind": "operating",
    "entity": "A Company",
    "production": [
      {"system": "sys1", "month": "2018-01-01", "actual_kwh": 1000, "expected_kwh": 1000}
    ]
  }

KEY FEATURES:
  - Numbers are decoded exactly (4.5 stays 4.5, never a binary float)
  - Field names go through the factory's concept map
  - taxonomy and entity fall back to the factory's defaults
    ("solar" and DefaultEntity unless configured)
  - report_date defaults to the factory's clock

USAGE:
  f := factory.NewReportFactory()
  report, err := f.ParseReport(solar.SampleInstallationJSON("A Company"))
  xmlBytes, err := report.Render(factory.FormatXML)

SEE ALSO:
  - solar/installation.go, solar/operating.go: The builders
  - solar/presets.go: Sample definitions
*/
package factory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/xbrl-engine/solar"
	"github.com/warp/xbrl-engine/xbrl"
)

// ErrInvalidReport is returned for malformed report definitions.
var ErrInvalidReport = errors.New("invalid report definition")

// DefaultEntity is reported when a definition names no entity.
const DefaultEntity = "A Company"

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ReportJSON is the JSON representation of a report.
type ReportJSON struct {
	Kind       string           `json:"kind"` // installation, operating
	Entity     string           `json:"entity,omitempty"`
	Taxonomy   string           `json:"taxonomy,omitempty"`
	ReportDate string           `json:"report_date,omitempty"` // YYYY-MM-DD
	Systems    []SystemJSON     `json:"systems,omitempty"`
	Production []ProductionJSON `json:"production,omitempty"`
}

// SystemJSON is one system of an installation sheet. Field maps are keyed by
// user field names.
type SystemJSON struct {
	ID        string           `json:"id"`
	Fields    map[string]any   `json:"fields,omitempty"`
	Site      map[string]any   `json:"site,omitempty"`
	Arrays    []map[string]any `json:"arrays,omitempty"`
	Inverters []map[string]any `json:"inverters,omitempty"`
}

// ProductionJSON is one system-month of an operating report.
type ProductionJSON struct {
	System      string          `json:"system"`
	Month       string          `json:"month"` // any day of the month, YYYY-MM-DD
	ActualKWh   decimal.Decimal `json:"actual_kwh"`
	ExpectedKWh decimal.Decimal `json:"expected_kwh"`
}

// =============================================================================
// REPORT
// =============================================================================

// Format selects an encoding.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "xml" or "json"; empty means xml.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatXML:
		return FormatXML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrInvalidReport, s)
	}
}

// Report is a builder bound to the entity and taxonomy it reports under.
type Report struct {
	Kind     string
	Entity   string
	Taxonomy xbrl.Taxonomy
	Builder  xbrl.Builder
}

// Assemble builds a fresh document for the report.
func (r *Report) Assemble() (*xbrl.Instance, error) {
	return xbrl.NewDocument(r.Entity, r.Taxonomy).Assemble(r.Builder)
}

// Render assembles the report and encodes it in one format.
func (r *Report) Render(format Format) ([]byte, error) {
	inst, err := r.Assemble()
	if err != nil {
		return nil, err
	}
	return Encode(inst, format)
}

// Rendered holds both encodings of one assembly.
type Rendered struct {
	Instance *xbrl.Instance
	XML      []byte
	JSON     []byte
}

// RenderAll assembles once and encodes both formats.
func (r *Report) RenderAll() (*Rendered, error) {
	inst, err := r.Assemble()
	if err != nil {
		return nil, err
	}
	x, err := xbrl.EncodeXML(inst)
	if err != nil {
		return nil, err
	}
	j, err := xbrl.EncodeJSON(inst)
	if err != nil {
		return nil, err
	}
	return &Rendered{Instance: inst, XML: x, JSON: j}, nil
}

// Encode renders an assembled instance.
func Encode(inst *xbrl.Instance, format Format) ([]byte, error) {
	if format == FormatJSON {
		return xbrl.EncodeJSON(inst)
	}
	return xbrl.EncodeXML(inst)
}

// =============================================================================
// REPORT FACTORY
// =============================================================================

// ReportFactory converts JSON reports to builders.
type ReportFactory struct {
	Concepts solar.ConceptMap
	Units    solar.UnitMap
	Logger   *zap.Logger

	// Entity and Taxonomy are used when a definition leaves them empty.
	Entity   string
	Taxonomy string

	// Today supplies the report date when a definition has none.
	Today func() xbrl.Date
}

// NewReportFactory creates a factory with the default mapping tables.
func NewReportFactory() *ReportFactory {
	return &ReportFactory{
		Concepts: solar.DefaultConceptMap(),
		Units:    solar.DefaultUnitMap(),
		Logger:   zap.NewNop(),
		Entity:   DefaultEntity,
		Taxonomy: solar.TaxonomyName,
		Today:    xbrl.Today,
	}
}

// ParseReport parses a JSON string into a Report.
func (f *ReportFactory) ParseReport(jsonStr string) (*Report, error) {
	rj, err := DecodeReport([]byte(jsonStr))
	if err != nil {
		return nil, err
	}
	return f.FromJSON(rj)
}

// DecodeReport decodes a definition, keeping numbers exact.
func DecodeReport(data []byte) (ReportJSON, error) {
	var rj ReportJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rj); err != nil {
		return ReportJSON{}, fmt.Errorf("%w: failed to parse report JSON: %v", ErrInvalidReport, err)
	}
	return rj, nil
}

// FromJSON converts ReportJSON to a Report.
func (f *ReportFactory) FromJSON(rj ReportJSON) (*Report, error) {
	taxonomyName := firstNonEmpty(rj.Taxonomy, f.Taxonomy, solar.TaxonomyName)
	taxonomy, err := xbrl.LookupTaxonomy(taxonomyName)
	if err != nil {
		return nil, err
	}

	entity := firstNonEmpty(rj.Entity, f.Entity, DefaultEntity)

	var builder xbrl.Builder
	switch rj.Kind {
	case solar.KindInstallation:
		builder, err = f.installation(rj)
	case solar.KindOperating:
		builder, err = f.operating(rj)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidReport, rj.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &Report{Kind: rj.Kind, Entity: entity, Taxonomy: taxonomy, Builder: builder}, nil
}

func (f *ReportFactory) installation(rj ReportJSON) (*solar.InstallationSheet, error) {
	reportDate := f.today()
	if rj.ReportDate != "" {
		d, err := xbrl.ParseDate(rj.ReportDate)
		if err != nil {
			return nil, fmt.Errorf("%w: report_date: %v", ErrInvalidReport, err)
		}
		reportDate = d
	}

	sheet := solar.NewInstallationSheet(f.Concepts, f.Units,
		solar.WithReportDate(reportDate),
		solar.WithLogger(f.Logger))

	for i, sj := range rj.Systems {
		if sj.ID == "" {
			return nil, fmt.Errorf("%w: system %d has no id", ErrInvalidReport, i)
		}
		if err := sheet.AddSystem(sj.ID, sj.Fields); err != nil {
			return nil, err
		}
		if sj.Site != nil {
			if err := sheet.AddSite(sj.ID, sj.Site); err != nil {
				return nil, err
			}
		}
		for _, a := range sj.Arrays {
			if err := sheet.AddArray(sj.ID, a); err != nil {
				return nil, err
			}
		}
		for _, inv := range sj.Inverters {
			if err := sheet.AddInverter(sj.ID, inv); err != nil {
				return nil, err
			}
		}
	}
	return sheet, nil
}

func (f *ReportFactory) operating(rj ReportJSON) (*solar.OperatingReport, error) {
	report := solar.NewOperatingReport()
	for i, pj := range rj.Production {
		if pj.System == "" {
			return nil, fmt.Errorf("%w: production %d has no system", ErrInvalidReport, i)
		}
		month, err := xbrl.ParseDate(pj.Month)
		if err != nil {
			return nil, fmt.Errorf("%w: production %d month: %v", ErrInvalidReport, i, err)
		}
		report.AddData(pj.System, month, pj.ActualKWh, pj.ExpectedKWh)
	}
	return report, nil
}

func (f *ReportFactory) today() xbrl.Date {
	if f.Today == nil {
		return xbrl.Today()
	}
	return f.Today()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
