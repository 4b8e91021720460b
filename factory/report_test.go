package factory_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/xbrl-engine/factory"
	"github.com/warp/xbrl-engine/solar"
	"github.com/warp/xbrl-engine/xbrl"
)

func newFactory() *factory.ReportFactory {
	f := factory.NewReportFactory()
	f.Today = func() xbrl.Date { return xbrl.NewDate(2024, time.March, 15) }
	return f
}

func TestParseReport_SampleInstallation(t *testing.T) {
	// GIVEN: The sample installation definition
	// WHEN: Parsed and rendered as XML
	// THEN: The sheet covers all five tables and uses the factory clock

	report, err := newFactory().ParseReport(solar.SampleInstallationJSON("Acme Solar"))
	require.NoError(t, err)

	assert.Equal(t, solar.KindInstallation, report.Kind)
	assert.Equal(t, "Acme Solar", report.Entity)
	assert.Equal(t, solar.TaxonomyName, report.Taxonomy.Name)

	out, err := report.Render(factory.FormatXML)
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, `<identifier scheme="http://xbrl.org/entity/identification/scheme">Acme Solar</identifier>`)
	assert.Contains(t, s, `<instant>2024-03-15</instant>`)
	assert.Contains(t, s, `>4.5</solar:ModuleNameplateCapacity>`)
	assert.Contains(t, s, `>2018-01-21</solar:SystemCommercialOperationsDate>`)
	for _, table := range []string{"SolarArrayTable_0", "ProductIdentifierTable_2", "SiteIdentifierTable_0", "PVSystemTable_0"} {
		assert.Contains(t, s, `<context id="`+table+`">`)
	}
}

func TestParseReport_SampleOperating(t *testing.T) {
	report, err := newFactory().ParseReport(solar.SampleOperatingJSON("A Company"))
	require.NoError(t, err)

	rendered, err := report.RenderAll()
	require.NoError(t, err)

	assert.Len(t, rendered.Instance.Contexts, 4)
	assert.Len(t, rendered.Instance.Facts, 8)
	assert.Equal(t, []string{"kWh"}, rendered.Instance.Units)

	var flat xbrl.FlatDocument
	require.NoError(t, json.Unmarshal(rendered.JSON, &flat))
	assert.Len(t, flat.Facts, 8)
	assert.Equal(t, 8, strings.Count(string(rendered.XML), `unitRef="kWh"`))
}

func TestFromJSON_Defaults(t *testing.T) {
	report, err := newFactory().FromJSON(factory.ReportJSON{Kind: solar.KindOperating})
	require.NoError(t, err)

	assert.Equal(t, factory.DefaultEntity, report.Entity)
	assert.Equal(t, solar.TaxonomyName, report.Taxonomy.Name)

	// GIVEN: A factory configured with another default entity
	// THEN: Definitions without an entity report under it

	f := newFactory()
	f.Entity = "Acme Solar"
	report, err = f.FromJSON(factory.ReportJSON{Kind: solar.KindOperating})
	require.NoError(t, err)
	assert.Equal(t, "Acme Solar", report.Entity)

	report, err = f.FromJSON(factory.ReportJSON{Kind: solar.KindOperating, Entity: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "Other", report.Entity)
}

func TestParseReport_ExplicitReportDate(t *testing.T) {
	report, err := newFactory().ParseReport(`{
		"kind": "installation",
		"report_date": "2020-06-30",
		"systems": [{"id": "s", "arrays": [{"tilt": 10}]}]
	}`)
	require.NoError(t, err)

	sheet, ok := report.Builder.(*solar.InstallationSheet)
	require.True(t, ok)
	assert.Equal(t, "2020-06-30", sheet.ReportDate().String())
}

func TestParseReport_ExactNumbers(t *testing.T) {
	report, err := newFactory().ParseReport(`{
		"kind": "installation",
		"systems": [{"id": "1", "arrays": [{"capacity_dc_kw": 0.1, "tilt": 12.75}]}]
	}`)
	require.NoError(t, err)

	out, err := report.Render(factory.FormatJSON)
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, `"value": "0.1"`)
	assert.Contains(t, s, `"value": "12.75"`)
}

func TestParseReport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		json   string
		target error
	}{
		{"malformed", `{"kind":`, factory.ErrInvalidReport},
		{"unknown kind", `{"kind": "balance"}`, factory.ErrInvalidReport},
		{"unknown taxonomy", `{"kind": "operating", "taxonomy": "gaap"}`, xbrl.ErrUnknownTaxonomy},
		{"missing system id", `{"kind": "installation", "systems": [{"fields": {}}]}`, factory.ErrInvalidReport},
		{"bad report date", `{"kind": "installation", "report_date": "March"}`, factory.ErrInvalidReport},
		{"bad month", `{"kind": "operating", "production": [{"system": "s", "month": "2018-13-01"}]}`, factory.ErrInvalidReport},
		{"unknown field", `{"kind": "installation", "systems": [{"id": "1", "site": {"altitude": 3}}]}`, xbrl.ErrUnknownConcept},
		{"collision", `{"kind": "installation", "systems": [{"id": "1", "inverters": [{"panel_model": "a", "inverter_model": "b"}]}]}`, solar.ErrConceptCollision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newFactory().ParseReport(tt.json)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := factory.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, factory.FormatXML, f)

	f, err = factory.ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, factory.FormatJSON, f)

	_, err = factory.ParseFormat("pdf")
	assert.ErrorIs(t, err, factory.ErrInvalidReport)
}
