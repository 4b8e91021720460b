package solar_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/xbrl-engine/solar"
	"github.com/warp/xbrl-engine/xbrl"
)

func kwh(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestOperatingReport_TwoSystemsTwoMonths(t *testing.T) {
	// GIVEN: sys1 and sys2 with January and February 2018 production
	// WHEN: The report is rendered
	// THEN: Four contexts, one kWh unit, eight facts

	r := solar.NewOperatingReport()
	r.AddData("sys1", xbrl.NewDate(2018, time.January, 1), kwh(1000), kwh(1000))
	r.AddData("sys1", xbrl.NewDate(2018, time.February, 1), kwh(1000), kwh(1000))
	r.AddData("sys2", xbrl.NewDate(2018, time.January, 1), kwh(1000), kwh(1000))
	r.AddData("sys2", xbrl.NewDate(2018, time.February, 1), kwh(1000), kwh(1000))

	inst := assemble(t, r)

	assert.Equal(t, []string{
		"SystemProductionTable_0", "SystemProductionTable_1",
		"SystemProductionTable_2", "SystemProductionTable_3",
	}, contextIDs(t, inst))
	assert.Equal(t, []string{"kWh"}, inst.Units)
	require.Len(t, inst.Facts, 8)

	out, err := xbrl.EncodeXML(inst)
	require.NoError(t, err)
	s := string(out)
	assert.Equal(t, 4, strings.Count(s, "<context "))
	assert.Equal(t, 1, strings.Count(s, "<unit "))
	assert.Equal(t, 4, strings.Count(s, "<solar:MeasuredEnergy "))
	assert.Equal(t, 4, strings.Count(s, "<solar:PredictedEnergyAtTheRevenueMeterDuration "))
	assert.Contains(t, s, "<startDate>2018-02-01</startDate>")
	assert.Contains(t, s, "<endDate>2018-02-28</endDate>")
	assert.Contains(t, s, `<solar:MeasuredEnergy contextRef="SystemProductionTable_0" unitRef="kWh" decimals="2">1000</solar:MeasuredEnergy>`)
}

func TestOperatingReport_SameSystemMonth_SharesContext(t *testing.T) {
	r := solar.NewOperatingReport()
	r.AddData("sys1", xbrl.NewDate(2018, time.January, 1), kwh(900), kwh(1000))
	r.AddData("sys1", xbrl.NewDate(2018, time.January, 20), kwh(50), kwh(60))

	inst := assemble(t, r)

	require.Len(t, inst.Contexts, 1)
	assert.Len(t, inst.Facts, 4)
}

func TestOperatingReport_EmptyStillDeclaresKWh(t *testing.T) {
	out, err := xbrl.NewDocument("A Company", solar.Taxonomy).RenderXML(solar.NewOperatingReport())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `<unit id="kWh">`)
	assert.NotContains(t, s, "<context ")
}

func TestOperatingReport_FlatEncoding(t *testing.T) {
	r := solar.NewOperatingReport()
	r.AddData("sys1", xbrl.NewDate(2018, time.January, 1), decimal.RequireFromString("1234.5"), kwh(1000))

	inst := assemble(t, r)
	doc, err := xbrl.BuildFlat(inst)
	require.NoError(t, err)

	require.Len(t, doc.Facts, 2)
	measured := doc.Facts[0]
	assert.Equal(t, "1234.5", measured.Value)
	assert.Equal(t, "solar:MeasuredEnergy", measured.Aspects["xbrl:concept"])
	assert.Equal(t, "2018-01-01", measured.Aspects["xbrl:periodStart"])
	assert.Equal(t, "2018-01-31", measured.Aspects["xbrl:periodEnd"])
	assert.Equal(t, "sys1", measured.Aspects["solar:PVSystemIdentifierAxis"])
	assert.Equal(t, "kWh", measured.Aspects["xbrl:unit"])
}
