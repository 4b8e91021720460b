package xbrl_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/xbrl-engine/xbrl"
)

func TestBuildFlat_ArrayTableScenario(t *testing.T) {
	inst := assembleOne(t, fact("OrientationTilt", "ArrayTable",
		xbrl.Dimensions{"PVSystemIdentifierAxis": "1", "EquipmentTypeAxis": "ModuleMember"}, "degrees", xbrl.IntValue(20)))

	doc, err := xbrl.BuildFlat(inst)
	require.NoError(t, err)

	want := []xbrl.FlatFact{{
		Aspects: map[string]string{
			"xbrl:entity":                  "A Company",
			"xbrl:period":                  "forever",
			"xbrl:concept":                 "solar:OrientationTilt",
			"xbrl:unit":                    "degrees",
			"solar:PVSystemIdentifierAxis": "1",
			"solar:EquipmentTypeAxis":      "solar:ModuleMember",
		},
		Value: "20",
	}}
	if diff := cmp.Diff(want, doc.Facts); diff != "" {
		t.Errorf("facts mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, xbrl.DocumentTypeJSON, doc.DocumentType)
	assert.Equal(t, []xbrl.DTSReference{{Type: "schema", Href: testTaxonomy.SchemaRef}}, doc.DTSReferences)
	assert.Equal(t, "http://example.com/solar", doc.Prefixes["xmlns:solar"])
	assert.Len(t, doc.Prefixes, len(xbrl.BaseNamespaces)+1)
}

func TestBuildFlat_PeriodAspects(t *testing.T) {
	jan1 := date(2018, time.January, 1)
	jan31 := date(2018, time.January, 31)

	tests := []struct {
		name string
		spec xbrl.ContextSpec
		want map[string]string
	}{
		{"duration", xbrl.ContextSpec{Table: "T", Duration: []xbrl.Date{jan1, jan31}},
			map[string]string{"xbrl:periodStart": "2018-01-01", "xbrl:periodEnd": "2018-01-31"}},
		{"instant", xbrl.ContextSpec{Table: "T", Instant: &jan31},
			map[string]string{"xbrl:instant": "2018-01-31"}},
		{"forever", xbrl.ContextSpec{Table: "T"},
			map[string]string{"xbrl:period": "forever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := newDoc().Context(tt.spec)
			require.NoError(t, err)

			got := xbrl.ContextAspects(ctx)
			delete(got, "xbrl:entity")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildFlat_AspectMapsAreIndependent(t *testing.T) {
	// GIVEN: Two facts sharing one context
	// THEN: Each flat fact has its own aspect map with its own concept

	b := &staticBuilder{facts: []xbrl.FactRequest{
		fact("OrientationTilt", "ArrayTable", nil, "degrees", xbrl.IntValue(20)),
		fact("OrientationAzimuth", "ArrayTable", nil, "degrees", xbrl.IntValue(180)),
	}}
	inst, err := newDoc().Assemble(b)
	require.NoError(t, err)

	doc, err := xbrl.BuildFlat(inst)
	require.NoError(t, err)

	require.Len(t, doc.Facts, 2)
	assert.Equal(t, "solar:OrientationTilt", doc.Facts[0].Aspects["xbrl:concept"])
	assert.Equal(t, "solar:OrientationAzimuth", doc.Facts[1].Aspects["xbrl:concept"])
}

func TestEncodings_DescribeTheSameFacts(t *testing.T) {
	// GIVEN: A mixed builder
	// WHEN: Rendering both encodings from one Instance
	// THEN: Every flat fact's concept appears as an XML element with the same
	//       text, and the counts agree

	jan1 := date(2018, time.January, 1)
	b := &staticBuilder{
		units: []string{"kWh"},
		facts: []xbrl.FactRequest{
			fact("OrientationTilt", "ArrayTable", xbrl.Dimensions{"PVSystemIdentifierAxis": "1"}, "degrees", xbrl.IntValue(20)),
			fact("ModuleQuantity", "ArrayTable", xbrl.Dimensions{"PVSystemIdentifierAxis": "1"}, "pure", xbrl.RealValue(4.0)),
			fact("SystemCommercialOperationsDate", "SystemTable", nil, "", xbrl.DateValue(jan1)),
			fact("Model", "ProductIdentifierTable", xbrl.Dimensions{"ProductIdentifierAxis": "p"}, "", xbrl.StringValue("MST3K")),
		},
	}
	inst, err := newDoc().Assemble(b)
	require.NoError(t, err)

	xmlOut, err := xbrl.EncodeXML(inst)
	require.NoError(t, err)
	jsonOut, err := xbrl.EncodeJSON(inst)
	require.NoError(t, err)

	var flat xbrl.FlatDocument
	require.NoError(t, json.Unmarshal(jsonOut, &flat))
	require.Len(t, flat.Facts, len(inst.Facts))

	x := string(xmlOut)
	for _, f := range flat.Facts {
		concept := f.Aspects["xbrl:concept"]
		assert.Contains(t, x, "<"+concept+" ")
		assert.Contains(t, x, ">"+f.Value+"</"+concept+">")
	}
	assert.Equal(t, "4", flat.Facts[1].Value)
}

func TestEncodeJSON_Layout(t *testing.T) {
	inst := assembleOne(t, fact("OrientationTilt", "ArrayTable", nil, "degrees", xbrl.IntValue(20)))

	out, err := xbrl.EncodeJSON(inst)
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "{\n  \"documentType\": "))
	assert.True(t, strings.HasSuffix(s, "}\n"))
	assert.Less(t, strings.Index(s, `"prefixes"`), strings.Index(s, `"dtsReferences"`))
	assert.Less(t, strings.Index(s, `"dtsReferences"`), strings.Index(s, `"facts"`))
}
