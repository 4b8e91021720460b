package xbrl_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/xbrl-engine/xbrl"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var testTaxonomy = xbrl.Taxonomy{
	Name:         "test-solar",
	SchemaRef:    "https://example.com/solar.xsd",
	Prefix:       "solar",
	NamespaceURI: "http://example.com/solar",
	TypedDomains: map[string]string{
		"PVSystemIdentifierAxis": "PVSystemIdentifierDomain",
		"SiteIdentifierAxis":     "SiteIdentifierDomain",
	},
}

func newCube() *xbrl.Hypercube {
	return xbrl.NewHypercube("solar", "ArrayTable", "A Company", testTaxonomy.TypedDomains)
}

func date(year int, month time.Month, day int) xbrl.Date {
	return xbrl.NewDate(year, month, day)
}

func mustID(t *testing.T, c *xbrl.Context) string {
	t.Helper()
	id, err := c.ID()
	require.NoError(t, err)
	return id
}

// =============================================================================
// DEDUPLICATION
// =============================================================================

func TestHypercube_SameRequest_ReturnsSameContext(t *testing.T) {
	// GIVEN: A table that already produced a context
	// WHEN: The same period and dimensions are requested again
	// THEN: The existing context is returned and nothing new is created

	cube := newCube()
	dims := xbrl.Dimensions{"PVSystemIdentifierAxis": "1", "EquipmentTypeAxis": "ModuleMember"}

	first := cube.GetOrCreateContext(xbrl.Forever(), dims)
	second := cube.GetOrCreateContext(xbrl.Forever(), dims)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cube.Len())
}

func TestHypercube_DimensionInsertionOrder_Irrelevant(t *testing.T) {
	cube := newCube()

	a := xbrl.Dimensions{}
	a["PVSystemIdentifierAxis"] = "1"
	a["SolarSubArrayIdentifierAxis"] = "0"
	a["EquipmentTypeAxis"] = "ModuleMember"

	b := xbrl.Dimensions{}
	b["EquipmentTypeAxis"] = "ModuleMember"
	b["SolarSubArrayIdentifierAxis"] = "0"
	b["PVSystemIdentifierAxis"] = "1"

	assert.Same(t, cube.GetOrCreateContext(xbrl.Forever(), a), cube.GetOrCreateContext(xbrl.Forever(), b))
}

func TestHypercube_CallerMapMutation_DoesNotAffectContext(t *testing.T) {
	cube := newCube()
	dims := xbrl.Dimensions{"PVSystemIdentifierAxis": "1"}
	ctx := cube.GetOrCreateContext(xbrl.Forever(), dims)

	dims["PVSystemIdentifierAxis"] = "2"

	v, ok := ctx.Dimension("PVSystemIdentifierAxis")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestHypercube_NilAndEmptyDimensions_AreEqual(t *testing.T) {
	cube := newCube()
	assert.Same(t,
		cube.GetOrCreateContext(xbrl.Forever(), nil),
		cube.GetOrCreateContext(xbrl.Forever(), xbrl.Dimensions{}))
}

func TestHypercube_DifferentRequests_CreateDistinctContexts(t *testing.T) {
	cube := newCube()
	jan1 := date(2018, time.January, 1)
	jan31 := date(2018, time.January, 31)

	tests := []struct {
		name   string
		period xbrl.Period
		dims   xbrl.Dimensions
	}{
		{"forever no dims", xbrl.Forever(), nil},
		{"forever system 1", xbrl.Forever(), xbrl.Dimensions{"PVSystemIdentifierAxis": "1"}},
		{"forever system 2", xbrl.Forever(), xbrl.Dimensions{"PVSystemIdentifierAxis": "2"}},
		{"extra axis", xbrl.Forever(), xbrl.Dimensions{"PVSystemIdentifierAxis": "1", "EquipmentTypeAxis": "ModuleMember"}},
		{"instant", xbrl.InstantAt(jan1), xbrl.Dimensions{"PVSystemIdentifierAxis": "1"}},
		{"other instant", xbrl.InstantAt(jan31), xbrl.Dimensions{"PVSystemIdentifierAxis": "1"}},
		{"duration", xbrl.Duration(jan1, jan31), xbrl.Dimensions{"PVSystemIdentifierAxis": "1"}},
		{"other end", xbrl.Duration(jan1, jan1), xbrl.Dimensions{"PVSystemIdentifierAxis": "1"}},
	}

	seen := make(map[*xbrl.Context]string)
	for _, tt := range tests {
		ctx := cube.GetOrCreateContext(tt.period, tt.dims)
		if prev, dup := seen[ctx]; dup {
			t.Fatalf("%s reused the context of %s", tt.name, prev)
		}
		seen[ctx] = tt.name
	}
	assert.Equal(t, len(tests), cube.Len())
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

func TestHypercube_Identifiers_StrictCreationOrder(t *testing.T) {
	// GIVEN: Five distinct context requests interleaved with repeats
	// THEN: Identifiers are ArrayTable_0 .. ArrayTable_4 in creation order

	cube := newCube()
	var ids []string
	for i := 0; i < 5; i++ {
		dims := xbrl.Dimensions{"PVSystemIdentifierAxis": fmt.Sprint(i)}
		ctx := cube.GetOrCreateContext(xbrl.Forever(), dims)
		cube.GetOrCreateContext(xbrl.Forever(), xbrl.Dimensions{"PVSystemIdentifierAxis": "0"})
		ids = append(ids, mustID(t, ctx))
	}

	assert.Equal(t, []string{"ArrayTable_0", "ArrayTable_1", "ArrayTable_2", "ArrayTable_3", "ArrayTable_4"}, ids)

	var fromCube []string
	for _, ctx := range cube.Contexts() {
		fromCube = append(fromCube, mustID(t, ctx))
	}
	assert.Equal(t, ids, fromCube)
}

func TestContext_UnassignedIdentifier_Fails(t *testing.T) {
	var ctx xbrl.Context

	_, err := ctx.ID()

	require.Error(t, err)
	assert.ErrorIs(t, err, xbrl.ErrUnassignedIdentifier)
	var ue *xbrl.UnassignedIdentifierError
	assert.ErrorAs(t, err, &ue)
}

// =============================================================================
// TYPING
// =============================================================================

func TestHypercube_DimensionTyping(t *testing.T) {
	cube := newCube()

	assert.True(t, cube.IsTypedDimension("PVSystemIdentifierAxis"))
	assert.Equal(t, "PVSystemIdentifierDomain", cube.Domain("PVSystemIdentifierAxis"))
	assert.False(t, cube.IsTypedDimension("EquipmentTypeAxis"))
}

func TestHypercube_TypedDomainsCopied(t *testing.T) {
	domains := map[string]string{"PVSystemIdentifierAxis": "PVSystemIdentifierDomain"}
	cube := xbrl.NewHypercube("solar", "T", "E", domains)

	domains["EquipmentTypeAxis"] = "EquipmentTypeDomain"

	assert.False(t, cube.IsTypedDimension("EquipmentTypeAxis"))
}
