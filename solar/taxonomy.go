// Package solar implements Orange Button solar reports on top of the xbrl
// engine: the taxonomy constants, the field/concept/unit mapping tables and
// the report builders.
package solar

import "github.com/warp/xbrl-engine/xbrl"

// =============================================================================
// SOLAR TAXONOMY
// =============================================================================

const (
	TaxonomyName = "solar"
	SchemaRef    = "https://raw.githubusercontent.com/xbrlus/solar/v1.2/core/solar_2018-03-31_r01.xsd"
	Prefix       = "solar"
	NamespaceURI = "http://xbrl.us/Solar/v1.2/2018-03-31/solar"
)

// Tables and axes used by the builders.
const (
	TableSolarArray        = "SolarArrayTable"
	TableProductIdentifier = "ProductIdentifierTable"
	TableSiteIdentifier    = "SiteIdentifierTable"
	TablePVSystem          = "PVSystemTable"
	TableSystemProduction  = "SystemProductionTable"

	AxisPVSystem      = "PVSystemIdentifierAxis"
	AxisSubArray      = "SolarSubArrayIdentifierAxis"
	AxisSite          = "SiteIdentifierAxis"
	AxisProduct       = "ProductIdentifierAxis"
	AxisEquipmentType = "EquipmentTypeAxis"
	AxisTestCondition = "TestConditionAxis"

	MemberModule                = "ModuleMember"
	MemberStandardTestCondition = "StandardTestConditionMember"
)

// Taxonomy is the solar v1.2 taxonomy.
var Taxonomy = xbrl.Taxonomy{
	Name:         TaxonomyName,
	SchemaRef:    SchemaRef,
	Prefix:       Prefix,
	NamespaceURI: NamespaceURI,
	TypedDomains: map[string]string{
		AxisSubArray: "SolarSubArrayIdentifierDomain",
		AxisSite:     "SiteIdentifierDomain",
		AxisProduct:  "ProductIdentifierDomain",
		AxisPVSystem: "PVSystemIdentifierDomain",
	},
}

func init() {
	xbrl.RegisterTaxonomy(Taxonomy)
}
