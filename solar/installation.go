/*
installation.go - System installation sheet

PURPOSE:
  Metadata for one or more PV systems. Each system sits at a site and is
  made of arrays (module strings) and inverters. The sheet collects that
  data by user field name and, when rendered, places every value in the
  table the taxonomy defines for it.

TABLE PLACEMENT:
  Array tilt and azimuth    SolarArrayTable (instant = report date)
  Other array fields        ProductIdentifierTable "array_product_<n>"
  Inverter fields           ProductIdentifierTable "inverter_product_<n>"
  Site fields               SiteIdentifierTable "site for <system>"
  System fields             PVSystemTable, plus a SiteIdentifier fact that
                            links the system to its site row

ORDERING:
  Systems render in the order they were added. Within one record, facts
  are sorted by concept, so the same data always produces the same bytes.

EXAMPLE:
  sheet := solar.NewInstallationSheet(solar.DefaultConceptMap(), solar.DefaultUnitMap())
  _ = sheet.AddSystem("1", map[string]any{"installer": "These guys I know"})
  _ = sheet.AddSite("1", map[string]any{"latitude": 42, "longitude": -170})
  _ = sheet.AddArray("1", map[string]any{"tilt": 20, "azimuth": 180})
  out, err := xbrl.NewDocument("A Company", solar.Taxonomy).RenderXML(sheet)
*/
package solar

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/warp/xbrl-engine/xbrl"
)

// Concepts reported in the SolarArrayTable; everything else about an array
// belongs to its product row.
var arrayTableConcepts = map[string]bool{
	"OrientationTilt":    true,
	"OrientationAzimuth": true,
}

// ConceptSiteIdentifier links a PVSystemTable row to a SiteIdentifierTable row.
const ConceptSiteIdentifier = "SiteIdentifier"

// record is one translated data record, keyed by concept.
type record map[string]xbrl.Value

// =============================================================================
// OPTIONS
// =============================================================================

type Option func(*options)

type options struct {
	logger     *zap.Logger
	reportDate xbrl.Date
}

// WithLogger sets the logger used for missing-data warnings.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithReportDate fixes the instant used by the SolarArrayTable.
func WithReportDate(d xbrl.Date) Option {
	return func(o *options) { o.reportDate = d }
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), reportDate: xbrl.Today()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// =============================================================================
// INSTALLATION SHEET
// =============================================================================

type InstallationSheet struct {
	concepts ConceptMap
	units    UnitMap
	opts     options

	order     []string // system ids, insertion order
	systems   map[string]record
	sites     map[string]record
	arrays    map[string][]record
	inverters map[string][]record
}

func NewInstallationSheet(concepts ConceptMap, units UnitMap, opts ...Option) *InstallationSheet {
	return &InstallationSheet{
		concepts:  concepts,
		units:     units,
		opts:      buildOptions(opts),
		systems:   make(map[string]record),
		sites:     make(map[string]record),
		arrays:    make(map[string][]record),
		inverters: make(map[string][]record),
	}
}

// ReportDate returns the instant used for array facts.
func (s *InstallationSheet) ReportDate() xbrl.Date { return s.opts.reportDate }

// AddSystem sets a system's own fields. Re-adding a system replaces its
// fields but keeps its position.
func (s *InstallationSheet) AddSystem(systemID string, fields map[string]any) error {
	rec, err := s.concepts.Translate(fields)
	if err != nil {
		return fmt.Errorf("system %s: %w", systemID, err)
	}
	if _, ok := s.systems[systemID]; !ok {
		s.order = append(s.order, systemID)
	}
	s.systems[systemID] = rec
	return nil
}

// AddSite sets the site a system is located at.
func (s *InstallationSheet) AddSite(systemID string, fields map[string]any) error {
	rec, err := s.concepts.Translate(fields)
	if err != nil {
		return fmt.Errorf("site for %s: %w", systemID, err)
	}
	s.sites[systemID] = rec
	return nil
}

// AddArray appends an array to a system. Arrays are numbered from 0 in the
// order they are added.
func (s *InstallationSheet) AddArray(systemID string, fields map[string]any) error {
	rec, err := s.concepts.Translate(fields)
	if err != nil {
		return fmt.Errorf("array %d of %s: %w", len(s.arrays[systemID]), systemID, err)
	}
	s.arrays[systemID] = append(s.arrays[systemID], rec)
	return nil
}

// AddInverter appends an inverter to a system.
func (s *InstallationSheet) AddInverter(systemID string, fields map[string]any) error {
	rec, err := s.concepts.Translate(fields)
	if err != nil {
		return fmt.Errorf("inverter %d of %s: %w", len(s.inverters[systemID]), systemID, err)
	}
	s.inverters[systemID] = append(s.inverters[systemID], rec)
	return nil
}

// Systems returns the system ids in insertion order.
func (s *InstallationSheet) Systems() []string {
	return slices.Clone(s.order)
}

// RequiredUnits is empty: every unit the sheet uses comes from a fact.
func (s *InstallationSheet) RequiredUnits() []string { return nil }

// Facts places every recorded value in its table.
func (s *InstallationSheet) Facts() ([]xbrl.FactRequest, error) {
	var facts []xbrl.FactRequest
	reportDate := s.opts.reportDate

	for _, systemID := range s.order {
		arrays := s.arrays[systemID]
		if len(arrays) == 0 {
			s.opts.logger.Warn("no array data", zap.String("system", systemID))
		}
		for n, arr := range arrays {
			arraySpec := xbrl.ContextSpec{
				Table:   TableSolarArray,
				Instant: &reportDate,
				Dimensions: xbrl.Dimensions{
					AxisPVSystem:      systemID,
					AxisSubArray:      strconv.Itoa(n),
					AxisEquipmentType: MemberModule,
				},
			}
			productSpec := productContext(systemID, fmt.Sprintf("array_product_%d", n))

			for _, concept := range sortedConcepts(arr) {
				spec := productSpec
				if arrayTableConcepts[concept] {
					spec = arraySpec
				}
				facts = append(facts, s.fact(concept, spec, arr[concept]))
			}
		}

		inverters := s.inverters[systemID]
		if len(inverters) == 0 {
			s.opts.logger.Warn("no inverter data", zap.String("system", systemID))
		}
		for n, inv := range inverters {
			spec := productContext(systemID, fmt.Sprintf("inverter_product_%d", n))
			for _, concept := range sortedConcepts(inv) {
				facts = append(facts, s.fact(concept, spec, inv[concept]))
			}
		}

		systemSpec := xbrl.ContextSpec{
			Table:      TablePVSystem,
			Dimensions: xbrl.Dimensions{AxisPVSystem: systemID},
		}

		if site, ok := s.sites[systemID]; ok {
			siteID := SiteID(systemID)
			siteSpec := xbrl.ContextSpec{
				Table:      TableSiteIdentifier,
				Dimensions: xbrl.Dimensions{AxisSite: siteID},
			}
			for _, concept := range sortedConcepts(site) {
				facts = append(facts, s.fact(concept, siteSpec, site[concept]))
			}
			facts = append(facts, xbrl.FactRequest{
				Concept: ConceptSiteIdentifier,
				Context: systemSpec,
				Value:   xbrl.StringValue(siteID),
			})
		} else {
			s.opts.logger.Warn("no site data", zap.String("system", systemID))
		}

		system := s.systems[systemID]
		for _, concept := range sortedConcepts(system) {
			facts = append(facts, s.fact(concept, systemSpec, system[concept]))
		}
	}
	return facts, nil
}

// SiteID is the SiteIdentifierAxis value for a system's site.
func SiteID(systemID string) string {
	return "site for " + systemID
}

func (s *InstallationSheet) fact(concept string, spec xbrl.ContextSpec, v xbrl.Value) xbrl.FactRequest {
	return xbrl.FactRequest{
		Concept: concept,
		Context: spec,
		Unit:    s.units.Unit(concept),
		Value:   v,
	}
}

func productContext(systemID, productID string) xbrl.ContextSpec {
	return xbrl.ContextSpec{
		Table: TableProductIdentifier,
		Dimensions: xbrl.Dimensions{
			AxisPVSystem:      systemID,
			AxisProduct:       productID,
			AxisTestCondition: MemberStandardTestCondition,
		},
	}
}

func sortedConcepts(r record) []string {
	return slices.Sorted(maps.Keys(r))
}

var _ xbrl.Builder = (*InstallationSheet)(nil)
