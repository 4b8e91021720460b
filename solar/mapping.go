/*
mapping.go - User field names, concepts and units

PURPOSE:
  Report data arrives keyed by the names users know ("tilt", "COD"). The
  concept map translates those to Orange Button concept names, and the unit
  map names the unit each concept is reported in.

TABLE FILES:
  Both tables can be loaded from YAML mappings:

    tilt: OrientationTilt
    COD: SystemCommercialOperationsDate

  A key that appears twice is resolved last-writer-wins and returned as a
  Duplicate so callers can surface it instead of losing the first value.

COLLISIONS:
  Several fields may map to one concept (panel_model and inverter_model are
  both "Model"). That is legal across records; within one record it is
  ambiguous and Translate rejects it.

SEE ALSO:
  - installation.go: Uses both tables
  - config/config.go: Table file locations
*/
package solar

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/warp/xbrl-engine/xbrl"
)

// ErrConceptCollision is returned when two fields of one record translate to
// the same concept.
var ErrConceptCollision = errors.New("fields map to the same concept")

// =============================================================================
// CONCEPT MAP
// =============================================================================

// ConceptMap maps a user field name to a concept name.
type ConceptMap map[string]string

// DefaultConceptMap returns a fresh copy of the standard field table.
func DefaultConceptMap() ConceptMap {
	return ConceptMap{
		"latitude":              "SiteLatitudeAtSystemEntrance",
		"longitude":             "SiteLongitudeAtSystemEntrance",
		"azimuth":               "OrientationAzimuth",
		"tilt":                  "OrientationTilt",
		"panel_manufacturer":    "ProductManufacturer",
		"panel_model":           "Model",
		"capacity_dc_kw":        "ModuleNameplateCapacity",
		"capacity_ac_kw":        "InverterOutputRatedPowerAC",
		"inverter_manufacturer": "ProductManufacturer",
		"inverter_model":        "Model",
		"installer":             "SystemInstallerCompany",
		"COD":                   "SystemCommercialOperationsDate",
	}
}

// Concept returns the concept for a field.
func (m ConceptMap) Concept(field string) (string, error) {
	concept, ok := m[field]
	if !ok {
		return "", &xbrl.UnknownConceptError{Field: field}
	}
	return concept, nil
}

// Translate converts a record keyed by field names into one keyed by
// concept names. Every field must be mapped.
func (m ConceptMap) Translate(fields map[string]any) (map[string]xbrl.Value, error) {
	out := make(map[string]xbrl.Value, len(fields))
	from := make(map[string]string, len(fields))

	for _, field := range slices.Sorted(maps.Keys(fields)) {
		concept, err := m.Concept(field)
		if err != nil {
			return nil, err
		}
		if prev, dup := from[concept]; dup {
			return nil, fmt.Errorf("%w: %q and %q are both %s", ErrConceptCollision, prev, field, concept)
		}
		value, err := xbrl.ValueOf(fields[field])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		from[concept] = field
		out[concept] = value
	}
	return out, nil
}

// Collisions lists concepts reached from more than one field, with the
// fields sorted.
func (m ConceptMap) Collisions() map[string][]string {
	byConcept := make(map[string][]string)
	for field, concept := range m {
		byConcept[concept] = append(byConcept[concept], field)
	}
	out := make(map[string][]string)
	for concept, fields := range byConcept {
		if len(fields) > 1 {
			slices.Sort(fields)
			out[concept] = fields
		}
	}
	return out
}

// =============================================================================
// UNIT MAP
// =============================================================================

// UnitMap maps a concept name to its unit. Concepts without an entry are
// reported without a unit.
type UnitMap map[string]string

// DefaultUnitMap returns a fresh copy of the standard unit table.
func DefaultUnitMap() UnitMap {
	return UnitMap{
		"OrientationTilt":               "degrees",
		"OrientationAzimuth":            "degrees",
		"ModuleNameplateCapacity":       "kW",
		"InverterOutputRatedPowerAC":    "kW",
		"SiteLatitudeAtSystemEntrance":  "degrees",
		"SiteLongitudeAtSystemEntrance": "degrees",
		"DesignAttributePVDCCapacity":   "kW",
		"DesignAttributePVACCapacity":   "kW",
		"EquipmentTypeNumber":           "pure",
	}
}

func (m UnitMap) Unit(concept string) string {
	return m[concept]
}

// =============================================================================
// TABLE FILES
// =============================================================================

// Duplicate records a key defined more than once in a table file.
type Duplicate struct {
	Key      string
	Line     int // line of the winning definition
	Previous string
	Value    string
}

func (d Duplicate) String() string {
	return fmt.Sprintf("line %d: %q redefined from %q to %q", d.Line, d.Key, d.Previous, d.Value)
}

// LoadConceptMap reads a YAML field table.
func LoadConceptMap(r io.Reader) (ConceptMap, []Duplicate, error) {
	table, dups, err := loadTable(r)
	return ConceptMap(table), dups, err
}

// LoadUnitMap reads a YAML unit table.
func LoadUnitMap(r io.Reader) (UnitMap, []Duplicate, error) {
	table, dups, err := loadTable(r)
	return UnitMap(table), dups, err
}

// LoadConceptMapFile reads a field table from disk.
func LoadConceptMapFile(path string) (ConceptMap, []Duplicate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open concept map: %w", err)
	}
	defer f.Close()
	return LoadConceptMap(f)
}

// LoadUnitMapFile reads a unit table from disk.
func LoadUnitMapFile(path string) (UnitMap, []Duplicate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open unit map: %w", err)
	}
	defer f.Close()
	return LoadUnitMap(f)
}

// loadTable decodes into a yaml.Node rather than a map so repeated keys can
// be seen.
func loadTable(r io.Reader) (map[string]string, []Duplicate, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]string{}, nil, nil
		}
		return nil, nil, fmt.Errorf("parse mapping table: %w", err)
	}

	node := &doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("parse mapping table: line %d: expected a mapping", node.Line)
	}

	table := make(map[string]string, len(node.Content)/2)
	var dups []Duplicate
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, nil, fmt.Errorf("parse mapping table: line %d: keys and values must be scalars", k.Line)
		}
		if prev, ok := table[k.Value]; ok {
			dups = append(dups, Duplicate{Key: k.Value, Line: k.Line, Previous: prev, Value: v.Value})
		}
		table[k.Value] = v.Value
	}
	return table, dups, nil
}
