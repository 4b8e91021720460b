package xbrl

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// FLAT ENCODING - xBRL-JSON (working group draft)
// =============================================================================

// DocumentTypeJSON identifies the flat encoding.
const DocumentTypeJSON = "http://www.xbrl.org/WGWD/YYYY-MM-DD/xbrl-json"

// Aspect keys shared by every fact.
const (
	AspectEntity      = "xbrl:entity"
	AspectPeriod      = "xbrl:period"
	AspectPeriodStart = "xbrl:periodStart"
	AspectPeriodEnd   = "xbrl:periodEnd"
	AspectInstant     = "xbrl:instant"
	AspectConcept     = "xbrl:concept"
	AspectUnit        = "xbrl:unit"
)

// FlatDocument is the top-level flat object. Map keys are emitted sorted,
// so the encoding is deterministic.
type FlatDocument struct {
	DocumentType  string            `json:"documentType"`
	Prefixes      map[string]string `json:"prefixes"`
	DTSReferences []DTSReference    `json:"dtsReferences"`
	Facts         []FlatFact        `json:"facts"`
}

type DTSReference struct {
	Type string `json:"type"`
	Href string `json:"href"`
}

// FlatFact is self-contained: its aspects embed the full context.
type FlatFact struct {
	Aspects map[string]string `json:"aspects"`
	Value   string            `json:"value"`
}

// BuildFlat projects an Instance onto the flat document model.
func BuildFlat(inst *Instance) (*FlatDocument, error) {
	doc := &FlatDocument{
		DocumentType:  DocumentTypeJSON,
		Prefixes:      make(map[string]string, len(inst.Namespaces)),
		DTSReferences: []DTSReference{{Type: "schema", Href: inst.Taxonomy.SchemaRef}},
		Facts:         make([]FlatFact, 0, len(inst.Facts)),
	}
	for _, ns := range inst.Namespaces {
		doc.Prefixes[ns.Attr] = ns.URI
	}

	for _, f := range inst.Facts {
		if f.Context == nil {
			return nil, &UnassignedIdentifierError{}
		}
		aspects := ContextAspects(f.Context)
		aspects[AspectConcept] = f.Context.qualify(f.Concept)
		if f.Unit != "" {
			aspects[AspectUnit] = f.Unit
		}
		doc.Facts = append(doc.Facts, FlatFact{Aspects: aspects, Value: FormatValue(f)})
	}
	return doc, nil
}

// EncodeJSON renders an Instance as indented xBRL-JSON.
func EncodeJSON(inst *Instance) ([]byte, error) {
	doc, err := BuildFlat(inst)
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(b, '\n'), nil
}

// ContextAspects returns a fresh aspect map for a context: entity, period
// and one namespace-qualified key per dimension.
func ContextAspects(c *Context) map[string]string {
	aspects := map[string]string{AspectEntity: c.entity}
	switch c.period.Kind() {
	case PeriodDuration:
		aspects[AspectPeriodStart] = c.period.Start().String()
		aspects[AspectPeriodEnd] = c.period.End().String()
	case PeriodInstant:
		aspects[AspectInstant] = c.period.Instant().String()
	default:
		aspects[AspectPeriod] = "forever"
	}

	for dim, value := range c.dimensions {
		if c.cube.IsTypedDimension(dim) {
			aspects[c.qualify(dim)] = value
		} else {
			aspects[c.qualify(dim)] = c.qualify(value)
		}
	}
	return aspects
}
