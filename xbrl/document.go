/*
document.go - Instance assembly

PURPOSE:
  A Document is created once per output document. It owns the hypercube
  registry and the unit registry, resolves builder fact requests into
  contexts, and produces an Instance: an immutable snapshot that both
  encodings render from.

TWO-PHASE BUILD:
  Phase 1 (Assemble): walk the builder's fact requests once. Each request
  resolves its context through the named hypercube (creating the hypercube
  and the context on first reference) and registers its unit. The result
  is the final ordered fact list plus every context those facts use.

  Phase 2 (EncodeXML / EncodeJSON): pure reads of the Instance. No builder
  call happens during encoding, so XML and JSON always describe the same
  facts.

ORDERING:
  - Hypercubes: first-reference order
  - Contexts:   creation order within each hypercube ("<Table>_<N>")
  - Units:      builder-declared units first, then units first referenced
                by a fact; each unit appears once
  - Facts:      the order the builder returned them

ATOMICITY:
  If any request fails, the registries are restored to their state before
  Assemble was called and no Instance is returned.

EXAMPLE:
  doc := xbrl.NewDocument("A Company", solar.Taxonomy)
  inst, err := doc.Assemble(report)
  if err != nil {
      return err
  }
  xmlBytes, _ := xbrl.EncodeXML(inst)
  jsonBytes, _ := xbrl.EncodeJSON(inst)

SEE ALSO:
  - hypercube.go: Context deduplication
  - tree.go: XML encoding
  - flat.go: JSON encoding
*/
package xbrl

import (
	"errors"
	"fmt"
	"slices"
)

// =============================================================================
// DOCUMENT - Hypercube and unit registries for one output document
// =============================================================================

type Document struct {
	Entity   string
	Taxonomy Taxonomy

	hypercubes map[string]*Hypercube
	order      []string // table names, first-reference order
	units      []string // units registered by facts, first-reference order
}

// NewDocument creates an empty document for one entity.
func NewDocument(entity string, taxonomy Taxonomy) *Document {
	return &Document{
		Entity:     entity,
		Taxonomy:   taxonomy,
		hypercubes: make(map[string]*Hypercube),
	}
}

// Context returns the context for spec, creating the hypercube and the
// context on first reference.
func (d *Document) Context(spec ContextSpec) (*Context, error) {
	period, err := NewPeriod(spec.Instant, spec.Duration)
	if err != nil {
		var ce *ConfigurationError
		if errors.As(err, &ce) {
			ce.Table = spec.Table
		}
		return nil, err
	}
	return d.Hypercube(spec.Table).GetOrCreateContext(period, spec.Dimensions), nil
}

// Hypercube returns the named table, creating it with the document's
// namespace prefix and typed-dimension map if needed.
func (d *Document) Hypercube(table string) *Hypercube {
	if cube, ok := d.hypercubes[table]; ok {
		return cube
	}
	cube := NewHypercube(d.Taxonomy.Prefix, table, d.Entity, d.Taxonomy.TypedDomains)
	d.hypercubes[table] = cube
	d.order = append(d.order, table)
	return cube
}

// Hypercubes returns the tables in first-reference order.
func (d *Document) Hypercubes() []*Hypercube {
	out := make([]*Hypercube, len(d.order))
	for i, table := range d.order {
		out[i] = d.hypercubes[table]
	}
	return out
}

// RegisterUnit records a unit the first time it is referenced.
func (d *Document) RegisterUnit(unit string) {
	if unit == "" || slices.Contains(d.units, unit) {
		return
	}
	d.units = append(d.units, unit)
}

// Units returns the units registered by facts, first-reference order.
func (d *Document) Units() []string {
	return slices.Clone(d.units)
}

// NewFact binds a value to a context and registers its unit.
func (d *Document) NewFact(concept string, ctx *Context, unit string, value Value) Fact {
	d.RegisterUnit(unit)
	return Fact{
		Concept:  concept,
		Context:  ctx,
		Unit:     unit,
		Value:    value,
		Decimals: DefaultDecimals,
	}
}

// =============================================================================
// ASSEMBLY
// =============================================================================

// Assemble walks the builder once and returns the resulting Instance.
func (d *Document) Assemble(b Builder) (*Instance, error) {
	snap := d.snapshot()

	requests, err := b.Facts()
	if err != nil {
		d.restore(snap)
		return nil, err
	}

	facts := make([]Fact, 0, len(requests))
	for i, req := range requests {
		ctx, err := d.Context(req.Context)
		if err != nil {
			d.restore(snap)
			return nil, fmt.Errorf("fact %d (%s): %w", i, req.Concept, err)
		}
		fact := d.NewFact(req.Concept, ctx, req.Unit, req.Value)
		if req.Decimals != nil {
			fact.Decimals = *req.Decimals
		}
		facts = append(facts, fact)
	}

	return d.instance(b.RequiredUnits(), facts), nil
}

// RenderXML assembles the builder and encodes the tree form.
func (d *Document) RenderXML(b Builder) ([]byte, error) {
	inst, err := d.Assemble(b)
	if err != nil {
		return nil, err
	}
	return EncodeXML(inst)
}

// RenderJSON assembles the builder and encodes the flat form.
func (d *Document) RenderJSON(b Builder) ([]byte, error) {
	inst, err := d.Assemble(b)
	if err != nil {
		return nil, err
	}
	return EncodeJSON(inst)
}

func (d *Document) instance(declared []string, facts []Fact) *Instance {
	units := make([]string, 0, len(declared)+len(d.units))
	for _, u := range append(slices.Clone(declared), d.units...) {
		if u != "" && !slices.Contains(units, u) {
			units = append(units, u)
		}
	}

	var contexts []*Context
	for _, cube := range d.Hypercubes() {
		contexts = append(contexts, cube.Contexts()...)
	}

	return &Instance{
		Entity:     d.Entity,
		Taxonomy:   d.Taxonomy,
		Namespaces: d.Taxonomy.Namespaces(),
		Contexts:   contexts,
		Units:      units,
		Facts:      facts,
	}
}

// snapshot records registry sizes; contexts and tables are append-only so
// truncation restores the earlier state.
type documentSnapshot struct {
	order    int
	units    int
	contexts map[string]int
}

func (d *Document) snapshot() documentSnapshot {
	s := documentSnapshot{
		order:    len(d.order),
		units:    len(d.units),
		contexts: make(map[string]int, len(d.hypercubes)),
	}
	for table, cube := range d.hypercubes {
		s.contexts[table] = len(cube.contexts)
	}
	return s
}

func (d *Document) restore(s documentSnapshot) {
	for _, table := range d.order[s.order:] {
		delete(d.hypercubes, table)
	}
	d.order = d.order[:s.order]
	d.units = d.units[:s.units]
	for table, n := range s.contexts {
		cube := d.hypercubes[table]
		cube.contexts = cube.contexts[:n]
	}
}

// =============================================================================
// INSTANCE - Immutable assembled document
// =============================================================================

// Instance is what the encoders read. It is never modified after Assemble.
type Instance struct {
	Entity     string
	Taxonomy   Taxonomy
	Namespaces []Namespace
	Contexts   []*Context // hypercube first-reference order, then creation order
	Units      []string
	Facts      []Fact
}
