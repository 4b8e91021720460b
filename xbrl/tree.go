package xbrl

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// =============================================================================
// TREE ENCODING - XBRL 2.1 XML instance
// =============================================================================

// UnitRegistryPrefix qualifies unit measures (declared as xmlns:units).
const UnitRegistryPrefix = "units"

// BuildTree projects an Instance onto an element tree:
//
//	xbrl (namespace declarations)
//	  link:schemaRef
//	  context*   (one per deduplicated context)
//	  unit*      (one per required unit)
//	  <prefix:Concept>*  (one per fact)
func BuildTree(inst *Instance) (*Node, error) {
	root := &Node{Name: "xbrl"}
	for _, ns := range inst.Namespaces {
		root.Attrs = append(root.Attrs, xml.Attr{Name: xml.Name{Local: ns.Attr}, Value: ns.URI})
	}

	root.Add(newNode("link:schemaRef",
		"xlink:href", inst.Taxonomy.SchemaRef,
		"xlink:type", "simple"))

	for _, ctx := range inst.Contexts {
		node, err := ContextNode(ctx)
		if err != nil {
			return nil, err
		}
		root.Add(node)
	}

	for _, unit := range inst.Units {
		root.Add(UnitNode(unit))
	}

	for _, fact := range inst.Facts {
		node, err := FactNode(fact)
		if err != nil {
			return nil, err
		}
		root.Add(node)
	}
	return root, nil
}

// EncodeXML renders an Instance as an indented XML document.
func EncodeXML(inst *Instance) ([]byte, error) {
	root, err := BuildTree(inst)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := root.encode(enc); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ContextNode renders one context. The segment container is only present
// when the context has dimensions.
func ContextNode(c *Context) (*Node, error) {
	id, err := c.ID()
	if err != nil {
		return nil, err
	}

	node := newNode("context", "id", id)
	entity := node.Add(newNode("entity"))
	entity.Add(newNode("identifier", "scheme", EntityScheme)).SetText(c.entity)

	if len(c.dimensions) > 0 {
		segment := entity.Add(newNode("segment"))
		for _, dim := range c.DimensionNames() {
			value := c.dimensions[dim]
			if c.cube.IsTypedDimension(dim) {
				typed := segment.Add(newNode("xbrldi:typedMember", "dimension", c.qualify(dim)))
				typed.Add(newNode(c.qualify(c.cube.Domain(dim)))).SetText(value)
			} else {
				segment.Add(newNode("xbrldi:explicitMember", "dimension", c.qualify(dim))).
					SetText(c.qualify(value))
			}
		}
	}

	period := node.Add(newNode("period"))
	switch c.period.Kind() {
	case PeriodDuration:
		period.Add(newNode("startDate")).SetText(c.period.Start().String())
		period.Add(newNode("endDate")).SetText(c.period.End().String())
	case PeriodInstant:
		period.Add(newNode("instant")).SetText(c.period.Instant().String())
	default:
		period.Add(newNode("forever"))
	}
	return node, nil
}

// UnitNode renders a unit definition referencing the unit registry.
func UnitNode(unit string) *Node {
	node := newNode("unit", "id", unit)
	node.Add(newNode("measure")).SetText(UnitRegistryPrefix + ":" + unit)
	return node
}

// FactNode renders one fact element.
func FactNode(f Fact) (*Node, error) {
	if f.Context == nil {
		return nil, &UnassignedIdentifierError{}
	}
	id, err := f.Context.ID()
	if err != nil {
		return nil, err
	}

	node := newNode(f.Context.qualify(f.Concept), "contextRef", id)
	if f.Unit != "" {
		node.Attrs = append(node.Attrs, xml.Attr{Name: xml.Name{Local: "unitRef"}, Value: f.Unit})
	}
	if decimals, ok := DecimalsAttr(f); ok {
		node.Attrs = append(node.Attrs, xml.Attr{Name: xml.Name{Local: "decimals"}, Value: decimals})
	}
	node.Text = FormatValue(f)
	return node, nil
}
