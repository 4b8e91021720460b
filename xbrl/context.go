package xbrl

import (
	"slices"
)

// EntityScheme is the identifier scheme written on every context entity.
const EntityScheme = "http://xbrl.org/entity/identification/scheme"

// =============================================================================
// CONTEXT - Entity + period + dimension values shared by facts
// =============================================================================

// Context is one reporting context. It is created and identified by its
// owning Hypercube and never modified afterwards.
type Context struct {
	cube       *Hypercube
	entity     string
	period     Period
	dimensions Dimensions
	id         string
}

func newContext(cube *Hypercube, entity string, period Period, dims Dimensions) *Context {
	copied := make(Dimensions, len(dims))
	for k, v := range dims {
		copied[k] = v
	}
	return &Context{cube: cube, entity: entity, period: period, dimensions: copied}
}

// ID returns the identifier assigned by the owning hypercube.
func (c *Context) ID() (string, error) {
	if c.id == "" {
		table := ""
		if c.cube != nil {
			table = c.cube.Table
		}
		return "", &UnassignedIdentifierError{Table: table}
	}
	return c.id, nil
}

func (c *Context) Entity() string { return c.entity }
func (c *Context) Period() Period { return c.period }

// Hypercube returns the owning table.
func (c *Context) Hypercube() *Hypercube { return c.cube }

// Dimension returns the member value for an axis.
func (c *Context) Dimension(name string) (string, bool) {
	v, ok := c.dimensions[name]
	return v, ok
}

// DimensionNames returns the axis names in encoding order.
func (c *Context) DimensionNames() []string {
	names := make([]string, 0, len(c.dimensions))
	for name := range c.dimensions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// matches is the dedup key: entity, period and dimension map.
func (c *Context) matches(entity string, period Period, dims Dimensions) bool {
	if c.entity != entity {
		return false
	}
	if !c.period.Equal(period) {
		return false
	}
	// nil and empty both mean "no dimensions"
	return c.dimensions.Equal(dims)
}

// qualify prefixes a name with the owning hypercube's namespace.
func (c *Context) qualify(name string) string {
	return c.cube.qualify(name)
}
