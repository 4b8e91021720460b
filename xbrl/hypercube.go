package xbrl

import "fmt"

// =============================================================================
// HYPERCUBE - A reporting table owning its deduplicated contexts
// =============================================================================

// Hypercube is a named table. It creates contexts on demand, reuses
// structurally equal ones, and assigns identifiers "<Table>_<N>" in
// creation order. Contexts are never removed, so identifiers never repeat.
type Hypercube struct {
	Table     string
	Namespace string
	Entity    string

	// typedDomains maps each typed dimension to its domain. Dimensions
	// absent from the map are explicit. Fixed for the hypercube's lifetime.
	typedDomains map[string]string
	contexts     []*Context
}

// NewHypercube creates an empty table. typedDomains is copied.
func NewHypercube(namespace, table, entity string, typedDomains map[string]string) *Hypercube {
	domains := make(map[string]string, len(typedDomains))
	for k, v := range typedDomains {
		domains[k] = v
	}
	return &Hypercube{
		Table:        table,
		Namespace:    namespace,
		Entity:       entity,
		typedDomains: domains,
	}
}

// GetOrCreateContext returns the existing context equal to (entity, period,
// dims) or creates, identifies and stores a new one.
func (h *Hypercube) GetOrCreateContext(period Period, dims Dimensions) *Context {
	for _, ctx := range h.contexts {
		if ctx.matches(h.Entity, period, dims) {
			return ctx
		}
	}
	ctx := newContext(h, h.Entity, period, dims)
	ctx.id = fmt.Sprintf("%s_%d", h.Table, len(h.contexts))
	h.contexts = append(h.contexts, ctx)
	return ctx
}

// Contexts returns the contexts in creation (= identifier) order.
func (h *Hypercube) Contexts() []*Context {
	out := make([]*Context, len(h.contexts))
	copy(out, h.contexts)
	return out
}

// Len returns the number of contexts created so far.
func (h *Hypercube) Len() int { return len(h.contexts) }

// IsTypedDimension reports whether the dimension carries an open value.
func (h *Hypercube) IsTypedDimension(dimension string) bool {
	_, ok := h.typedDomains[dimension]
	return ok
}

// Domain returns the domain name of a typed dimension.
func (h *Hypercube) Domain(dimension string) string {
	return h.typedDomains[dimension]
}

func (h *Hypercube) qualify(name string) string {
	return h.Namespace + ":" + name
}
