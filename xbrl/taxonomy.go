/*
taxonomy.go - Taxonomy configuration and registration

PURPOSE:
  A Taxonomy is the per-report-type configuration the engine needs: where
  the schema lives, which namespace prefix concepts use, and which
  dimensions are typed (with their domains). It is injected as a value
  when a Document is created; nothing is derived per context.

HOW IT WORKS:
  1. Taxonomy packages define a Taxonomy value (see solar/taxonomy.go)
  2. They register it on init() so it can be found by name
  3. The report factory and the API look taxonomies up by name

USAGE:
  // In solar/taxonomy.go
  func init() {
      xbrl.RegisterTaxonomy(Taxonomy)
  }

  // In factory
  tax, err := xbrl.LookupTaxonomy("solar")

SEE ALSO:
  - document.go: Consumes the taxonomy when creating hypercubes
  - solar/taxonomy.go: The Orange Button solar taxonomy
*/
package xbrl

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// =============================================================================
// TAXONOMY
// =============================================================================

type Taxonomy struct {
	// Name is the registry key (e.g. "solar").
	Name string

	// SchemaRef is the URI of the taxonomy entry point.
	SchemaRef string

	// Prefix qualifies concepts and dimensions (e.g. "solar").
	Prefix string

	// NamespaceURI is declared as xmlns:<Prefix> on the root.
	NamespaceURI string

	// TypedDomains maps typed dimension names to their domain names.
	TypedDomains map[string]string
}

// Namespace is one prefix declaration on the instance root.
type Namespace struct {
	Attr string // "xmlns" or "xmlns:<prefix>"
	URI  string
}

// BaseNamespaces are declared on every instance, in this order.
var BaseNamespaces = []Namespace{
	{Attr: "xmlns", URI: "http://www.xbrl.org/2003/instance"},
	{Attr: "xmlns:link", URI: "http://www.xbrl.org/2003/linkbase"},
	{Attr: "xmlns:xlink", URI: "http://www.w3.org/1999/xlink"},
	{Attr: "xmlns:xsi", URI: "http://www.w3.org/2001/XMLSchema-instance"},
	{Attr: "xmlns:units", URI: "http://www.xbrl.org/2009/utr"},
	{Attr: "xmlns:xbrldi", URI: "http://xbrl.org/2006/xbrldi"},
}

// Namespaces returns the base declarations followed by the taxonomy's own.
func (t Taxonomy) Namespaces() []Namespace {
	ns := slices.Clone(BaseNamespaces)
	if t.Prefix != "" && t.NamespaceURI != "" {
		ns = append(ns, Namespace{Attr: "xmlns:" + t.Prefix, URI: t.NamespaceURI})
	}
	return ns
}

// =============================================================================
// TAXONOMY REGISTRY
// =============================================================================

var (
	taxonomyRegistry = make(map[string]Taxonomy)
	registryMu       sync.RWMutex
)

// RegisterTaxonomy adds a taxonomy to the global registry.
// Call this from taxonomy package init() functions.
func RegisterTaxonomy(t Taxonomy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	taxonomyRegistry[t.Name] = t
}

// LookupTaxonomy finds a registered taxonomy by name.
func LookupTaxonomy(name string) (Taxonomy, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := taxonomyRegistry[name]
	if !ok {
		return Taxonomy{}, fmt.Errorf("%w: %q", ErrUnknownTaxonomy, name)
	}
	return t, nil
}

// ListTaxonomies returns all registered taxonomies sorted by name.
func ListTaxonomies() []Taxonomy {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Taxonomy, 0, len(taxonomyRegistry))
	for _, t := range taxonomyRegistry {
		result = append(result, t)
	}
	slices.SortFunc(result, func(a, b Taxonomy) int { return strings.Compare(a.Name, b.Name) })
	return result
}
