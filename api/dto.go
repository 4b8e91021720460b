/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Archived records and
  taxonomies are mapped to these types so storage columns can change
  without breaking clients.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Taxonomies:
    TaxonomyDTO

  Documents:
    DocumentDTO, ValidationDTO, ValidateResponse

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
  Report definitions are not wrapped: the body of POST /api/render and
  POST /api/documents is a factory.ReportJSON.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/report.go: Report definition schema
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/warp/xbrl-engine/store/sqlite"
	"github.com/warp/xbrl-engine/xbrl"
)

// =============================================================================
// TAXONOMY DTOs
// =============================================================================

// TaxonomyDTO describes a registered taxonomy.
type TaxonomyDTO struct {
	Name         string            `json:"name"`
	Prefix       string            `json:"prefix"`
	SchemaRef    string            `json:"schema_ref"`
	NamespaceURI string            `json:"namespace_uri"`
	TypedDomains map[string]string `json:"typed_domains"`
}

func toTaxonomyDTO(t xbrl.Taxonomy) TaxonomyDTO {
	return TaxonomyDTO{
		Name:         t.Name,
		Prefix:       t.Prefix,
		SchemaRef:    t.SchemaRef,
		NamespaceURI: t.NamespaceURI,
		TypedDomains: t.TypedDomains,
	}
}

// =============================================================================
// DOCUMENT DTOs
// =============================================================================

// DocumentDTO is an archived document without its rendered bodies.
type DocumentDTO struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Entity     string          `json:"entity"`
	Taxonomy   string          `json:"taxonomy"`
	Contexts   int             `json:"contexts"`
	Units      int             `json:"units"`
	Facts      int             `json:"facts"`
	CreatedAt  string          `json:"created_at"`
	Definition json.RawMessage `json:"definition,omitempty"`

	Validations []ValidationDTO `json:"validations,omitempty"`
}

func toDocumentDTO(rec xbrl.DocumentRecord, withDefinition bool) DocumentDTO {
	dto := DocumentDTO{
		ID:        rec.ID,
		Kind:      rec.Kind,
		Entity:    rec.Entity,
		Taxonomy:  rec.Taxonomy,
		Contexts:  rec.Contexts,
		Units:     rec.Units,
		Facts:     rec.Facts,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
	}
	if withDefinition && json.Valid([]byte(rec.Definition)) {
		dto.Definition = json.RawMessage(rec.Definition)
	}
	return dto
}

// ValidationDTO is one validator run against a document.
type ValidationDTO struct {
	ID        int64    `json:"id"`
	Rows      []string `json:"rows"`
	CreatedAt string   `json:"created_at"`
}

func toValidationDTO(v sqlite.ValidationRecord) ValidationDTO {
	rows := v.Rows
	if rows == nil {
		rows = []string{}
	}
	return ValidationDTO{
		ID:        v.ID,
		Rows:      rows,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ValidateResponse is returned by POST /api/documents/{id}/validate.
type ValidateResponse struct {
	DocumentID string   `json:"document_id"`
	Name       string   `json:"name"`
	Rows       []string `json:"rows"`
}

// =============================================================================
// SCENARIO DTOs
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

// LoadScenarioRequest is the request body for loading a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERROR DTOs
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
