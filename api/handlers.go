/*
handlers.go - HTTP API handlers for the instance document generator

PURPOSE:
  Exposes report rendering and the document archive via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to the report
  factory and the xbrl engine.

ENDPOINTS:
  Taxonomies:
    GET    /api/taxonomies                List registered taxonomies

  Rendering:
    POST   /api/render?format=xml|json    Render a report definition, no archive

  Documents:
    POST   /api/documents                 Render both encodings and archive
    GET    /api/documents                 List archived documents
    GET    /api/documents/{id}            Document summary, definition, validations
    GET    /api/documents/{id}/xml        XML encoding
    GET    /api/documents/{id}/json       xBRL-JSON encoding
    DELETE /api/documents/{id}            Remove a document
    POST   /api/documents/{id}/validate   Run the external validator

  Scenarios:
    GET    /api/scenarios                 List demo scenarios
    POST   /api/scenarios/load            Load a demo scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Documents: Archive of rendered documents
  - Validations: Optional validator history (nil = not kept)
  - Factory: JSON to report conversion
  - Validator: External validator client

REQUEST FLOW:
  1. Read the body (capped at maxBodyBytes)
  2. Decode the report definition, numbers kept exact
  3. Assemble once, encode one or both formats
  4. Archive and serialize the response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed definition, unknown field, bad period shape
  - 404: Document not found
  - 502: Validator failed
  - 503: Validator not configured
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/xbrl-engine/factory"
	"github.com/warp/xbrl-engine/solar"
	"github.com/warp/xbrl-engine/store/sqlite"
	"github.com/warp/xbrl-engine/validation"
	"github.com/warp/xbrl-engine/xbrl"
)

const maxBodyBytes = 1 << 20

var (
	// errValidator marks failures reported by the external validator.
	errValidator = errors.New("validator failed")

	errUnknownScenario = errors.New("unknown scenario")
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Archive is the document store the handlers read and write.
type Archive interface {
	xbrl.DocumentStore
	Reset(ctx context.Context) error
}

// ValidationLog keeps validator output per document.
type ValidationLog interface {
	SaveValidation(ctx context.Context, v sqlite.ValidationRecord) (int64, error)
	GetValidations(ctx context.Context, documentID string) ([]sqlite.ValidationRecord, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Documents   Archive
	Validations ValidationLog

	Factory   *factory.ReportFactory
	Validator validation.Validator
	Metrics   *Metrics
	Logger    *zap.Logger

	// ValidationTimeout bounds one validator round trip (0 = request context only).
	ValidationTimeout time.Duration

	now   func() time.Time
	newID func() string

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler over an archive. validations may be nil.
func NewHandler(documents Archive, validations ValidationLog) *Handler {
	return &Handler{
		Documents:   documents,
		Validations: validations,
		Factory:     factory.NewReportFactory(),
		Validator:   validation.NewArelleClient("", "", nil),
		Metrics:     NewMetrics(),
		Logger:      zap.NewNop(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// =============================================================================
// TAXONOMY HANDLERS
// =============================================================================

// ListTaxonomies returns every registered taxonomy.
func (h *Handler) ListTaxonomies(w http.ResponseWriter, r *http.Request) {
	taxonomies := xbrl.ListTaxonomies()
	dtos := make([]TaxonomyDTO, len(taxonomies))
	for i, t := range taxonomies {
		dtos[i] = toTaxonomyDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RENDER HANDLERS
// =============================================================================

// Render renders a report definition in the requested format without
// archiving it.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	format, err := factory.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid format", err)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	report, err := h.parseReport(body)
	if err != nil {
		h.writeDomainError(w, "Invalid report definition", err)
		return
	}

	inst, err := report.Assemble()
	if err != nil {
		h.writeDomainError(w, "Failed to assemble document", err)
		return
	}
	out, err := factory.Encode(inst, format)
	if err != nil {
		h.writeDomainError(w, "Failed to encode document", err)
		return
	}

	h.Metrics.observeRender(report.Kind, string(format), len(inst.Facts))
	writeDocument(w, format, out)
}

// =============================================================================
// DOCUMENT HANDLERS
// =============================================================================

// CreateDocument renders a report definition in both formats and archives it.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	rec, err := h.createDocument(r.Context(), body)
	if err != nil {
		h.writeDomainError(w, "Failed to create document", err)
		return
	}

	w.Header().Set("Location", "/api/documents/"+rec.ID)
	writeJSON(w, http.StatusCreated, toDocumentDTO(*rec, true))
}

// createDocument renders and archives one definition.
func (h *Handler) createDocument(ctx context.Context, definition []byte) (*xbrl.DocumentRecord, error) {
	report, err := h.parseReport(definition)
	if err != nil {
		return nil, err
	}
	rendered, err := report.RenderAll()
	if err != nil {
		return nil, err
	}

	rec := xbrl.DocumentRecord{
		ID:         h.newID(),
		Kind:       report.Kind,
		Entity:     report.Entity,
		Taxonomy:   report.Taxonomy.Name,
		Definition: string(definition),
		XML:        rendered.XML,
		JSON:       rendered.JSON,
		CreatedAt:  h.now().UTC(),
	}
	rec.Summarize(rendered.Instance)

	if err := h.Documents.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to archive document: %w", err)
	}

	h.Metrics.observeRender(rec.Kind, string(factory.FormatXML), rec.Facts)
	h.Metrics.observeRender(rec.Kind, string(factory.FormatJSON), rec.Facts)
	h.Logger.Info("document archived",
		zap.String("id", rec.ID),
		zap.String("kind", rec.Kind),
		zap.String("entity", rec.Entity),
		zap.Int("contexts", rec.Contexts),
		zap.Int("facts", rec.Facts))
	return &rec, nil
}

// ListDocuments returns all archived documents, newest first.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	records, err := h.Documents.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}

	dtos := make([]DocumentDTO, len(records))
	for i, rec := range records {
		dtos[i] = toDocumentDTO(rec, false)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDocument returns a document summary with its definition and
// validation history.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Documents.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get document", err)
		return
	}

	dto := toDocumentDTO(*rec, true)
	if h.Validations != nil {
		runs, err := h.Validations.GetValidations(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to get validations", err)
			return
		}
		for _, v := range runs {
			dto.Validations = append(dto.Validations, toValidationDTO(v))
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetDocumentXML serves the archived XML encoding.
func (h *Handler) GetDocumentXML(w http.ResponseWriter, r *http.Request) {
	h.serveEncoding(w, r, factory.FormatXML)
}

// GetDocumentJSON serves the archived xBRL-JSON encoding.
func (h *Handler) GetDocumentJSON(w http.ResponseWriter, r *http.Request) {
	h.serveEncoding(w, r, factory.FormatJSON)
}

func (h *Handler) serveEncoding(w http.ResponseWriter, r *http.Request, format factory.Format) {
	rec, err := h.Documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get document", err)
		return
	}
	if format == factory.FormatJSON {
		writeDocument(w, format, rec.JSON)
		return
	}
	writeDocument(w, format, rec.XML)
}

// DeleteDocument removes a document and its validation history.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Documents.Delete(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete document", err)
		return
	}
	h.Logger.Info("document deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ValidateDocument sends the XML encoding to the external validator.
func (h *Handler) ValidateDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rows, err := h.validate(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to validate document", err)
		return
	}

	writeJSON(w, http.StatusOK, ValidateResponse{
		DocumentID: id,
		Name:       documentFileName(id),
		Rows:       rows,
	})
}

// validate runs the validator against an archived document and records
// the result when a validation log is configured.
func (h *Handler) validate(ctx context.Context, id string) ([]string, error) {
	rec, err := h.Documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if h.ValidationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.ValidationTimeout)
		defer cancel()
	}

	rows, err := h.Validator.Validate(ctx, documentFileName(id), rec.XML)
	h.Metrics.observeValidation(err)
	if errors.Is(err, validation.ErrDisabled) {
		return nil, err
	}
	if err != nil {
		h.Logger.Warn("validation failed", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", errValidator, err)
	}
	if rows == nil {
		rows = []string{}
	}

	if h.Validations != nil {
		_, err := h.Validations.SaveValidation(ctx, sqlite.ValidationRecord{
			DocumentID: id,
			Rows:       rows,
			CreatedAt:  h.now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record validation: %w", err)
		}
	}
	return rows, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) parseReport(body []byte) (*factory.Report, error) {
	rj, err := factory.DecodeReport(body)
	if err != nil {
		return nil, err
	}
	return h.Factory.FromJSON(rj)
}

func documentFileName(id string) string {
	return id + ".xml"
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeDocument(w http.ResponseWriter, format factory.Format, body []byte) {
	if format == factory.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "application/xml")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message, Code: errorCode(err)}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError picks the status from the error chain. Server-side
// failures are logged; caller mistakes are not.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error(message, zap.Error(err), zap.Int("status", status))
	}
	writeError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case xbrl.IsNotFound(err):
		return http.StatusNotFound
	case xbrl.IsClientError(err),
		errors.Is(err, factory.ErrInvalidReport),
		errors.Is(err, solar.ErrConceptCollision),
		errors.Is(err, errUnknownScenario):
		return http.StatusBadRequest
	case errors.Is(err, validation.ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, errValidator):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, xbrl.ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, xbrl.ErrUnknownConcept):
		return "unknown_concept"
	case errors.Is(err, solar.ErrConceptCollision):
		return "concept_collision"
	case errors.Is(err, xbrl.ErrUnsupportedValue):
		return "unsupported_value"
	case errors.Is(err, xbrl.ErrUnknownTaxonomy):
		return "unknown_taxonomy"
	case errors.Is(err, factory.ErrInvalidReport):
		return "invalid_report"
	case errors.Is(err, xbrl.ErrDocumentNotFound):
		return "not_found"
	case errors.Is(err, validation.ErrDisabled):
		return "validation_disabled"
	default:
		return ""
	}
}
