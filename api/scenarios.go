/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the archive with rendered
	sample documents. Each scenario renders one or more of the sample
	report definitions from solar/presets.go under the configured entity.

AVAILABLE SCENARIOS:

	installation-sample: One PV system with site, two arrays, one inverter
	operating-sample:    Two systems over January and February 2018
	portfolio:           Both of the above

HOW SCENARIOS WORK:
 1. Reset the archive (clear all documents)
 2. Build the sample definitions for the factory's entity
 3. Render and archive each one like POST /api/documents

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "portfolio"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add its definitions to scenarioDefinitions

NOTE:

	Scenarios reset the archive. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: createDocument
  - solar/presets.go: Sample definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/warp/xbrl-engine/solar"
	"github.com/warp/xbrl-engine/xbrl"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

const (
	ScenarioInstallation = "installation-sample"
	ScenarioOperating    = "operating-sample"
	ScenarioPortfolio    = "portfolio"
)

var scenarios = []ScenarioDTO{
	{
		ID:          ScenarioInstallation,
		Name:        "Installation Sheet",
		Description: "One PV system with a site, two module arrays and an inverter",
		Kind:        solar.KindInstallation,
	},
	{
		ID:          ScenarioOperating,
		Name:        "Monthly Production",
		Description: "Measured and expected kWh for two systems over two months",
		Kind:        solar.KindOperating,
	},
	{
		ID:          ScenarioPortfolio,
		Name:        "Portfolio",
		Description: "Installation sheet and monthly production together",
		Kind:        "mixed",
	},
}

func scenarioDefinitions(id, entity string) ([]string, bool) {
	switch id {
	case ScenarioInstallation:
		return []string{solar.SampleInstallationJSON(entity)}, true
	case ScenarioOperating:
		return []string{solar.SampleOperatingJSON(entity)}, true
	case ScenarioPortfolio:
		return []string{solar.SampleInstallationJSON(entity), solar.SampleOperatingJSON(entity)}, true
	default:
		return nil, false
	}
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, map[string]any{"scenario": nil})
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, map[string]any{"scenario": s})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenario": nil})
}

// LoadScenario resets the archive and loads a demo scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	docs, err := h.loadScenario(r.Context(), req.ScenarioID)
	if err != nil {
		h.writeDomainError(w, "Failed to load scenario", err)
		return
	}

	dtos := make([]DocumentDTO, len(docs))
	for i, rec := range docs {
		dtos[i] = toDocumentDTO(rec, false)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"scenario":  req.ScenarioID,
		"documents": dtos,
	})
}

// ResetDatabase clears the archive.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Documents.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) loadScenario(ctx context.Context, id string) ([]xbrl.DocumentRecord, error) {
	definitions, ok := scenarioDefinitions(id, h.Factory.Entity)
	if !ok {
		return nil, fmt.Errorf("%w: unknown scenario %q", errUnknownScenario, id)
	}

	if err := h.Documents.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset archive: %w", err)
	}

	docs := make([]xbrl.DocumentRecord, 0, len(definitions))
	for _, def := range definitions {
		rec, err := h.createDocument(ctx, []byte(def))
		if err != nil {
			return nil, err
		}
		docs = append(docs, *rec)
	}

	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()

	h.Logger.Info("scenario loaded", zap.String("scenario", id), zap.Int("documents", len(docs)))
	return docs, nil
}
