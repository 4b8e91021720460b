/*
errors.go - Centralized error types for the instance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Report builders and the API layer wrap or inspect these errors.

ERROR CATEGORIES:
  1. Configuration errors - Malformed context requests (period shape)
  2. Mapping errors - User field names missing from the concept table
  3. Lifecycle errors - Identifiers read before assignment
  4. Store errors - Archived document lookups

USAGE:
  Callers inspect errors with errors.Is / errors.As:

    if errors.Is(err, xbrl.ErrUnknownConcept) {
        var uc *xbrl.UnknownConceptError
        errors.As(err, &uc)
        log.Printf("unmapped field %q", uc.Field)
    }

SEE ALSO:
  - context.go: Raises ConfigurationError and UnassignedIdentifierError
  - solar/mapping.go: Raises UnknownConceptError
*/
package xbrl

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrConfiguration is returned when a context request supplies both an
	// instant and a duration, or a duration that is not exactly two dates.
	ErrConfiguration = errors.New("invalid context configuration")

	// ErrUnknownConcept is returned when a user-facing field name has no
	// entry in the concept mapping table.
	ErrUnknownConcept = errors.New("unknown concept")

	// ErrUnassignedIdentifier is returned when a context identifier is read
	// before the owning hypercube assigned one.
	ErrUnassignedIdentifier = errors.New("context identifier not assigned")

	// ErrUnsupportedValue is returned when a fact value is not an integer,
	// real, string or date.
	ErrUnsupportedValue = errors.New("unsupported fact value")

	// ErrUnknownTaxonomy is returned when a taxonomy name is not registered.
	ErrUnknownTaxonomy = errors.New("taxonomy not registered")

	// ErrDocumentNotFound is returned when an archived document doesn't exist.
	ErrDocumentNotFound = errors.New("document not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigurationError describes a malformed context request.
type ConfigurationError struct {
	Table  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("invalid context configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid context configuration for %s: %s", e.Table, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// UnknownConceptError names the field that could not be mapped.
type UnknownConceptError struct {
	Field string
}

func (e *UnknownConceptError) Error() string {
	return fmt.Sprintf("no concept mapping for field %q", e.Field)
}

func (e *UnknownConceptError) Unwrap() error {
	return ErrUnknownConcept
}

// UnassignedIdentifierError is a lifecycle violation: a context was used
// outside the hypercube that should own it.
type UnassignedIdentifierError struct {
	Table string
}

func (e *UnassignedIdentifierError) Error() string {
	return fmt.Sprintf("context in table %q has no identifier", e.Table)
}

func (e *UnassignedIdentifierError) Unwrap() error {
	return ErrUnassignedIdentifier
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrUnknownConcept) ||
		errors.Is(err, ErrUnsupportedValue) ||
		errors.Is(err, ErrUnknownTaxonomy)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}
