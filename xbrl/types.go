/*
Package xbrl provides the instance document engine.

PURPOSE:
  This package contains taxonomy-agnostic types and algorithms for building
  XBRL instance documents. Whether a report lists installation metadata or
  monthly production, the same engine deduplicates reporting contexts,
  registers units and renders the result as XML or xBRL-JSON.

KEY CONCEPTS IN THIS FILE (types.go):
  - Value: A typed fact value (integer, real, string or date)
  - Fact: A value bound to a concept, a context and an optional unit
  - FactRequest: What a report builder asks the engine to record
  - Builder: The narrow capability a report type implements

DESIGN PRINCIPLES:
  1. Precision: Real values use decimal.Decimal, never float formatting
  2. Two-phase build: Builders are walked once, codecs only read the result
  3. Injected configuration: Taxonomy constants are values, not subclasses
  4. Determinism: Rendering the same data twice yields identical bytes

USAGE:
  doc := xbrl.NewDocument("A Company", solar.Taxonomy)
  out, err := doc.RenderXML(report)

SEE ALSO:
  - context.go: Dimensional contexts and their equality
  - hypercube.go: Context deduplication per table
  - document.go: Assembly of the instance
  - tree.go, flat.go: The two encodings
*/
package xbrl

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// VALUE - One of integer, real, string, date
// =============================================================================

type ValueKind int

const (
	KindString ValueKind = iota
	KindInteger
	KindReal
	KindDate
)

func (k ValueKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

type Value struct {
	Kind ValueKind
	Int  int64
	Real decimal.Decimal
	Text string
	Date Date
}

func IntValue(v int64) Value              { return Value{Kind: KindInteger, Int: v} }
func RealValue(v float64) Value           { return Value{Kind: KindReal, Real: decimal.NewFromFloat(v)} }
func DecimalValue(v decimal.Decimal) Value { return Value{Kind: KindReal, Real: v} }
func StringValue(v string) Value          { return Value{Kind: KindString, Text: v} }
func DateValue(v Date) Value              { return Value{Kind: KindDate, Date: v} }

// ValueOf converts a loosely typed Go value (as found in decoded JSON or in
// builder field maps) into a Value.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case int:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case float32:
		return DecimalValue(decimal.NewFromFloat32(x)), nil
	case float64:
		return RealValue(x), nil
	case decimal.Decimal:
		return DecimalValue(x), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return IntValue(i), nil
		}
		d, err := decimal.NewFromString(string(x))
		if err != nil {
			return Value{}, fmt.Errorf("%w: number %q: %v", ErrUnsupportedValue, x, err)
		}
		return DecimalValue(d), nil
	case string:
		return StringValue(x), nil
	case Date:
		return DateValue(x), nil
	case time.Time:
		return DateValue(DateOf(x)), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// String renders the value without any unit policy applied.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return v.Real.String()
	case KindDate:
		return v.Date.String()
	default:
		return v.Text
	}
}

// =============================================================================
// FACT - A reported value
// =============================================================================

// DefaultDecimals is the precision metadata used for ordinary units.
const DefaultDecimals = 2

// Fact is one reported value. The context is borrowed from its hypercube.
type Fact struct {
	Concept  string
	Context  *Context
	Unit     string // empty = no unit
	Value    Value
	Decimals int
}

// =============================================================================
// FACT REQUEST - What a builder asks for
// =============================================================================

// Dimensions maps a dimension (axis) name to its member value.
// Insertion order is irrelevant; encodings emit dimensions sorted by name.
type Dimensions map[string]string

// Equal compares key sets and per-key values.
func (d Dimensions) Equal(other Dimensions) bool {
	return maps.Equal(d, other)
}

// ContextSpec describes the context a fact should be reported under.
// Leave Instant and Duration nil for a forever period.
type ContextSpec struct {
	Table      string
	Instant    *Date
	Duration   []Date
	Dimensions Dimensions
}

// FactRequest is a builder's description of a single fact.
type FactRequest struct {
	Concept  string
	Context  ContextSpec
	Unit     string
	Value    Value
	Decimals *int // nil = DefaultDecimals
}

// =============================================================================
// BUILDER - Implemented once per report type
// =============================================================================

// Builder produces the facts for one report. Facts must be a pure function
// of the builder's data: the engine may call it on every render.
type Builder interface {
	// RequiredUnits lists units the report declares up front.
	RequiredUnits() []string

	// Facts returns the ordered fact requests for the report.
	Facts() ([]FactRequest, error)
}
