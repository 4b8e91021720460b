package solar

import (
	"github.com/shopspring/decimal"

	"github.com/warp/xbrl-engine/xbrl"
)

// =============================================================================
// MONTHLY OPERATING REPORT
// =============================================================================

const (
	ConceptMeasuredEnergy  = "MeasuredEnergy"
	ConceptPredictedEnergy = "PredictedEnergyAtTheRevenueMeterDuration"
	UnitKWh                = "kWh"
)

// Production is one system-month of measured versus expected energy.
type Production struct {
	System      string
	Month       xbrl.Date // any day of the month
	ActualKWh   decimal.Decimal
	ExpectedKWh decimal.Decimal
}

// OperatingReport lists monthly energy production for one or more systems.
type OperatingReport struct {
	records []Production
}

func NewOperatingReport() *OperatingReport {
	return &OperatingReport{}
}

// AddData appends one system-month. Records render in the order added.
func (r *OperatingReport) AddData(system string, month xbrl.Date, actualKWh, expectedKWh decimal.Decimal) {
	r.records = append(r.records, Production{
		System:      system,
		Month:       month,
		ActualKWh:   actualKWh,
		ExpectedKWh: expectedKWh,
	})
}

func (r *OperatingReport) Records() []Production {
	return append([]Production(nil), r.records...)
}

func (r *OperatingReport) RequiredUnits() []string { return []string{UnitKWh} }

// Facts reports an actual and an expected fact per system-month, both in a
// SystemProductionTable context spanning the calendar month.
func (r *OperatingReport) Facts() ([]xbrl.FactRequest, error) {
	facts := make([]xbrl.FactRequest, 0, 2*len(r.records))
	for _, rec := range r.records {
		month := xbrl.MonthOf(rec.Month)
		spec := xbrl.ContextSpec{
			Table:      TableSystemProduction,
			Duration:   []xbrl.Date{month.Start(), month.End()},
			Dimensions: xbrl.Dimensions{AxisPVSystem: rec.System},
		}
		facts = append(facts,
			xbrl.FactRequest{Concept: ConceptMeasuredEnergy, Context: spec, Unit: UnitKWh, Value: xbrl.DecimalValue(rec.ActualKWh)},
			xbrl.FactRequest{Concept: ConceptPredictedEnergy, Context: spec, Unit: UnitKWh, Value: xbrl.DecimalValue(rec.ExpectedKWh)},
		)
	}
	return facts, nil
}

var _ xbrl.Builder = (*OperatingReport)(nil)
