package xbrl

// =============================================================================
// PERIOD - When a context's facts hold
// =============================================================================

// Period is exactly one of:
//   - Forever:  no date bounds (static metadata such as equipment models)
//   - Instant:  a single date (a snapshot, e.g. tilt as of the report date)
//   - Duration: a start and end date (e.g. energy produced in a month)
type Period struct {
	kind  PeriodKind
	start Date // instant date for PeriodInstant
	end   Date
}

// PeriodKind selects the period variant.
type PeriodKind int

const (
	PeriodForever PeriodKind = iota
	PeriodInstant
	PeriodDuration
)

func (k PeriodKind) String() string {
	switch k {
	case PeriodInstant:
		return "instant"
	case PeriodDuration:
		return "duration"
	default:
		return "forever"
	}
}

// Constructors
func Forever() Period                 { return Period{kind: PeriodForever} }
func InstantAt(d Date) Period         { return Period{kind: PeriodInstant, start: d} }
func Duration(start, end Date) Period { return Period{kind: PeriodDuration, start: start, end: end} }

// NewPeriod applies the construction contract for loosely specified periods:
// no arguments means Forever, an instant alone means Instant, and a duration
// alone must be exactly (start, end). Anything else is a ConfigurationError.
func NewPeriod(instant *Date, duration []Date) (Period, error) {
	switch {
	case instant != nil && duration != nil:
		return Period{}, &ConfigurationError{Reason: "context should have duration or instant, not both"}
	case duration != nil:
		if len(duration) != 2 {
			return Period{}, &ConfigurationError{Reason: "duration must be exactly (start, end)"}
		}
		return Duration(duration[0], duration[1]), nil
	case instant != nil:
		return InstantAt(*instant), nil
	default:
		return Forever(), nil
	}
}

// Properties
func (p Period) Kind() PeriodKind { return p.kind }
func (p Period) Instant() Date    { return p.start }
func (p Period) Start() Date      { return p.start }
func (p Period) End() Date        { return p.end }

// Equal compares variant and the values that variant carries.
func (p Period) Equal(other Period) bool {
	if p.kind != other.kind {
		return false
	}
	switch p.kind {
	case PeriodInstant:
		return p.start.Equal(other.start)
	case PeriodDuration:
		return p.start.Equal(other.start) && p.end.Equal(other.end)
	default:
		return true
	}
}

// String returns a string representation of the period.
func (p Period) String() string {
	switch p.kind {
	case PeriodInstant:
		return p.start.String()
	case PeriodDuration:
		return "[" + p.start.String() + ", " + p.end.String() + "]"
	default:
		return "forever"
	}
}
