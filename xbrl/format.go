package xbrl

import "strconv"

// Units with special rendering rules.
const (
	UnitPure    = "pure"
	UnitDegrees = "degrees"
)

// FormatValue renders a fact value for either encoding.
//   - dates render as YYYY-MM-DD
//   - "pure" renders numbers as integers, truncating any fraction
//   - everything else renders unrounded; decimals are metadata only
func FormatValue(f Fact) string {
	if f.Unit == UnitPure {
		switch f.Value.Kind {
		case KindReal:
			return f.Value.Real.Truncate(0).String()
		case KindInteger:
			return strconv.FormatInt(f.Value.Int, 10)
		}
	}
	return f.Value.String()
}

// DecimalsAttr returns the precision metadata for a fact and whether the
// fact carries any (only facts with a unit do).
func DecimalsAttr(f Fact) (string, bool) {
	switch f.Unit {
	case "":
		return "", false
	case UnitPure, UnitDegrees:
		return "0", true
	default:
		return strconv.Itoa(f.Decimals), true
	}
}
