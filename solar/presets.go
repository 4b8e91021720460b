/*
presets.go - Sample report definitions

These functions return JSON report definitions for the two solar report
kinds. They build JSON directly to avoid an import cycle with the factory
package, which parses them.

USAGE:
  import "github.com/warp/xbrl-engine/solar"

  jsonStr := solar.SampleInstallationJSON("A Company")
  report, err := factory.NewReportFactory().ParseReport(jsonStr)
*/
package solar

import (
	"encoding/json"
)

// Report kinds understood by the factory.
const (
	KindInstallation = "installation"
	KindOperating    = "operating"
)

// SampleInstallationJSON returns one system with a site, two arrays and an
// inverter.
func SampleInstallationJSON(entity string) string {
	rj := map[string]interface{}{
		"kind":     KindInstallation,
		"entity":   entity,
		"taxonomy": TaxonomyName,
		"systems": []map[string]interface{}{{
			"id": "1",
			"fields": map[string]interface{}{
				"installer": "These guys I know",
				"COD":       "2018-01-21",
			},
			"site": map[string]interface{}{
				"latitude":  42,
				"longitude": -170,
			},
			"arrays": []map[string]interface{}{
				{
					"tilt":               20,
					"azimuth":            180,
					"capacity_dc_kw":     4.5,
					"panel_manufacturer": "Hanwha",
					"panel_model":        "ROYGBIV",
				},
				{
					"tilt":               20,
					"azimuth":            180,
					"capacity_dc_kw":     5.5,
					"panel_manufacturer": "Kyocera",
					"panel_model":        "MST3K",
				},
			},
			"inverters": []map[string]interface{}{{
				"capacity_ac_kw":        8.0,
				"inverter_manufacturer": "Enphase",
				"inverter_model":        "THX1138",
			}},
		}},
	}
	b, _ := json.MarshalIndent(rj, "", "  ")
	return string(b)
}

// SampleOperatingJSON returns two systems over two months.
func SampleOperatingJSON(entity string) string {
	var production []map[string]interface{}
	for _, system := range []string{"sys1", "sys2"} {
		for _, month := range []string{"2018-01-01", "2018-02-01"} {
			production = append(production, map[string]interface{}{
				"system":       system,
				"month":        month,
				"actual_kwh":   1000,
				"expected_kwh": 1000,
			})
		}
	}

	rj := map[string]interface{}{
		"kind":       KindOperating,
		"entity":     entity,
		"taxonomy":   TaxonomyName,
		"production": production,
	}
	b, _ := json.MarshalIndent(rj, "", "  ")
	return string(b)
}
