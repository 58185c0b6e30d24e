package holidays

import "strings"

// extendedConfig describes how far a holiday's impact bleeds into adjacent
// days and how strongly.
type extendedConfig struct {
	DaysBefore   int
	DaysAfter    int
	BeforeFactor float64
	AfterFactor  float64
}

// extendedConfigs is matched by substring on the holiday name, preserving the
// behavior of the historical calibration data. The list is ordered and the
// first match wins, so a compound name like "Navidad y Año Nuevo" always
// resolves to the same configuration.
// TODO: replace the substring match with an explicit holiday category tag once
// the holidays table carries one.
var extendedConfigs = []struct {
	match string
	cfg   extendedConfig
}{
	{"Navidad", extendedConfig{DaysBefore: 2, DaysAfter: 1, BeforeFactor: 0.70, AfterFactor: 0.80}},
	{"Año Nuevo", extendedConfig{DaysBefore: 1, DaysAfter: 2, BeforeFactor: 0.60, AfterFactor: 0.75}},
	{"Semana Santa", extendedConfig{DaysBefore: 2, DaysAfter: 2, BeforeFactor: 0.80, AfterFactor: 0.85}},
	{"Independencia", extendedConfig{DaysBefore: 1, DaysAfter: 1, BeforeFactor: 0.85, AfterFactor: 0.90}},
}

// extendedConfigFor looks up the extended-impact configuration for a holiday
// name. Unmatched names get no extension: only the holiday's own base factor
// applies, on its own date.
func extendedConfigFor(name string) (extendedConfig, bool) {
	for _, entry := range extendedConfigs {
		if strings.Contains(name, entry.match) {
			return entry.cfg, true
		}
	}
	return extendedConfig{}, false
}
