package builder

import "strings"

// MetalNames expands the element abbreviations used in the curated metadata.
var MetalNames = map[string]string{
	"Ag":           "Silver",
	"As":           "Arsenic",
	"Cd":           "Cadmium",
	"Co":           "Cobalt",
	"Cr":           "Chromium",
	"Cu":           "Copper",
	"Fe":           "Iron",
	"Hg":           "Mercury",
	"Mg":           "Magnesium",
	"Mn":           "Manganese",
	"Mo":           "Molybdenum",
	"Ni":           "Nickel",
	"Te":           "Tellurium",
	"Zn":           "Zinc",
	"Pb":           "Lead",
	"Non-specific": "Non-specific",
}

// FullMetalName returns the element name for abbr, or abbr unchanged when it
// is not a known abbreviation.
func FullMetalName(abbr string) string {
	if name, ok := MetalNames[abbr]; ok {
		return name
	}
	return abbr
}

// SplitMetals splits a comma separated metal field. A nil field (missing in
// the source) gives no metals.
func SplitMetals(field *string) []string {
	if field == nil {
		return []string{}
	}
	parts := strings.Split(*field, ",")
	metals := make([]string, 0, len(parts))
	for _, p := range parts {
		metals = append(metals, strings.TrimSpace(p))
	}
	return metals
}
