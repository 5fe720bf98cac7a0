// Package dictionary holds the static Dutch-language lexicons used to derive
// title, role, type and subject signals during entity linking: title words,
// role vocabularies with their associated ontology types and subjects, a
// type taxonomy, topical subject vocabularies, and calendar names used for
// date detection.
//
// All data here is static and read-only; nothing in this package mutates
// after init.
package dictionary

// Days lists the Dutch weekday names, lowercase.
var Days = []string{
	"maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag",
	"zondag",
}

// Months lists the Dutch month names, lowercase.
var Months = []string{
	"januari", "februari", "maart", "april", "mei", "juni", "juli",
	"augustus", "september", "oktober", "november", "december",
}

// monthSet is Months as a lookup set, built once at init.
var monthSet = toSet(Months)

// Titles lists the honorific/title words recognised ahead of a person
// mention (male and female forms merged — the linker only cares whether a
// word is a title, not its gender).
var Titles = []string{
	"heer", "hr", "dhr", "meneer",
	"mevrouw", "mevr", "mw", "mej", "mejuffrouw",
}

var titleSet = toSet(Titles)

// Types maps a coarse NER type tag to the ontology type names that imply it.
var Types = map[string][]string{
	"person":       {"Person", "Agent"},
	"location":     {"Place", "Location"},
	"organisation": {"Organization", "Organisation"},
}

// SettlementStreetDistrictAsTwoEntries controls how the `settlement` role's
// schema-type list is interpreted. The original Python source lists
// 'Street' 'District' as two adjacent string literals with no separating
// comma, which Python silently concatenates into a single string
// "StreetDistrict". That is almost certainly a typo for two separate
// entries ("Street", "District"), but the trained classifier was built
// against whatever behavior the source actually had. We default to
// preserving the literal (likely-buggy) behavior and make the corrected
// behavior available for a future retraining pass without silently
// "fixing" the default.
const SettlementStreetDistrictAsTwoEntries = false

func settlementSchemaTypes() []string {
	base := []string{
		"Settlement", "Village", "Municipality", "Town",
		"AdministrativeRegion", "City", "HistoricPlace", "PopulatedPlace",
		"ProtectedArea", "CityDistrict", "Country", "SubMunicipality",
	}
	if SettlementStreetDistrictAsTwoEntries {
		return append(base, "Street", "District")
	}
	return append(base, "StreetDistrict")
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// IsMonth reports whether w (already normalized/lowercased) is a Dutch
// month name.
func IsMonth(w string) bool {
	_, ok := monthSet[w]
	return ok
}

// IsTitle reports whether w (already normalized/lowercased) is a known
// title word.
func IsTitle(w string) bool {
	_, ok := titleSet[w]
	return ok
}
