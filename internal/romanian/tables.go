package romanian

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldChain strips combining marks so "Iași" and "Iasi" hash to the same key.
var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics returns s with Romanian diacritics (ă â î ș ț and their
// uppercase forms) replaced by their ASCII base letters. Input that fails to
// transform is returned unchanged.
func FoldDiacritics(s string) string {
	folded, _, err := transform.String(foldChain, s)
	if err != nil {
		return s
	}
	return folded
}

// counties is the canonical county token list used by the carrier API.
// Bucharest is included because the capital behaves as a county in every
// Romanian address form.
var counties = []string{
	"Alba", "Arad", "Arges", "Bacau", "Bihor", "Bistrita-Nasaud", "Botosani",
	"Braila", "Brasov", "Bucuresti", "Buzau", "Calarasi", "Caras-Severin",
	"Cluj", "Constanta", "Covasna", "Dambovita", "Dolj", "Galati", "Giurgiu",
	"Gorj", "Harghita", "Hunedoara", "Ialomita", "Iasi", "Ilfov", "Maramures",
	"Mehedinti", "Mures", "Neamt", "Olt", "Prahova", "Salaj", "Satu Mare",
	"Sibiu", "Suceava", "Teleorman", "Timis", "Tulcea", "Valcea", "Vaslui",
	"Vrancea",
}

// countyAliasSeed maps colloquial spellings to the canonical county token.
// Customers routinely type the county seat (or an English exonym) into the
// county field, so the big municipalities map to their county here.
var countyAliasSeed = map[string]string{
	"Bucharest":             "Bucuresti",
	"Alba Iulia":            "Alba",
	"Alexandria":            "Teleorman",
	"Baia Mare":             "Maramures",
	"Bistrita":              "Bistrita-Nasaud",
	"Cluj-Napoca":           "Cluj",
	"Craiova":               "Dolj",
	"Deva":                  "Hunedoara",
	"Drobeta-Turnu Severin": "Mehedinti",
	"Focsani":               "Vrancea",
	"Miercurea Ciuc":        "Harghita",
	"Oradea":                "Bihor",
	"Piatra Neamt":          "Neamt",
	"Pitesti":               "Arges",
	"Ploiesti":              "Prahova",
	"Ramnicu Valcea":        "Valcea",
	"Resita":                "Caras-Severin",
	"Sfantu Gheorghe":       "Covasna",
	"Slatina":               "Olt",
	"Slobozia":              "Ialomita",
	"Targoviste":            "Dambovita",
	"Targu Jiu":             "Gorj",
	"Targu Mures":           "Mures",
	"Timisoara":             "Timis",
	"Zalau":                 "Salaj",
}

// cityCanonical lists city spellings the invoicing provider accepts. Entries
// that map to themselves are intentional: they pin the canonical form even if
// an alias is added for them later.
var cityCanonical = []string{
	"Alba Iulia", "Alexandria", "Arad", "Bacau", "Baia Mare", "Bistrita",
	"Botosani", "Braila", "Brasov", "Bucuresti", "Buzau", "Calarasi",
	"Cluj-Napoca", "Constanta", "Craiova", "Deva", "Drobeta-Turnu Severin",
	"Focsani", "Galati", "Giurgiu", "Iasi", "Miercurea Ciuc", "Oradea",
	"Piatra Neamt", "Pitesti", "Ploiesti", "Ramnicu Valcea", "Resita",
	"Satu Mare", "Sfantu Gheorghe", "Sibiu", "Slatina", "Slobozia", "Suceava",
	"Targoviste", "Targu Jiu", "Targu Mures", "Timisoara", "Tulcea", "Vaslui",
	"Zalau",
}

// cityAliasSeed maps foreign exonyms to the local city name.
var cityAliasSeed = map[string]string{
	"Bucharest": "Bucuresti",
	"Jassy":     "Iasi",
	"Kronstadt": "Brasov",
}

var (
	countyLookup map[string]string
	cityLookup   map[string]string
)

func init() {
	countyLookup = make(map[string]string, 2*len(counties)+len(countyAliasSeed))
	for _, c := range counties {
		countyLookup[lookupKey(c)] = c
	}
	for alias, canonical := range countyAliasSeed {
		countyLookup[lookupKey(alias)] = canonical
	}

	cityLookup = make(map[string]string, len(cityCanonical)+len(cityAliasSeed))
	for _, c := range cityCanonical {
		cityLookup[lookupKey(c)] = c
	}
	for alias, canonical := range cityAliasSeed {
		cityLookup[lookupKey(alias)] = canonical
	}
}

// lookupKey folds diacritics and case so "București", "BUCURESTI" and
// "bucuresti" all resolve to the same table entry.
func lookupKey(s string) string {
	return strings.ToLower(FoldDiacritics(strings.TrimSpace(s)))
}

// NormalizeCounty maps a free-form county name to the canonical carrier token.
// Unknown input passes through unchanged; empty input yields an empty string.
func NormalizeCounty(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := countyLookup[lookupKey(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// NormalizeCity maps a free-form city name to the spelling the invoicing
// provider accepts. Same contract as NormalizeCounty, separate table.
func NormalizeCity(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := cityLookup[lookupKey(trimmed)]; ok {
		return canonical
	}
	return trimmed
}
