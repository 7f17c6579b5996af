package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AreaType is the shipping tier of a delivery location.
type AreaType string

const (
	AreaCity      AreaType = "city"
	AreaMunicipio AreaType = "municipio"
)

// IsValid returns true for a known area type
func (a AreaType) IsValid() bool {
	return a == AreaCity || a == AreaMunicipio
}

// Normalize folds a place name for comparison: accents removed, lower-cased,
// runs of whitespace collapsed to one space.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Classify maps a province/municipality pair to its shipping tier.
//
// In the capital region a municipality is a city when it is in the urban
// allow-set. Elsewhere only the province's capital municipality is a city.
// Empty input or an unknown province yields AreaMunicipio.
func Classify(provinceName, municipality string) AreaType {
	muni := Normalize(municipality)
	if muni == "" || Normalize(provinceName) == "" {
		return AreaMunicipio
	}
	p, ok := lookup(provinceName)
	if !ok {
		return AreaMunicipio
	}
	if p.name == CapitalRegion {
		if _, urban := urbanKeys[muni]; urban {
			return AreaCity
		}
		return AreaMunicipio
	}
	if Normalize(p.capital) == muni {
		return AreaCity
	}
	return AreaMunicipio
}
