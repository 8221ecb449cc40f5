// Package continent builds continent regions from country boundaries and
// classifies grid cells by nearest region.
package continent

import "github.com/rotisserie/eris"

// Code identifies one classification bucket.
type Code string

// Continent codes.
const (
	EU      Code = "EU"
	ASNorth Code = "AS_N"
	ASSouth Code = "AS_S"
	AFNorth Code = "AF_N"
	AFSouth Code = "AF_S"
	AU      Code = "AU"
	NA      Code = "NA"
	SA      Code = "SA"
	ME      Code = "ME"
)

// Codes lists every code in the fixed order used for nearest-region
// tie-breaking: the first code at the minimum distance wins.
var Codes = []Code{EU, ASNorth, ASSouth, AFNorth, AFSouth, AU, NA, SA, ME}

// nonRussianCodes is the candidate order for cells straddling Russia.
var nonRussianCodes = []Code{EU, ASNorth, ME}

// Valid reports whether c is one of the nine codes.
func (c Code) Valid() bool {
	for _, k := range Codes {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCode validates s as a continent code.
func ParseCode(s string) (Code, error) {
	c := Code(s)
	if !c.Valid() {
		return "", eris.Errorf("continent: unknown code %q", s)
	}
	return c, nil
}

// Bucket labels assigned to countries before dissolving.
const (
	bucketEurope       = "Europe"
	bucketAsia         = "Asia"
	bucketNorthAsia    = "North Asia"
	bucketAfrica       = "Africa"
	bucketOceania      = "Oceania"
	bucketNorthAmerica = "North America"
	bucketSouthAmerica = "South America"
	bucketMiddleEast   = "Middle East"
)
