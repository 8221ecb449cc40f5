package continent

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Rules holds the manual geographic adjustments applied while building regions.
type Rules struct {
	AdminProperty     string       `yaml:"admin_property"`
	ContinentProperty string       `yaml:"continent_property"`
	Russia            string       `yaml:"russia"`
	MiddleEast        []string     `yaml:"middle_east"`
	SaharaLat         float64      `yaml:"-"`
	HimalayaLat       float64      `yaml:"-"`
	Overrides         map[int]Code `yaml:"overrides"`
}

// DefaultRules returns the built-in adjustments.
func DefaultRules() Rules {
	return Rules{
		AdminProperty:     "ADMIN",
		ContinentProperty: "CONTINENT",
		Russia:            "Russia",
		MiddleEast: []string{
			"Egypt", "Iran", "Turkey", "Iraq", "Saudi Arabia", "Yemen",
			"Syria", "Jordan", "Israel", "Lebanon", "Kuwait", "Oman",
			"Qatar", "Bahrain", "United Arab Emirates",
		},
		SaharaLat:   20,
		HimalayaLat: 30,
		Overrides: map[int]Code{
			171: ASNorth, // eastern tip of Russia
			31:  AFNorth, // western tip of Egypt
		},
	}
}

// LoadRules reads rules from a YAML file with a top-level "regions" key.
// Fields left unset keep their default value; an explicit empty overrides
// map disables the override table.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, eris.Wrapf(err, "continent: read rules %s", path)
	}

	// The split latitudes are pointers so an explicit 0 (the equator) is
	// told apart from an absent key.
	var wrapper struct {
		Regions struct {
			Rules       `yaml:",inline"`
			SaharaLat   *float64 `yaml:"sahara_lat"`
			HimalayaLat *float64 `yaml:"himalaya_lat"`
		} `yaml:"regions"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Rules{}, eris.Wrap(err, "continent: parse rules")
	}

	r := wrapper.Regions.Rules
	def := DefaultRules()
	if r.AdminProperty == "" {
		r.AdminProperty = def.AdminProperty
	}
	if r.ContinentProperty == "" {
		r.ContinentProperty = def.ContinentProperty
	}
	if r.Russia == "" {
		r.Russia = def.Russia
	}
	if r.MiddleEast == nil {
		r.MiddleEast = def.MiddleEast
	}
	r.SaharaLat = def.SaharaLat
	if lat := wrapper.Regions.SaharaLat; lat != nil {
		r.SaharaLat = *lat
	}
	r.HimalayaLat = def.HimalayaLat
	if lat := wrapper.Regions.HimalayaLat; lat != nil {
		r.HimalayaLat = *lat
	}
	if r.Overrides == nil {
		r.Overrides = def.Overrides
	}

	for id, c := range r.Overrides {
		if !c.Valid() {
			return Rules{}, eris.Errorf("continent: override for state_id %d has unknown code %q", id, c)
		}
	}

	return r, nil
}

// nameKey normalises a country name for comparison.
func nameKey(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

func (r Rules) isRussia(admin string) bool {
	return nameKey(admin) == nameKey(r.Russia)
}

func (r Rules) middleEastSet() map[string]bool {
	set := make(map[string]bool, len(r.MiddleEast))
	for _, name := range r.MiddleEast {
		set[nameKey(name)] = true
	}
	return set
}
