package continent

import (
	"github.com/twpayne/go-geos"
	"go.uber.org/zap"

	"github.com/sells-group/landgrid/internal/boundary"
	"github.com/sells-group/landgrid/internal/spatial"
)

// Regions holds the dissolved region polygon per code, Russia's geometry and
// the non-Russian regions used for cells that straddle Russia's border.
// A missing region is nil and never wins a nearest-region comparison.
type Regions struct {
	byCode     map[Code]*geos.Geom
	nonRussian map[Code]*geos.Geom
	russia     *geos.Geom
}

// Region returns the polygon for c, or nil when no country matched it.
func (r *Regions) Region(c Code) *geos.Geom {
	return r.byCode[c]
}

// NonRussian returns the region for c with Russia excluded. Only EU, AS_N and
// ME have one.
func (r *Regions) NonRussian(c Code) *geos.Geom {
	return r.nonRussian[c]
}

// Russia returns Russia's geometry, or nil when the dataset has no Russia.
func (r *Regions) Russia() *geos.Geom {
	return r.russia
}

// Build derives the nine regions from countries.
//
// Russia is relabelled North Asia and the Middle East countries are pulled out
// of their continents. Africa is split at rules.SaharaLat and Asia (including
// North Asia) at rules.HimalayaLat. Countries whose geometry GEOS cannot read
// are skipped with a warning.
func Build(countries []boundary.Country, rules Rules) *Regions {
	log := zap.L().With(zap.String("component", "continent.regions"))

	middleEast := rules.middleEastSet()
	buckets := make(map[string][]*geos.Geom)
	nonRussian := make(map[string][]*geos.Geom)
	var russia *geos.Geom

	for _, c := range countries {
		g, err := spatial.ToGEOS(c.Geometry)
		if err != nil {
			log.Warn("skipping unreadable country geometry",
				zap.String("admin", c.Admin),
				zap.Error(err),
			)
			continue
		}

		label := c.Continent
		isRussia := rules.isRussia(c.Admin)
		if isRussia {
			label = bucketNorthAsia
			if russia == nil {
				russia = g
			}
		}
		if middleEast[nameKey(c.Admin)] {
			label = bucketMiddleEast
		}

		buckets[label] = append(buckets[label], g)
		if !isRussia {
			nonRussian[label] = append(nonRussian[label], g)
		}
	}

	r := &Regions{
		byCode:     make(map[Code]*geos.Geom, len(Codes)),
		nonRussian: make(map[Code]*geos.Geom, len(nonRussianCodes)),
		russia:     russia,
	}

	r.byCode[EU] = spatial.Dissolve(buckets[bucketEurope])
	r.byCode[AU] = spatial.Dissolve(buckets[bucketOceania])
	r.byCode[NA] = spatial.Dissolve(buckets[bucketNorthAmerica])
	r.byCode[SA] = spatial.Dissolve(buckets[bucketSouthAmerica])
	r.byCode[ME] = spatial.Dissolve(buckets[bucketMiddleEast])

	bounds := boundary.Bounds(countries)
	if !bounds.IsEmpty() {
		minX, minY := bounds.Min(0), bounds.Min(1)
		maxX, maxY := bounds.Max(0), bounds.Max(1)

		africa := spatial.Dissolve(buckets[bucketAfrica])
		r.byCode[AFNorth] = spatial.Intersection(africa, spatial.Box(minX, rules.SaharaLat, maxX, maxY))
		r.byCode[AFSouth] = spatial.Intersection(africa, spatial.Box(minX, minY, maxX, rules.SaharaLat))

		asia := spatial.Dissolve(append(append([]*geos.Geom{}, buckets[bucketAsia]...), buckets[bucketNorthAsia]...))
		r.byCode[ASNorth] = spatial.Intersection(asia, spatial.Box(minX, rules.HimalayaLat, maxX, maxY))
		r.byCode[ASSouth] = spatial.Intersection(asia, spatial.Box(minX, minY, maxX, rules.HimalayaLat))
	}

	for code, bucket := range map[Code]string{
		EU:      bucketEurope,
		ASNorth: bucketAsia,
		ME:      bucketMiddleEast,
	} {
		if g := spatial.Dissolve(nonRussian[bucket]); g != nil {
			r.nonRussian[code] = g
		}
	}

	for _, code := range Codes {
		if spatial.IsEmpty(r.byCode[code]) {
			log.Warn("continent region is empty", zap.String("code", string(code)))
		}
	}
	if russia == nil {
		log.Warn("russia not found in boundary dataset", zap.String("admin", rules.Russia))
	}

	return r
}
