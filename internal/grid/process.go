package grid

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/landgrid/internal/continent"
	"github.com/sells-group/landgrid/internal/land"
	"github.com/sells-group/landgrid/internal/spatial"
)

// Centerpoint is the on-land representative point stored on each cell.
type Centerpoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Options configures a Processor.
type Options struct {
	// Centerpoints enables land centerpoints. When set, each cell gets a
	// centerpoint property and is classified from it; otherwise cells are
	// classified from their raw centroid.
	Centerpoints bool
	// Overrides replaces the automated code for the given state_ids.
	Overrides map[int]continent.Code
}

// Processor attaches state_id, continent_id and centerpoint to grid cells.
type Processor struct {
	classifier *continent.Classifier
	land       *land.Mass
	opts       Options
}

// NewProcessor returns a Processor. mass may be nil when centerpoints are off.
func NewProcessor(classifier *continent.Classifier, mass *land.Mass, opts Options) (*Processor, error) {
	if opts.Centerpoints && mass == nil {
		return nil, eris.New("grid: centerpoints enabled without a land mass")
	}
	for id, c := range opts.Overrides {
		if !c.Valid() {
			return nil, eris.Errorf("grid: override for state_id %d has unknown code %q", id, c)
		}
	}
	return &Processor{classifier: classifier, land: mass, opts: opts}, nil
}

// Process mutates every feature of fc in input order. state_id is the
// 1-based feature position. Overrides are applied after classification.
func (p *Processor) Process(fc *geojson.FeatureCollection) (*Summary, error) {
	log := zap.L().With(zap.String("component", "grid.process"))
	summary := newSummary()

	for i, f := range fc.Features {
		stateID := i + 1

		if f.Geometry == nil {
			return nil, eris.Errorf("grid: feature %d has no geometry", stateID)
		}
		cell, err := spatial.ToGEOS(f.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "grid: feature %d", stateID)
		}

		if f.Properties == nil {
			f.Properties = make(map[string]any)
		}

		point := cell.Centroid()
		if p.opts.Centerpoints {
			cp := p.land.Centerpoint(cell)
			lon, lat := cp.Rounded()
			f.Properties[PropCenterpoint] = Centerpoint{Longitude: lon, Latitude: lat}
			point = cp.Point()
			summary.addCenterpoint(cp)
		}

		code := p.classifier.Classify(cell, point)
		if override, ok := p.opts.Overrides[stateID]; ok {
			if override != code {
				log.Info("applying manual override",
					zap.Int("state_id", stateID),
					zap.String("classified", string(code)),
					zap.String("override", string(override)),
				)
			}
			code = override
			summary.Overridden++
		}

		f.Properties[PropStateID] = stateID
		f.Properties[PropContinentID] = string(code)
		summary.addCell(code)
	}

	if missing := len(p.opts.Overrides) - summary.Overridden; missing > 0 {
		log.Warn("overrides reference state_ids outside the grid", zap.Int("count", missing))
	}

	return summary, nil
}
