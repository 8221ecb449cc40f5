package grid

import (
	"go.uber.org/zap"

	"github.com/sells-group/landgrid/internal/continent"
	"github.com/sells-group/landgrid/internal/land"
)

// Summary describes one processing run.
type Summary struct {
	Cells      int
	Counts     map[continent.Code]int
	Snapped    int
	MaxSnapKM  float64
	Overridden int
}

func newSummary() *Summary {
	return &Summary{Counts: make(map[continent.Code]int, len(continent.Codes))}
}

func (s *Summary) addCell(c continent.Code) {
	s.Cells++
	s.Counts[c]++
}

func (s *Summary) addCenterpoint(cp land.Centerpoint) {
	if !cp.Snapped {
		return
	}
	s.Snapped++
	if cp.SnapKM > s.MaxSnapKM {
		s.MaxSnapKM = cp.SnapKM
	}
}

// Fields returns the summary as log fields, one count per code in fixed order.
func (s *Summary) Fields() []zap.Field {
	fields := []zap.Field{
		zap.Int("cells", s.Cells),
		zap.Int("snapped_to_land", s.Snapped),
		zap.Float64("max_snap_km", s.MaxSnapKM),
		zap.Int("overridden", s.Overridden),
	}
	for _, c := range continent.Codes {
		fields = append(fields, zap.Int("count_"+string(c), s.Counts[c]))
	}
	return fields
}
