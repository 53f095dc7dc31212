package routeclean

import (
	"time"

	"github.com/99minutos/courier-tracking/internal/core/geo"
)

// Summary describes a cleaned route for detail views.
type Summary struct {
	Points         int
	FirstAt        *time.Time
	LastAt         *time.Time
	Duration       time.Duration
	DistanceMeters float64
}

// Summarize computes first/last timestamps and path length. Unknown
// timestamps are skipped when looking for the bounds.
func Summarize(points []Point) Summary {
	s := Summary{Points: len(points)}

	coords := make([]geo.Coordinate, len(points))
	for i, p := range points {
		coords[i] = p.Location
		if p.RecordedAt.IsZero() {
			continue
		}
		t := p.RecordedAt
		if s.FirstAt == nil || t.Before(*s.FirstAt) {
			s.FirstAt = &t
		}
		if s.LastAt == nil || t.After(*s.LastAt) {
			s.LastAt = &t
		}
	}
	s.DistanceMeters = geo.PathLengthMeters(coords)
	if s.FirstAt != nil && s.LastAt != nil {
		s.Duration = s.LastAt.Sub(*s.FirstAt)
	}
	return s
}

// Downsample caps points at limit entries. The first (oldest) and last points
// are always kept and the interior is sampled at an even stride, so the
// shape of the route survives the cut.
func Downsample(points []Point, limit int) []Point {
	if limit <= 0 || len(points) <= limit {
		return points
	}
	if limit == 1 {
		return []Point{points[0]}
	}

	out := make([]Point, 0, limit)
	last := len(points) - 1
	step := float64(last) / float64(limit-1)
	for i := 0; i < limit; i++ {
		idx := int(float64(i)*step + 0.5)
		if idx > last {
			idx = last
		}
		out = append(out, points[idx])
	}
	out[limit-1] = points[last]
	return out
}
