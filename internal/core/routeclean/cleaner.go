// Package routeclean reconstructs a displayable route from the raw, noisy and
// possibly out-of-order samples recorded for one delivery.
//
// Clean is a pure function: it never mutates its input and holds no state,
// so it is safe to call inline from request handlers.
package routeclean

import (
	"slices"
	"time"

	"github.com/99minutos/courier-tracking/internal/core/geo"
)

const (
	DefaultMinStepMeters   = 2.0
	DefaultMaxSpeedKmh     = 160.0
	DefaultMaxJumpMeters   = 400.0
	DefaultSmoothingWindow = 3

	// minPointsToFilter is the size below which input is returned untouched.
	minPointsToFilter = 3
	// minPointsToSmooth is the accepted size below which smoothing is skipped.
	minPointsToSmooth = 5
)

// Point is one sample on a route. A zero RecordedAt means the timestamp was
// missing or could not be parsed.
type Point struct {
	Location   geo.Coordinate `json:"location"`
	RecordedAt time.Time      `json:"recorded_at"`
	Accuracy   *float64       `json:"accuracy,omitempty"`
}

// Options tunes the filters. Zero values fall back to the defaults.
type Options struct {
	MinStepMeters   float64
	MaxSpeedKmh     float64
	MaxJumpMeters   float64
	SmoothingWindow int
}

// DefaultOptions returns the production thresholds.
func DefaultOptions() Options {
	return Options{
		MinStepMeters:   DefaultMinStepMeters,
		MaxSpeedKmh:     DefaultMaxSpeedKmh,
		MaxJumpMeters:   DefaultMaxJumpMeters,
		SmoothingWindow: DefaultSmoothingWindow,
	}
}

func (o Options) normalized() Options {
	if o.MinStepMeters <= 0 {
		o.MinStepMeters = DefaultMinStepMeters
	}
	if o.MaxSpeedKmh <= 0 {
		o.MaxSpeedKmh = DefaultMaxSpeedKmh
	}
	if o.MaxJumpMeters <= 0 {
		o.MaxJumpMeters = DefaultMaxJumpMeters
	}
	switch {
	case o.SmoothingWindow == 0:
		o.SmoothingWindow = DefaultSmoothingWindow
	case o.SmoothingWindow < 0:
		o.SmoothingWindow = 1
	case o.SmoothingWindow%2 == 0:
		o.SmoothingWindow++
	}
	return o
}

// Cleaner applies Clean with a fixed set of options.
type Cleaner struct {
	opts Options
}

// New returns a Cleaner with opts normalised.
func New(opts Options) *Cleaner {
	return &Cleaner{opts: opts.normalized()}
}

// Options returns the effective thresholds.
func (c *Cleaner) Options() Options { return c.opts }

// Clean runs the pipeline with the cleaner's options.
func (c *Cleaner) Clean(points []Point) []Point {
	return Clean(points, c.opts)
}

// Clean validates, orders, de-jitters and smooths points:
//
//  1. drop invalid coordinates; two or fewer survivors are returned as-is
//  2. stable sort by RecordedAt, unknown timestamps compare equal to anything
//  3. drop sub-MinStepMeters jitter and physically implausible jumps
//  4. centered moving average, endpoints untouched
func Clean(points []Point, opts Options) []Point {
	opts = opts.normalized()

	valid := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Location.Valid() {
			valid = append(valid, p)
		}
	}
	if len(valid) < minPointsToFilter {
		return valid
	}

	slices.SortStableFunc(valid, compareRecorded)

	accepted := dejitter(valid, opts)
	return smooth(accepted, opts.SmoothingWindow)
}

func compareRecorded(a, b Point) int {
	if a.RecordedAt.IsZero() || b.RecordedAt.IsZero() {
		return 0
	}
	return a.RecordedAt.Compare(b.RecordedAt)
}

func dejitter(ordered []Point, opts Options) []Point {
	accepted := make([]Point, 0, len(ordered))
	accepted = append(accepted, ordered[0])

	for _, cand := range ordered[1:] {
		last := accepted[len(accepted)-1]
		dist := geo.DistanceMeters(last.Location, cand.Location)

		if dist < opts.MinStepMeters {
			continue
		}
		if implausible(last, cand, dist, opts) {
			continue
		}
		accepted = append(accepted, cand)
	}
	return accepted
}

// implausible reports whether moving from last to cand needs an unrealistic
// speed, or, without a usable elapsed time, an unrealistic jump.
func implausible(last, cand Point, dist float64, opts Options) bool {
	if !last.RecordedAt.IsZero() && !cand.RecordedAt.IsZero() {
		elapsed := cand.RecordedAt.Sub(last.RecordedAt).Seconds()
		if elapsed > 0 {
			return dist/elapsed*3.6 > opts.MaxSpeedKmh
		}
	}
	return dist > opts.MaxJumpMeters
}

func smooth(accepted []Point, window int) []Point {
	if len(accepted) < minPointsToSmooth || window <= 1 {
		return accepted
	}
	half := window / 2
	if 2*half >= len(accepted) {
		return accepted
	}

	out := make([]Point, len(accepted))
	copy(out, accepted)

	for i := half; i < len(accepted)-half; i++ {
		var sumLat, sumLng float64
		for j := i - half; j <= i+half; j++ {
			sumLat += accepted[j].Location.Lat
			sumLng += accepted[j].Location.Lng
		}
		n := float64(window)
		out[i].Location = geo.Coordinate{Lat: sumLat / n, Lng: sumLng / n}
	}
	return out
}
