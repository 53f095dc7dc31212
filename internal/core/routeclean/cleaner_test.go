package routeclean

import (
	"math"
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/99minutos/courier-tracking/internal/core/geo"
)

var t0 = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func pt(lat, lng float64, offset time.Duration) Point {
	return Point{Location: geo.Coordinate{Lat: lat, Lng: lng}, RecordedAt: t0.Add(offset)}
}

func untimed(lat, lng float64) Point {
	return Point{Location: geo.Coordinate{Lat: lat, Lng: lng}}
}

// straightLine returns n points heading east at ~19 km/h, one every 10s.
func straightLine(n int) []Point {
	out := make([]Point, n)
	for i := range out {
		out[i] = pt(18.45, -69.95+float64(i)*0.0005, time.Duration(i)*10*time.Second)
	}
	return out
}

func TestClean_TwoOrFewerValidPointsUnchanged(t *testing.T) {
	cases := map[string][]Point{
		"empty":     {},
		"single":    {pt(18.4, -69.9, 0)},
		"jump pair": {pt(18.40, -69.90, 0), pt(18.50, -69.80, time.Second)},
		"unordered": {pt(18.40, -69.90, time.Minute), pt(18.40, -69.90, 0)},
		"invalid dropped first": {
			pt(95, 0, 0),
			pt(18.40, -69.90, 0),
			{Location: geo.Coordinate{Lat: math.NaN(), Lng: 1}},
			pt(18.401, -69.90, time.Minute),
		},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			want := make([]Point, 0, len(in))
			for _, p := range in {
				if p.Location.Valid() {
					want = append(want, p)
				}
			}
			got := Clean(in, DefaultOptions())
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestClean_OutputNeverLongerThanInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for iter := 0; iter < 200; iter++ {
		n := rng.IntN(40)
		in := make([]Point, n)
		for i := range in {
			in[i] = Point{
				Location: geo.Coordinate{
					Lat: 18.4 + rng.Float64()*0.01 - (rng.Float64() * 200 * float64(rng.IntN(50)/49)),
					Lng: -69.9 + rng.Float64()*0.01,
				},
			}
			if rng.IntN(5) > 0 {
				in[i].RecordedAt = t0.Add(time.Duration(rng.IntN(3600)) * time.Second)
			}
		}
		out := Clean(in, DefaultOptions())
		if len(out) > len(in) {
			t.Fatalf("iteration %d: output %d longer than input %d", iter, len(out), len(in))
		}
	}
}

func TestClean_SortsByRecordedTime(t *testing.T) {
	line := straightLine(4)
	in := []Point{line[2], line[0], line[3], line[1]}

	got := Clean(in, Options{SmoothingWindow: 1})
	if !reflect.DeepEqual(got, line) {
		t.Fatalf("expected time-ordered line, got %+v", got)
	}
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	line := straightLine(6)
	in := []Point{line[5], line[1], line[0], line[3], line[2], line[4]}
	snapshot := append([]Point(nil), in...)

	_ = Clean(in, DefaultOptions())
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatal("Clean modified its input slice")
	}
}

func TestClean_DropsJitterBelowMinStep(t *testing.T) {
	in := []Point{
		pt(18.45, -69.95, 0),
		pt(18.450001, -69.95, 10*time.Second), // ~0.1m
		pt(18.45, -69.9495, 20*time.Second),
	}
	got := Clean(in, DefaultOptions())
	if len(got) != 2 {
		t.Fatalf("expected jitter sample dropped, got %d points", len(got))
	}
	if got[1] != in[2] {
		t.Fatalf("unexpected survivor %+v", got[1])
	}
}

func TestClean_DropsImpliedSpeedAboveLimit(t *testing.T) {
	p1 := pt(18.40, -69.90, 0)
	p2 := pt(18.50, -69.80, time.Second) // ~15km in one second
	p3 := pt(18.4001, -69.9001, 10*time.Second)

	got := Clean([]Point{p1, p2, p3}, DefaultOptions())
	want := []Point{p1, p3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestClean_JumpFallbackWithoutTimestamps(t *testing.T) {
	in := []Point{
		untimed(18.45, -69.95),
		untimed(18.45, -69.9495),   // ~53m, kept
		untimed(18.46, -69.9495),   // ~1.1km, dropped
		untimed(18.45, -69.9490),   // ~53m from last accepted, kept
	}
	got := Clean(in, DefaultOptions())
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d: %+v", len(got), got)
	}
	for _, p := range got {
		if p.Location.Lat == 18.46 {
			t.Fatal("jump point survived")
		}
	}
}

func TestClean_ZeroElapsedUsesJumpFallback(t *testing.T) {
	in := []Point{
		pt(18.45, -69.95, 0),
		pt(18.45, -69.9495, 0),  // same instant, ~53m: within jump limit
		pt(18.46, -69.9495, 0),  // same instant, ~1.1km: beyond jump limit
	}
	got := Clean(in, DefaultOptions())
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %d", len(got))
	}
}

func TestClean_UnknownTimestampsKeepRelativePosition(t *testing.T) {
	a := untimed(18.45, -69.95)
	b := untimed(18.45, -69.9495)
	c := untimed(18.45, -69.9490)

	got := Clean([]Point{a, b, c}, Options{SmoothingWindow: 1})
	want := []Point{a, b, c}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestClean_SmoothingPullsOutlierTowardLine(t *testing.T) {
	line := straightLine(5)
	line[2].Location.Lat += 0.0003 // ~33m lateral outlier

	got := Clean(line, Options{SmoothingWindow: 3})
	if len(got) != 5 {
		t.Fatalf("expected 5 points, got %d", len(got))
	}

	wantLat := (line[1].Location.Lat + line[2].Location.Lat + line[3].Location.Lat) / 3
	if math.Abs(got[2].Location.Lat-wantLat) > 1e-12 {
		t.Fatalf("index 2 lat = %v, want %v", got[2].Location.Lat, wantLat)
	}
	if math.Abs(got[2].Location.Lat-line[2].Location.Lat) < 1e-5 {
		t.Fatal("outlier did not move")
	}
	if got[0] != line[0] || got[4] != line[4] {
		t.Fatalf("endpoints changed: %+v / %+v", got[0], got[4])
	}
}

func TestClean_SmoothedEndpointsBitIdentical(t *testing.T) {
	line := straightLine(9)
	for i := range line {
		line[i].Location.Lat += float64(i%3) * 0.0001
	}

	got := Clean(line, Options{SmoothingWindow: 5})
	if len(got) != len(line) {
		t.Fatalf("expected %d points, got %d", len(line), len(got))
	}
	if got[0] != line[0] || got[len(got)-1] != line[len(line)-1] {
		t.Fatal("first/last point must not be smoothed")
	}
	// window 5 also leaves the second and penultimate points untouched.
	if got[1] != line[1] || got[len(got)-2] != line[len(line)-2] {
		t.Fatal("half-window points must not be smoothed")
	}
}

func TestClean_FewerThanFiveAcceptedNotSmoothed(t *testing.T) {
	line := straightLine(4)
	line[1].Location.Lat += 0.0002

	got := Clean(line, DefaultOptions())
	if !reflect.DeepEqual(got, line) {
		t.Fatalf("expected unsmoothed output, got %+v", got)
	}
}

func TestClean_WindowOneDisablesSmoothing(t *testing.T) {
	line := straightLine(6)
	line[3].Location.Lat += 0.0002

	got := Clean(line, Options{SmoothingWindow: -1})
	if !reflect.DeepEqual(got, line) {
		t.Fatal("expected smoothing disabled")
	}
}

func TestOptions_EvenWindowRoundedUp(t *testing.T) {
	c := New(Options{SmoothingWindow: 4})
	if c.Options().SmoothingWindow != 5 {
		t.Fatalf("expected window 5, got %d", c.Options().SmoothingWindow)
	}
	d := New(Options{})
	if d.Options() != DefaultOptions() {
		t.Fatalf("expected defaults, got %+v", d.Options())
	}
}
