package suppress

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// randomCandidates builds a reproducible candidate list clustered enough to
// produce duplicates.
func randomCandidates(seed int64, n int) []Circle {
	rng := rand.New(rand.NewSource(seed))
	circles := make([]Circle, n)
	for i := range circles {
		circles[i] = Circle{
			X: float64(rng.Intn(200)),
			Y: float64(rng.Intn(200)),
			R: float64(5 + rng.Intn(30)),
		}
	}
	return circles
}

func containsCircle(set []Circle, c Circle) bool {
	for _, s := range set {
		if s == c {
			return true
		}
	}
	return false
}

func TestSuppress_Empty(t *testing.T) {
	for _, threshold := range []float64{0, 0.5, 1} {
		got, err := Suppress(nil, threshold)
		if err != nil {
			t.Fatalf("Suppress(nil, %v) failed: %v", threshold, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("Suppress(nil, %v) = %v, want empty non-nil slice", threshold, got)
		}
	}
}

func TestSuppress_NearDuplicatesCollapse(t *testing.T) {
	candidates := []Circle{{0, 0, 10}, {1, 1, 10}, {100, 100, 5}}

	tests := []struct {
		name     string
		priority Priority
		want     []Circle
	}{
		{"largest first", PriorityLargestFirst, []Circle{{0, 0, 10}, {100, 100, 5}}},
		{"smallest first", PrioritySmallestFirst, []Circle{{100, 100, 5}, {0, 0, 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Suppress(candidates, 0.5, WithPriority(tt.priority))
			if err != nil {
				t.Fatalf("Suppress failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("survivors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSuppress_DisjointKept(t *testing.T) {
	candidates := []Circle{{0, 0, 5}, {50, 50, 5}}

	got, err := Suppress(candidates, 0.5)
	if err != nil {
		t.Fatalf("Suppress failed: %v", err)
	}
	if diff := cmp.Diff(candidates, got); diff != "" {
		t.Errorf("disjoint circles changed (-want +got):\n%s", diff)
	}
}

func TestSuppress_ZeroThresholdCollapsesAnyIntersection(t *testing.T) {
	tests := []struct {
		name  string
		in    []Circle
		count int
	}{
		{"squares overlap by a sliver", []Circle{{0, 0, 5}, {9, 0, 5}}, 1},
		{"squares only touch", []Circle{{0, 0, 5}, {10, 0, 5}}, 2},
		{"diagonal corner overlap", []Circle{{0, 0, 5}, {9, 9, 5}}, 1},
		{"far apart", []Circle{{0, 0, 5}, {40, 40, 5}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Suppress(tt.in, 0)
			if err != nil {
				t.Fatalf("Suppress failed: %v", err)
			}
			if len(got) != tt.count {
				t.Errorf("got %d survivors, want %d: %v", len(got), tt.count, got)
			}
		})
	}
}

func TestSuppress_FullThresholdKeepsEverything(t *testing.T) {
	// Under the disk metric the ratio never exceeds 1.
	candidates := []Circle{{0, 0, 10}, {1, 1, 10}, {3, 0, 12}, {100, 100, 5}}

	got, err := Suppress(candidates, 1, WithMetric(MetricDisk))
	if err != nil {
		t.Fatalf("Suppress failed: %v", err)
	}
	if len(got) != len(candidates) {
		t.Fatalf("got %d survivors, want %d", len(got), len(candidates))
	}
	for _, c := range candidates {
		if !containsCircle(got, c) {
			t.Errorf("circle %v missing from survivors", c)
		}
	}

	// Moderate overlap stays under 1 with the square metric too.
	moderate := []Circle{{0, 0, 10}, {15, 0, 10}}
	got, err = Suppress(moderate, 1)
	if err != nil {
		t.Fatalf("Suppress failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d survivors, want 2", len(got))
	}
}

func TestSuppress_SquareOverDiskCanExceedOne(t *testing.T) {
	// Nearly identical squares share more area than the disk union.
	a, b := Circle{0, 0, 10}, Circle{1, 1, 10}
	if r := overlapRatio(MetricSquareOverDisk, a, b); r <= 1 {
		t.Fatalf("ratio = %v, want > 1", r)
	}

	got, err := Suppress([]Circle{a, b}, 1)
	if err != nil {
		t.Fatalf("Suppress failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d survivors, want 1", len(got))
	}
}

func TestSuppress_Properties(t *testing.T) {
	options := map[string][]Option{
		"default":        nil,
		"smallest first": {WithPriority(PrioritySmallestFirst)},
		"disk metric":    {WithMetric(MetricDisk)},
	}

	for name, opts := range options {
		for _, threshold := range []float64{0, 0.1, 0.3, 0.5, 0.9} {
			for seed := int64(1); seed <= 5; seed++ {
				candidates := randomCandidates(seed, 40)
				original := append([]Circle(nil), candidates...)

				got, err := Suppress(candidates, threshold, opts...)
				if err != nil {
					t.Fatalf("%s t=%v seed=%d: %v", name, threshold, seed, err)
				}

				if diff := cmp.Diff(original, candidates); diff != "" {
					t.Fatalf("%s: input mutated:\n%s", name, diff)
				}
				if len(got) > len(candidates) {
					t.Errorf("%s: %d survivors from %d candidates", name, len(got), len(candidates))
				}
				for _, c := range got {
					if !containsCircle(candidates, c) {
						t.Errorf("%s: survivor %v not in input", name, c)
					}
				}

				s, _ := New(threshold, opts...)
				for i := range got {
					for j := i + 1; j < len(got); j++ {
						if r := overlapRatio(s.Metric(), got[i], got[j]); r > threshold {
							t.Errorf("%s t=%v: survivors %v and %v overlap %.3f", name, threshold, got[i], got[j], r)
						}
					}
				}

				again, err := Suppress(got, threshold, opts...)
				if err != nil {
					t.Fatalf("%s: second pass failed: %v", name, err)
				}
				if diff := cmp.Diff(got, again); diff != "" {
					t.Errorf("%s t=%v seed=%d: not idempotent (-first +second):\n%s", name, threshold, seed, diff)
				}
			}
		}
	}
}

func TestSuppress_LargestFirstOrdering(t *testing.T) {
	got, err := Suppress(randomCandidates(7, 30), 0.5)
	if err != nil {
		t.Fatalf("Suppress failed: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].R > got[i-1].R {
			t.Errorf("survivor %d radius %v larger than previous %v", i, got[i].R, got[i-1].R)
		}
	}
}

func TestSuppress_TiesKeepInputOrder(t *testing.T) {
	candidates := []Circle{{0, 0, 5}, {50, 0, 5}, {100, 0, 5}}

	for _, p := range []Priority{PriorityLargestFirst, PrioritySmallestFirst} {
		got, err := Suppress(candidates, 0.5, WithPriority(p))
		if err != nil {
			t.Fatalf("Suppress failed: %v", err)
		}
		if diff := cmp.Diff(candidates, got); diff != "" {
			t.Errorf("%v: order changed (-want +got):\n%s", p, diff)
		}
	}
}

func TestSuppress_ZeroRadius(t *testing.T) {
	got, err := Suppress([]Circle{{5, 5, 0}, {5, 5, 0}}, 0)
	if err != nil {
		t.Fatalf("Suppress failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d survivors, want 2 (zero-area circles never overlap)", len(got))
	}
}

func TestSuppress_InvalidCircle(t *testing.T) {
	tests := []struct {
		name  string
		in    []Circle
		index int
	}{
		{"negative radius", []Circle{{0, 0, 5}, {1, 1, -1}}, 1},
		{"NaN center", []Circle{{math.NaN(), 0, 5}}, 0},
		{"infinite radius", []Circle{{0, 0, 3}, {0, 0, 4}, {0, 0, math.Inf(1)}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Suppress(tt.in, 0.5)
			if err == nil {
				t.Fatalf("expected error, got survivors %v", got)
			}

			var ice *InvalidCircleError
			if !errors.As(err, &ice) {
				t.Fatalf("error %v is not *InvalidCircleError", err)
			}
			if ice.Index != tt.index {
				t.Errorf("Index = %d, want %d", ice.Index, tt.index)
			}
			if !errors.Is(err, ErrInvalidCircle) {
				t.Error("errors.Is(err, ErrInvalidCircle) = false")
			}
		})
	}
}

func TestNew_InvalidThreshold(t *testing.T) {
	for _, threshold := range []float64{-0.1, 1.01, math.NaN(), math.Inf(1)} {
		_, err := New(threshold)
		if err == nil {
			t.Errorf("New(%v) succeeded, want error", threshold)
			continue
		}
		var te *ThresholdError
		if !errors.As(err, &te) {
			t.Errorf("New(%v) error %v is not *ThresholdError", threshold, err)
		}
		if !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("New(%v): errors.Is(err, ErrInvalidThreshold) = false", threshold)
		}
	}
}

func TestNew_UnknownPolicy(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want string
	}{
		{"priority", WithPriority(Priority(7)), "Priority(7)"},
		{"metric", WithMetric(Metric(9)), "Metric(9)"},
		{"negative priority", WithPriority(Priority(-1)), "Priority(-1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(DefaultThreshold, tt.opt)
			if err == nil {
				t.Fatalf("New succeeded with %+v, want error", s)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not name %s", err, tt.want)
			}
			if _, err := Suppress([]Circle{{X: 1, Y: 1, R: 1}}, DefaultThreshold, tt.opt); err == nil {
				t.Error("Suppress accepted an unknown policy")
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	s, err := New(DefaultThreshold)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.Threshold() != 0.5 {
		t.Errorf("Threshold = %v, want 0.5", s.Threshold())
	}
	if s.Priority() != PriorityLargestFirst {
		t.Errorf("Priority = %v, want largest-first", s.Priority())
	}
	if s.Metric() != MetricSquareOverDisk {
		t.Errorf("Metric = %v, want square-over-disk", s.Metric())
	}
}
