package carousel

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/teranos/carousel/trip"
)

// Easing maps normalized time in [0,1] to normalized progress in [0,1].
// Every easing here is monotonic and never overshoots.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return clamp01(t) }

// EaseInOutCirc accelerates along a quarter circle and decelerates along the
// mirrored one.
func EaseInOutCirc(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return (1 - math.Sqrt(1-(2*t)*(2*t))) / 2
	}
	u := -2*t + 2
	return (math.Sqrt(1-u*u) + 1) / 2
}

// EaseInOutCubic is the cubic ease-in-out.
func EaseInOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

var easings = map[string]Easing{
	"linear":            Linear,
	"ease-in-out-circ":  EaseInOutCirc,
	"ease-in-out-cubic": EaseInOutCubic,
}

// EasingByName resolves a configured easing name. The empty name selects
// EaseInOutCirc.
func EasingByName(name string) (Easing, error) {
	if name == "" {
		return EaseInOutCirc, nil
	}
	if e, ok := easings[strings.ToLower(name)]; ok {
		return e, nil
	}
	return nil, trip.NewFall(trip.Configuration,
		fmt.Sprintf("unknown easing %q (known: %s)", name, strings.Join(EasingNames(), ", ")),
		trip.Context{"easing": name}).Wrap(ErrConfiguration)
}

// EasingNames lists the configurable easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clamp01(t float64) float64 {
	switch {
	case t <= 0 || math.IsNaN(t):
		return 0
	case t >= 1:
		return 1
	default:
		return t
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
