package psf

import (
	"strings"

	"github.com/matzehuels/simcluster/pkg/errors"
)

// Boundary selects how pixels outside the frame are sampled.
type Boundary int

const (
	Fill Boundary = iota
	Reflect
	Extend
	Wrap
)

var boundaryNames = map[Boundary]string{
	Fill:    "fill",
	Reflect: "reflect",
	Extend:  "extend",
	Wrap:    "wrap",
}

func (b Boundary) String() string {
	if s, ok := boundaryNames[b]; ok {
		return s
	}
	return "unknown"
}

// ParseBoundary converts a policy name (case-insensitive) into a Boundary.
// An empty name selects Fill.
func ParseBoundary(s string) (Boundary, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Fill, nil
	}
	for b, name := range boundaryNames {
		if name == s {
			return b, nil
		}
	}
	return Fill, errors.New(errors.ErrCodeInvalidFormat, "invalid boundary: %q (must be one of: fill, reflect, extend, wrap)", s)
}

// sample returns pix at (x, y), or the value the policy supplies when the
// coordinate falls outside a width x height frame.
func (b Boundary) sample(pix []float64, width, height, x, y int) float64 {
	if x >= 0 && x < width && y >= 0 && y < height {
		return pix[y*width+x]
	}
	switch b {
	case Reflect:
		x, y = reflectIndex(x, width), reflectIndex(y, height)
	case Extend:
		x, y = clamp(x, 0, width-1), clamp(y, 0, height-1)
	case Wrap:
		x, y = mod(x, width), mod(y, height)
	default:
		return 0
	}
	return pix[y*width+x]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mod(i, n int) int {
	r := i % n
	if r < 0 {
		r += n
	}
	return r
}

// reflectIndex mirrors i into [0, n) without repeating the edge sample:
// for n=5 the sequence runs ... 2 1 0 1 2 3 4 3 2 1 0 1 ...
func reflectIndex(i, n int) int {
	if n <= 1 {
		return 0
	}
	period := 2*n - 2
	i = mod(i, period)
	if i >= n {
		i = period - i
	}
	return i
}
