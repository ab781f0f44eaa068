package pipeline

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PixelStats summarizes the finite pixel values of a frame.
type PixelStats struct {
	Mean      float64
	StdDev    float64
	Min       float64
	Max       float64
	Sum       float64
	NonFinite int // NaN or ±Inf pixels, excluded from the moments
}

// Summarize computes PixelStats over pix.
func Summarize(pix []float64) PixelStats {
	finite := pix
	var ps PixelStats
	for _, v := range pix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			ps.NonFinite++
		}
	}
	if ps.NonFinite > 0 {
		finite = make([]float64, 0, len(pix)-ps.NonFinite)
		for _, v := range pix {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				finite = append(finite, v)
			}
		}
	}
	if len(finite) == 0 {
		return ps
	}
	ps.Mean, ps.StdDev = stat.MeanStdDev(finite, nil)
	if len(finite) == 1 {
		ps.StdDev = 0
	}
	ps.Min = floats.Min(finite)
	ps.Max = floats.Max(finite)
	ps.Sum = floats.Sum(finite)
	return ps
}
