package synth

import "math"

// StarBatch holds one draw of star parameters as parallel slices.
// X and Y are continuous pixel coordinates relative to the canvas origin.
type StarBatch struct {
	Radius []float64
	Angle  []float64
	Flux   []float64
	X      []float64
	Y      []float64
}

// Len returns the number of stars in the batch.
func (b *StarBatch) Len() int { return len(b.Flux) }

// SampleStars draws n stars for a width x height frame.
//
// Each quantity is drawn for the whole batch before the next one:
// radii first, then angles, then fluxes. Radius is uniform on [0, width),
// angle uniform on [0, 2*pi) and flux the square of a uniform variate.
func SampleStars(src Source, n, width, height int) *StarBatch {
	b := &StarBatch{
		Radius: make([]float64, n),
		Angle:  make([]float64, n),
		Flux:   make([]float64, n),
		X:      make([]float64, n),
		Y:      make([]float64, n),
	}

	w := float64(width)
	for i := range b.Radius {
		b.Radius[i] = src.Float64() * w
	}
	for i := range b.Angle {
		b.Angle[i] = src.Float64() * 2 * math.Pi
	}
	for i := range b.Flux {
		u := src.Float64()
		b.Flux[i] = u * u
	}

	cx, cy := w/2, float64(height)/2
	for i := range b.X {
		sin, cos := math.Sincos(b.Angle[i])
		b.X[i] = cx + b.Radius[i]*cos
		b.Y[i] = cy + b.Radius[i]*sin
	}
	return b
}

// Rasterize adds every in-bounds star's flux to the pixel containing it and
// returns how many stars landed and how many fell outside the canvas.
// Pixel indices are the truncated coordinates.
func (b *StarBatch) Rasterize(c *Canvas) (placed, dropped int, flux float64) {
	w, h := float64(c.Width), float64(c.Height)
	for i, f := range b.Flux {
		x, y := b.X[i], b.Y[i]
		if x < 0 || x >= w || y < 0 || y >= h {
			dropped++
			continue
		}
		c.Add(int(x), int(y), f)
		placed++
		flux += f
	}
	return placed, dropped, flux
}
