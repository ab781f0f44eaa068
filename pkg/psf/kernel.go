package psf

import "math"

// Kernel is a square, odd-sized convolution kernel stored row-major.
type Kernel struct {
	Size  int
	Sigma float64
	Data  []float64
}

// Radius returns the number of pixels on each side of the center.
func (k Kernel) Radius() int { return k.Size / 2 }

// At returns the weight at row i, column j.
func (k Kernel) At(i, j int) float64 { return k.Data[i*k.Size+j] }

// Sum returns the total weight of the kernel.
func (k Kernel) Sum() float64 {
	var s float64
	for _, v := range k.Data {
		s += v
	}
	return s
}

// KernelSize returns the side length used for a Gaussian of the given sigma:
// 8*sigma rounded up to the next odd integer, and never below 3.
func KernelSize(sigma float64) int {
	n := int(math.Ceil(8 * sigma))
	if n%2 == 0 {
		n++
	}
	if n < 3 {
		n = 3
	}
	return n
}

// Gaussian2D builds a normalized circular Gaussian kernel sampled at pixel
// centers. The kernel sums to one, so blurring conserves flux away from
// the frame edges.
func Gaussian2D(sigma float64) Kernel {
	size := KernelSize(sigma)
	center := size / 2
	data := make([]float64, size*size)
	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			y := float64(i - center)
			x := float64(j - center)
			v := math.Exp(-(x*x + y*y) / twoSigmaSq)
			data[i*size+j] = v
			sum += v
		}
	}

	for i := range data {
		data[i] /= sum
	}

	return Kernel{Size: size, Sigma: sigma, Data: data}
}
