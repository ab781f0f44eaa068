package psf_test

import (
	"fmt"

	"github.com/matzehuels/simcluster/pkg/psf"
)

func ExampleGaussian2D() {
	k := psf.Gaussian2D(1.0)
	fmt.Printf("%dx%d kernel, sum %.3f\n", k.Size, k.Size, k.Sum())
	// Output: 9x9 kernel, sum 1.000
}

func ExampleFFT_Blur() {
	pix := make([]float64, 9*9)
	pix[4*9+4] = 1

	out, err := psf.FFT{Boundary: psf.Fill}.Blur(pix, 9, 9, 1.0)
	if err != nil {
		panic(err)
	}
	fmt.Printf("center keeps %.3f of the flux\n", out[4*9+4])
	// Output: center keeps 0.159 of the flux
}
