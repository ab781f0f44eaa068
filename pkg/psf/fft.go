package psf

import "gonum.org/v1/gonum/dsp/fourier"

// FFT convolves in the frequency domain using gonum's complex FFT.
//
// The frame is first extended by the kernel radius on every side using the
// Boundary policy, then linearly convolved on a zero-padded power-of-two
// grid, and finally cropped back to width x height.
type FFT struct {
	Boundary Boundary
}

// Blur implements Blurrer.
func (f FFT) Blur(pix []float64, width, height int, sigma float64) ([]float64, error) {
	if err := checkFrame(pix, width, height, sigma); err != nil {
		return nil, err
	}
	k := Gaussian2D(sigma)
	r := k.Radius()

	// Extended frame plus kernel must fit without circular wrap-around.
	extW, extH := width+2*r, height+2*r
	gridW := nextPow2(extW + k.Size - 1)
	gridH := nextPow2(extH + k.Size - 1)

	img := makeComplex2D(gridH, gridW)
	for y := 0; y < extH; y++ {
		for x := 0; x < extW; x++ {
			img[y][x] = complex(f.Boundary.sample(pix, width, height, x-r, y-r), 0)
		}
	}

	ker := makeComplex2D(gridH, gridW)
	for i := 0; i < k.Size; i++ {
		for j := 0; j < k.Size; j++ {
			ker[i][j] = complex(k.Data[i*k.Size+j], 0)
		}
	}

	fft2(img, true)
	fft2(ker, true)
	for y := range img {
		for x := range img[y] {
			img[y][x] *= ker[y][x]
		}
	}
	fft2(img, false)

	// gonum's inverse is unnormalized: forward then inverse scales by N.
	scale := float64(gridW * gridH)
	out := make([]float64, width*height)
	for y := 0; y < height; y++ {
		row := img[y+2*r]
		for x := 0; x < width; x++ {
			out[y*width+x] = real(row[x+2*r]) / scale
		}
	}
	return out, nil
}

// fft2 transforms a in place, rows first and then columns.
func fft2(a [][]complex128, forward bool) {
	h := len(a)
	w := len(a[0])

	rowFFT := fourier.NewCmplxFFT(w)
	colFFT := fourier.NewCmplxFFT(h)

	tmp := make([]complex128, w)
	for y := 0; y < h; y++ {
		copy(tmp, a[y])
		if forward {
			rowFFT.Coefficients(tmp, tmp)
		} else {
			rowFFT.Sequence(tmp, tmp)
		}
		copy(a[y], tmp)
	}

	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = a[y][x]
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for y := 0; y < h; y++ {
			a[y][x] = col[y]
		}
	}
}

func makeComplex2D(h, w int) [][]complex128 {
	m := make([][]complex128, h)
	for i := range m {
		m[i] = make([]complex128, w)
	}
	return m
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
