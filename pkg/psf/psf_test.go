package psf

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/simcluster/pkg/errors"
)

func TestKernelSize(t *testing.T) {
	tests := []struct {
		sigma float64
		want  int
	}{
		{1.0, 9},
		{0.5, 5},
		{0.1, 3},
		{1.5, 13},
		{2.0, 17},
	}
	for _, tt := range tests {
		if got := KernelSize(tt.sigma); got != tt.want {
			t.Errorf("KernelSize(%v) = %d, want %d", tt.sigma, got, tt.want)
		}
	}
}

func TestGaussian2D(t *testing.T) {
	k := Gaussian2D(1.0)

	if k.Size != 9 || len(k.Data) != 81 {
		t.Fatalf("kernel size = %d (%d values), want 9 (81)", k.Size, len(k.Data))
	}
	if math.Abs(k.Sum()-1) > 1e-12 {
		t.Errorf("kernel sum = %v, want 1", k.Sum())
	}

	c := k.Radius()
	peak := k.At(c, c)
	for i := 0; i < k.Size; i++ {
		for j := 0; j < k.Size; j++ {
			if (i != c || j != c) && k.At(i, j) >= peak {
				t.Errorf("kernel[%d][%d] = %v >= center %v", i, j, k.At(i, j), peak)
			}
			if k.At(i, j) != k.At(j, i) || k.At(i, j) != k.At(k.Size-1-i, j) {
				t.Errorf("kernel not symmetric at (%d, %d)", i, j)
			}
		}
	}
}

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		in      string
		want    Boundary
		wantErr bool
	}{
		{"", Fill, false},
		{"fill", Fill, false},
		{"Reflect", Reflect, false},
		{" extend ", Extend, false},
		{"wrap", Wrap, false},
		{"mirror", Fill, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBoundary(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBoundary(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("expected INVALID_FORMAT, got %v", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseBoundary(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestReflectIndex(t *testing.T) {
	want := []int{2, 1, 0, 1, 2, 3, 4, 3, 2, 1, 0, 1}
	for i, w := range want {
		if got := reflectIndex(i-2, 5); got != w {
			t.Errorf("reflectIndex(%d, 5) = %d, want %d", i-2, got, w)
		}
	}
	if got := reflectIndex(7, 1); got != 0 {
		t.Errorf("reflectIndex(7, 1) = %d, want 0", got)
	}
}

func TestBlurZeros(t *testing.T) {
	pix := make([]float64, 16*12)
	for _, b := range []Blurrer{FFT{}, Direct{}} {
		out, err := b.Blur(pix, 16, 12, 1.0)
		if err != nil {
			t.Fatalf("%T.Blur: %v", b, err)
		}
		for i, v := range out {
			if math.Abs(v) > 1e-15 {
				t.Fatalf("%T: out[%d] = %v, want 0", b, i, v)
			}
		}
	}
}

func TestBlurPointSource(t *testing.T) {
	const w, h = 4, 4
	pix := make([]float64, w*h)
	pix[2*w+2] = 0.64

	out, err := FFT{}.Blur(pix, w, h, 1.0)
	if err != nil {
		t.Fatal(err)
	}

	center := out[2*w+2]
	for i, v := range out {
		if i != 2*w+2 && v >= center {
			t.Errorf("out[%d] = %v >= center %v", i, v, center)
		}
		if v <= 0 {
			t.Errorf("out[%d] = %v, flux should spread to every pixel", i, v)
		}
	}
	// Zero fill loses the flux that spreads past the edges.
	var total float64
	for _, v := range out {
		total += v
	}
	if total >= 0.64 {
		t.Errorf("total flux = %v, want < 0.64 with zero-fill boundary", total)
	}
}

func TestBlurConservesFluxAwayFromEdges(t *testing.T) {
	const w, h = 32, 32
	pix := make([]float64, w*h)
	pix[16*w+16] = 3

	out, err := FFT{}.Blur(pix, w, h, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	var total float64
	for _, v := range out {
		total += v
	}
	if math.Abs(total-3) > 1e-9 {
		t.Errorf("total flux = %v, want 3", total)
	}
}

func TestFFTMatchesDirect(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	shapes := []struct{ w, h int }{{1, 1}, {5, 3}, {17, 9}, {32, 32}}

	for _, s := range shapes {
		pix := make([]float64, s.w*s.h)
		for i := range pix {
			pix[i] = rng.Float64()
		}
		for _, b := range []Boundary{Fill, Reflect, Extend, Wrap} {
			fft, err := FFT{Boundary: b}.Blur(pix, s.w, s.h, 1.0)
			if err != nil {
				t.Fatal(err)
			}
			direct, err := Direct{Boundary: b}.Blur(pix, s.w, s.h, 1.0)
			if err != nil {
				t.Fatal(err)
			}
			for i := range fft {
				if math.Abs(fft[i]-direct[i]) > 1e-10 {
					t.Fatalf("%dx%d %v: pixel %d fft=%v direct=%v", s.w, s.h, b, i, fft[i], direct[i])
				}
			}
		}
	}
}

func TestBlurFlatFieldNonFill(t *testing.T) {
	const w, h = 10, 7
	pix := make([]float64, w*h)
	for i := range pix {
		pix[i] = 2.5
	}
	for _, b := range []Boundary{Reflect, Extend, Wrap} {
		out, err := FFT{Boundary: b}.Blur(pix, w, h, 1.0)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range out {
			if math.Abs(v-2.5) > 1e-9 {
				t.Fatalf("%v: out[%d] = %v, want 2.5", b, i, v)
			}
		}
	}
}

func TestBlurRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name  string
		pix   []float64
		w, h  int
		sigma float64
	}{
		{"length mismatch", make([]float64, 5), 2, 2, 1},
		{"zero width", nil, 0, 2, 1},
		{"zero sigma", make([]float64, 4), 2, 2, 0},
		{"nan sigma", make([]float64, 4), 2, 2, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, b := range []Blurrer{FFT{}, Direct{}} {
				if _, err := b.Blur(tt.pix, tt.w, tt.h, tt.sigma); !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("%T: error = %v, want INVALID_INPUT", b, err)
				}
			}
		})
	}
}
