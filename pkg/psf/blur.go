package psf

import "github.com/matzehuels/simcluster/pkg/errors"

// Blurrer convolves a row-major width x height frame with a Gaussian PSF of
// the given sigma and returns a new frame of the same shape.
type Blurrer interface {
	Blur(pix []float64, width, height int, sigma float64) ([]float64, error)
}

func checkFrame(pix []float64, width, height int, sigma float64) error {
	if width < 1 || height < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "frame %dx%d has no pixels", width, height)
	}
	if len(pix) != width*height {
		return errors.New(errors.ErrCodeInvalidInput, "frame has %d pixels, want %d (%dx%d)", len(pix), width*height, width, height)
	}
	if !(sigma > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "sigma must be positive, got %v", sigma)
	}
	return nil
}

// Direct convolves in pixel space. Cost is O(width*height*size^2), which
// beats the FFT only for very small frames.
type Direct struct {
	Boundary Boundary
}

// Blur implements Blurrer.
func (d Direct) Blur(pix []float64, width, height int, sigma float64) ([]float64, error) {
	if err := checkFrame(pix, width, height, sigma); err != nil {
		return nil, err
	}
	k := Gaussian2D(sigma)
	r := k.Radius()
	out := make([]float64, len(pix))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for i := 0; i < k.Size; i++ {
				for j := 0; j < k.Size; j++ {
					w := k.Data[i*k.Size+j]
					if w == 0 {
						continue
					}
					sum += w * d.Boundary.sample(pix, width, height, x+r-j, y+r-i)
				}
			}
			out[y*width+x] = sum
		}
	}
	return out, nil
}

var (
	_ Blurrer = FFT{}
	_ Blurrer = Direct{}
)
