// Package preview renders quick-look PNG images of synthetic frames.
//
// Frames span a tiny dynamic range on top of a unit background, so pixel
// values are first clipped to a percentile window and then mapped to gray
// levels with a [Stretch]. The image is flipped vertically so the first FITS
// row ends up at the bottom, matching how FITS viewers display it.
package preview

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"slices"
	"strings"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/simcluster/pkg/errors"
	"github.com/matzehuels/simcluster/pkg/synth"
)

// Stretch maps normalized intensities in [0, 1] to display levels in [0, 1].
type Stretch string

const (
	StretchLinear Stretch = "linear"
	StretchAsinh  Stretch = "asinh"
)

// asinhBeta controls how strongly faint values are lifted by StretchAsinh.
const asinhBeta = 10.0

// ParseStretch validates a stretch name. An empty name selects asinh.
func ParseStretch(s string) (Stretch, error) {
	switch Stretch(strings.ToLower(strings.TrimSpace(s))) {
	case "", StretchAsinh:
		return StretchAsinh, nil
	case StretchLinear:
		return StretchLinear, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid stretch: %q (must be one of: linear, asinh)", s)
}

func (s Stretch) apply(t float64) float64 {
	if s == StretchLinear {
		return t
	}
	return math.Asinh(asinhBeta*t) / math.Asinh(asinhBeta)
}

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	stretch Stretch
	scale   float64
	lo, hi  float64
}

// WithStretch selects the intensity mapping (default asinh).
func WithStretch(s Stretch) PNGOption {
	return func(r *pngRenderer) { r.stretch = s }
}

// WithScale resizes the output by s (default 1).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithClip sets the lower and upper percentile (0..1) mapped to black and
// white (default 0.005 and 0.995).
func WithClip(lo, hi float64) PNGOption {
	return func(r *pngRenderer) { r.lo, r.hi = lo, hi }
}

// RenderPNG encodes c as an 8-bit grayscale PNG.
func RenderPNG(c *synth.Canvas, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{stretch: StretchAsinh, scale: 1, lo: 0.005, hi: 0.995}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.scale > 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", r.scale)
	}
	if r.lo < 0 || r.hi > 1 || r.lo >= r.hi {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid clip window [%v, %v]", r.lo, r.hi)
	}

	img := r.gray(c)

	var out image.Image = img
	w := int(math.Round(float64(c.Width) * r.scale))
	h := int(math.Round(float64(c.Height) * r.scale))
	if r.scale != 1 && w > 0 && h > 0 {
		dst := image.NewGray(image.Rect(0, 0, w, h))
		var scaler draw.Scaler = draw.CatmullRom
		if r.scale > 1 {
			scaler = draw.NearestNeighbor
		}
		scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// Window returns the pixel values at the lo and hi quantiles of c.
func Window(c *synth.Canvas, lo, hi float64) (float64, float64) {
	sorted := slices.Clone(c.Pix)
	slices.Sort(sorted)
	return stat.Quantile(lo, stat.Empirical, sorted, nil),
		stat.Quantile(hi, stat.Empirical, sorted, nil)
}

func (r pngRenderer) gray(c *synth.Canvas) *image.Gray {
	vmin, vmax := Window(c, r.lo, r.hi)
	span := vmax - vmin

	img := image.NewGray(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		row := (c.Height - 1 - y) * img.Stride
		for x := 0; x < c.Width; x++ {
			t := 0.0
			if span > 0 {
				t = (c.At(x, y) - vmin) / span
			}
			t = math.Min(math.Max(t, 0), 1)
			img.Pix[row+x] = uint8(math.Round(255 * r.stretch.apply(t)))
		}
	}
	return img
}
