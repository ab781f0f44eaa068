package synth

import (
	"math/rand/v2"

	"github.com/matzehuels/simcluster/pkg/errors"
	"github.com/matzehuels/simcluster/pkg/psf"
)

const (
	// PSFSigma is the standard deviation of the Gaussian PSF in pixels.
	PSFSigma = 1.0

	// NoiseMean is the background level added to every pixel.
	NoiseMean = 1.0

	// NoiseStdDev is the standard deviation of the per-pixel background.
	NoiseStdDev = 0.001
)

// Source supplies the random variates used during synthesis.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// NormFloat64 returns a standard normal value.
	NormFloat64() float64
}

// NewSource returns the seeded PCG source used by WithSeed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5eed5eed5eed5eed))
}

// Report describes what happened during one synthesis call.
type Report struct {
	Stars     int     // stars requested
	Placed    int     // stars that landed on the canvas
	Dropped   int     // stars that fell outside the canvas
	TotalFlux float64 // flux of placed stars, before blur and noise
	Seed      uint64  // seed of the default source (valid when Seeded)
	Seeded    bool    // false when the caller supplied its own Source
}

type config struct {
	src     Source
	seed    uint64
	seeded  bool
	blurrer psf.Blurrer
}

// Option configures Generate.
type Option func(*config)

// WithSource draws all randomness from src. It overrides WithSeed.
func WithSource(src Source) Option {
	return func(c *config) { c.src = src }
}

// WithSeed makes the result reproducible: equal seeds and parameters give
// bit-identical canvases.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// WithBlurrer replaces the default FFT convolution.
func WithBlurrer(b psf.Blurrer) Option {
	return func(c *config) { c.blurrer = b }
}

// Generate synthesizes a height x width frame containing n stars.
func Generate(n, width, height int, opts ...Option) (*Canvas, error) {
	c, _, err := GenerateWithReport(n, width, height, opts...)
	return c, err
}

// GenerateWithReport is Generate plus a Report of the star placement.
func GenerateWithReport(n, width, height int, opts ...Option) (*Canvas, Report, error) {
	if err := errors.ValidateStarCount(n); err != nil {
		return nil, Report{}, err
	}
	if err := errors.ValidateDimensions(width, height); err != nil {
		return nil, Report{}, err
	}

	cfg := config{blurrer: psf.FFT{Boundary: psf.Fill}}
	for _, opt := range opts {
		opt(&cfg)
	}

	rep := Report{Stars: n}
	src := cfg.src
	if src == nil {
		if !cfg.seeded {
			cfg.seed = rand.Uint64()
		}
		src = NewSource(cfg.seed)
		rep.Seed, rep.Seeded = cfg.seed, true
	}

	canvas := NewCanvas(width, height)
	stars := SampleStars(src, n, width, height)
	rep.Placed, rep.Dropped, rep.TotalFlux = stars.Rasterize(canvas)

	blurred, err := cfg.blurrer.Blur(canvas.Pix, width, height, PSFSigma)
	if err != nil {
		return nil, rep, errors.Wrap(errors.ErrCodeInternal, err, "blur %dx%d frame", width, height)
	}
	canvas.Pix = blurred

	AddNoise(canvas, src)
	return canvas, rep, nil
}

// AddNoise adds an independent NoiseMean +/- NoiseStdDev Gaussian value to
// every pixel, in row-major order.
func AddNoise(c *Canvas, src Source) {
	for i := range c.Pix {
		c.Pix[i] += NoiseMean + NoiseStdDev*src.NormFloat64()
	}
}
