// Package pipeline runs the synthesize -> encode -> preview sequence shared
// by the CLI and by library callers.
//
// # Architecture
//
// A run has three stages:
//
//  1. Synthesize: build the frame with [synth.GenerateWithReport]
//  2. Encode: serialize it as a FITS primary HDU with provenance cards
//  3. Preview: optionally render a PNG quick-look
//
// Seeded runs are fully determined by their options, so the encoded FITS
// stream is cached under a key derived from them. Unseeded runs skip the
// cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.NewOptions()
//	opts.Stars = 500
//	opts.Seed, opts.Seeded = 7, true
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = fits.WriteBytes("frame.fits", result.FITS)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/simcluster/pkg/errors"
	"github.com/matzehuels/simcluster/pkg/fits"
	"github.com/matzehuels/simcluster/pkg/preview"
	"github.com/matzehuels/simcluster/pkg/psf"
	"github.com/matzehuels/simcluster/pkg/synth"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and library callers
// =============================================================================

const (
	// DefaultStars is the number of stars drawn per frame.
	DefaultStars = 10000

	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 512

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 512

	// DefaultBoundary is the PSF boundary policy.
	DefaultBoundary = "fill"

	// DefaultStretch is the preview intensity mapping.
	DefaultStretch = string(preview.StretchAsinh)

	// DefaultObject is written to the OBJECT header card.
	DefaultObject = "simulated cluster"

	// DefaultCacheTTL bounds how long cached frames are kept.
	DefaultCacheTTL = 7 * 24 * time.Hour
)

// Format constants for output artifacts.
const (
	FormatFITS = "fits"
	FormatPNG  = "png"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	Stars  int    `json:"stars" toml:"stars"`
	Width  int    `json:"width" toml:"width"`
	Height int    `json:"height" toml:"height"`
	Seed   uint64 `json:"seed,omitempty" toml:"seed"`
	Seeded bool   `json:"seeded,omitempty" toml:"-"` // Seed is meaningful

	Boundary string `json:"boundary,omitempty" toml:"boundary"`
	Object   string `json:"object,omitempty" toml:"object"`

	Preview      bool    `json:"preview,omitempty" toml:"preview"`
	Stretch      string  `json:"stretch,omitempty" toml:"stretch"`
	PreviewScale float64 `json:"preview_scale,omitempty" toml:"preview_scale"`

	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	boundary  psf.Boundary
	stretch   preview.Stretch
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Canvas is the synthesized frame.
	Canvas *synth.Canvas

	// Report describes star placement.
	Report synth.Report

	// FITS is the encoded primary HDU.
	FITS []byte

	// Preview is the PNG quick-look, if requested.
	Preview []byte

	// FrameID is the unique id stamped into the FITS header.
	FrameID string

	// Stats contains timing and pixel statistics.
	Stats Stats

	// CacheInfo tracks whether the frame came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SynthTime   time.Duration
	EncodeTime  time.Duration
	PreviewTime time.Duration
	Pixels      PixelStats
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	FrameHit bool // FITS stream came from cache
	Cached   bool // run was eligible for caching (seeded)
}

// NewOptions returns options populated with the CLI defaults.
func NewOptions() Options {
	return Options{
		Stars:        DefaultStars,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Boundary:     DefaultBoundary,
		Object:       DefaultObject,
		Stretch:      DefaultStretch,
		PreviewScale: 1,
	}
}

// ValidateAndSetDefaults checks the options and fills empty optional fields.
// Star count and dimensions are never defaulted: zero stars is a valid
// request and zero width is not. The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateStarCount(o.Stars); err != nil {
		return err
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}

	if o.Boundary == "" {
		o.Boundary = DefaultBoundary
	}
	b, err := psf.ParseBoundary(o.Boundary)
	if err != nil {
		return err
	}
	o.boundary = b
	o.Boundary = b.String()

	if o.Stretch == "" {
		o.Stretch = DefaultStretch
	}
	s, err := preview.ParseStretch(o.Stretch)
	if err != nil {
		return err
	}
	o.stretch = s
	o.Stretch = string(s)

	if o.PreviewScale == 0 {
		o.PreviewScale = 1
	}
	if o.PreviewScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "preview scale must be positive, got %v", o.PreviewScale)
	}
	if o.Object == "" {
		o.Object = DefaultObject
	}
	if err := fits.ValidateString(o.Object); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid object name")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// synthOptions translates o into synth options.
func (o *Options) synthOptions() []synth.Option {
	opts := []synth.Option{synth.WithBlurrer(psf.FFT{Boundary: o.boundary})}
	if o.Seeded {
		opts = append(opts, synth.WithSeed(o.Seed))
	}
	return opts
}
