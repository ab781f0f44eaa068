package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/simcluster/pkg/buildinfo"
	"github.com/matzehuels/simcluster/pkg/cache"
	"github.com/matzehuels/simcluster/pkg/errors"
	"github.com/matzehuels/simcluster/pkg/fits"
	"github.com/matzehuels/simcluster/pkg/observability"
	"github.com/matzehuels/simcluster/pkg/preview"
	"github.com/matzehuels/simcluster/pkg/synth"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	now func() time.Time
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		now:    time.Now,
	}
}

// Execute runs the complete synthesize → encode → preview pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{}
	result.CacheInfo.Cached = opts.Seeded
	key := r.frameKey(opts)

	// Stage 1+2: synthesize and encode, or replay from cache
	if opts.Seeded && !opts.Refresh {
		if ok := r.replay(ctx, key, opts, result); ok {
			r.Logger.Info("loaded frame from cache",
				"seed", opts.Seed,
				"bytes", len(result.FITS))
		}
	}

	if !result.CacheInfo.FrameHit {
		if err := r.synthesize(ctx, opts, result); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.encode(ctx, opts, result); err != nil {
			return nil, err
		}
		if opts.Seeded {
			if err := r.Cache.Set(ctx, key, result.FITS, DefaultCacheTTL); err != nil {
				r.Logger.Warn("could not cache frame", "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "frame", len(result.FITS))
			}
		}
	}

	result.Stats.Pixels = Summarize(result.Canvas.Pix)

	// Stage 3: Preview
	if opts.Preview {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		png, err := preview.RenderPNG(result.Canvas,
			preview.WithStretch(opts.stretch),
			preview.WithScale(opts.PreviewScale))
		result.Stats.PreviewTime = time.Since(start)
		observability.Pipeline().OnEncodeComplete(ctx, FormatPNG, len(png), result.Stats.PreviewTime, err)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render preview")
		}
		result.Preview = png
		r.Logger.Info("rendered preview",
			"stretch", opts.Stretch,
			"bytes", len(png),
			"duration", result.Stats.PreviewTime)
	}

	return result, nil
}

func (r *Runner) frameKey(opts Options) string {
	return r.Keyer.FrameKey(cache.FrameKeyOpts{
		Stars:    opts.Stars,
		Width:    opts.Width,
		Height:   opts.Height,
		Seed:     opts.Seed,
		Sigma:    synth.PSFSigma,
		Boundary: opts.Boundary,
		Format:   FormatFITS,
		Object:   opts.Object,
	})
}

// replay fills result from a cached FITS stream. Corrupt or unreadable
// entries count as misses.
func (r *Runner) replay(ctx context.Context, key string, opts Options, result *Result) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "frame")
		return false
	}
	img, err := fits.Decode(bytes.NewReader(data))
	if err != nil || img.Width != opts.Width || img.Height != opts.Height {
		r.Logger.Debug("discarding unreadable cache entry", "key", key)
		observability.Cache().OnCacheMiss(ctx, "frame")
		return false
	}
	observability.Cache().OnCacheHit(ctx, "frame")

	result.Canvas = &synth.Canvas{Width: img.Width, Height: img.Height, Pix: img.Data}
	result.FITS = data
	result.FrameID, _ = img.Header.String("FRAMEID")
	result.Report = reportFromHeader(&img.Header, opts)
	result.CacheInfo.FrameHit = true
	return true
}

func (r *Runner) synthesize(ctx context.Context, opts Options, result *Result) error {
	observability.Pipeline().OnSynthStart(ctx, opts.Stars, opts.Width, opts.Height)
	start := time.Now()
	canvas, rep, err := synth.GenerateWithReport(opts.Stars, opts.Width, opts.Height, opts.synthOptions()...)
	result.Stats.SynthTime = time.Since(start)
	observability.Pipeline().OnSynthComplete(ctx, rep.Placed, rep.Dropped, result.Stats.SynthTime, err)
	if err != nil {
		return err
	}
	result.Canvas = canvas
	result.Report = rep

	r.Logger.Info("synthesized frame",
		"stars", rep.Stars,
		"placed", rep.Placed,
		"dropped", rep.Dropped,
		"seed", rep.Seed,
		"duration", result.Stats.SynthTime)
	return nil
}

func (r *Runner) encode(ctx context.Context, opts Options, result *Result) error {
	start := time.Now()
	result.FrameID = uuid.NewString()

	img := fits.NewImage(result.Canvas.Width, result.Canvas.Height, result.Canvas.Pix)
	if err := r.header(&img.Header, opts, result); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "build FITS header")
	}

	var buf bytes.Buffer
	err := fits.Encode(&buf, img)
	result.Stats.EncodeTime = time.Since(start)
	observability.Pipeline().OnEncodeComplete(ctx, FormatFITS, buf.Len(), result.Stats.EncodeTime, err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode FITS")
	}
	result.FITS = buf.Bytes()

	r.Logger.Info("encoded frame",
		"format", FormatFITS,
		"bytes", buf.Len(),
		"duration", result.Stats.EncodeTime)
	return nil
}

// header writes the provenance cards describing how the frame was made.
func (r *Runner) header(h *fits.Header, opts Options, result *Result) error {
	rep := result.Report
	cards := []struct {
		key     string
		value   any
		comment string
	}{
		{"OBJECT", opts.Object, "target name"},
		{"NSTARS", rep.Stars, "stars drawn"},
		{"NPLACED", rep.Placed, "stars inside the frame"},
		{"NDROPPED", rep.Dropped, "stars outside the frame"},
		{"TOTFLUX", rep.TotalFlux, "flux of placed stars before blur"},
		{"SEED", rep.Seed, "PCG seed"},
		{"PSFSIGMA", synth.PSFSigma, "[pix] Gaussian PSF sigma"},
		{"PSFBOUND", opts.Boundary, "PSF boundary policy"},
		{"BKGMEAN", synth.NoiseMean, "background mean"},
		{"BKGSTD", synth.NoiseStdDev, "background standard deviation"},
		{"FRAMEID", result.FrameID, "unique frame id"},
		{"DATE", r.now().UTC().Format("2006-01-02T15:04:05"), "file creation date (UTC)"},
		{"CREATOR", buildinfo.Creator(), "software that made this file"},
	}
	for _, c := range cards {
		if err := h.Set(c.key, c.value, c.comment); err != nil {
			return err
		}
	}
	h.AddComment("Synthetic star field, not an observation")
	h.AddHistory(fmt.Sprintf("%d stars on %dx%d, sigma %g, noise %g+-%g",
		rep.Stars, opts.Width, opts.Height, synth.PSFSigma, synth.NoiseMean, synth.NoiseStdDev))
	return nil
}

// reportFromHeader rebuilds the placement report from provenance cards.
func reportFromHeader(h *fits.Header, opts Options) synth.Report {
	rep := synth.Report{Stars: opts.Stars, Seed: opts.Seed, Seeded: true}
	if v, ok := h.Int("NPLACED"); ok {
		rep.Placed = int(v)
	}
	if v, ok := h.Int("NDROPPED"); ok {
		rep.Dropped = int(v)
	}
	if v, ok := h.Float("TOTFLUX"); ok {
		rep.TotalFlux = v
	}
	return rep
}
