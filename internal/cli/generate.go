package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/simcluster/pkg/errors"
	"github.com/matzehuels/simcluster/pkg/fits"
	"github.com/matzehuels/simcluster/pkg/pipeline"
)

// generateFlags holds the root command's flag values.
type generateFlags struct {
	stars        int
	width        int
	height       int
	seed         uint64
	seeded       bool
	boundary     string
	object       string
	preview      bool
	stretch      string
	previewScale float64
	config       string
	cache        bool
	cacheURL     string
	refresh      bool
}

// generateCommand creates the frame synthesis command used as the root.
func (c *CLI) generateCommand() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   appName + " [flags] <file>",
		Short: "Simulate a star cluster image and write it as FITS",
		Long: `Simulate a crowded star cluster: stars are scattered around the frame
center, convolved with a Gaussian PSF (sigma 1 px) and placed on a noisy
background of 1.0 ± 0.001. The frame is written as a 64-bit float FITS image.

An output file named "cache" collides with the cache command; write it as
./cache instead.`,
		Example: `  simcluster cluster.fits
  simcluster -s 500 -x 128 -y 128 --seed 42 small.fits
  simcluster --config crowded.toml --preview out.fits
  simcluster ./cache`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &f, args[0])
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&f.stars, "stars", "s", pipeline.DefaultStars, "number of stars")
	flags.IntVarP(&f.width, "width", "x", pipeline.DefaultWidth, "frame width in pixels")
	flags.IntVarP(&f.height, "height", "y", pipeline.DefaultHeight, "frame height in pixels")
	flags.Uint64Var(&f.seed, "seed", 0, "random seed for a reproducible frame")
	flags.Var(newChoiceValue(&f.boundary, pipeline.DefaultBoundary, "fill", "reflect", "extend", "wrap"), "boundary", "PSF boundary policy")
	flags.StringVar(&f.object, "object", pipeline.DefaultObject, "OBJECT header value")
	flags.BoolVar(&f.preview, "preview", false, "also write a PNG preview next to the FITS file")
	flags.Var(newChoiceValue(&f.stretch, pipeline.DefaultStretch, "linear", "asinh"), "stretch", "preview intensity stretch")
	flags.Float64Var(&f.previewScale, "preview-scale", 1, "preview size relative to the frame")
	flags.StringVar(&f.config, "config", "", "TOML profile with default settings")
	flags.BoolVar(&f.cache, "cache", false, "cache seeded frames")
	flags.StringVar(&f.cacheURL, "cache-url", "", "Redis URL for a shared cache (default: local files)")
	flags.BoolVar(&f.refresh, "refresh", false, "recompute even if the frame is cached")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, f *generateFlags, path string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	f.seeded = cmd.Flags().Changed("seed")
	if f.config != "" {
		p, err := loadProfile(f.config)
		if err != nil {
			return err
		}
		p.apply(f, cmd.Flags())
		logger.Debug("loaded profile", "path", f.config)
	}

	opts := f.options()
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	// Past argument checking: failures from here on are not usage errors.
	cmd.SilenceUsage = true

	if err := fits.CheckWritable(path); err != nil {
		return err
	}
	pngPath := previewPath(path)
	if opts.Preview {
		if pngPath == path {
			return errors.New(errors.ErrCodeInvalidPath, "preview would overwrite %s", path)
		}
		if err := fits.CheckWritable(pngPath); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	runner := c.newRunner(ctx, f.cache || f.cacheURL != "", f.cacheURL)
	defer runner.Cache.Close()

	var spinner *Spinner
	if c.interactive {
		spinner = newSpinner(ctx, c.status, fmt.Sprintf("Simulating %d stars on %dx%d...", opts.Stars, opts.Width, opts.Height))
		spinner.Start()
	}
	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	if err := fits.WriteBytes(path, result.FITS); err != nil {
		return err
	}
	prog.done("wrote " + path)

	printSuccess(c.Out, "Simulated %d stars", result.Report.Stars)
	printFile(c.Out, path)
	if result.Preview != nil {
		// The atomic writer is format agnostic.
		if err := fits.WriteBytes(pngPath, result.Preview); err != nil {
			return err
		}
		printFile(c.Out, pngPath)
	}
	printFrameSummary(c.Out, result)
	return nil
}
