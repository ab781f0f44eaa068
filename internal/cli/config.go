package cli

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/matzehuels/simcluster/pkg/errors"
	"github.com/matzehuels/simcluster/pkg/pipeline"
)

// profile is a TOML file of frame settings, e.g.
//
//	stars = 2000
//	width = 256
//	height = 256
//	seed = 42
//	boundary = "wrap"
//	preview = true
//	stretch = "linear"
//	cache = true
//	cache_url = "redis://localhost:6379/0"
//
// Pointer fields distinguish "absent" from zero values.
type profile struct {
	Stars    *int    `toml:"stars"`
	Width    *int    `toml:"width"`
	Height   *int    `toml:"height"`
	Seed     *uint64 `toml:"seed"`
	Boundary *string `toml:"boundary"`
	Object   *string `toml:"object"`

	Preview      *bool    `toml:"preview"`
	Stretch      *string  `toml:"stretch"`
	PreviewScale *float64 `toml:"preview_scale"`

	Cache    *bool   `toml:"cache"`
	CacheURL *string `toml:"cache_url"`
}

// loadProfile decodes a profile. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func loadProfile(path string) (*profile, error) {
	var p profile
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read profile %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "profile %s: unknown key %q", path, undecoded[0].String())
	}
	return &p, nil
}

// apply copies profile values into f for every flag the user did not set
// explicitly.
func (p *profile) apply(f *generateFlags, flags *pflag.FlagSet) {
	unset := func(name string) bool { return !flags.Changed(name) }

	if p.Stars != nil && unset("stars") {
		f.stars = *p.Stars
	}
	if p.Width != nil && unset("width") {
		f.width = *p.Width
	}
	if p.Height != nil && unset("height") {
		f.height = *p.Height
	}
	if p.Seed != nil && unset("seed") {
		f.seed, f.seeded = *p.Seed, true
	}
	if p.Boundary != nil && unset("boundary") {
		f.boundary = *p.Boundary
	}
	if p.Object != nil && unset("object") {
		f.object = *p.Object
	}
	if p.Preview != nil && unset("preview") {
		f.preview = *p.Preview
	}
	if p.Stretch != nil && unset("stretch") {
		f.stretch = *p.Stretch
	}
	if p.PreviewScale != nil && unset("preview-scale") {
		f.previewScale = *p.PreviewScale
	}
	if p.Cache != nil && unset("cache") {
		f.cache = *p.Cache
	}
	if p.CacheURL != nil && unset("cache-url") {
		f.cacheURL = *p.CacheURL
	}
}

// options converts merged flags into pipeline options.
func (f *generateFlags) options() pipeline.Options {
	opts := pipeline.NewOptions()
	opts.Stars = f.stars
	opts.Width = f.width
	opts.Height = f.height
	opts.Seed, opts.Seeded = f.seed, f.seeded
	opts.Boundary = f.boundary
	opts.Object = f.object
	opts.Preview = f.preview
	opts.Stretch = f.stretch
	opts.PreviewScale = f.previewScale
	opts.Refresh = f.refresh
	return opts
}
