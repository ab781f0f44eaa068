package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/simcluster/pkg/errors"
	"github.com/matzehuels/simcluster/pkg/fits"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	c.Out = &out

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateWritesFITS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fits")

	out, err := runCLI(t, "-s", "100", "-x", "64", "-y", "64", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	img, err := fits.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if img.Width != 64 || img.Height != 64 {
		t.Errorf("image = %dx%d, want 64x64", img.Width, img.Height)
	}
	if n, _ := img.Header.Int("NSTARS"); n != 100 {
		t.Errorf("NSTARS = %d, want 100", n)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output should name the file:\n%s", out)
	}
	if _, err := os.Stat(previewPath(path)); !os.IsNotExist(err) {
		t.Error("preview written without --preview")
	}
}

func TestGenerateLongFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fits")
	if _, err := runCLI(t, "--stars", "3", "--width", "9", "--height", "5", "--boundary", "WRAP", path); err != nil {
		t.Fatal(err)
	}
	img, err := fits.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 9 || img.Height != 5 {
		t.Errorf("image = %dx%d, want 9x5", img.Width, img.Height)
	}
	if b, _ := img.Header.String("PSFBOUND"); b != "wrap" {
		t.Errorf("PSFBOUND = %q, want wrap", b)
	}
}

func TestGenerateSeedReproducible(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fits")
	b := filepath.Join(dir, "b.fits")
	for _, p := range []string{a, b} {
		if _, err := runCLI(t, "-s", "50", "-x", "32", "-y", "32", "--seed", "99", p); err != nil {
			t.Fatal(err)
		}
	}

	ia, err := fits.ReadFile(a)
	if err != nil {
		t.Fatal(err)
	}
	ib, err := fits.ReadFile(b)
	if err != nil {
		t.Fatal(err)
	}
	for i := range ia.Data {
		if ia.Data[i] != ib.Data[i] {
			t.Fatalf("pixel %d differs between runs with the same seed", i)
		}
	}
	if s, _ := ia.Header.Int("SEED"); s != 99 {
		t.Errorf("SEED = %d, want 99", s)
	}
}

func TestGeneratePreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.fits")
	if _, err := runCLI(t, "-s", "10", "-x", "16", "-y", "16", "--preview", "--stretch", "linear", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(path), "frame.png"))
	if err != nil {
		t.Fatalf("preview missing: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("preview is not a PNG")
	}
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		args     []string
		wantCode errors.Code
	}{
		{"no file", []string{"-s", "1"}, ""},
		{"two files", []string{filepath.Join(dir, "a.fits"), filepath.Join(dir, "b.fits")}, ""},
		{"bad int", []string{"-s", "many", filepath.Join(dir, "c.fits")}, ""},
		{"bad boundary", []string{"--boundary", "mirror", filepath.Join(dir, "d.fits")}, ""},
		{"negative stars", []string{"-s", "-1", filepath.Join(dir, "e.fits")}, errors.ErrCodeInvalidInput},
		{"zero width", []string{"-x", "0", filepath.Join(dir, "f.fits")}, errors.ErrCodeInvalidInput},
		{"missing dir", []string{"-s", "1", "-x", "4", "-y", "4", filepath.Join(dir, "nope", "g.fits")}, errors.ErrCodeInvalidPath},
		{"output is dir", []string{"-s", "1", "-x", "4", "-y", "4", dir}, errors.ErrCodeInvalidPath},
		{"object too long", []string{"-s", "1", "-x", "4", "-y", "4", "--object", strings.Repeat("M", 69), filepath.Join(dir, "i.fits")}, errors.ErrCodeInvalidInput},
		{"object not ascii", []string{"-s", "1", "-x", "4", "-y", "4", "--object", "\u03c9 Centauri", filepath.Join(dir, "j.fits")}, errors.ErrCodeInvalidInput},
		{"missing profile", []string{"--config", filepath.Join(dir, "none.toml"), filepath.Join(dir, "h.fits")}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantCode != "" && !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("failed runs left %d files behind", len(entries))
	}
}

func TestGenerateProfile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "small.toml")
	profile := `stars = 5
width = 16
height = 8
seed = 3
boundary = "reflect"
`
	if err := os.WriteFile(cfg, []byte(profile), 0644); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "out.fits")
	// Explicit -x wins over the profile.
	if _, err := runCLI(t, "--config", cfg, "-x", "32", path); err != nil {
		t.Fatal(err)
	}
	img, err := fits.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 32 || img.Height != 8 {
		t.Errorf("image = %dx%d, want 32x8", img.Width, img.Height)
	}
	if n, _ := img.Header.Int("NSTARS"); n != 5 {
		t.Errorf("NSTARS = %d, want 5", n)
	}
	if s, _ := img.Header.Int("SEED"); s != 3 {
		t.Errorf("SEED = %d, want 3", s)
	}
	if b, _ := img.Header.String("PSFBOUND"); b != "reflect" {
		t.Errorf("PSFBOUND = %q, want reflect", b)
	}
}

func TestGenerateProfileUnknownKey(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "typo.toml")
	if err := os.WriteFile(cfg, []byte("starz = 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := runCLI(t, "--config", cfg, filepath.Join(dir, "out.fits"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestGenerateCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	args := func(name string) []string {
		return []string{"-s", "20", "-x", "16", "-y", "16", "--seed", "5", "--cache", filepath.Join(dir, name)}
	}

	first, err := runCLI(t, args("a.fits")...)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(first, "cached") {
		t.Errorf("first run should be computed:\n%s", first)
	}
	second, err := runCLI(t, args("b.fits")...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(second, "cached") {
		t.Errorf("second run should come from cache:\n%s", second)
	}

	a, _ := os.ReadFile(filepath.Join(dir, "a.fits"))
	b, _ := os.ReadFile(filepath.Join(dir, "b.fits"))
	if !bytes.Equal(a, b) {
		t.Error("cached replay should reproduce the file exactly")
	}

	named, err := runCLI(t, append([]string{"--object", "M13"}, args("c.fits")...)...)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(named, "cached") {
		t.Errorf("a different object should be computed:\n%s", named)
	}
	img, err := fits.ReadFile(filepath.Join(dir, "c.fits"))
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := img.Header.String("OBJECT"); got != "M13" {
		t.Errorf("OBJECT = %q, want M13", got)
	}

	out, err := runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 2 cached frames") {
		t.Errorf("cache clear output:\n%s", out)
	}
}

func TestGenerateFileNamedCache(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := runCLI(t, "-s", "1", "-x", "4", "-y", "4", "./cache"); err != nil {
		t.Fatal(err)
	}
	img, err := fits.ReadFile("cache")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if img.Width != 4 || img.Height != 4 {
		t.Errorf("image = %dx%d, want 4x4", img.Width, img.Height)
	}
}

func TestOpenCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	store, keyer, err := openCache(ctx, "")
	if err != nil {
		t.Fatalf("file cache: %v", err)
	}
	store.Close()
	if keyer != nil {
		t.Error("file cache should use the default keyer")
	}

	if _, _, err := openCache(ctx, "redis://127.0.0.1:1/0"); !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("unreachable redis error = %v, want code %s", err, errors.ErrCodeNetwork)
	}
	if _, _, err := openCache(ctx, "not-a-url"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad redis url error = %v, want code %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestCachePathCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(xdg, appName); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClearEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	out, err := runCLI(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("output = %q", out)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", "simcluster"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	if dir, _ := cacheDir(); dir != filepath.Join("/tmp/xdg", "simcluster") {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q", dir)
	}
}

func TestPreviewPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"out.fits", "out.png"},
		{"dir/frame.fit", "dir/frame.png"},
		{"noext", "noext.png"},
		{"a.b/c", "a.b/c.png"},
	}
	for _, tt := range tests {
		if got := previewPath(tt.in); got != tt.want {
			t.Errorf("previewPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChoiceValue(t *testing.T) {
	var s string
	v := newChoiceValue(&s, "fill", "fill", "wrap")
	if s != "fill" || v.String() != "fill" {
		t.Errorf("default = %q", s)
	}
	if err := v.Set(" Wrap "); err != nil || s != "wrap" {
		t.Errorf("Set(Wrap) = %v, value %q", err, s)
	}
	if err := v.Set("mirror"); err == nil {
		t.Error("Set(mirror) should fail")
	}
	if s != "wrap" {
		t.Errorf("failed Set changed value to %q", s)
	}
	if v.Type() != "fill|wrap" {
		t.Errorf("Type() = %q", v.Type())
	}
}
