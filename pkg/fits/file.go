package fits

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/matzehuels/simcluster/pkg/errors"
)

// CheckWritable verifies that path can be opened for writing without
// truncating an existing file. Call it before expensive work so that
// permission problems surface early.
func CheckWritable(path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	existed := statErr == nil

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s for writing", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	if !existed {
		_ = os.Remove(path)
	}
	return nil
}

// WriteFile encodes img to path. Data goes to a temporary file in the same
// directory which is renamed over path once complete, so path is either
// fully replaced or left untouched.
func WriteFile(path string, img *Image) error {
	return writeAtomic(path, func(f *os.File) error {
		return Encode(f, img)
	})
}

// WriteBytes atomically replaces path with an already encoded FITS stream.
func WriteBytes(path string, data []byte) error {
	return writeAtomic(path, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

func writeAtomic(path string, write func(*os.File) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create temporary file for %s", path)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "sync %s", path)
	}
	if err = tmp.Chmod(0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "chmod %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "rename into %s", path)
	}
	return nil
}

// ReadFile decodes the FITS image stored at path.
func ReadFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}
