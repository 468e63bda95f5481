package update

import (
	"context"
	"errors"
	"fmt"
	"github.com/mholt/archives"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrUnsupportedArchive = errors.New("unsupported archive format")

// Extract unpacks the archive at src over dest and returns the number of files written.
//
// Entry names are confined to dest and links are skipped.
func Extract(ctx context.Context, src string, dest string, onFile func(count int, name string)) (int, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	format, stream, err := archives.Identify(ctx, filepath.Base(src), f)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedArchive, err)
	}

	ex, ok := format.(archives.Extractor)
	if !ok {
		return 0, fmt.Errorf("%w: %s cannot be extracted", ErrUnsupportedArchive, format.Extension())
	}

	count := 0
	err = ex.Extract(ctx, stream, func(ctx context.Context, fi archives.FileInfo) error {
		target, ok := safeJoin(dest, fi.NameInArchive)
		if !ok {
			return nil
		}

		if fi.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		if !fi.Mode().IsRegular() {
			return nil
		}

		rc, err := fi.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		if err := writeFile(target, rc); err != nil {
			return err
		}

		count++
		if onFile != nil {
			onFile(count, fi.NameInArchive)
		}
		return nil
	})

	return count, err
}

func safeJoin(dest string, name string) (string, bool) {
	clean := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." || strings.Contains(clean, ":") {
		return "", false
	}
	return filepath.Join(dest, filepath.FromSlash(clean)), true
}

func writeFile(target string, r io.Reader) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Chmod(tmp.Name(), fs.FileMode(0644)); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), target)
}
