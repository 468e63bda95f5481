package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/csnewman/craftlauncher/integrity"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"io"
	"os"
	"path/filepath"
)

// ByteProgress is told how many bytes of total have arrived. Total is -1 when unknown.
type ByteProgress func(done int64, total int64)

type progressWriter struct {
	done     int64
	total    int64
	callback ByteProgress
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.done += int64(len(p))
	if w.callback != nil {
		w.callback(w.done, w.total)
	}
	return len(p), nil
}

// Download fetches url into path, verifying the digest when hash is set.
//
// An existing file with a matching digest is kept. Data is written to path+".tmp" and renamed
// into place only after verification.
func (c *Client) Download(ctx context.Context, url string, path string, hash string, onProgress ByteProgress) error {
	c.log.Infow("Downloading", "url", url)

	if hash != "" {
		if _, err := os.Stat(path); err == nil {
			computed, err := integrity.Digest(path)
			if err != nil {
				return err
			}

			if integrity.Equal(computed, hash) {
				c.log.Info("Skipping: File exists and hash matches")
				return nil
			}

			c.log.Info("File exist with incorrect hash. Re-downloading")
		} else if !errors.Is(err, os.ErrNotExist) {
			return &integrity.IoError{Op: "stat", Path: path, Err: err}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &integrity.IoError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}

	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return &integrity.IoError{Op: "create", Path: tmp, Err: err}
	}

	h := integrity.NewHash()
	writers := []io.Writer{out, h, &progressWriter{total: resp.ContentLength, callback: onProgress}}
	if c.Output != nil {
		bar := progressbar.NewOptions64(
			resp.ContentLength,
			progressbar.OptionSetWriter(c.Output),
			progressbar.OptionSetDescription(filepath.Base(path)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		writers = append(writers, bar)
	}

	n, err := io.Copy(io.MultiWriter(writers...), resp.Body)

	// Ensure closed before rename
	closeErr := out.Close()

	if err != nil {
		os.Remove(tmp)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return networkErr("download", err)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return &integrity.IoError{Op: "close", Path: tmp, Err: closeErr}
	}

	c.metrics.Downloaded(n)

	if hash != "" {
		computed := integrity.Sum(h)
		if !integrity.Equal(computed, hash) {
			os.Remove(tmp)
			c.log.Warnw("Hash mismatch", "url", url, "expected", hash, "actual", computed)
			return &integrity.MismatchError{Path: path, Expected: hash, Actual: computed}
		}
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &integrity.IoError{Op: "rename", Path: path, Err: err}
	}

	c.log.Infow("Downloaded", "path", path, "size", humanize.Bytes(uint64(n)))

	return nil
}

// Describe formats an entry for progress messages.
func Describe(f File) string {
	if f.Size > 0 {
		return fmt.Sprintf("%s (%s)", f.Path, humanize.Bytes(uint64(f.Size)))
	}
	return f.Path
}
