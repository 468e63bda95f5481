package integrity

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// copyFile writes src to dst through a temp file in dst's directory so readers never see a partial file.
func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return ioErr("open", src, err)
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		return ioErr("stat", src, err)
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ioErr("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return ioErr("create", dst, err)
	}

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return ioErr("copy", dst, err)
	}

	// Ensure closed before rename
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return ioErr("close", dst, err)
	}

	if err := os.Chmod(tmp.Name(), st.Mode().Perm()); err != nil {
		os.Remove(tmp.Name())
		return ioErr("chmod", dst, err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return ioErr("rename", dst, err)
	}

	return nil
}

// copyTree copies every regular file below src into dst and returns the count.
func copyTree(src string, dst string) (int, error) {
	count := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return ioErr("walk", p, err)
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return ioErr("mkdir", target, err)
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if err := copyFile(p, target); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// listFiles returns the slash separated paths of regular files below root, sorted.
func listFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(out)
	return out, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
