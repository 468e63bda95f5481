package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// RunParallel runs each func as a subtest concurrently and fails if they do not all finish in time.
func RunParallel(t *testing.T, timeout time.Duration, funcs ...func(*testing.T)) error {
	wg := &sync.WaitGroup{}
	wg.Add(len(funcs))

	for _, f := range funcs {
		go func() {
			t.Run("parallel", f)
			wg.Done()
		}()
	}

	select {
	case <-wrapWait(wg):
		return nil
	case <-time.NewTimer(timeout).C:
		return errors.New("test parallel timeout")
	}
}

func wrapWait(wg *sync.WaitGroup) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// WriteTree creates root and writes every file, keyed by slash separated relative path.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// ReadTree returns every regular file below root, keyed by slash separated relative path.
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()

	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.Fatal(err)
	}

	return out
}
