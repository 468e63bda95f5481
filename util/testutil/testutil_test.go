package testutil

import (
	"github.com/matryer/is"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteReadTree(t *testing.T) {
	is := is.New(t)
	root := t.TempDir()

	files := map[string]string{
		"mods/a.jar":      "a",
		"config/x/y.cfg":  "y",
		"scripts/init.zs": "",
	}
	WriteTree(t, root, files)

	is.Equal(ReadTree(t, root), files)
	is.Equal(len(ReadTree(t, filepath.Join(root, "missing"))), 0)
}

func TestRunParallel(t *testing.T) {
	is := is.New(t)
	ch := make(chan string, 1)

	is.NoErr(RunParallel(
		t,
		time.Second,
		func(t *testing.T) {
			ch <- "ping"
		},
		func(t *testing.T) {
			is := is.New(t)
			is.Equal(<-ch, "ping")
		},
	))
}
