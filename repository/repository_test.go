package repository

import (
	"context"
	"errors"
	"github.com/csnewman/craftlauncher/integrity"
	"github.com/csnewman/craftlauncher/metrics"
	"github.com/matryer/is"
	"go.uber.org/zap"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const remoteManifest = `{
  "Version": "2.0",
  "Description": "Spring update",
  "ReleaseDate": "2024-05-01T00:00:00",
  "MinecraftVersion": "1.12.2",
  "ForgeVersion": "14.23.5.2854",
  "RequiredMods": ["JEI"],
  "Files": [
    {"Path": "config/settings.cfg", "Url": "", "Hash": "aa", "Size": 3, "IsRequired": true, "Type": "config", "Description": ""},
    {"Path": "modpack.zip", "Url": "http://x/modpack.zip", "Hash": "bb", "Size": 2048, "IsRequired": true, "Type": "archive", "Description": ""}
  ]
}`

func newTestClient() *Client {
	return NewClient(zap.NewNop().Sugar(), nil, metrics.Noop())
}

func TestClient_GetManifest(t *testing.T) {
	is := is.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(remoteManifest))
	}))
	defer srv.Close()

	m, err := newTestClient().GetManifest(context.Background(), srv.URL)
	is.NoErr(err)
	is.Equal(m.Version, "2.0")
	is.Equal(len(m.Files), 2)
	is.Equal(m.Files[1].Size, int64(2048))
	is.True(!m.RetrievedAt.IsZero())

	payload, ok := m.Payload()
	is.True(ok)
	is.Equal(payload.Path, "modpack.zip")

	cfg, ok := m.Lookup("config/settings.cfg")
	is.True(ok)
	is.True(!cfg.IsPayload())
}

func TestClient_GetManifestStatus(t *testing.T) {
	is := is.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient().GetManifest(context.Background(), srv.URL)
	is.True(errors.Is(err, ErrNetwork))

	var se *StatusError
	is.True(errors.As(err, &se))
	is.Equal(se.StatusCode, http.StatusServiceUnavailable)
}

func TestClient_GetManifestOrExample(t *testing.T) {
	is := is.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	m, err := newTestClient().GetManifestOrExample(context.Background(), srv.URL)
	is.NoErr(err)
	is.True(m.IsExample())

	m, err = newTestClient().GetManifestOrExample(context.Background(), "")
	is.NoErr(err)
	is.True(m.IsExample())
}

func TestManifest_Validate(t *testing.T) {
	is := is.New(t)

	m := &Manifest{Version: "1", Files: []File{{Path: "mods/a.jar"}, {Path: "mods/./a.jar"}}}
	is.True(m.Validate() != nil) // duplicate after cleaning

	m = &Manifest{Version: "1", Files: []File{{Path: "../outside.jar"}}}
	is.True(m.Validate() != nil)

	m = &Manifest{Version: "1", Files: []File{{Path: "C:\\Windows\\x.dll"}}}
	is.True(m.Validate() != nil)

	is.NoErr(ExampleManifest().Validate())
}

func TestClient_Download(t *testing.T) {
	is := is.New(t)
	body := "payload bytes"
	hash, _ := integrity.DigestReader(strings.NewReader(body))

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "dl", "modpack.zip")
	c := newTestClient()

	var done int64
	is.NoErr(c.Download(context.Background(), srv.URL, path, hash, func(d int64, total int64) {
		done = d
	}))
	is.Equal(done, int64(len(body)))

	data, err := os.ReadFile(path)
	is.NoErr(err)
	is.Equal(string(data), body)

	is.NoErr(c.Download(context.Background(), srv.URL, path, hash, nil))
	is.Equal(hits.Load(), int32(1)) // existing verified file is kept
}

func TestClient_DownloadMismatch(t *testing.T) {
	is := is.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tampered"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "modpack.zip")
	err := newTestClient().Download(context.Background(), srv.URL, path, "00ff", nil)
	is.True(errors.Is(err, integrity.ErrIntegrityMismatch))

	_, err = os.Stat(path)
	is.True(errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(path + ".tmp")
	is.True(errors.Is(err, os.ErrNotExist))
}

func TestCache(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "version.json")

	m, err := LoadCache(path)
	is.NoErr(err)
	is.True(m == nil)

	is.NoErr(SaveCache(path, ExampleManifest()))

	m, err = LoadCache(path)
	is.NoErr(err)
	is.Equal(m.Version, "1.0.0")
	is.True(m.IsExample())
	is.True(!m.RetrievedAt.IsZero())

	entries, err := os.ReadDir(filepath.Dir(path))
	is.NoErr(err)
	is.Equal(len(entries), 1) // no temp files left behind
}

func TestCache_FailedWriteKeepsPrevious(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "version.json")

	is.NoErr(SaveCache(path, ExampleManifest()))

	// A directory in place of the target makes the rename fail
	blocked := filepath.Join(dir, "blocked")
	is.NoErr(os.MkdirAll(filepath.Join(blocked, "child"), 0755))
	is.True(SaveCache(blocked, &Manifest{Version: "2.0"}) != nil)

	m, err := LoadCache(path)
	is.NoErr(err)
	is.Equal(m.Version, "1.0.0")
}
