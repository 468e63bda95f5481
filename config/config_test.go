package config

import (
	"github.com/matryer/is"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStore_CreatesDefaults(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "launcher.ini")

	s, err := Open(zap.NewNop().Sugar(), path)
	is.NoErr(err)
	is.Equal(s.Get(), Default())

	data, err := os.ReadFile(path)
	is.NoErr(err)
	is.True(strings.Contains(string(data), "MaxMemory"))
	is.True(strings.Contains(string(data), "2048"))
}

func TestStore_SetPersists(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "launcher.ini")

	s, err := Open(zap.NewNop().Sugar(), path)
	is.NoErr(err)

	cfg, err := s.Get().With(KeyMaxMemory, "4096")
	is.NoErr(err)
	cfg, err = cfg.With(KeyJavaPath, "/opt/java/bin/java")
	is.NoErr(err)
	is.NoErr(s.Set(cfg))

	reopened, err := Open(zap.NewNop().Sugar(), path)
	is.NoErr(err)
	is.Equal(reopened.Get().MaxMemory, 4096)
	is.Equal(reopened.Get().JavaPath, "/opt/java/bin/java")
	is.Equal(reopened.Get().JvmArguments, DefaultJvmArguments)
}

func TestStore_RejectsInvalid(t *testing.T) {
	is := is.New(t)
	s, err := Open(zap.NewNop().Sugar(), filepath.Join(t.TempDir(), "launcher.ini"))
	is.NoErr(err)

	cfg, err := s.Get().With(KeyMinMemory, "8192")
	is.NoErr(err)
	is.True(s.Set(cfg) != nil)
	is.Equal(s.Get().MinMemory, 512)

	_, err = s.Get().With(KeyMaxMemory, "lots")
	is.True(err != nil)

	_, err = s.Get().With("Colour", "red")
	is.True(err != nil)
}

func TestStore_UnreadableFileRestoresDefaults(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "launcher.ini")
	is.NoErr(os.WriteFile(path, []byte("MaxMemory = -5\n"), 0644))

	s, err := Open(zap.NewNop().Sugar(), path)
	is.NoErr(err)
	is.Equal(s.Get(), Default())
}

func TestProfile_Default(t *testing.T) {
	is := is.New(t)
	p := DefaultProfile()

	is.NoErr(p.Validate())
	is.Equal(p.VersionID, "1.12.2-forge-14.23.5.2854")
	is.Equal(p.AssetIndex, "1.12")
	is.Equal(p.Windows, Windows{Primary: 5 * time.Second, Reduced: 3 * time.Second, Minimal: 2 * time.Second})
	is.Equal(p.MaxClasspathLength, 8000)
	is.Equal(p.ReducedLimit, 20)
	is.Equal(p.ContentFolders, []string{"mods", "config", "scripts"})
	is.Equal(p.Expand("versions/{version}/{version}.jar"), "versions/1.12.2-forge-14.23.5.2854/1.12.2-forge-14.23.5.2854.jar")
}

func TestProfile_LoadOverlay(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "profile.yaml")
	is.NoErr(os.WriteFile(path, []byte("windows:\n  primary: 8s\nmax_classpath_length: 4000\n"), 0644))

	p, err := LoadProfile(path)
	is.NoErr(err)
	is.Equal(p.Windows.Primary, 8*time.Second)
	is.Equal(p.Windows.Reduced, 3*time.Second)
	is.Equal(p.MaxClasspathLength, 4000)
	is.Equal(p.MainClass, "net.minecraft.launchwrapper.Launch")

	p, err = LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	is.NoErr(err)
	is.Equal(p.MaxClasspathLength, 8000)
}

func TestPaths(t *testing.T) {
	is := is.New(t)

	p := NewPaths("/data", Config{})
	is.Equal(p.GameDir, filepath.Join("/data", "minecraft"))
	is.Equal(p.ManifestCache(), filepath.Join("/data", "version.json"))
	is.Equal(p.NativesDir("1.12.2"), filepath.Join("/data", "minecraft", "versions", "1.12.2", "natives"))

	p = NewPaths("/data", Config{GameDir: "/games/mc", SourceDir: "/ref"})
	is.Equal(p.LibraryDir(), filepath.Join("/games/mc", "libraries"))
	is.Equal(p.SourceDir, "/ref")
}
