package config

import (
	"os"
	"path/filepath"
)

const dataDirName = ".craftlauncher"

// Paths is the on-disk layout derived from the data directory and the configured game dir.
type Paths struct {
	DataDir   string
	GameDir   string
	SourceDir string
}

// DefaultDataDir is <user config dir>/.craftlauncher.
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, dataDirName), nil
}

// NewPaths resolves the layout. An empty GameDir defaults to <data>/minecraft.
func NewPaths(dataDir string, cfg Config) Paths {
	gameDir := cfg.GameDir
	if gameDir == "" {
		gameDir = filepath.Join(dataDir, "minecraft")
	}

	return Paths{
		DataDir:   dataDir,
		GameDir:   gameDir,
		SourceDir: cfg.SourceDir,
	}
}

func ConfigFile(dataDir string) string {
	return filepath.Join(dataDir, "launcher.ini")
}

func (p Paths) ManifestCache() string {
	return filepath.Join(p.DataDir, "version.json")
}

func (p Paths) LogDir() string {
	return filepath.Join(p.DataDir, "logs")
}

func (p Paths) DownloadDir() string {
	return filepath.Join(p.DataDir, "downloads")
}

func (p Paths) LibraryDir() string {
	return filepath.Join(p.GameDir, "libraries")
}

func (p Paths) AssetsDir() string {
	return filepath.Join(p.GameDir, "assets")
}

func (p Paths) VersionDir(id string) string {
	return filepath.Join(p.GameDir, "versions", id)
}

// NativesDir holds the extracted native libraries for version id.
func (p Paths) NativesDir(id string) string {
	return filepath.Join(p.VersionDir(id), "natives")
}

// IndirectionArchive is where an oversized classpath is written.
func (p Paths) IndirectionArchive() string {
	return filepath.Join(p.DataDir, "cache", "classpath.jar")
}
