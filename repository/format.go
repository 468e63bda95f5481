package repository

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Manifest describes a published version of the game content.
type Manifest struct {
	Version          string   `json:"Version"`
	Description      string   `json:"Description"`
	ReleaseDate      string   `json:"ReleaseDate"`
	Files            []File   `json:"Files"`
	MinecraftVersion string   `json:"MinecraftVersion"`
	ForgeVersion     string   `json:"ForgeVersion"`
	RequiredMods     []string `json:"RequiredMods"`

	// RetrievedAt is set when the manifest is fetched or loaded from cache.
	RetrievedAt time.Time `json:"-"`
}

type File struct {
	Path        string `json:"Path"`
	Url         string `json:"Url"`
	Hash        string `json:"Hash"`
	Size        int64  `json:"Size"`
	IsRequired  bool   `json:"IsRequired"`
	Type        string `json:"Type"`
	Description string `json:"Description"`
}

var payloadSuffixes = []string{
	".zip",
	".rar",
	".7z",
	".tar",
	".tar.gz",
	".tgz",
	".tar.bz2",
	".tar.xz",
	".tar.lz4",
	".tar.zst",
}

// IsPayload reports whether the file is a compressed archive to be extracted over the game dir.
func (f *File) IsPayload() bool {
	p := strings.ToLower(f.Path)
	for _, s := range payloadSuffixes {
		if strings.HasSuffix(p, s) {
			return true
		}
	}
	return false
}

// Validate rejects entries that could not be applied safely.
func (m *Manifest) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("manifest has no version")
	}

	seen := map[string]bool{}
	for _, f := range m.Files {
		if f.Path == "" {
			return fmt.Errorf("manifest entry without path")
		}

		clean := path.Clean(strings.ReplaceAll(f.Path, "\\", "/"))
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(clean, ":") {
			return fmt.Errorf("manifest entry %q escapes the installation", f.Path)
		}

		if seen[clean] {
			return fmt.Errorf("duplicate manifest entry %q", f.Path)
		}
		seen[clean] = true
	}

	return nil
}

// Lookup returns the entry with the given relative path.
func (m *Manifest) Lookup(p string) (File, bool) {
	for _, f := range m.Files {
		if f.Path == p {
			return f, true
		}
	}
	return File{}, false
}

// Payload returns the first payload entry, if any.
func (m *Manifest) Payload() (File, bool) {
	for _, f := range m.Files {
		if f.IsPayload() {
			return f, true
		}
	}
	return File{}, false
}
