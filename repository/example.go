package repository

import (
	"time"
)

// ExampleDescription marks the manifest used when the content server cannot be reached.
const ExampleDescription = "Example version - content server unavailable"

// ExampleManifest is a fixed offline manifest. Updating to it only syncs content from the local reference tree.
func ExampleManifest() *Manifest {
	return &Manifest{
		Version:          "1.0.0",
		Description:      ExampleDescription,
		ReleaseDate:      "2024-01-01T00:00:00Z",
		MinecraftVersion: "1.12.2",
		ForgeVersion:     "14.23.5.2854",
		RequiredMods:     []string{"JEI", "OptiFine", "IndustrialCraft2"},
		Files: []File{
			{
				Path:        "mods/jei_1.12.2-4.16.1.302.jar",
				Url:         "https://example.com/mods/jei.jar",
				Hash:        "abc123",
				Size:        1024000,
				IsRequired:  true,
				Type:        "mod",
				Description: "Just Enough Items",
			},
		},
		RetrievedAt: time.Now(),
	}
}

// IsExample reports whether m is the offline example manifest.
func (m *Manifest) IsExample() bool {
	return m.Description == ExampleDescription
}
