package config

import (
	_ "embed"
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
	"strings"
	"time"
)

//go:embed profile.yaml
var defaultProfile []byte

// Windows are the observation windows per launch strategy.
type Windows struct {
	Primary time.Duration `yaml:"primary"`
	Reduced time.Duration `yaml:"reduced"`
	Minimal time.Duration `yaml:"minimal"`
}

// Profile holds the data tables describing one game installation.
type Profile struct {
	VersionID        string `yaml:"version_id"`
	GameVersion      string `yaml:"game_version"`
	AssetIndex       string `yaml:"asset_index"`
	MainClass        string `yaml:"main_class"`
	VanillaMainClass string `yaml:"vanilla_main_class"`
	TweakClass       string `yaml:"tweak_class"`
	LauncherBrand    string `yaml:"launcher_brand"`
	LogConfig        string `yaml:"log_config"`

	ContentFolders []string `yaml:"content_folders"`
	RequiredDirs   []string `yaml:"required_dirs"`

	Windows            Windows `yaml:"windows"`
	MaxClasspathLength int     `yaml:"max_classpath_length"`
	PreviewLength      int     `yaml:"preview_length"`
	ReducedLimit       int     `yaml:"reduced_limit"`

	MandatoryLibraries []string `yaml:"mandatory_libraries"`
	HelperLibraries    []string `yaml:"helper_libraries"`

	RuntimeCandidates []string `yaml:"runtime_candidates"`
	ClientCandidates  []string `yaml:"client_candidates"`
	Libraries         []string `yaml:"libraries"`
}

// DefaultProfile returns the built-in profile.
func DefaultProfile() *Profile {
	var p Profile
	if err := yaml.Unmarshal(defaultProfile, &p); err != nil {
		panic(fmt.Sprintf("built-in profile: %v", err))
	}
	return &p
}

// LoadProfile overlays the file at path onto the built-in profile. An empty path or missing file yields the default.
func LoadProfile(path string) (*Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}

	return p, nil
}

func (p *Profile) Validate() error {
	switch {
	case p.VersionID == "":
		return errors.New("version_id is required")
	case p.MainClass == "" || p.VanillaMainClass == "":
		return errors.New("main classes are required")
	case p.Windows.Primary <= 0 || p.Windows.Reduced <= 0 || p.Windows.Minimal <= 0:
		return errors.New("observation windows must be positive")
	case p.ReducedLimit < 0:
		return errors.New("reduced_limit must not be negative")
	}
	return nil
}

// Expand substitutes {version} and {game} in a candidate path.
func (p *Profile) Expand(candidate string) string {
	r := strings.NewReplacer("{version}", p.VersionID, "{game}", p.GameVersion)
	return r.Replace(candidate)
}
