package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	KeyPlayerName   = "PlayerName"
	KeyMaxMemory    = "MaxMemory"
	KeyMinMemory    = "MinMemory"
	KeyWindowWidth  = "WindowWidth"
	KeyWindowHeight = "WindowHeight"
	KeyJvmArguments = "JvmArguments"
	KeyJavaPath     = "JavaPath"
	KeyManifestURL  = "ManifestURL"
	KeyGameDir      = "GameDir"
	KeySourceDir    = "SourceDir"
	KeyProfile      = "Profile"
)

// Keys lists every configuration key in file order.
var Keys = []string{
	KeyPlayerName,
	KeyMaxMemory,
	KeyMinMemory,
	KeyWindowWidth,
	KeyWindowHeight,
	KeyJvmArguments,
	KeyJavaPath,
	KeyManifestURL,
	KeyGameDir,
	KeySourceDir,
	KeyProfile,
}

const DefaultJvmArguments = "-XX:+UnlockExperimentalVMOptions -XX:+UseG1GC -XX:G1NewSizePercent=20 -XX:G1ReservePercent=20 -XX:MaxGCPauseMillis=50 -XX:G1HeapRegionSize=32M"

// Config holds the user editable launcher settings.
type Config struct {
	PlayerName string
	// MaxMemory and MinMemory are in megabytes
	MaxMemory    int
	MinMemory    int
	WindowWidth  int
	WindowHeight int
	// JvmArguments are shell quoted extra flags for the Primary strategy
	JvmArguments string
	// JavaPath overrides runtime detection when set
	JavaPath    string
	ManifestURL string
	// GameDir is the installation directory
	GameDir string
	// SourceDir is the trusted reference tree; empty disables content repair
	SourceDir string
	// Profile is the path to the profile tables; empty uses the built-in profile
	Profile string
}

func Default() Config {
	return Config{
		PlayerName:   "Player",
		MaxMemory:    2048,
		MinMemory:    512,
		WindowWidth:  854,
		WindowHeight: 480,
		JvmArguments: DefaultJvmArguments,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.PlayerName) == "" {
		return errors.New("player name must not be empty")
	}

	if c.MinMemory <= 0 || c.MaxMemory <= 0 {
		return errors.New("memory limits must be positive")
	}

	if c.MinMemory > c.MaxMemory {
		return fmt.Errorf("minimum memory %dM exceeds maximum %dM", c.MinMemory, c.MaxMemory)
	}

	if c.WindowWidth < 0 || c.WindowHeight < 0 {
		return errors.New("window size must not be negative")
	}

	return nil
}

// Value returns the string form of key.
func (c Config) Value(key string) (string, error) {
	switch key {
	case KeyPlayerName:
		return c.PlayerName, nil
	case KeyMaxMemory:
		return strconv.Itoa(c.MaxMemory), nil
	case KeyMinMemory:
		return strconv.Itoa(c.MinMemory), nil
	case KeyWindowWidth:
		return strconv.Itoa(c.WindowWidth), nil
	case KeyWindowHeight:
		return strconv.Itoa(c.WindowHeight), nil
	case KeyJvmArguments:
		return c.JvmArguments, nil
	case KeyJavaPath:
		return c.JavaPath, nil
	case KeyManifestURL:
		return c.ManifestURL, nil
	case KeyGameDir:
		return c.GameDir, nil
	case KeySourceDir:
		return c.SourceDir, nil
	case KeyProfile:
		return c.Profile, nil
	default:
		return "", fmt.Errorf("unknown key %q", key)
	}
}

// With returns a copy of c with key set from its string form.
func (c Config) With(key string, value string) (Config, error) {
	if !slices.Contains(Keys, key) {
		return c, fmt.Errorf("unknown key %q", key)
	}

	atoi := func() (int, error) {
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}

	var err error
	switch key {
	case KeyPlayerName:
		c.PlayerName = value
	case KeyMaxMemory:
		c.MaxMemory, err = atoi()
	case KeyMinMemory:
		c.MinMemory, err = atoi()
	case KeyWindowWidth:
		c.WindowWidth, err = atoi()
	case KeyWindowHeight:
		c.WindowHeight, err = atoi()
	case KeyJvmArguments:
		c.JvmArguments = value
	case KeyJavaPath:
		c.JavaPath = value
	case KeyManifestURL:
		c.ManifestURL = value
	case KeyGameDir:
		c.GameDir = value
	case KeySourceDir:
		c.SourceDir = value
	case KeyProfile:
		c.Profile = value
	}

	return c, err
}
