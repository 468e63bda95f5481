package launch

import (
	"fmt"
	"github.com/csnewman/craftlauncher/classpath"
	"github.com/csnewman/craftlauncher/config"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Environment is everything resolved once per launch and shared by the strategies.
type Environment struct {
	Config    config.Config
	Profile   *config.Profile
	Paths     config.Paths
	Runtime   string
	Client    string
	Classpath []string
}

// Plan is one concrete way to start the game. Plans are built fresh for every attempt.
type Plan struct {
	Strategy   string
	Executable string
	JvmFlags   []string
	MainClass  string
	AppArgs    []string
	WorkDir    string
	Capture    bool
	Window     time.Duration
	// Session is the player session id passed to the client.
	Session string
}

// Args is the full argument list after the executable.
func (p *Plan) Args() []string {
	args := slices.Clone(p.JvmFlags)
	args = append(args, p.MainClass)
	return append(args, p.AppArgs...)
}

// CommandLine renders the plan as a shell command for logs and reports.
func (p *Plan) CommandLine() string {
	return shellquote.Join(append([]string{p.Executable}, p.Args()...)...)
}

func newSession() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func newPlan(s Strategy, env *Environment) *Plan {
	return &Plan{
		Strategy:   s.Name,
		Executable: env.Runtime,
		WorkDir:    env.Paths.GameDir,
		Capture:    s.Capture,
		Window:     s.Window,
		Session:    newSession(),
	}
}

func memoryFlags(cfg config.Config) []string {
	return []string{
		"-Xmx" + strconv.Itoa(cfg.MaxMemory) + "M",
		"-Xms" + strconv.Itoa(cfg.MinMemory) + "M",
	}
}

func buildPrimary(s Strategy, env *Environment) (*Plan, error) {
	p := newPlan(s, env)
	prof := env.Profile

	extra, err := shellquote.Split(env.Config.JvmArguments)
	if err != nil {
		return nil, fmt.Errorf("parse JvmArguments: %w", err)
	}

	flags := memoryFlags(env.Config)
	flags = append(flags, extra...)
	flags = append(flags,
		"-Djava.library.path="+env.Paths.NativesDir(prof.VersionID),
		"-Dminecraft.launcher.brand="+prof.LauncherBrand,
		"-Dfml.ignoreInvalidMinecraftCertificates=true",
		"-Dfml.ignorePatchDiscrepancies=true",
		"-Djava.net.preferIPv4Stack=true",
	)

	if prof.LogConfig != "" {
		logConfig := filepath.Join(env.Paths.GameDir, filepath.FromSlash(prof.LogConfig))
		if _, err := os.Stat(logConfig); err == nil {
			flags = append(flags, "-Dlog4j.configurationFile="+logConfig)
		}
	}

	flags = append(flags, "-cp", classpath.Arg(env.Classpath))

	p.JvmFlags = flags
	p.MainClass = prof.MainClass
	p.AppArgs = []string{
		"--username", env.Config.PlayerName,
		"--version", prof.VersionID,
		"--gameDir", env.Paths.GameDir,
		"--assetsDir", env.Paths.AssetsDir(),
		"--assetIndex", prof.AssetIndex,
		"--uuid", p.Session,
		"--accessToken", newSession(),
		"--userType", "legacy",
		"--tweakClass", prof.TweakClass,
		"--versionType", "Forge",
	}

	if env.Config.WindowWidth > 0 && env.Config.WindowHeight > 0 {
		p.AppArgs = append(p.AppArgs,
			"--width", strconv.Itoa(env.Config.WindowWidth),
			"--height", strconv.Itoa(env.Config.WindowHeight),
		)
	}

	return p, nil
}

// buildReduced drops the mod loader: same classpath, vanilla entry point, no tuning flags.
func buildReduced(s Strategy, env *Environment) (*Plan, error) {
	p := newPlan(s, env)
	prof := env.Profile

	p.JvmFlags = append(memoryFlags(env.Config),
		"-Djava.library.path="+env.Paths.NativesDir(prof.VersionID),
		"-cp", classpath.Arg(env.Classpath),
	)
	p.MainClass = prof.VanillaMainClass
	p.AppArgs = []string{
		"--username", env.Config.PlayerName,
		"--version", prof.GameVersion,
		"--gameDir", env.Paths.GameDir,
		"--assetsDir", env.Paths.AssetsDir(),
		"--assetIndex", prof.AssetIndex,
		"--uuid", p.Session,
		"--accessToken", newSession(),
		"--userType", "legacy",
	}

	return p, nil
}

// buildMinimal runs the bare client archive with the fewest arguments the client accepts.
func buildMinimal(s Strategy, env *Environment) (*Plan, error) {
	p := newPlan(s, env)
	prof := env.Profile

	if env.Client == "" {
		return nil, ErrClientArchiveNotFound
	}

	p.JvmFlags = append(memoryFlags(env.Config), "-cp", env.Client)
	p.MainClass = prof.VanillaMainClass
	p.AppArgs = []string{
		"--username", env.Config.PlayerName,
		"--version", prof.GameVersion,
		"--gameDir", env.Paths.GameDir,
	}

	return p, nil
}
