package launch

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"github.com/csnewman/craftlauncher/config"
	"go.uber.org/zap"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const runtimeCheckTimeout = 10 * time.Second

// Locator finds the Java runtime, the client archive and the libraries of an installation.
type Locator struct {
	log     *zap.SugaredLogger
	cfg     config.Config
	profile *config.Profile
	paths   config.Paths

	lookPath func(string) (string, error)
}

func NewLocator(log *zap.SugaredLogger, cfg config.Config, profile *config.Profile, paths config.Paths) *Locator {
	return &Locator{
		log:      log,
		cfg:      cfg,
		profile:  profile,
		paths:    paths,
		lookPath: exec.LookPath,
	}
}

func (l *Locator) resolve(candidate string) string {
	p := l.profile.Expand(candidate)

	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}

	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.paths.GameDir, p)
}

// FindRuntime returns the configured JavaPath, else the first executable runtime candidate, else java on PATH.
func (l *Locator) FindRuntime() (string, error) {
	if l.cfg.JavaPath != "" {
		p := l.resolve(l.cfg.JavaPath)
		if isExecutable(p) {
			return p, nil
		}
		l.log.Warnw("Configured JavaPath is not executable, searching", "path", p)
	}

	for _, c := range l.profile.RuntimeCandidates {
		p := l.resolve(c)
		if isExecutable(p) {
			l.log.Debugw("Runtime found", "path", p)
			return p, nil
		}
	}

	names := []string{"java"}
	if runtime.GOOS == "windows" {
		names = []string{"javaw", "java"}
	}

	for _, name := range names {
		if p, err := l.lookPath(name); err == nil {
			l.log.Debugw("Runtime found on PATH", "path", p)
			return p, nil
		}
	}

	return "", ErrRuntimeNotFound
}

// FindClient returns the first existing client candidate.
func (l *Locator) FindClient() (string, error) {
	for _, c := range l.profile.ClientCandidates {
		p := l.resolve(c)
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			return p, nil
		}
	}

	return "", ErrClientArchiveNotFound
}

// MissingLibraries lists the essential libraries absent from the library dir.
func (l *Locator) MissingLibraries() []string {
	var missing []string
	for _, lib := range l.profile.Libraries {
		if _, err := os.Stat(filepath.Join(l.paths.LibraryDir(), filepath.FromSlash(lib))); err != nil {
			missing = append(missing, lib)
		}
	}
	return missing
}

// CheckRuntime runs "<path> -version" and returns the first line it prints.
func CheckRuntime(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, runtimeCheckTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "-version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", path, err)
	}

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, nil
		}
	}

	return "", fmt.Errorf("%s -version printed nothing", path)
}

type PreflightReport struct {
	Runtime        string
	RuntimeVersion string
	RuntimeErr     error

	Client    string
	ClientErr error

	MissingLibraries []string
	MissingDirs      []string
}

// OK reports whether a launch can be attempted. Missing libraries or folders only degrade the launch.
func (r *PreflightReport) OK() bool {
	return r.RuntimeErr == nil && r.ClientErr == nil
}

// Preflight checks the runtime, client archive, essential libraries and required folders.
func (l *Locator) Preflight(ctx context.Context) *PreflightReport {
	r := &PreflightReport{}

	r.Runtime, r.RuntimeErr = l.FindRuntime()
	if r.RuntimeErr == nil {
		r.RuntimeVersion, r.RuntimeErr = CheckRuntime(ctx, r.Runtime)
	}

	r.Client, r.ClientErr = l.FindClient()
	r.MissingLibraries = l.MissingLibraries()

	for _, dir := range l.profile.RequiredDirs {
		if st, err := os.Stat(filepath.Join(l.paths.GameDir, dir)); err != nil || !st.IsDir() {
			r.MissingDirs = append(r.MissingDirs, dir)
		}
	}

	return r
}
