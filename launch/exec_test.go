//go:build !windows

package launch

import (
	"context"
	"errors"
	"github.com/csnewman/craftlauncher/classpath"
	"github.com/csnewman/craftlauncher/config"
	"github.com/csnewman/craftlauncher/metrics"
	"github.com/csnewman/craftlauncher/util/testutil"
	"github.com/matryer/is"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeJava refuses the mod loader entry point and otherwise keeps running.
const fakeJava = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo 'openjdk version "1.8.0_392"' >&2
  exit 0
fi
case "$*" in
  *net.minecraft.launchwrapper.Launch*)
    echo "Error: Could not find or load main class net.minecraft.launchwrapper.Launch" >&2
    exit 1
    ;;
esac
echo "Setting user: $3"
exec sleep 30
`

func writeScript(t *testing.T, dir string, name string, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestExecStarter_CapturesOutput(t *testing.T) {
	is := is.New(t)
	script := writeScript(t, t.TempDir(), "java", "#!/bin/sh\necho out\necho err >&2\nexit 3\n")

	proc, err := NewExecStarter(zap.NewNop().Sugar()).Start(&Plan{Executable: script, MainClass: "Main", Capture: true, WorkDir: t.TempDir()})
	is.NoErr(err)

	select {
	case <-proc.Exited():
	case <-time.After(10 * time.Second):
		t.Fatal("process did not exit")
	}

	code, ok := proc.ExitCode()
	is.True(ok)
	is.Equal(code, 3)

	stdout, stderr := proc.Output()
	is.Equal(stdout, "out\n")
	is.Equal(stderr, "err\n")
}

func TestExecStarter_Kill(t *testing.T) {
	is := is.New(t)
	script := writeScript(t, t.TempDir(), "java", "#!/bin/sh\nexec sleep 30\n")

	proc, err := NewExecStarter(zap.NewNop().Sugar()).Start(&Plan{Executable: script, MainClass: "Main"})
	is.NoErr(err)

	_, ok := proc.ExitCode()
	is.True(!ok)

	is.NoErr(proc.Kill())
	<-proc.Exited()

	_, ok = proc.ExitCode()
	is.True(!ok) // signalled
	is.NoErr(proc.Kill())
}

func TestTailBuffer(t *testing.T) {
	is := is.New(t)
	b := &tailBuffer{limit: 4}

	_, _ = b.Write([]byte("abc"))
	_, _ = b.Write([]byte("def"))
	is.Equal(b.String(), "cdef")
}

func TestLocator(t *testing.T) {
	is := is.New(t)
	game := t.TempDir()
	java := writeScript(t, t.TempDir(), "java", fakeJava)

	testutil.WriteTree(t, game, map[string]string{
		"minecraft.jar": "client",
		"libraries/net/minecraft/launchwrapper/1.12/launchwrapper-1.12.jar": "",
		"assets/.keep": "",
	})
	is.NoErr(os.WriteFile(filepath.Join(game, "not-executable"), nil, 0644))

	profile := config.DefaultProfile()
	profile.RuntimeCandidates = []string{"not-executable", java}
	cfg := config.Default()
	cfg.GameDir = game

	l := NewLocator(zap.NewNop().Sugar(), cfg, profile, config.NewPaths(t.TempDir(), cfg))
	l.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	rt, err := l.FindRuntime()
	is.NoErr(err)
	is.Equal(rt, java)

	client, err := l.FindClient()
	is.NoErr(err)
	is.Equal(client, filepath.Join(game, "minecraft.jar"))

	missing := l.MissingLibraries()
	is.Equal(len(missing), len(profile.Libraries)-1)

	version, err := CheckRuntime(context.Background(), rt)
	is.NoErr(err)
	is.Equal(version, `openjdk version "1.8.0_392"`)

	report := l.Preflight(context.Background())
	is.True(report.OK())
	is.Equal(report.MissingDirs, []string{"versions", "mods"})

	profile.RuntimeCandidates = nil
	profile.ClientCandidates = []string{"versions/{version}/{version}.jar"}
	_, err = l.FindRuntime()
	is.True(errors.Is(err, ErrRuntimeNotFound))
	_, err = l.FindClient()
	is.True(errors.Is(err, ErrClientArchiveNotFound))
	is.True(!l.Preflight(context.Background()).OK())
}

func TestLauncher_FallsBackToReduced(t *testing.T) {
	is := is.New(t)
	data := t.TempDir()
	game := t.TempDir()
	java := writeScript(t, t.TempDir(), "java", fakeJava)

	testutil.WriteTree(t, game, map[string]string{
		"minecraft.jar":                      "client",
		"libraries/com/google/guava-21.0.jar": "",
	})

	cfg := config.Default()
	cfg.GameDir = game
	cfg.JavaPath = java
	paths := config.NewPaths(data, cfg)

	profile := config.DefaultProfile()
	profile.Windows = config.Windows{Primary: 300 * time.Millisecond, Reduced: 300 * time.Millisecond, Minimal: 300 * time.Millisecond}

	log := zap.NewNop().Sugar()
	orchestrator := NewOrchestrator(log, NewExecStarter(log), NewSubstringClassifier(), DefaultStrategies(profile.Windows), metrics.Noop())
	launcher := NewLauncher(log, cfg, profile, paths, NewLocator(log, cfg, profile, paths), classpath.NewResolver(log, paths.IndirectionArchive()), orchestrator)

	session, err := launcher.Launch(context.Background())
	is.NoErr(err)
	defer session.Kill()

	is.Equal(session.Plan.Strategy, StrategyReduced)
	is.Equal(len(session.Attempts), 1)
	is.Equal(*session.Attempts[0].Kind, KindEntryPointMissing)
	is.True(strings.Contains(session.Plan.CommandLine(), filepath.Join(game, "libraries", "com", "google", "guava-21.0.jar")))

	_, err = os.Stat(paths.NativesDir(profile.VersionID))
	is.NoErr(err)
}
