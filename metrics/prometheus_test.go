package metrics

import (
	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPrometheusCollector_LaunchAttempt(t *testing.T) {
	is := is.New(t)
	pc := NewPrometheusCollector()

	pc.LaunchAttempt("primary", "exited", 200*time.Millisecond)
	pc.LaunchAttempt("reduced", "running", 3*time.Second)

	expected := `
		# HELP craftlauncher_launch_attempts_total Launch attempts by strategy and outcome
		# TYPE craftlauncher_launch_attempts_total counter
		craftlauncher_launch_attempts_total{outcome="exited",strategy="primary"} 1
		craftlauncher_launch_attempts_total{outcome="running",strategy="reduced"} 1
	`
	is.NoErr(testutil.GatherAndCompare(pc.Gatherer(), strings.NewReader(expected), "craftlauncher_launch_attempts_total"))

	count, err := testutil.GatherAndCount(pc.Gatherer(), "craftlauncher_launch_attempt_duration_seconds")
	is.NoErr(err)
	is.Equal(count, 2)
}

func TestPrometheusCollector_WriteTextfile(t *testing.T) {
	is := is.New(t)
	pc := NewPrometheusCollector()

	pc.FilesRepaired("mods", 3)
	pc.UpdateResult("updated")
	pc.Downloaded(1024)

	path := filepath.Join(t.TempDir(), "launcher.prom")
	is.NoErr(pc.WriteTextfile(path))

	data, err := os.ReadFile(path)
	is.NoErr(err)
	is.True(strings.Contains(string(data), `craftlauncher_files_repaired_total{folder="mods"} 3`))
	is.True(strings.Contains(string(data), `craftlauncher_updates_total{result="updated"} 1`))
	is.True(strings.Contains(string(data), "craftlauncher_downloaded_bytes_total 1024"))
}

func TestNoop(t *testing.T) {
	c := Noop()
	c.LaunchAttempt("primary", "running", time.Second)
	c.FilesRepaired("mods", 1)
	c.UpdateResult("current")
	c.Downloaded(1)
}
