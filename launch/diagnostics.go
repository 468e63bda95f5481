package launch

import (
	"fmt"
	"github.com/pierrec/lz4/v4"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Diagnose explains every failed attempt in plain language.
func Diagnose(attempts []AttemptResult, previewLength int) string {
	var b strings.Builder

	if len(attempts) == 0 {
		b.WriteString("The game could not be started: no launch strategy was available.\n")
		return b.String()
	}

	b.WriteString("The game could not be started. Every launch strategy failed:\n")

	for i, a := range attempts {
		code := "did not start"
		if a.ExitCode != nil {
			code = fmt.Sprintf("exit code %d", *a.ExitCode)
		} else if a.ExitedEarly {
			code = "terminated"
		}

		fmt.Fprintf(&b, "\n%d. %s: %s (%s)\n", i+1, a.Strategy, *a.Kind, code)
		fmt.Fprintf(&b, "   %s\n", a.Kind.Suggestion())

		if out := strings.TrimSpace(Preview(a.Output(), previewLength)); out != "" {
			b.WriteString("   Output:\n")
			for _, line := range strings.Split(out, "\n") {
				b.WriteString("     " + line + "\n")
			}
		}
	}

	return b.String()
}

// ReportName is the file name used for a report written at t.
func ReportName(t time.Time) string {
	return "launch-" + t.Format("20060102-150405") + ".txt.lz4"
}

// WriteReport writes the diagnosis plus full command lines and output of every attempt, lz4 compressed.
func WriteReport(dir string, t time.Time, e *ExhaustedError) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, ReportName(t))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	zw := lz4.NewWriter(f)

	_, err = io.WriteString(zw, renderReport(t, e))
	if err == nil {
		err = zw.Close()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

func renderReport(t time.Time, e *ExhaustedError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Launch report %s\n\n", t.Format(time.RFC3339))
	b.WriteString(e.Diagnosis)

	for i, a := range e.Attempts {
		fmt.Fprintf(&b, "\n=== Attempt %d: %s (%s, %s) ===\n", i+1, a.Strategy, *a.Kind, a.Duration.Round(time.Millisecond))
		fmt.Fprintf(&b, "Command: %s\n", a.CommandLine)
		fmt.Fprintf(&b, "--- stderr ---\n%s\n", a.Stderr)
		fmt.Fprintf(&b, "--- stdout ---\n%s\n", a.Stdout)
	}

	return b.String()
}

// ReadReport decompresses a report written by WriteReport.
func ReadReport(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(lz4.NewReader(f))
	if err != nil {
		return "", err
	}

	return string(data), nil
}
