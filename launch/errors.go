package launch

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrRuntimeNotFound       = errors.New("java runtime not found")
	ErrClientArchiveNotFound = errors.New("game client archive not found")
)

type ErrorKind int

const (
	// KindUnknown exited early without a recognized signature
	KindUnknown ErrorKind = iota
	// KindEntryPointMissing the main class could not be loaded
	KindEntryPointMissing
	// KindRuntimeMismatch classes were compiled for a different runtime version
	KindRuntimeMismatch
	// KindDependencyMissing a class needed at runtime is absent from the classpath
	KindDependencyMissing
	// KindOutOfMemory the heap could not be reserved or was exhausted
	KindOutOfMemory
	// KindPermissionDenied the runtime could not access a file
	KindPermissionDenied
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnknown:
		return "Unknown"
	case KindEntryPointMissing:
		return "EntryPointMissing"
	case KindRuntimeMismatch:
		return "RuntimeMismatch"
	case KindDependencyMissing:
		return "DependencyMissing"
	case KindOutOfMemory:
		return "OutOfMemory"
	case KindPermissionDenied:
		return "PermissionDenied"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Suggestion is a short hint shown to the player for this kind of failure.
func (k ErrorKind) Suggestion() string {
	switch k {
	case KindEntryPointMissing:
		return "The game client or mod loader is incomplete. Run a repair or reinstall the client."
	case KindRuntimeMismatch:
		return "The installed Java version is not compatible. Install Java 8 or set JavaPath."
	case KindDependencyMissing:
		return "A library is missing. Run a repair to restore the libraries folder."
	case KindOutOfMemory:
		return "Not enough memory. Lower MaxMemory or close other programs."
	case KindPermissionDenied:
		return "Access denied. Check folder permissions or run the launcher from a writable location."
	default:
		return "Check the launcher log for details."
	}
}

// LaunchFailed describes a single failed attempt.
type LaunchFailed struct {
	Strategy string
	Kind     ErrorKind
	ExitCode *int
	Output   string
}

func (e *LaunchFailed) Error() string {
	code := "none"
	if e.ExitCode != nil {
		code = fmt.Sprint(*e.ExitCode)
	}
	return fmt.Sprintf("%s launch failed (%s, exit code %s)", e.Strategy, e.Kind, code)
}

// ExhaustedError is returned once every strategy failed.
type ExhaustedError struct {
	// Kind and Output come from the most informative attempt: the last one with a recognized
	// signature, else the final attempt.
	Kind   ErrorKind
	Output string

	Attempts []AttemptResult
	// NonRetryable lists attempts whose failure was outside the retryable set.
	NonRetryable []*LaunchFailed

	Diagnosis  string
	ReportPath string

	previewLength int
}

func (e *ExhaustedError) Error() string {
	msg := fmt.Sprintf("all launch strategies failed: %s", e.Kind)
	if out := strings.TrimSpace(Preview(e.Output, e.previewLength)); out != "" {
		msg += ": " + out
	}
	return msg
}

// Preview truncates s to at most n bytes without splitting a rune, marking the cut.
func Preview(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}

	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
