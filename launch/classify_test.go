package launch

import (
	"github.com/matryer/is"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSubstringClassifier(t *testing.T) {
	c := NewSubstringClassifier()

	tests := []struct {
		name   string
		stdout string
		stderr string
		kind   ErrorKind
		ok     bool
	}{
		{"entry point", "", "Error: Could not find or load main class net.minecraft.launchwrapper.Launch", KindEntryPointMissing, true},
		{"launchwrapper class", "java.lang.ClassNotFoundException: net.minecraft.launchwrapper.Launch", "", KindEntryPointMissing, true},
		{"class version", "", "java.lang.UnsupportedClassVersionError: foo has been compiled by a more recent version", KindRuntimeMismatch, true},
		{"dependency", "", "Exception in thread \"main\" java.lang.NoClassDefFoundError: com/google/common/base/Joiner", KindDependencyMissing, true},
		{"heap", "", "Error occurred during initialization of VM\nCould not reserve enough space for object heap", KindOutOfMemory, true},
		{"oom", "java.lang.OutOfMemoryError: Java heap space", "", KindOutOfMemory, true},
		{"access", "", "java.nio.file.AccessDeniedException: /game/logs/latest.log", KindPermissionDenied, true},
		{"unknown", "Crash report saved", "", KindUnknown, false},
		{"empty", "", "", KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			kind, ok := c.Classify(tt.stdout, tt.stderr)
			is.Equal(kind, tt.kind)
			is.Equal(ok, tt.ok)
		})
	}
}

func TestSubstringClassifier_FirstRuleWins(t *testing.T) {
	is := is.New(t)

	kind, ok := NewSubstringClassifier().Classify("", "java.lang.NoClassDefFoundError\nCould not find or load main class X")
	is.True(ok)
	is.Equal(kind, KindEntryPointMissing)
}

func TestErrorKind_String(t *testing.T) {
	is := is.New(t)
	is.Equal(KindRuntimeMismatch.String(), "RuntimeMismatch")
	is.Equal(ErrorKind(99).String(), "ErrorKind(99)")
	is.True(KindOutOfMemory.Suggestion() != KindUnknown.Suggestion())
}

func TestPreview(t *testing.T) {
	is := is.New(t)

	is.Equal(Preview("short", 10), "short")
	is.Equal(Preview("exactly", 7), "exactly")
	is.Equal(Preview("abcdef", 3), "abc...")
	is.Equal(Preview("anything", 0), "anything") // no limit

	// "é" is two bytes; a cut inside it backs up to the rune start
	out := Preview("café au lait", 4)
	is.Equal(out, "caf...")
	is.True(utf8.ValidString(out))

	jvm := strings.Repeat("中", 400) // three bytes each
	out = Preview(jvm, 1000)
	is.True(utf8.ValidString(out))
	is.Equal(out, strings.Repeat("中", 333)+"...")
}
