package launch

import (
	"strings"
)

// Classifier maps captured process output to a failure kind. ok is false when nothing matched.
type Classifier interface {
	Classify(stdout string, stderr string) (kind ErrorKind, ok bool)
}

type Rule struct {
	Kind     ErrorKind
	Patterns []string
}

// SubstringClassifier applies rules in order; the first rule with a matching pattern wins.
type SubstringClassifier struct {
	Rules []Rule
}

// DefaultRules recognize the usual JVM startup failures.
var DefaultRules = []Rule{
	{Kind: KindEntryPointMissing, Patterns: []string{
		"Could not find or load main class",
		"ClassNotFoundException: net.minecraft.launchwrapper",
	}},
	{Kind: KindRuntimeMismatch, Patterns: []string{
		"UnsupportedClassVersionError",
		"has been compiled by a more recent version",
	}},
	{Kind: KindDependencyMissing, Patterns: []string{
		"NoClassDefFoundError",
	}},
	{Kind: KindOutOfMemory, Patterns: []string{
		"OutOfMemoryError",
		"Could not reserve enough space",
	}},
	{Kind: KindPermissionDenied, Patterns: []string{
		"AccessDeniedException",
		"Permission denied",
	}},
}

func NewSubstringClassifier() *SubstringClassifier {
	return &SubstringClassifier{Rules: DefaultRules}
}

func (c *SubstringClassifier) Classify(stdout string, stderr string) (ErrorKind, bool) {
	for _, rule := range c.Rules {
		for _, p := range rule.Patterns {
			if strings.Contains(stderr, p) || strings.Contains(stdout, p) {
				return rule.Kind, true
			}
		}
	}
	return KindUnknown, false
}
