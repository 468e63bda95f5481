package launch

import (
	"github.com/csnewman/craftlauncher/config"
	"time"
)

const (
	StrategyPrimary    = "primary"
	StrategyReduced    = "reduced"
	StrategyMinimal    = "minimal"
	StrategyDiagnostic = "diagnostic"
)

// Strategy is one step of the fallback sequence.
type Strategy struct {
	Name    string
	Window  time.Duration
	Capture bool
	// Build returns the plan for an attempt. A nil Build marks the diagnostic step, which starts no process.
	Build func(s Strategy, env *Environment) (*Plan, error)
}

func (s Strategy) Diagnostic() bool {
	return s.Build == nil
}

// DefaultStrategies is Primary, Reduced, Minimal then Diagnostic.
func DefaultStrategies(w config.Windows) []Strategy {
	return []Strategy{
		{Name: StrategyPrimary, Window: w.Primary, Capture: true, Build: buildPrimary},
		{Name: StrategyReduced, Window: w.Reduced, Capture: true, Build: buildReduced},
		{Name: StrategyMinimal, Window: w.Minimal, Capture: false, Build: buildMinimal},
		{Name: StrategyDiagnostic},
	}
}
