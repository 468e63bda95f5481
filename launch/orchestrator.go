package launch

import (
	"context"
	"errors"
	"fmt"
	"github.com/csnewman/craftlauncher/metrics"
	"go.uber.org/zap"
	"io/fs"
	"sync"
	"time"
)

type State int

const (
	StateIdle State = iota
	StateAttempting
	StateSucceeded
	StateEscalating
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAttempting:
		return "Attempting"
	case StateSucceeded:
		return "Succeeded"
	case StateEscalating:
		return "Escalating"
	case StateExhausted:
		return "Exhausted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Monitor observes the orchestrator. Calls are made from the goroutine running Launch.
type Monitor interface {
	OnStateChange(state State, strategy string)

	OnAttemptExit(result AttemptResult)
}

type noopMonitor struct{}

func (noopMonitor) OnStateChange(State, string) {}
func (noopMonitor) OnAttemptExit(AttemptResult) {}

// AttemptResult records an attempt that did not survive its observation window.
type AttemptResult struct {
	Strategy    string
	CommandLine string
	ExitedEarly bool
	// ExitCode is nil when the process never started or was killed by a signal.
	ExitCode *int
	Stdout   string
	Stderr   string
	Kind     *ErrorKind
	Duration time.Duration
}

// Output joins stderr and stdout.
func (r *AttemptResult) Output() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stderr + "\n" + r.Stdout
	}
}

func (r *AttemptResult) failure() *LaunchFailed {
	return &LaunchFailed{
		Strategy: r.Strategy,
		Kind:     *r.Kind,
		ExitCode: r.ExitCode,
		Output:   r.Output(),
	}
}

// Session is a game process that survived its observation window.
type Session struct {
	Plan     *Plan
	Attempts []AttemptResult
	proc     Process
}

func (s *Session) Pid() int {
	return s.proc.Pid()
}

func (s *Session) Kill() error {
	return s.proc.Kill()
}

// Wait blocks until the game exits and returns its exit code.
func (s *Session) Wait(ctx context.Context) (int, error) {
	select {
	case <-s.proc.Exited():
		code, ok := s.proc.ExitCode()
		if !ok {
			return -1, errors.New("game terminated by signal")
		}
		return code, nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

// Orchestrator runs the strategy sequence until one attempt survives its observation window.
type Orchestrator struct {
	log        *zap.SugaredLogger
	starter    Starter
	classifier Classifier
	strategies []Strategy
	retryable  map[ErrorKind]bool
	metrics    metrics.Collector
	monitor    Monitor

	// PreviewLength bounds output shown in errors and the diagnosis.
	PreviewLength int
	// ReportDir receives a compressed report when every strategy failed. Empty disables it.
	ReportDir string

	mu    sync.Mutex
	state State
}

// DefaultRetryable are the kinds a simpler strategy is expected to work around.
var DefaultRetryable = []ErrorKind{KindEntryPointMissing, KindRuntimeMismatch}

func NewOrchestrator(log *zap.SugaredLogger, starter Starter, classifier Classifier, strategies []Strategy, collector metrics.Collector) *Orchestrator {
	o := &Orchestrator{
		log:           log,
		starter:       starter,
		classifier:    classifier,
		strategies:    strategies,
		retryable:     map[ErrorKind]bool{},
		metrics:       collector,
		monitor:       noopMonitor{},
		PreviewLength: 1000,
	}

	for _, k := range DefaultRetryable {
		o.retryable[k] = true
	}

	return o
}

func (o *Orchestrator) SetMonitor(m Monitor) {
	o.monitor = m
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State, strategy string) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()

	o.log.Debugw("Launch state", "state", s, "strategy", strategy)
	o.monitor.OnStateChange(s, strategy)
}

// Launch tries each strategy in order. It returns a Session for the first process still running
// after its window, or an *ExhaustedError. A cancelled ctx kills the current attempt.
func (o *Orchestrator) Launch(ctx context.Context, env *Environment) (*Session, error) {
	o.setState(StateIdle, "")

	var attempts []AttemptResult
	var nonRetryable []*LaunchFailed
	diagnose := false

	for i, s := range o.strategies {
		if s.Diagnostic() {
			diagnose = true
			break
		}

		o.setState(StateAttempting, s.Name)

		result, session, err := o.attempt(ctx, s, env)
		if err != nil {
			o.setState(StateIdle, "")
			return nil, err
		}

		if session != nil {
			session.Attempts = attempts
			o.setState(StateSucceeded, s.Name)
			return session, nil
		}

		attempts = append(attempts, *result)
		o.monitor.OnAttemptExit(*result)

		if !o.retryable[*result.Kind] {
			nonRetryable = append(nonRetryable, result.failure())
		}

		if i+1 < len(o.strategies) && !o.strategies[i+1].Diagnostic() {
			o.log.Warnw("Launch attempt failed, escalating", "strategy", s.Name, "kind", *result.Kind, "next", o.strategies[i+1].Name)
			o.setState(StateEscalating, o.strategies[i+1].Name)
		}
	}

	return nil, o.exhaust(attempts, nonRetryable, diagnose)
}

func (o *Orchestrator) attempt(ctx context.Context, s Strategy, env *Environment) (*AttemptResult, *Session, error) {
	start := time.Now()

	plan, err := s.Build(s, env)
	if err != nil {
		o.log.Warnw("Could not build launch plan", "strategy", s.Name, "error", err)
		o.metrics.LaunchAttempt(s.Name, "error", time.Since(start))
		return o.startFailure(s.Name, "", err, start), nil, nil
	}

	o.log.Infow("Launching", "strategy", s.Name, "command", Preview(plan.CommandLine(), 2000))

	proc, err := o.starter.Start(plan)
	if err != nil {
		o.log.Warnw("Could not start process", "strategy", s.Name, "error", err)
		o.metrics.LaunchAttempt(s.Name, "error", time.Since(start))
		return o.startFailure(s.Name, plan.CommandLine(), err, start), nil, nil
	}

	timer := time.NewTimer(plan.Window)
	defer timer.Stop()

	select {
	case <-timer.C:
		select {
		case <-proc.Exited():
		default:
			o.log.Infow("Game running", "strategy", s.Name, "pid", proc.Pid())
			o.metrics.LaunchAttempt(s.Name, "running", time.Since(start))
			return nil, &Session{Plan: plan, proc: proc}, nil
		}
	case <-proc.Exited():
	case <-ctx.Done():
		if err := proc.Kill(); err != nil {
			o.log.Warnw("Failed to kill process", "pid", proc.Pid(), "error", err)
		}
		return nil, nil, ctx.Err()
	}

	stdout, stderr := proc.Output()
	kind, _ := o.classifier.Classify(stdout, stderr)

	result := &AttemptResult{
		Strategy:    s.Name,
		CommandLine: plan.CommandLine(),
		ExitedEarly: true,
		Stdout:      stdout,
		Stderr:      stderr,
		Kind:        &kind,
		Duration:    time.Since(start),
	}
	if code, ok := proc.ExitCode(); ok {
		result.ExitCode = &code
	}

	o.log.Infow("Process exited during observation", "strategy", s.Name, "kind", kind, "output", Preview(result.Output(), o.PreviewLength))
	o.metrics.LaunchAttempt(s.Name, "exited", result.Duration)

	return result, nil, nil
}

func (o *Orchestrator) startFailure(strategy string, command string, err error, start time.Time) *AttemptResult {
	kind, ok := o.classifier.Classify("", err.Error())
	if !ok && errors.Is(err, fs.ErrPermission) {
		kind = KindPermissionDenied
	}

	return &AttemptResult{
		Strategy:    strategy,
		CommandLine: command,
		Stderr:      err.Error(),
		Kind:        &kind,
		Duration:    time.Since(start),
	}
}

func (o *Orchestrator) exhaust(attempts []AttemptResult, nonRetryable []*LaunchFailed, diagnose bool) error {
	e := &ExhaustedError{
		Kind:          KindUnknown,
		Attempts:      attempts,
		NonRetryable:  nonRetryable,
		previewLength: o.PreviewLength,
	}

	if len(attempts) > 0 {
		cause := &attempts[len(attempts)-1]
		for i := len(attempts) - 1; i >= 0; i-- {
			if *attempts[i].Kind != KindUnknown {
				cause = &attempts[i]
				break
			}
		}
		e.Kind = *cause.Kind
		e.Output = cause.Output()
	}

	if diagnose {
		o.setState(StateExhausted, StrategyDiagnostic)
		e.Diagnosis = Diagnose(attempts, o.PreviewLength)

		if o.ReportDir != "" {
			path, err := WriteReport(o.ReportDir, time.Now(), e)
			if err != nil {
				o.log.Warnw("Failed to write launch report", "error", err)
			} else {
				e.ReportPath = path
			}
		}
	} else {
		o.setState(StateExhausted, "")
	}

	o.log.Errorw("All launch strategies failed", "kind", e.Kind, "attempts", len(attempts), "report", e.ReportPath)

	return e
}
