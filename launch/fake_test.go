package launch

import (
	"github.com/csnewman/craftlauncher/config"
	"github.com/csnewman/craftlauncher/metrics"
	"go.uber.org/zap"
	"sync"
	"testing"
	"time"
)

type fakeProcess struct {
	once   sync.Once
	done   chan struct{}
	code   int
	stdout string
	stderr string
	killed bool
}

func exitedProcess(code int, stdout string, stderr string) *fakeProcess {
	p := &fakeProcess{done: make(chan struct{}), code: code, stdout: stdout, stderr: stderr}
	close(p.done)
	return p
}

func runningProcess() *fakeProcess {
	return &fakeProcess{done: make(chan struct{})}
}

func (p *fakeProcess) Pid() int                 { return 4242 }
func (p *fakeProcess) Exited() <-chan struct{}  { return p.done }
func (p *fakeProcess) Output() (string, string) { return p.stdout, p.stderr }

func (p *fakeProcess) ExitCode() (int, bool) {
	select {
	case <-p.done:
		return p.code, !p.killed
	default:
		return 0, false
	}
}

func (p *fakeProcess) Kill() error {
	p.once.Do(func() {
		p.killed = true
		close(p.done)
	})
	return nil
}

// fakeStarter hands out the prepared processes in order and records every plan.
type fakeStarter struct {
	mu      sync.Mutex
	plans   []*Plan
	results []func() (Process, error)
}

func (s *fakeStarter) Start(plan *Plan) (Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := len(s.plans)
	s.plans = append(s.plans, plan)
	if i >= len(s.results) {
		return exitedProcess(1, "", ""), nil
	}
	return s.results[i]()
}

func (s *fakeStarter) strategies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, p := range s.plans {
		out = append(out, p.Strategy)
	}
	return out
}

type recordingMonitor struct {
	states []State
	exits  []AttemptResult
}

func (m *recordingMonitor) OnStateChange(state State, strategy string) {
	m.states = append(m.states, state)
}

func (m *recordingMonitor) OnAttemptExit(result AttemptResult) {
	m.exits = append(m.exits, result)
}

func testWindows() config.Windows {
	return config.Windows{Primary: 40 * time.Millisecond, Reduced: 30 * time.Millisecond, Minimal: 20 * time.Millisecond}
}

func testEnvironment(t *testing.T) *Environment {
	cfg := config.Default()
	return &Environment{
		Config:    cfg,
		Profile:   config.DefaultProfile(),
		Paths:     config.NewPaths(t.TempDir(), cfg),
		Runtime:   "/usr/bin/java",
		Client:    "/game/minecraft.jar",
		Classpath: []string{"/game/libraries/a.jar", "/game/minecraft.jar"},
	}
}

func newTestOrchestrator(starter Starter) *Orchestrator {
	return NewOrchestrator(zap.NewNop().Sugar(), starter, NewSubstringClassifier(), DefaultStrategies(testWindows()), metrics.Noop())
}
