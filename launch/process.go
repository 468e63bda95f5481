package launch

import (
	"errors"
	"go.uber.org/zap"
	"os"
	"os/exec"
	"sync"
)

// Process is a started game process.
type Process interface {
	Pid() int
	// Exited is closed once the process has exited and its output is complete.
	Exited() <-chan struct{}
	// ExitCode is valid after Exited is closed. ok is false when the process was killed by a signal.
	ExitCode() (code int, ok bool)
	Output() (stdout string, stderr string)
	Kill() error
}

// Starter starts the process described by a plan.
type Starter interface {
	Start(plan *Plan) (Process, error)
}

// ExecStarter runs plans with os/exec.
type ExecStarter struct {
	log *zap.SugaredLogger
}

func NewExecStarter(log *zap.SugaredLogger) *ExecStarter {
	return &ExecStarter{log: log}
}

const captureLimit = 256 * 1024

func (s *ExecStarter) Start(plan *Plan) (Process, error) {
	cmd := exec.Command(plan.Executable, plan.Args()...)
	cmd.Dir = plan.WorkDir

	p := &execProcess{
		cmd:  cmd,
		done: make(chan struct{}),
	}

	if plan.Capture {
		p.stdout = &tailBuffer{limit: captureLimit}
		p.stderr = &tailBuffer{limit: captureLimit}
		cmd.Stdout = p.stdout
		cmd.Stderr = p.stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	s.log.Infow("Process started", "strategy", plan.Strategy, "pid", cmd.Process.Pid)

	go p.watchExit(s.log)

	return p, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdout *tailBuffer
	stderr *tailBuffer

	done     chan struct{}
	exitCode int
	exitOk   bool
}

func (p *execProcess) watchExit(log *zap.SugaredLogger) {
	err := p.cmd.Wait()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		p.exitCode, p.exitOk = 0, true
	case errors.As(err, &exitErr):
		p.exitCode = exitErr.ExitCode()
		p.exitOk = p.exitCode >= 0
	}

	log.Infow("Process exited", "pid", p.cmd.Process.Pid, "code", p.exitCode, "error", err)
	close(p.done)
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Exited() <-chan struct{} {
	return p.done
}

func (p *execProcess) ExitCode() (int, bool) {
	select {
	case <-p.done:
		return p.exitCode, p.exitOk
	default:
		return 0, false
	}
}

func (p *execProcess) Output() (string, string) {
	if p.stdout == nil {
		return "", ""
	}
	return p.stdout.String(), p.stderr.String()
}

func (p *execProcess) Kill() error {
	err := p.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
