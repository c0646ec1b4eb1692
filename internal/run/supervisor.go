package run

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// State is the supervisor lifecycle. Terminal states are final; a new
// supervisor is required for another run.
type State string

const (
	StateIdle      State = "idle"
	StateStarting  State = "starting"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// defaultKillGrace bounds how long a cancelled process may ignore the
// graceful termination request before it is killed.
const defaultKillGrace = 5 * time.Second

// Events carries the caller-facing callbacks for one supervised run.
// Any callback may be nil. Log lines arrive in the exact order the
// process produced them; progress percentages never decrease.
type Events struct {
	OnLog       func(line string)
	OnProgress  func(percent int)
	OnStatus    func(message string)
	OnCompleted func(success bool, message string)
}

func (e Events) log(line string) {
	if e.OnLog != nil {
		e.OnLog(line)
	}
}

func (e Events) progress(percent int) {
	if e.OnProgress != nil {
		e.OnProgress(percent)
	}
}

func (e Events) status(message string) {
	if e.OnStatus != nil {
		e.OnStatus(message)
	}
}

func (e Events) completed(success bool, message string) {
	if e.OnCompleted != nil {
		e.OnCompleted(success, message)
	}
}

// Outcome summarizes a finished run.
type Outcome struct {
	State    State
	ExitCode int
	Message  string
}

// process is one live external invocation.
type process interface {
	Output() io.ReadCloser
	Wait() (int, error)
	Terminate() error
	Kill() error
}

// launcher abstracts process creation for testability.
type launcher interface {
	Launch(name string, args []string) (process, error)
}

// Option configures a supervisor.
type Option func(*Supervisor)

// WithLauncher injects a custom launcher (primarily for tests).
func WithLauncher(l launcher) Option {
	return func(s *Supervisor) {
		if l != nil {
			s.launcher = l
		}
	}
}

// WithLogger injects an operational logger.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Supervisor) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithKillGrace overrides the cancellation grace period.
func WithKillGrace(grace time.Duration) Option {
	return func(s *Supervisor) {
		if grace > 0 {
			s.killGrace = grace
		}
	}
}

// Supervisor runs one external tool invocation, streaming its merged
// output line-by-line and parsing progress markers. Instances are
// single-use and must not be shared across runs.
type Supervisor struct {
	launcher  launcher
	logger    hclog.Logger
	killGrace time.Duration

	mu        sync.Mutex
	state     State
	proc      process
	cancelled bool
	done      chan struct{}
}

// New constructs an idle supervisor.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{
		launcher:  execLauncher{},
		logger:    hclog.NewNullLogger(),
		killGrace: defaultKillGrace,
		state:     StateIdle,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start spawns the tool described by the argument vector and blocks
// until it exits, is cancelled, or fails to launch. Callers run it on
// a separate goroutine so the event loop never blocks on a chatty
// output stream. totalSeconds scales progress percentages; zero means
// unknown duration and suppresses them.
func (s *Supervisor) Start(ctx context.Context, args []string, totalSeconds float64, events Events) (Outcome, error) {
	if len(args) == 0 {
		return Outcome{State: StateFailed, Message: "empty command"}, fmt.Errorf("empty command")
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return Outcome{State: s.state}, ErrAlreadyStarted
	}
	s.state = StateStarting
	s.mu.Unlock()
	defer close(s.done)

	events.status("Starting ffmpeg process...")
	events.log("Command: " + strings.Join(args, " "))
	s.logger.Info("starting process", "program", args[0], "args", len(args)-1)

	proc, err := s.launcher.Launch(args[0], args[1:])
	if err != nil {
		spawnErr := &SpawnError{Program: args[0], Err: err}
		s.setState(StateFailed)
		events.status("Error: " + spawnErr.Error())
		events.completed(false, spawnErr.Error())
		return Outcome{State: StateFailed, ExitCode: -1, Message: spawnErr.Error()}, spawnErr
	}

	s.mu.Lock()
	s.proc = proc
	s.state = StateRunning
	alreadyCancelled := s.cancelled
	s.mu.Unlock()

	if alreadyCancelled {
		_ = proc.Terminate()
	}

	stop := s.watchContext(ctx)
	defer stop()

	out := proc.Output()
	tracker := newProgressTracker(totalSeconds)
	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if s.isCancelled() {
			break
		}

		line := scanner.Text()
		events.log(line)

		if elapsed, ok := ParseTimeMarker(line); ok {
			if percent, ok := tracker.Update(elapsed); ok {
				events.progress(percent)
			}
		}
	}
	_ = out.Close()

	exitCode, waitErr := proc.Wait()

	if s.isCancelled() {
		s.setState(StateCancelled)
		s.logger.Info("process cancelled", "program", args[0])
		events.status("Process stopped by user")
		events.completed(false, "Stopped by user")
		return Outcome{State: StateCancelled, ExitCode: exitCode, Message: "Stopped by user"}, nil
	}

	if exitCode == 0 && waitErr == nil {
		s.setState(StateCompleted)
		s.logger.Info("process completed", "program", args[0])
		events.progress(100)
		events.status("Task completed successfully!")
		events.completed(true, "Success")
		return Outcome{State: StateCompleted, Message: "Success"}, nil
	}

	message := fmt.Sprintf("ffmpeg exited with code %d", exitCode)
	if exitCode < 0 && waitErr != nil {
		message = waitErr.Error()
	}
	s.setState(StateFailed)
	s.logger.Error("process failed", "program", args[0], "exit_code", exitCode)
	events.status("Task failed!")
	events.completed(false, message)
	return Outcome{State: StateFailed, ExitCode: exitCode, Message: message}, nil
}

// Cancel asks the running process to terminate gracefully and kills it
// after the grace period. Cancellation is cooperative: the read loop
// observes the flag on its next iteration, so a few more log lines may
// still arrive.
func (s *Supervisor) Cancel() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	proc := s.proc
	done := s.done
	grace := s.killGrace
	s.mu.Unlock()

	if proc == nil {
		return
	}

	_ = proc.Terminate()
	go func() {
		select {
		case <-done:
		case <-time.After(grace):
			_ = proc.Kill()
		}
	}()
}

// watchContext cancels the run when the context is done.
func (s *Supervisor) watchContext(ctx context.Context) func() {
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			s.Cancel()
		case <-stopped:
		}
	}()
	return func() { close(stopped) }
}

func (s *Supervisor) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Supervisor) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// execLauncher launches real processes with merged stdout/stderr.
type execLauncher struct{}

// Launch starts the program and returns a handle whose Output yields
// both streams in write order.
func (execLauncher) Launch(name string, args []string) (process, error) {
	cmd := exec.Command(name, args...)
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, err
	}

	p := &execProcess{cmd: cmd, out: pr, done: make(chan struct{})}
	go func() {
		p.waitErr = cmd.Wait()
		_ = pw.Close()
		close(p.done)
	}()
	return p, nil
}

// execProcess wraps one exec.Cmd invocation.
type execProcess struct {
	cmd     *exec.Cmd
	out     *io.PipeReader
	done    chan struct{}
	waitErr error
}

func (p *execProcess) Output() io.ReadCloser {
	return p.out
}

// Wait blocks until the process exits and returns its exit code.
func (p *execProcess) Wait() (int, error) {
	<-p.done
	if p.waitErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(p.waitErr, &exitErr) {
		return exitErr.ExitCode(), p.waitErr
	}
	return -1, p.waitErr
}

// Terminate requests a graceful stop, falling back to Kill on
// platforms where interrupt delivery is unsupported.
func (p *execProcess) Terminate() error {
	if p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Signal(os.Interrupt); err != nil {
		return p.cmd.Process.Kill()
	}
	return nil
}

func (p *execProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}
