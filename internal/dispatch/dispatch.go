// Package dispatch runs an executable once per matched path, strictly one
// child at a time, and reports how each child ended.
package dispatch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	// DefaultMaxMatches bounds the number of matches an execution run accepts.
	DefaultMaxMatches = 1024
	// DefaultMaxRetries bounds spawn attempts while the system is out of
	// resources.
	DefaultMaxRetries = 100
)

// AbortError ends the execution phase. Its message is the one-line
// diagnostic for standard error.
type AbortError struct {
	msg string
	Err error
}

func (e *AbortError) Error() string { return e.msg }

func (e *AbortError) Unwrap() error { return e.Err }

// ErrTooManyMatches is wrapped by the AbortError returned when Run gets more
// matches than MaxMatches.
var ErrTooManyMatches = errors.New("too many matches")

// Stats counts dispatch results.
type Stats struct {
	Cycles   int64                 // Spawn+wait cycles started
	Outcomes map[OutcomeKind]int64 // Cycles per outcome
}

func (s *Stats) record(kind OutcomeKind) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[OutcomeKind]int64)
	}
	s.Outcomes[kind]++
}

// Options configures a Dispatcher.
type Options struct {
	MaxMatches int // Defaults to DefaultMaxMatches
	MaxRetries int // Defaults to DefaultMaxRetries

	// Standard streams handed to every child. nil means os.Stdin, os.Stdout
	// and os.Stderr.
	Stdin, Stdout, Stderr *os.File

	// Destinations for outcome reports. nil means os.Stdout and os.Stderr.
	Out, Err io.Writer

	Logger *zap.Logger // Defaults to a no-op logger
	Stats  *Stats      // Filled in when non-nil
}

// Dispatcher runs one executable per path.
type Dispatcher struct {
	executable string
	opts       Options

	start func(argv []string) (int, error)
	wait  func(pid int) (unix.WaitStatus, error)
}

// New returns a Dispatcher for executable. The executable is used as given;
// it is not looked up in $PATH.
func New(executable string, opts Options) *Dispatcher {
	if opts.MaxMatches <= 0 {
		opts.MaxMatches = DefaultMaxMatches
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Stats == nil {
		opts.Stats = &Stats{}
	}

	d := &Dispatcher{executable: executable, opts: opts}
	d.start = d.startProcess
	d.wait = waitProcess
	return d
}

// Run dispatches every path in order. It stops early only when no process
// can be created; other failures are reported and the next path follows.
// More than MaxMatches paths aborts before anything runs.
func (d *Dispatcher) Run(paths []string) error {
	if len(paths) > d.opts.MaxMatches {
		d.opts.Logger.Debug("match limit exceeded",
			zap.Int("matches", len(paths)),
			zap.Int("limit", d.opts.MaxMatches),
		)
		return &AbortError{msg: "Too many arguments", Err: ErrTooManyMatches}
	}

	for _, path := range paths {
		if _, err := d.Dispatch(path); err != nil {
			return err
		}
	}
	return nil
}

// Dispatch runs one spawn+wait cycle for path and writes its report. A
// SpawnFailed outcome is returned as an *AbortError instead of being
// reported.
func (d *Dispatcher) Dispatch(path string) (Outcome, error) {
	d.opts.Stats.Cycles++

	argv := make([]string, 0, 2)
	argv = append(argv, d.executable, path)

	outcome := d.cycle(argv)
	outcome.Path = path
	d.opts.Stats.record(outcome.Kind)

	d.opts.Logger.Debug("child finished",
		zap.String("path", path),
		zap.Stringer("outcome", outcome.Kind),
		zap.Int("code", outcome.Code),
		zap.Error(outcome.Err),
	)

	line, toStdout := outcome.Report()
	if outcome.Kind == SpawnFailed {
		return outcome, &AbortError{msg: line, Err: outcome.Err}
	}

	w := d.opts.Err
	if toStdout {
		w = d.opts.Out
	}
	fmt.Fprintln(w, line)
	return outcome, nil
}

func (d *Dispatcher) cycle(argv []string) Outcome {
	pid, err := Retry(d.opts.MaxRetries, isTransient, func() (int, error) {
		return d.start(argv)
	})
	if err != nil {
		// Process creation and image replacement both surface here. Running
		// out of retries or memory means no child could exist; anything else
		// is the executable failing to load.
		if isTransient(err) || errors.Is(err, unix.ENOMEM) {
			return Outcome{Kind: SpawnFailed, Err: err}
		}
		return Outcome{Kind: ExecFailed, Err: err}
	}

	status, err := d.wait(pid)
	if err != nil {
		return Outcome{Kind: WaitFailed, Err: err}
	}
	return classify(status)
}

func classify(status unix.WaitStatus) Outcome {
	switch {
	case status.Exited():
		return Outcome{Kind: NormalExit, Code: status.ExitStatus()}
	case status.Signaled():
		return Outcome{Kind: Signaled, Signal: signalName(status.Signal())}
	default:
		return Outcome{Kind: StatusUnknown}
	}
}

// signalName returns the description strsignal(3) prints for sig, e.g.
// "Killed" for SIGKILL.
func signalName(sig unix.Signal) string {
	name := sig.String()
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// startProcess starts argv[0] with an empty environment and returns its pid.
// The child is reaped by waitProcess, never by os/exec.
func (d *Dispatcher) startProcess(argv []string) (int, error) {
	cmd := &exec.Cmd{
		Path:   argv[0],
		Args:   argv,
		Env:    []string{},
		Stdin:  d.opts.Stdin,
		Stdout: d.opts.Stdout,
		Stderr: d.opts.Stderr,
	}
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}

// waitProcess blocks until the child pid ends, retrying only on EINTR.
func waitProcess(pid int) (unix.WaitStatus, error) {
	var status unix.WaitStatus
	_, err := Retry(0, isInterrupted, func() (int, error) {
		return unix.Wait4(pid, &status, 0, nil)
	})
	return status, err
}

// describe returns the system's text for the errno inside err, or err itself.
func describe(err error) string {
	if err == nil {
		return "unknown error"
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno.Error()
	}
	return err.Error()
}
