package dispatch

import (
	"fmt"
)

// OutcomeKind classifies how a spawn+wait cycle ended.
type OutcomeKind int

const (
	NormalExit    OutcomeKind = iota // Child exited; Code holds the status
	Signaled                         // Child was killed by a signal
	WaitFailed                       // Waiting for the child failed
	SpawnFailed                      // No process could be created
	ExecFailed                       // The process could not run the executable
	StatusUnknown                    // Wait returned a status of no known shape
)

func (k OutcomeKind) String() string {
	switch k {
	case NormalExit:
		return "exited"
	case Signaled:
		return "signaled"
	case WaitFailed:
		return "wait_failed"
	case SpawnFailed:
		return "spawn_failed"
	case ExecFailed:
		return "exec_failed"
	case StatusUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of one spawn+wait cycle.
type Outcome struct {
	Kind   OutcomeKind
	Path   string // The matched path passed to the child
	Code   int    // Exit code, for NormalExit
	Signal string // Signal description, for Signaled
	Err    error  // Cause, for WaitFailed, SpawnFailed and ExecFailed
}

// Report returns the line describing the outcome and whether it belongs on
// standard output. Everything except a zero exit code goes to standard error.
func (o Outcome) Report() (line string, stdout bool) {
	switch o.Kind {
	case NormalExit:
		return fmt.Sprintf("Process finished with exit code %d", o.Code), o.Code == 0
	case Signaled:
		return fmt.Sprintf("Process terminated with signal %s", o.Signal), false
	case WaitFailed:
		return fmt.Sprintf("Can't wait for the result of child: %s", describe(o.Err)), false
	case SpawnFailed:
		return fmt.Sprintf("Can't fork process: %s", describe(o.Err)), false
	case ExecFailed:
		return fmt.Sprintf("Errors while execution: %s", describe(o.Err)), false
	default:
		return "Something strange happened with process", false
	}
}
