// Package launch decides, before any module is loaded, whether this process
// should boot at all.
package launch

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/instance"
	"github.com/thoreinstein/jitsi/internal/launchargs"
	"github.com/thoreinstein/jitsi/internal/logging"
)

// Messages shown when the launch stops at the lock.
const (
	MsgLockFailed      = "Failed to lock Jitsi's configuration directory."
	HintLockFailed     = "Try launching with the --multiple param."
	MsgAlreadyRunning  = "Jitsi is already running and will handle your parameters (if any)."
	HintAlreadyRunning = "Launch with the --multiple param to override this behaviour."
)

// ArgHandler interprets the launch arguments.
type ArgHandler interface {
	Handle(args []string) launchargs.Action
	ErrorCode() int
}

// Locker takes the single-instance lock or forwards args to its owner.
type Locker interface {
	TryLock(ctx context.Context, args []string) instance.Outcome
}

// Gate runs the argument handler and the instance lock in order.
type Gate struct {
	args   ArgHandler
	lock   Locker
	logger *slog.Logger
}

// NewGate creates a Gate. A nil logger discards output.
func NewGate(args ArgHandler, lock Locker, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Gate{args: args, lock: lock, logger: logger}
}

// Check returns nil when the launch should continue. Otherwise it returns
// an *errors.ExitError carrying the exit status; a zero status means the
// launch ended normally, for example because a running instance accepted
// the arguments.
func (g *Gate) Check(ctx context.Context, args []string) error {
	action := g.args.Handle(args)
	g.logger.Debug("launch arguments handled", "action", action)

	switch action {
	case launchargs.Exit, launchargs.Error:
		return errors.NewExitError(nil, g.args.ErrorCode())
	case launchargs.ContinueLockDisabled:
		return nil
	}

	outcome := g.lock.TryLock(ctx, args)
	g.logger.Debug("instance lock", "outcome", outcome)

	switch outcome {
	case instance.Success:
		return nil
	case instance.AlreadyStarted:
		return errors.NewExitErrorWithSuggestion(
			errors.Mark(errors.New(MsgAlreadyRunning), errors.ErrAlreadyRunning),
			errors.ExitSuccess, HintAlreadyRunning)
	default:
		if c, ok := g.lock.(interface{ Err() error }); ok && c.Err() != nil {
			g.logger.Warn("could not lock home directory", "error", c.Err())
		}
		return errors.NewExitErrorWithSuggestion(
			errors.Mark(errors.New(MsgLockFailed), errors.ErrLockFailed),
			errors.ExitLock, HintLockFailed)
	}
}
