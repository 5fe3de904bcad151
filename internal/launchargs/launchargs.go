// Package launchargs interprets the launcher's command line before anything
// else runs. It decides whether the launch continues, with or without the
// single-instance lock, or ends right away.
package launchargs

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/thoreinstein/jitsi/internal/errors"
)

// Action is the outcome of handling an argument vector.
type Action int

const (
	// Continue proceeds with the launch and takes the instance lock.
	Continue Action = iota
	// ContinueLockDisabled proceeds without touching the instance lock.
	ContinueLockDisabled
	// Exit ends the launch; ErrorCode holds the status.
	Exit
	// Error ends the launch because the arguments were invalid.
	Error
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case ContinueLockDisabled:
		return "continue-lock-disabled"
	case Exit:
		return "exit"
	case Error:
		return "error"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Options are the parsed launch arguments.
type Options struct {
	Help      bool
	Version   bool
	Multiple  bool
	Debug     int
	LogFormat string
	LogFile   string
	// URIs are the positional arguments, in order.
	URIs []string
}

// Parse reads args (without the program name) into Options.
func Parse(args []string) (Options, error) {
	opts, err := parse(args)
	if err != nil {
		return opts, errors.Wrap(err, "parsing launch arguments")
	}
	return opts, nil
}

func parse(args []string) (Options, error) {
	var opts Options
	fs := newFlagSet(&opts)
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.URIs = fs.Args()
	return opts, nil
}

func newFlagSet(opts *Options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("jitsi", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	fs.BoolVarP(&opts.Help, "help", "h", false, "Show this help message")
	fs.BoolVarP(&opts.Version, "version", "v", false, "Print version information")
	fs.BoolVarP(&opts.Multiple, "multiple", "m", false, "Do not take the single-instance lock")
	fs.CountVarP(&opts.Debug, "debug", "d", "Increase log verbosity (repeatable)")
	fs.StringVar(&opts.LogFormat, "log-format", "", "Log format: text or json")
	fs.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file instead of the home log directory")
	return fs
}

// Usage returns the help text.
func Usage() string {
	var b strings.Builder
	b.WriteString("Usage: jitsi [options] [uri...]\n\n")
	b.WriteString("Starts Jitsi, or hands the URIs to an instance that is already running.\n\n")
	b.WriteString("Options:\n")
	b.WriteString(newFlagSet(&Options{}).FlagUsages())
	b.WriteString("\nCommands:\n")
	b.WriteString("  jitsi version | dirs | doctor | modules\n")
	return b.String()
}

// Handler turns an argument vector into an Action. It remembers the options
// and exit status of the last call.
type Handler struct {
	stdout  io.Writer
	stderr  io.Writer
	version string

	opts Options
	code int
}

// NewHandler creates a Handler printing help and version text to stdout
// and argument errors to stderr.
func NewHandler(stdout, stderr io.Writer, version string) *Handler {
	return &Handler{stdout: stdout, stderr: stderr, version: version}
}

// Handle parses args and reports what the launcher should do next.
func (h *Handler) Handle(args []string) Action {
	opts, err := parse(args)
	h.opts = opts
	if err != nil {
		h.code = errors.ExitUser
		fmt.Fprintf(h.stderr, "jitsi: %v\n\n%s", err, Usage())
		return Error
	}

	h.code = errors.ExitSuccess
	switch {
	case opts.Help:
		fmt.Fprint(h.stdout, Usage())
		return Exit
	case opts.Version:
		fmt.Fprintf(h.stdout, "Jitsi %s\n", h.version)
		return Exit
	case opts.Multiple:
		return ContinueLockDisabled
	default:
		return Continue
	}
}

// ErrorCode returns the exit status for the last Exit or Error action.
func (h *Handler) ErrorCode() int {
	return h.code
}

// Options returns the options parsed by the last Handle call.
func (h *Handler) Options() Options {
	return h.opts
}
