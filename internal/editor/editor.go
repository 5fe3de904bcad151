// Package editor launches the user's text editor on launcher files.
package editor

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/jitsi/internal/errors"
)

// ErrNoEditor is returned when no editor command could be determined.
var ErrNoEditor = errors.New("no editor configured")

// Editor runs an editor command attached to the given streams.
type Editor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Getenv looks up the editor variables. Defaults to os.Getenv.
	Getenv func(string) string
	// LookPath finds fallback binaries. Defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// New returns an Editor attached to the process's standard streams.
func New() *Editor {
	return &Editor{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
	}
}

// Open edits path and waits for the editor to exit.
func (e *Editor) Open(path string) error {
	argv := e.command()
	if len(argv) == 0 {
		return ErrNoEditor
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// command returns the editor argv. JITSI_EDITOR wins over EDITOR, then
// VISUAL, then nano and vi. Values may carry arguments ("code --wait").
func (e *Editor) command() []string {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range []string{"JITSI_EDITOR", "EDITOR", "VISUAL"} {
		if fields := strings.Fields(getenv(key)); len(fields) > 0 {
			return fields
		}
	}

	lookPath := e.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, name := range []string{"nano", "vi"} {
		if _, err := lookPath(name); err == nil {
			return []string{name}
		}
	}
	return nil
}
