package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tcnksm/go-latest"

	"github.com/thoreinstein/jitsi/cmd"
	"github.com/thoreinstein/jitsi/internal/errors"
)

// executeCommand runs the root command with args and returns its stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand_OutputFormat(t *testing.T) {
	t.Chdir(t.TempDir())

	output, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines of output, got %d: %q", len(lines), output)
	}
	if want := "jitsi version " + cmd.Version; lines[0] != want {
		t.Errorf("first line = %q, want %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[1], "  commit: ") {
		t.Errorf("second line = %q, want commit line", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  built:  ") {
		t.Errorf("third line = %q, want built line", lines[2])
	}
}

type offlineSource struct{}

func (offlineSource) Validate() error { return nil }

func (offlineSource) Fetch() (*latest.FetchResponse, error) {
	return nil, errors.New("network unreachable")
}

func TestCheckLatest_Offline(t *testing.T) {
	var buf bytes.Buffer
	if err := checkLatest(&buf, offlineSource{}, "1.0.0"); err != nil {
		t.Fatalf("checkLatest() error = %v, want nil", err)
	}
	if !strings.Contains(buf.String(), "could not check for updates") {
		t.Errorf("output = %q, want offline notice", buf.String())
	}
}

func TestSummary(t *testing.T) {
	oldVersion, oldCommit := cmd.Version, cmd.Commit
	t.Cleanup(func() { cmd.Version, cmd.Commit = oldVersion, oldCommit })

	cmd.Version, cmd.Commit = "1.2.3", "none"
	if got := cmd.Summary(); got != "1.2.3" {
		t.Errorf("Summary() = %q, want %q", got, "1.2.3")
	}

	cmd.Commit = "0123456789abcdef"
	if got := cmd.Summary(); got != "1.2.3 (0123456)" {
		t.Errorf("Summary() = %q, want %q", got, "1.2.3 (0123456)")
	}
}
