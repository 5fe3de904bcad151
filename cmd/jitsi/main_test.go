package main

import (
	"bytes"
	"testing"

	"github.com/thoreinstein/jitsi/internal/errors"
)

func TestReport(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:     "nil",
			err:      nil,
			wantCode: 0,
		},
		{
			name:       "already running goes to stdout",
			err:        errors.NewExitErrorWithSuggestion(errors.New("running"), errors.ExitSuccess, "use --multiple"),
			wantCode:   0,
			wantStdout: "running\nuse --multiple\n",
		},
		{
			name:       "lock failure",
			err:        errors.NewExitErrorWithSuggestion(errors.New("locked"), errors.ExitLock, "try again"),
			wantCode:   3,
			wantStderr: "locked\ntry again\n",
		},
		{
			name:     "bare exit code",
			err:      errors.NewExitError(nil, errors.ExitUser),
			wantCode: 1,
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantCode:   1,
			wantStderr: "Error: boom\n",
		},
		{
			name:       "wrapped exit error",
			err:        errors.Wrap(errors.NewSystemError(errors.New("disk"), ""), "executing root command"),
			wantCode:   2,
			wantStderr: "disk\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if got := report(tt.err, &stdout, &stderr); got != tt.wantCode {
				t.Errorf("report() = %d, want %d", got, tt.wantCode)
			}
			if stdout.String() != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if stderr.String() != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
