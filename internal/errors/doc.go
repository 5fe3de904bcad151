// Package errors provides error handling conventions for the jitsi launcher.
//
// Construction and wrapping are delegated to github.com/cockroachdb/errors,
// re-exported here so packages import a single errors package. On top of that
// the package defines sentinel errors for boot failures, an ExitError type
// that carries a process exit code, and the exit code constants.
//
// # Exit Codes
//
//   - ExitSuccess (0): normal completion, or another instance took the arguments
//   - ExitUser (1): invalid arguments or configuration
//   - ExitSystem (2): I/O, permission or module installation failures
//   - ExitLock (3): the home directory lock could not be acquired
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. main unwraps it with [errors.As] and exits with its code:
//
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Fprintln(os.Stderr, exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
