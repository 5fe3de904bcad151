// Package doctor diagnoses a launcher installation: its config file, the
// resolved home directory, the instance lock and the module registry.
package doctor

import "github.com/thoreinstein/jitsi/internal/errors"

// Severity ranks a check result. Higher is worse.
type Severity int

const (
	SeverityPass Severity = iota
	// SeverityInfo is worth reporting but needs no action.
	SeverityInfo
	// SeverityWarning means the launcher works but something is off,
	// usually something --fix can repair.
	SeverityWarning
	// SeverityError means a launch would fail.
	SeverityError
)

var severityNames = [...]string{
	SeverityPass:    "pass",
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalText encodes the severity by name, so JSON reports read
// "status": "warning".
func (s Severity) MarshalText() ([]byte, error) {
	if s.String() == "unknown" {
		return nil, errors.Newf("unknown severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	for i, name := range severityNames {
		if name == string(text) {
			*s = Severity(i)
			return nil
		}
	}
	return errors.Newf("unknown severity %q", text)
}

// Category groups checks by the part of the installation they inspect.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryFilesystem Category = "filesystem"
	CategoryRuntime    Category = "runtime"
	CategoryModules    Category = "modules"
)

// categoryOrder is the order reports list categories in. It follows the
// boot sequence.
var categoryOrder = []Category{CategoryConfig, CategoryFilesystem, CategoryRuntime, CategoryModules}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Status   Severity `json:"status"`
	Message  string   `json:"message"`

	// Details depend on the check, for example the path it inspected.
	Details map[string]any `json:"details,omitempty"`

	// Fixable is set when "jitsi doctor --fix" can repair the problem.
	Fixable bool   `json:"fixable,omitempty"`
	FixHint string `json:"fix_hint,omitempty"`
}

// NeedsAttention reports whether the result is a warning or an error.
func (r *CheckResult) NeedsAttention() bool {
	return r.Status >= SeverityWarning
}

// Summary counts results per severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

func (s *Summary) add(sev Severity) {
	switch sev {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	default:
		// Anything unrecognised counts against the installation.
		s.Errors++
	}
}
