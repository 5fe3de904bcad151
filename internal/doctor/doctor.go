package doctor

import (
	"time"

	"github.com/thoreinstein/jitsi/internal/errors"
)

// Check is one diagnostic.
type Check interface {
	// Name is unique within a Runner, for example "log-directory".
	Name() string
	Category() Category
	Run() *CheckResult
}

// Runner runs checks in registration order.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner creates an empty Runner.
func NewRunner() *Runner {
	return &Runner{now: time.Now}
}

// AddCheck registers c.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes every check once. A check that returns no result is
// reported as an error.
func (r *Runner) Run() *Report {
	start := r.now()
	report := &Report{
		Timestamp: start.UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		result := check.Run()
		if result == nil {
			result = &CheckResult{
				Name:     check.Name(),
				Category: check.Category(),
				Status:   SeverityError,
				Message:  "check produced no result",
			}
		}
		report.Results = append(report.Results, result)
		report.Summary.add(result.Status)
	}

	report.Duration = r.now().Sub(start)
	return report
}

// Fix repairs what the last Run found fixable.
func (r *Runner) Fix() []FixResult {
	var results []FixResult
	for _, check := range r.checks {
		if f, ok := check.(Fixer); ok && f.CanFix() {
			results = append(results, f.Fix()...)
		}
	}
	return results
}

// Report is the outcome of one Runner.Run.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Duration  time.Duration  `json:"duration_ns"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// HasErrors reports whether any check failed.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings reports whether any check warned.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}

// Worst returns the highest severity in the report, SeverityPass when
// there are no results.
func (r *Report) Worst() Severity {
	worst := SeverityPass
	for _, res := range r.Results {
		if res.Status > worst {
			worst = res.Status
		}
	}
	return worst
}

// ExitCode maps the report onto the launcher's exit codes: errors are a
// system failure, warnings a user-fixable one.
func (r *Report) ExitCode() int {
	switch worst := r.Worst(); {
	case worst >= SeverityError:
		return errors.ExitSystem
	case worst == SeverityWarning:
		return errors.ExitUser
	}
	return errors.ExitSuccess
}

// CategoryResults are the results of one category, in run order.
type CategoryResults struct {
	Category Category
	Results  []*CheckResult
}

// ByCategory groups the results. Known categories come first in boot
// order, any others follow in the order they were first seen. Empty
// categories are omitted.
func (r *Report) ByCategory() []CategoryResults {
	index := make(map[Category]int)
	var groups []CategoryResults
	for _, c := range categoryOrder {
		index[c] = len(groups)
		groups = append(groups, CategoryResults{Category: c})
	}
	for _, res := range r.Results {
		i, ok := index[res.Category]
		if !ok {
			i = len(groups)
			index[res.Category] = i
			groups = append(groups, CategoryResults{Category: res.Category})
		}
		groups[i].Results = append(groups[i].Results, res)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Results) > 0 {
			out = append(out, g)
		}
	}
	return out
}
