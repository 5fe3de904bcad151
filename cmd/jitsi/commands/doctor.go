package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/jitsi/internal/config"
	"github.com/thoreinstein/jitsi/internal/doctor"
	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/modules"
	"github.com/thoreinstein/jitsi/internal/paths"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"fix issues that can be fixed automatically")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose launcher issues",
	Long: `Run diagnostic checks on the launcher configuration and home directory.

Validates config.yaml, checks that the resolved home directory is usable,
reports whether another instance holds the lock and verifies the built-in
module registry.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Args:    cobra.NoArgs,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	if doctorJSON {
		count++
	}
	if doctorQuiet {
		count++
	}
	if doctorVerbose {
		count++
	}

	if count > 1 {
		return errors.NewUserError(
			errors.New("flags --json, --quiet, and --verbose are mutually exclusive"),
			"Run 'jitsi doctor --help' for usage")
	}

	return nil
}

func runDoctor(c *cobra.Command, _ []string) error {
	// Config errors are reported as a check; the pins still come from
	// whatever viper could read.
	pins := config.Pins()
	if cfg != nil {
		pins = cfg.Pins()
	}
	dirs := diagnosticResolver().Resolve(pins)

	runner := newDoctorRunner(afero.NewOsFs(), dirs, modules.DefaultRegistry(), configFileUsed(), configLoadErr)
	return runDoctorWithWriter(c.OutOrStdout(), runner)
}

func newDoctorRunner(fs afero.Fs, dirs paths.Dirs, registry *modules.Registry, configFile string, configErr error) *doctor.Runner {
	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewConfigCheck(configFile, configErr))
	runner.AddCheck(doctor.NewHomeDirCheck(fs, dirs))
	runner.AddCheck(doctor.NewLogDirCheck(fs, dirs))
	runner.AddCheck(doctor.NewInstanceLockCheck(dirs.Home()))
	runner.AddCheck(doctor.NewModuleRegistryCheck(registry))
	return runner
}

// runDoctorWithWriter allows injecting a writer for testing.
func runDoctorWithWriter(w io.Writer, runner *doctor.Runner) error {
	report := runner.Run()

	if doctorFix {
		fixes := runner.Fix()
		if !doctorQuiet && !doctorJSON {
			outputFixes(w, fixes)
		}
		if len(fixes) > 0 {
			report = runner.Run()
		}
	}

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	// The report has already been printed; only the status is left.
	if code := report.ExitCode(); code != errors.ExitSuccess {
		return errors.NewExitError(nil, code)
	}
	return nil
}

func outputFixes(w io.Writer, fixes []doctor.FixResult) {
	for _, f := range fixes {
		icon := "✓"
		if !f.Fixed {
			icon = "✗"
		}
		fmt.Fprintf(w, "%s fix %s: %s\n", icon, f.Path, f.Description)
	}
	if len(fixes) > 0 {
		fmt.Fprintln(w)
	}
}

func outputDoctorReport(w io.Writer, report *doctor.Report) error {
	if doctorQuiet {
		return nil
	}

	if doctorJSON {
		return outputDoctorJSON(w, report)
	}

	outputDoctorText(w, report)
	return nil
}

func outputDoctorJSON(w io.Writer, report *doctor.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report) {
	// Passed and info results are only shown with --verbose.
	printed := false
	for _, group := range report.ByCategory() {
		for _, result := range group.Results {
			if !doctorVerbose && !result.NeedsAttention() {
				continue
			}
			printed = true
			fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), group.Category, result.Name, result.Message)
			if result.FixHint != "" && result.NeedsAttention() {
				fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
			}
		}
	}
	if printed || doctorVerbose {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors (%s)\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors,
		report.Duration.Round(time.Millisecond))
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}
