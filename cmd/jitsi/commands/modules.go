package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/logging"
	"github.com/thoreinstein/jitsi/internal/modules"
)

var modulesListJSON bool

// pickModule selects a descriptor interactively. Replaced in tests.
var pickModule = pickModuleFuzzy

func init() {
	modulesListCmd.Flags().BoolVar(&modulesListJSON, "json", false, "Output in JSON format")
	modulesCmd.AddCommand(modulesListCmd)
	modulesCmd.AddCommand(modulesShowCmd)
	rootCmd.AddCommand(modulesCmd)
}

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Inspect the built-in modules",
	Long: `Inspect the modules compiled into the launcher.

Without a subcommand, lists the modules.`,
	RunE: runModulesList,
}

var modulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in modules",
	Long: `List the modules installed on every launch, in start order.

Examples:
  # List modules
  jitsi modules list

  # Output as JSON
  jitsi modules list --json`,
	Args: cobra.NoArgs,
	RunE: runModulesList,
}

var modulesShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show details for a module",
	Long: `Show details for a module. Without a name, an interactive picker is
opened when the output is a terminal.`,
	Example: `  # Show the uri module
  jitsi modules show uri

  # Pick a module interactively
  jitsi modules show`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		w := c.OutOrStdout()
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return runModulesShow(w, modules.DefaultRegistry(), name, logging.IsTTY(w))
	},
}

// moduleInfoJSON represents a module in JSON output format.
type moduleInfoJSON struct {
	Name        string `json:"name"`
	Origin      string `json:"origin"`
	Description string `json:"description"`
}

func runModulesList(c *cobra.Command, _ []string) error {
	return runModulesListWithWriter(c.OutOrStdout(), modules.DefaultRegistry(), modulesListJSON)
}

// runModulesListWithWriter allows injecting a writer for testing.
func runModulesListWithWriter(w io.Writer, registry *modules.Registry, asJSON bool) error {
	descriptors := registry.Concrete()

	if asJSON {
		infos := make([]moduleInfoJSON, len(descriptors))
		for i, d := range descriptors {
			infos[i] = moduleInfoJSON{Name: d.Name, Origin: d.Origin, Description: d.Description}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(infos), "encoding JSON")
	}

	if len(descriptors) == 0 {
		fmt.Fprintln(w, "No modules registered")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tORIGIN\tDESCRIPTION")
	for _, d := range descriptors {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.Origin, d.Description)
	}
	return errors.Wrap(tw.Flush(), "writing module list")
}

func runModulesShow(w io.Writer, registry *modules.Registry, name string, interactive bool) error {
	if name == "" {
		if !interactive {
			return errors.NewUserError(errors.New("module name required"), "Run: jitsi modules list")
		}
		d, ok, err := pickModule(registry.Concrete())
		if err != nil || !ok {
			return err
		}
		printModule(w, d)
		return nil
	}

	d, ok := registry.Lookup(name)
	if !ok {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "module %q", name),
			"Run: jitsi modules list")
	}
	printModule(w, d)
	return nil
}

func printModule(w io.Writer, d modules.Descriptor) {
	fmt.Fprintf(w, "Name:        %s\n", d.Name)
	fmt.Fprintf(w, "Origin:      %s\n", d.Origin)
	fmt.Fprintf(w, "Start level: %d\n", modules.BundleStartLevel)
	if d.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", d.Description)
	}
}

// pickModuleFuzzy opens a fuzzy finder over descriptors. Aborting the
// picker is not an error.
func pickModuleFuzzy(descriptors []modules.Descriptor) (modules.Descriptor, bool, error) {
	if len(descriptors) == 0 {
		return modules.Descriptor{}, false, nil
	}

	idx, err := fuzzyfinder.Find(
		descriptors,
		func(i int) string {
			return fmt.Sprintf("%s (%s)", descriptors[i].Name, descriptors[i].Origin)
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			d := descriptors[i]
			return fmt.Sprintf("Name: %s\nOrigin: %s\n\n%s", d.Name, d.Origin, d.Description)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return modules.Descriptor{}, false, nil
		}
		return modules.Descriptor{}, false, errors.Wrap(err, "interactive selection failed")
	}
	return descriptors[idx], true, nil
}
