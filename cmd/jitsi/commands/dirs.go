package commands

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/paths"
)

var dirsJSON bool

func init() {
	dirsCmd.Flags().BoolVar(&dirsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(dirsCmd)
}

var dirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Show the resolved home directories",
	Long: `Resolve the home directory configuration the way a launch would and
print it. Pinned values come from the JITSI_* environment variables or
config.yaml; the rest follow the operating system's conventions and any
directories left by earlier releases.

Unlike a launch, this command does not create the log directory.`,
	Example: `  # Show the directories as YAML
  jitsi dirs

  # Output as JSON
  jitsi dirs --json

See Also: jitsi doctor`,
	Args: cobra.NoArgs,
	RunE: runDirs,
}

// dirsOutput is the printed form of the resolved directories.
type dirsOutput struct {
	OS              string `json:"os" yaml:"os"`
	ProfileLocation string `json:"profile_location" yaml:"profile_location"`
	CacheLocation   string `json:"cache_location" yaml:"cache_location"`
	LogLocation     string `json:"log_location" yaml:"log_location"`
	Name            string `json:"name" yaml:"name"`
	Home            string `json:"home" yaml:"home"`
	CacheDir        string `json:"cache_dir" yaml:"cache_dir"`
	LogDir          string `json:"log_dir" yaml:"log_dir"`
}

func runDirs(c *cobra.Command, _ []string) error {
	conf, err := loadedConfig()
	if err != nil {
		return err
	}
	return runDirsWithWriter(c.OutOrStdout(), diagnosticResolver(), conf.Pins(), dirsJSON)
}

// diagnosticResolver resolves like a launch but leaves the filesystem
// alone, so dirs and doctor report what is actually there.
func diagnosticResolver(opts ...paths.Option) *paths.Resolver {
	return paths.NewResolver(append(opts, paths.WithoutLogDir())...)
}

// runDirsWithWriter allows injecting the resolver and writer for testing.
func runDirsWithWriter(w io.Writer, r *paths.Resolver, pins paths.Pins, asJSON bool) error {
	d := r.Resolve(pins)
	out := dirsOutput{
		OS:              r.OS().String(),
		ProfileLocation: d.ProfileLocation,
		CacheLocation:   d.CacheLocation,
		LogLocation:     d.LogLocation,
		Name:            d.Name,
		Home:            d.Home(),
		CacheDir:        d.CacheDir(),
		LogDir:          d.LogDir(),
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding JSON")
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(err, "encoding YAML")
	}
	return errors.Wrap(enc.Close(), "encoding YAML")
}
