package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-latest"

	"github.com/thoreinstein/jitsi/cmd"
)

var versionCheck bool

// releaseSource is where "version --check" looks for the latest tag.
var releaseSource latest.Source = &latest.GithubTag{
	Owner:      "thoreinstein",
	Repository: "jitsi",
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false,
		"check whether a newer release is available")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of jitsi.`,
	RunE: func(c *cobra.Command, _ []string) error {
		w := c.OutOrStdout()
		printVersion(w)
		if versionCheck {
			return checkLatest(w, releaseSource, cmd.Version)
		}
		return nil
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "jitsi version %s\n", cmd.Version)
	fmt.Fprintf(w, "  commit: %s\n", cmd.Commit)
	fmt.Fprintf(w, "  built:  %s\n", cmd.Date)
}

func checkLatest(w io.Writer, src latest.Source, current string) error {
	res, err := latest.Check(src, current)
	if err != nil {
		// Development builds have no comparable version.
		fmt.Fprintf(w, "could not check for updates: %v\n", err)
		return nil
	}
	if res.Outdated {
		fmt.Fprintf(w, "A new version is available: %s (you have %s)\n", res.Current, current)
		return nil
	}
	fmt.Fprintf(w, "You are using the latest version: %s\n", current)
	return nil
}
