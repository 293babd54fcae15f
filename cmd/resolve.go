package cmd

import (
	"fmt"
	"io"

	"clipharvest/domain/site"

	"github.com/spf13/cobra"
)

var resolveVideoDir string

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>...",
	Short: "Show which site and video id a URL maps to",
	Long: `Resolve each URL against the built-in sites and print the identity and
the directory its video would be downloaded into.

Example:
  clipharvest resolve "https://www.bilibili.com/video/BV1GJ411x7h7?p=3"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveVideoDir, "video-dir", "", "Video root directory (default from config)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	videoDir := resolveVideoDir
	if videoDir == "" {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		videoDir = cfg.Paths.VideoDirectory
	}
	return RunResolveWithDependencies(site.DefaultRegistry(), videoDir, args, cmd.OutOrStdout())
}

// RunResolveWithDependencies resolves urls with the given registry (for testing).
// It fails when any url cannot be resolved.
func RunResolveWithDependencies(registry *site.Registry, videoDir string, urls []string, output io.Writer) error {
	unresolved := 0
	for _, raw := range urls {
		identity, ok := registry.Resolve(raw).Get()
		if !ok {
			unresolved++
			fmt.Fprintf(output, "%s\n  unsupported url (known sites: %v)\n", raw, registry.Sites())
			continue
		}
		fmt.Fprintf(output, "%s\n  video: %s\n  directory: %s\n", raw, identity.String(), identity.Dir(videoDir))
	}

	if unresolved > 0 {
		return fmt.Errorf("%d of %d urls could not be resolved", unresolved, len(urls))
	}
	return nil
}
