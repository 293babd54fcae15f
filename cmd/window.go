package cmd

import (
	"fmt"
	"io"

	"clipharvest/domain/clip"

	"github.com/spf13/cobra"
)

var windowCmd = &cobra.Command{
	Use:   "window <range>...",
	Short: "Show how a time range will be cut",
	Long: `Parse each start~end range the way the pipeline does and print the
normalised window passed to ffmpeg. An end at or before the start is moved
to start plus the configured minimum duration.

Example:
  clipharvest window "1:05~1:20.5" "00:00:05~00:00:03"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWindow,
}

func init() {
	rootCmd.AddCommand(windowCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	parser, err := clip.NewParser(cfg.Timestamps.Layouts...)
	if err != nil {
		return err
	}

	resolver := clip.NewWindowResolver(parser, cfg.Timestamps.Delimiter, cfg.Timestamps.MinDuration)
	return RunWindowWithDependencies(resolver, args, cmd.OutOrStdout())
}

// RunWindowWithDependencies resolves range expressions (for testing).
// It fails when any expression is malformed or unparsable.
func RunWindowWithDependencies(resolver *clip.WindowResolver, exprs []string, output io.Writer) error {
	invalid := 0
	for _, expr := range exprs {
		resolved, err := resolver.Resolve(expr)
		if err != nil {
			invalid++
			fmt.Fprintf(output, "%s\n  %v\n", expr, err)
			continue
		}

		window, ok := resolved.Get()
		if !ok {
			invalid++
			fmt.Fprintf(output, "%s\n  unparsable timestamp\n", expr)
			continue
		}
		fmt.Fprintf(output, "%s\n  start: %s\n  end: %s\n  duration: %s\n", expr, window.Start, window.End, window.Duration())
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d ranges are invalid", invalid, len(exprs))
	}
	return nil
}
