package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"clipharvest/domain/site"
	"clipharvest/infrastructure/config"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput io.Writer = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the configuration",
	Long: `Show the effective configuration and manage the restricted sites that
--skip leaves out.

Examples:
  clipharvest config show
  clipharvest config list sites
  clipharvest config add site bilibili
  clipharvest config remove site youtube`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	// Add subcommands
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configRemoveCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		return RunConfigShowWithDependencies(cfg, DefaultOutput)
	},
}

// RunConfigShowWithDependencies writes cfg as YAML
func RunConfigShowWithDependencies(cfg *config.Config, out io.Writer) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// --- ADD command ---

var configAddCmd = &cobra.Command{
	Use:   "add site <name>",
	Short: "Mark a site as restricted",
	Long: `Add a site to the restricted list. Entries from restricted sites are
left out when the pipeline runs with --skip.

Example:
  clipharvest config add site bilibili`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigAdd,
}

func runConfigAdd(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	return RunConfigAddWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
}

// RunConfigAddWithDependencies runs the add command with injected dependencies
func RunConfigAddWithDependencies(cfg *config.Config, configPath, entityType, name string, out io.Writer) error {
	if entityType != "site" {
		return fmt.Errorf("unknown entity type %q. Use site", entityType)
	}

	name = strings.ToLower(strings.TrimSpace(name))
	known := site.DefaultRegistry().Sites()
	if !lo.Contains(known, name) {
		return fmt.Errorf("unknown site %q. Known sites: %v", name, known)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.AddRestrictedSite(name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added restricted site %q\n", name)
	return nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list sites",
	Short: "List known sites and whether they are restricted",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigList,
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	return RunConfigListWithDependencies(cfg, cfgFile, args[0], DefaultOutput)
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath, entityType string, out io.Writer) error {
	if entityType != "sites" {
		return fmt.Errorf("unknown entity type %q. Use sites", entityType)
	}

	mgr := config.NewConfigManager(cfg, configPath)
	restricted := mgr.ListRestrictedSites()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SITE\tRESTRICTED")
	for _, name := range lo.Union(site.DefaultRegistry().Sites(), restricted) {
		mark := ""
		if lo.Contains(restricted, name) {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\n", name, mark)
	}
	return w.Flush()
}

// --- REMOVE command ---

var configRemoveCmd = &cobra.Command{
	Use:   "remove site <name>",
	Short: "Remove a site from the restricted list",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigRemove,
}

func runConfigRemove(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	return RunConfigRemoveWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
}

// RunConfigRemoveWithDependencies runs the remove command with injected dependencies
func RunConfigRemoveWithDependencies(cfg *config.Config, configPath, entityType, name string, out io.Writer) error {
	if entityType != "site" {
		return fmt.Errorf("unknown entity type %q. Use site", entityType)
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.RemoveRestrictedSite(name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed restricted site %q\n", name)
	return nil
}
