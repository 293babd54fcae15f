package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"clipharvest/domain/site"
	"clipharvest/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up your configuration file
with the download and audio directories, the external programs, time range
parsing and the sites that --skip leaves out.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to clipharvest setup!")
	fmt.Println()

	cfg := config.Default()

	// Paths section
	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}

	// External programs
	if err := promptPrograms(prompter, cfg); err != nil {
		return err
	}

	// Time ranges
	if err := promptTimestamps(prompter, cfg); err != nil {
		return err
	}

	// Restricted sites
	if err := promptSites(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	videos, err := prompter.Input("Where should downloaded videos go?", cfg.Paths.VideoDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if videos == "" {
		return fmt.Errorf("video directory is required")
	}
	cfg.Paths.VideoDirectory = videos

	audios, err := prompter.Input("Where should audio clips go?", cfg.Paths.AudioDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if audios == "" {
		return fmt.Errorf("audio directory is required")
	}
	cfg.Paths.AudioDirectory = audios

	return nil
}

func promptPrograms(prompter Prompter, cfg *config.Config) error {
	program, err := prompter.Input("Downloader program?", cfg.Download.Program)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if program != "" {
		cfg.Download.Program = program
	}

	ffmpegPath, err := prompter.Input("Path to ffmpeg?", cfg.FFmpeg.Path)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath != "" {
		cfg.FFmpeg.Path = ffmpegPath
	}

	normalize, err := prompter.Confirm("Normalise loudness of the clips?", cfg.FFmpeg.AudioFilter != "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !normalize {
		cfg.FFmpeg.AudioFilter = ""
	}

	channels, err := prompter.Input("Audio channels?", strconv.Itoa(cfg.FFmpeg.Channels))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if channels != "" {
		n, err := strconv.Atoi(channels)
		if err != nil || n <= 0 {
			return fmt.Errorf("channels must be a positive number, got %q", channels)
		}
		cfg.FFmpeg.Channels = n
	}

	return nil
}

func promptTimestamps(prompter Prompter, cfg *config.Config) error {
	delimiter, err := prompter.Input("Delimiter between start and end time?", cfg.Timestamps.Delimiter)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if delimiter != "" {
		cfg.Timestamps.Delimiter = delimiter
	}

	minimum, err := prompter.Input("Minimum clip duration?", cfg.Timestamps.MinDuration.String())
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if minimum != "" {
		d, err := time.ParseDuration(minimum)
		if err != nil {
			return fmt.Errorf("invalid minimum duration %q: %w", minimum, err)
		}
		cfg.Timestamps.MinDuration = d
	}

	return nil
}

func promptSites(prompter Prompter, cfg *config.Config) error {
	restricted := []string{}
	for _, name := range site.DefaultRegistry().Sites() {
		skip, err := prompter.Confirm(fmt.Sprintf("Leave out %s videos when running with --skip?", name), lo.Contains(cfg.Sites.Restricted, name))
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if skip {
			restricted = append(restricted, name)
		}
	}
	cfg.Sites.Restricted = restricted
	return nil
}
