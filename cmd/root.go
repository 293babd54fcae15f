package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clipharvest/application/pipeline"
	"clipharvest/domain/clip"
	"clipharvest/domain/site"
	"clipharvest/infrastructure/config"
	"clipharvest/infrastructure/ffmpeg"
	"clipharvest/infrastructure/filesystem"
	"clipharvest/infrastructure/logging"
	"clipharvest/infrastructure/manifest"
	"clipharvest/infrastructure/youget"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	cfg       *config.Config
	cfgErr    error
	logLevel  string
	logFormat string

	inputPath      string
	outputDir      string
	inputEncoding  string
	forceOverwrite bool
	deleteVideos   bool
	skipRestricted bool
)

var rootCmd = &cobra.Command{
	Use:   "clipharvest",
	Short: "Cut audio clips out of online videos listed in a manifest",
	Long: `clipharvest reads a manifest of named clips, each pointing at a video URL
and a time range, and for every entry:

  - Resolves the video site and id from the URL
  - Downloads the video with you-get into videos/<site>/<id>[/<part>]
  - Cuts the time range out as loudness-normalised audio with ffmpeg

A manifest entry looks like:
  {"name": "intro", "path": "intro.mp3",
   "mark": {"url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "time": "00:05~00:12.5"}}

Example:
  clipharvest -i clips.json -o audios --skip --delete`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPipeline,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatText, "log format (text or json)")

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to the manifest file (required)")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "audios", "Directory the audio clips are written to")
	rootCmd.Flags().StringVarP(&inputEncoding, "encoding", "e", manifest.DefaultEncoding, "Text encoding of the manifest")
	rootCmd.Flags().BoolVarP(&forceOverwrite, "force", "f", false, "Overwrite existing audio clips")
	rootCmd.Flags().BoolVarP(&deleteVideos, "delete", "d", false, "Remove the downloaded videos after the run")
	rootCmd.Flags().BoolVarP(&skipRestricted, "skip", "s", false, "Leave out entries from restricted sites")
	rootCmd.MarkFlagRequired("input")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	// A missing file means defaults; a broken one is reported by the
	// commands that need it.
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// PipelineDependencies holds the collaborators of a pipeline run
type PipelineDependencies struct {
	Identities pipeline.IdentityResolver
	Windows    pipeline.WindowResolver
	Downloader clip.Downloader
	Cutter     clip.Cutter
	Workspace  clip.Workspace
	Logger     logrus.FieldLogger
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: logLevel, Format: logFormat})
	if err != nil {
		return err
	}

	workspace := filesystem.NewWorkspace()
	entries, err := manifest.Load(workspace.Fs(), inputPath, inputEncoding)
	if err != nil {
		return err
	}

	parser, err := clip.NewParser(cfg.Timestamps.Layouts...)
	if err != nil {
		return err
	}

	lock, err := filesystem.AcquireRunLock(cfg.Paths.VideoDirectory)
	if err != nil {
		return err
	}
	defer lock.Release()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	output := cfg.Paths.AudioDirectory
	if cmd.Flags().Changed("output") {
		output = outputDir
	}

	deps := PipelineDependencies{
		Identities: site.DefaultRegistry(),
		Windows:    clip.NewWindowResolver(parser, cfg.Timestamps.Delimiter, cfg.Timestamps.MinDuration),
		Downloader: youget.NewDownloader(workspace,
			youget.WithProgram(cfg.Download.Program),
			youget.WithBaseName(cfg.Download.BaseName),
		),
		Cutter: ffmpeg.NewCutter(
			ffmpeg.WithFFmpegPath(cfg.FFmpeg.Path),
			ffmpeg.WithAudioFilter(cfg.FFmpeg.AudioFilter),
			ffmpeg.WithChannels(cfg.FFmpeg.Channels),
		),
		Workspace: workspace,
		Logger:    logger,
	}

	opts := pipeline.Options{
		VideoDir:   cfg.Paths.VideoDirectory,
		OutputDir:  output,
		Force:      forceOverwrite,
		Skip:       skipRestricted,
		Delete:     deleteVideos,
		Restricted: cfg.Sites.Restricted,
	}

	_, err = RunPipelineWithDependencies(ctx, deps, opts, entries, os.Stdout)
	return err
}

// RunPipelineWithDependencies runs the pipeline with injected dependencies (for testing)
func RunPipelineWithDependencies(
	ctx context.Context,
	deps PipelineDependencies,
	opts pipeline.Options,
	entries []clip.Entry,
	output io.Writer,
) (*pipeline.Report, error) {
	// Verify external programs before touching any entry
	tools := []struct {
		name string
		impl any
	}{
		{"you-get", deps.Downloader},
		{"ffmpeg", deps.Cutter},
	}
	for _, tool := range tools {
		verifiable, ok := tool.impl.(interface{ VerifyInstalled(context.Context) error })
		if !ok {
			continue
		}
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := verifiable.VerifyInstalled(verifyCtx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%s verification failed: %w", tool.name, err)
		}
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	runID := uuid.NewString()
	logger = logger.WithField("run", runID)
	logger.WithField("entries", len(entries)).Info("starting run")

	service := pipeline.NewService(
		deps.Identities,
		deps.Windows,
		deps.Downloader,
		deps.Cutter,
		deps.Workspace,
		opts,
		logger,
		output,
	)

	report, err := service.Run(ctx, entries)
	RenderReport(output, report)

	if err != nil {
		if pipeline.IsInterrupted(err) {
			logger.Warn("run interrupted")
		}
		return report, err
	}

	logger.WithFields(logrus.Fields{
		"success": report.Tally.Success,
		"skipped": report.Tally.Skipped,
		"failed":  report.Tally.Failed(),
	}).Info("run finished")
	return report, nil
}
