package ffmpeg

import (
	"context"
	"fmt"
	"strconv"

	"clipharvest/domain/clip"
	"clipharvest/infrastructure/command"
)

const (
	DefaultAudioFilter = "loudnorm"
	DefaultChannels    = 2
)

// Cutter implements clip.Cutter using ffmpeg
type Cutter struct {
	ffmpegPath  string
	audioFilter string
	channels    int
	runner      command.Runner
}

// CutterOption is a functional option for configuring Cutter
type CutterOption func(*Cutter)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) CutterOption {
	return func(c *Cutter) {
		if path != "" {
			c.ffmpegPath = path
		}
	}
}

// WithAudioFilter sets the -af filter graph; an empty filter disables it
func WithAudioFilter(filter string) CutterOption {
	return func(c *Cutter) {
		c.audioFilter = filter
	}
}

// WithChannels sets the output channel count
func WithChannels(channels int) CutterOption {
	return func(c *Cutter) {
		if channels > 0 {
			c.channels = channels
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner command.Runner) CutterOption {
	return func(c *Cutter) {
		c.runner = runner
	}
}

// NewCutter creates a new FFmpeg-based audio cutter
func NewCutter(opts ...CutterOption) *Cutter {
	c := &Cutter{
		ffmpegPath:  "ffmpeg",
		audioFilter: DefaultAudioFilter,
		channels:    DefaultChannels,
		runner:      command.NewExecRunner(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Args returns the ffmpeg arguments for req
func (c *Cutter) Args(req *clip.CutRequest) []string {
	overwrite := "-n" // never overwrite an existing clip
	if req.Force {
		overwrite = "-y"
	}

	args := []string{
		overwrite,
		"-ss", req.Window.Start.String(),
		"-to", req.Window.End.String(),
		"-i", req.Source,
		"-vn", // No video
	}
	if c.audioFilter != "" {
		args = append(args, "-af", c.audioFilter)
	}
	args = append(args, "-ac", strconv.Itoa(c.channels), req.Destination)

	return args
}

// Cut implements clip.Cutter
func (c *Cutter) Cut(ctx context.Context, req *clip.CutRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if err := c.runner.Run(ctx, c.ffmpegPath, c.Args(req)...); err != nil {
		return fmt.Errorf("ffmpeg cut failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (c *Cutter) VerifyInstalled(ctx context.Context) error {
	_, err := c.runner.Output(ctx, c.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Cutter implements clip.Cutter
var _ clip.Cutter = (*Cutter)(nil)
