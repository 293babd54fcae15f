// Package youget downloads videos with the you-get command line tool.
package youget

import (
	"context"
	"errors"
	"fmt"

	"clipharvest/domain/clip"
	"clipharvest/infrastructure/command"
	"clipharvest/infrastructure/filesystem"
)

const (
	DefaultProgram  = "you-get"
	DefaultBaseName = "target"
)

// ErrNoOutput is returned when the downloader exits cleanly but leaves no
// file with the expected base name behind
var ErrNoOutput = errors.New("download produced no output file")

// Downloader implements clip.Downloader by shelling out to you-get
type Downloader struct {
	program   string
	baseName  string
	runner    command.Runner
	workspace *filesystem.Workspace
}

// Option is a functional option for configuring Downloader
type Option func(*Downloader)

// WithProgram sets a custom you-get executable path
func WithProgram(program string) Option {
	return func(d *Downloader) {
		if program != "" {
			d.program = program
		}
	}
}

// WithBaseName sets the file name (without extension) downloads are saved as
func WithBaseName(name string) Option {
	return func(d *Downloader) {
		if name != "" {
			d.baseName = name
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner command.Runner) Option {
	return func(d *Downloader) {
		d.runner = runner
	}
}

// NewDownloader creates a downloader writing into workspace
func NewDownloader(workspace *filesystem.Workspace, opts ...Option) *Downloader {
	d := &Downloader{
		program:   DefaultProgram,
		baseName:  DefaultBaseName,
		runner:    command.NewExecRunner(),
		workspace: workspace,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Args returns the you-get arguments for saving url into dir
func (d *Downloader) Args(url, dir string) []string {
	return []string{
		url,
		"-o", dir, // output directory
		"-O", d.baseName, // output name without extension
	}
}

// Download implements clip.Downloader. A video already present in dir is
// reused, so each identifier is only fetched once.
func (d *Downloader) Download(ctx context.Context, url, dir string) (string, error) {
	if path, ok, err := d.workspace.FindByBaseName(dir, d.baseName); err != nil {
		return "", err
	} else if ok {
		return path, nil
	}

	if err := d.runner.Run(ctx, d.program, d.Args(url, dir)...); err != nil {
		return "", fmt.Errorf("you-get download failed: %w", err)
	}

	path, ok, err := d.workspace.FindByBaseName(dir, d.baseName)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s/%s.*", ErrNoOutput, dir, d.baseName)
	}

	return path, nil
}

// VerifyInstalled checks that you-get is available
func (d *Downloader) VerifyInstalled(ctx context.Context) error {
	_, err := d.runner.Output(ctx, d.program, "--version")
	if err != nil {
		return fmt.Errorf("you-get not found or not executable: %w", err)
	}
	return nil
}

// Ensure Downloader implements clip.Downloader
var _ clip.Downloader = (*Downloader)(nil)
