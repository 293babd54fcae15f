package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"clipharvest/domain/clip"
	"clipharvest/domain/site"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// IdentityResolver maps a URL to a site identity
type IdentityResolver interface {
	Resolve(rawURL string) mo.Option[site.Identity]
}

// WindowResolver maps a range expression to a clip window
type WindowResolver interface {
	Resolve(expr string) (mo.Option[clip.Window], error)
}

// Options holds the per-run switches
type Options struct {
	VideoDir   string
	OutputDir  string
	Force      bool     // overwrite existing clips
	Skip       bool     // leave out restricted sites
	Delete     bool     // remove VideoDir when the run finishes
	Restricted []string // sites left out when Skip is set
}

// Service runs manifest entries through resolve, download and cut, one at a time
type Service struct {
	identities IdentityResolver
	windows    WindowResolver
	downloader clip.Downloader
	cutter     clip.Cutter
	workspace  clip.Workspace
	opts       Options
	log        logrus.FieldLogger
	output     io.Writer
}

// NewService creates a new pipeline service
func NewService(
	identities IdentityResolver,
	windows WindowResolver,
	downloader clip.Downloader,
	cutter clip.Cutter,
	workspace clip.Workspace,
	opts Options,
	log logrus.FieldLogger,
	output io.Writer,
) *Service {
	return &Service{
		identities: identities,
		windows:    windows,
		downloader: downloader,
		cutter:     cutter,
		workspace:  workspace,
		opts:       opts,
		log:        log,
		output:     output,
	}
}

// Run processes entries in order. Entry failures are logged and counted; Run
// itself only fails when ctx is cancelled or the final cleanup fails.
func (s *Service) Run(ctx context.Context, entries []clip.Entry) (*Report, error) {
	report := &Report{Tally: Tally{Total: len(entries)}}

	for _, dir := range []string{s.opts.OutputDir, s.opts.VideoDir} {
		if err := s.workspace.EnsureDir(dir); err != nil {
			return report, err
		}
	}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(s.output, "Stopped after %d/%d entries\n", i, len(entries))
			return report, fmt.Errorf("run interrupted: %w", err)
		}

		fmt.Fprintf(s.output, "Processing (%d/%d): %s\n", i+1, len(entries), entry.Name)
		outcome := s.processEntry(ctx, i+1, entry)
		report.record(outcome)

		switch outcome.Status {
		case StatusSuccess:
			fmt.Fprintf(s.output, "      Created: %s\n", filepath.Join(s.opts.OutputDir, entry.Path))
		case StatusSkipped:
			fmt.Fprintf(s.output, "      Skipped: %s\n", outcome.Reason)
		default:
			fmt.Fprintf(s.output, "      Failed: %s\n", outcome.Reason)
		}
		fmt.Fprintln(s.output)
	}

	fmt.Fprintln(s.output, report.Tally.String())

	if s.opts.Delete {
		if err := s.workspace.RemoveAll(s.opts.VideoDir); err != nil {
			return report, err
		}
		fmt.Fprintf(s.output, "Removed video directory %s\n", s.opts.VideoDir)
	}

	return report, nil
}

func (s *Service) processEntry(ctx context.Context, index int, entry clip.Entry) Outcome {
	outcome := Outcome{Index: index, Name: entry.Name, Status: StatusFailed}
	log := s.log.WithFields(logrus.Fields{
		"entry": entry.Name,
		"url":   entry.Mark.URL,
	})

	identity, ok := s.identities.Resolve(entry.Mark.URL).Get()
	if !ok {
		outcome.Reason = "unsupported url"
		log.Warn("could not resolve a site and video id")
		return outcome
	}
	outcome.Site = identity.Site
	outcome.ContentID = identity.ContentID
	outcome.Part = identity.Part.OrEmpty()
	log = log.WithField("video", identity.String())

	if s.opts.Skip && lo.Contains(s.opts.Restricted, identity.Site) {
		outcome.Status = StatusSkipped
		outcome.Reason = "restricted site " + identity.Site
		log.Info("skipping restricted site")
		return outcome
	}

	dir := identity.Dir(s.opts.VideoDir)
	if err := s.workspace.EnsureDir(dir); err != nil {
		outcome.Reason = "cannot create video directory"
		log.WithError(err).Error("failed to create video directory")
		return outcome
	}

	source, err := s.downloader.Download(ctx, entry.Mark.URL, dir)
	if err != nil {
		outcome.Reason = "download failed"
		log.WithError(err).Error("download failed")
		return outcome
	}
	log.WithField("source", source).Debug("video ready")

	resolved, err := s.windows.Resolve(entry.Mark.Time)
	if err != nil {
		outcome.Reason = "malformed time range"
		log.WithError(err).Warn("cannot split time range")
		return outcome
	}
	window, ok := resolved.Get()
	if !ok {
		outcome.Reason = "unparsable timestamp"
		log.WithField("time", entry.Mark.Time).Warn("cannot parse time range")
		return outcome
	}

	destination := filepath.Join(s.opts.OutputDir, entry.Path)
	if err := s.workspace.EnsureDir(filepath.Dir(destination)); err != nil {
		outcome.Reason = "cannot create output directory"
		log.WithError(err).Error("failed to create output directory")
		return outcome
	}

	req, err := clip.NewCutRequest(source, destination, window, s.opts.Force)
	if err != nil {
		outcome.Reason = "invalid cut request"
		log.WithError(err).Error("invalid cut request")
		return outcome
	}

	if err := s.cutter.Cut(ctx, req); err != nil {
		outcome.Reason = "cut failed"
		log.WithError(err).WithFields(logrus.Fields{
			"start": window.Start.String(),
			"end":   window.End.String(),
		}).Error("cut failed")
		return outcome
	}

	outcome.Status = StatusSuccess
	return outcome
}

// IsInterrupted reports whether err came from a cancelled run
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
