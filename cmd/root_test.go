package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"clipharvest/application/pipeline"
	"clipharvest/domain/clip"
	"clipharvest/domain/site"
	"clipharvest/infrastructure/filesystem"
	"clipharvest/infrastructure/logging"

	"github.com/spf13/afero"
)

type mockDownloader struct {
	verifyErr error
	calls     int
}

func (m *mockDownloader) Download(ctx context.Context, url, dir string) (string, error) {
	m.calls++
	return filepath.Join(dir, "target.flv"), nil
}

func (m *mockDownloader) VerifyInstalled(ctx context.Context) error {
	return m.verifyErr
}

type mockCutter struct {
	requests []clip.CutRequest
}

func (m *mockCutter) Cut(ctx context.Context, req *clip.CutRequest) error {
	m.requests = append(m.requests, *req)
	return nil
}

func testDependencies(downloader *mockDownloader, cutter *mockCutter) (PipelineDependencies, afero.Fs) {
	fs := afero.NewMemMapFs()
	return PipelineDependencies{
		Identities: site.DefaultRegistry(),
		Windows:    clip.NewWindowResolver(nil, clip.DefaultDelimiter, clip.DefaultMinDuration),
		Downloader: downloader,
		Cutter:     cutter,
		Workspace:  filesystem.NewWorkspaceWithFs(fs),
		Logger:     logging.Discard(),
	}, fs
}

func TestRunPipelineWithDependencies(t *testing.T) {
	downloader := &mockDownloader{}
	cutter := &mockCutter{}
	deps, fs := testDependencies(downloader, cutter)
	output := &bytes.Buffer{}

	entries := []clip.Entry{
		{Name: "intro", Path: "bili/intro.mp3", Mark: clip.Mark{URL: "https://www.bilibili.com/video/BV1GJ411x7h7?p=3", Time: "0:05~0:12.5"}},
		{Name: "chorus", Path: "chorus.mp3", Mark: clip.Mark{URL: "https://youtu.be/dQw4w9WgXcQ", Time: "00:00:43~00:00:43"}},
		{Name: "broken", Path: "broken.mp3", Mark: clip.Mark{URL: "https://example.com/watch?v=dQw4w9WgXcQ", Time: "0:01~0:02"}},
	}

	opts := pipeline.Options{VideoDir: "videos", OutputDir: "audios", Skip: true, Restricted: []string{site.YouTube}}
	report, err := RunPipelineWithDependencies(context.Background(), deps, opts, entries, output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := report.Tally.String(); got != "success (1/3), skipped 1, failed 1" {
		t.Errorf("Tally = %q", got)
	}
	if downloader.calls != 1 || len(cutter.requests) != 1 {
		t.Fatalf("downloads = %d, cuts = %d, want 1 each", downloader.calls, len(cutter.requests))
	}

	req := cutter.requests[0]
	if req.Destination != filepath.Join("audios", "bili", "intro.mp3") {
		t.Errorf("Destination = %q", req.Destination)
	}
	if req.Window.Start.String() != "00:00:05.000000" || req.Window.End.String() != "00:00:12.500000" {
		t.Errorf("window = %s~%s", req.Window.Start, req.Window.End)
	}

	for _, dir := range []string{"audios/bili", "videos/bilibili/BV1GJ411x7h7/3"} {
		if ok, _ := afero.DirExists(fs, dir); !ok {
			t.Errorf("expected directory %s to exist", dir)
		}
	}

	out := output.String()
	for _, want := range []string{"Processing (1/3): intro", "success (1/3), skipped 1, failed 1", "restricted site youtube", "unsupported url"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunPipelineWithDependencies_VerifyFailure(t *testing.T) {
	downloader := &mockDownloader{verifyErr: errors.New("executable file not found in $PATH")}
	cutter := &mockCutter{}
	deps, _ := testDependencies(downloader, cutter)

	_, err := RunPipelineWithDependencies(context.Background(), deps, pipeline.Options{VideoDir: "videos", OutputDir: "audios"},
		[]clip.Entry{{Name: "a", Path: "a.mp3", Mark: clip.Mark{URL: "https://youtu.be/dQw4w9WgXcQ", Time: "0:01~0:02"}}},
		&bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "you-get verification failed") {
		t.Fatalf("expected you-get verification error, got %v", err)
	}
	if downloader.calls != 0 {
		t.Error("no entry should run when a program is missing")
	}
}

func TestRunPipelineWithDependencies_Interrupted(t *testing.T) {
	deps, _ := testDependencies(&mockDownloader{}, &mockCutter{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunPipelineWithDependencies(ctx, deps, pipeline.Options{VideoDir: "videos", OutputDir: "audios"},
		[]clip.Entry{{Name: "a", Path: "a.mp3", Mark: clip.Mark{URL: "https://youtu.be/dQw4w9WgXcQ", Time: "0:01~0:02"}}},
		&bytes.Buffer{})
	if !pipeline.IsInterrupted(err) {
		t.Fatalf("expected interruption, got %v", err)
	}
}
