//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"clipharvest/application/pipeline"
	"clipharvest/cmd"
	"clipharvest/domain/clip"
	"clipharvest/domain/site"
	"clipharvest/infrastructure/ffmpeg"
	"clipharvest/infrastructure/filesystem"
	"clipharvest/infrastructure/logging"
	"clipharvest/infrastructure/manifest"
	"clipharvest/infrastructure/youget"

	"github.com/cucumber/godog"
	"github.com/spf13/afero"
)

// fakeTools stands in for you-get and ffmpeg, writing their output files
// into an in-memory filesystem
type fakeTools struct {
	fs          afero.Fs
	run         int
	youGetCalls [][]string
	ffmpegCalls [][]string
	failURLs    map[string]bool
}

func (f *fakeTools) Run(ctx context.Context, name string, args ...string) error {
	switch name {
	case youget.DefaultProgram:
		f.youGetCalls = append(f.youGetCalls, args)
		url, dir := args[0], args[2]
		if f.failURLs[url] {
			return errors.New("exit status 1")
		}
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		return afero.WriteFile(f.fs, filepath.Join(dir, args[4]+".mp4"), []byte("video"), 0o644)

	case "ffmpeg":
		f.ffmpegCalls = append(f.ffmpegCalls, args)
		src, dst := args[6], args[len(args)-1]
		if ok, _ := afero.Exists(f.fs, src); !ok {
			return fmt.Errorf("%s: No such file or directory", src)
		}
		if ok, _ := afero.Exists(f.fs, dst); ok && args[0] == "-n" {
			return fmt.Errorf("file '%s' already exists. Exiting", dst)
		}
		return afero.WriteFile(f.fs, dst, []byte(fmt.Sprintf("run %d", f.run)), 0o644)
	}
	return fmt.Errorf("unexpected program %s", name)
}

func (f *fakeTools) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return []byte(name + " version 1.0"), nil
}

// pipelineContext holds test state for pipeline scenarios
type pipelineContext struct {
	tools   *fakeTools
	entries []clip.Entry
	opts    pipeline.Options
	output  *bytes.Buffer
	report  *pipeline.Report
	err     error
}

// SharedPipelineContext is reset before each scenario via Before hook
var SharedPipelineContext *pipelineContext

func getPipelineContext() *pipelineContext {
	return SharedPipelineContext
}

func InitializePipelineScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedPipelineContext = &pipelineContext{
			tools: &fakeTools{
				fs:       afero.NewMemMapFs(),
				failURLs: make(map[string]bool),
			},
			opts: pipeline.Options{
				VideoDir:  "videos",
				OutputDir: "audios",
			},
			output: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedPipelineContext = nil
		return c, nil
	})

	ctx.Step(`^the video directory is "([^"]*)"$`, theVideoDirectoryIs)
	ctx.Step(`^the audio directory is "([^"]*)"$`, theAudioDirectoryIs)
	ctx.Step(`^the manifest:$`, theManifest)
	ctx.Step(`^skip mode is enabled for "([^"]*)"$`, skipModeIsEnabledFor)
	ctx.Step(`^force mode is enabled$`, forceModeIsEnabled)
	ctx.Step(`^delete mode is enabled$`, deleteModeIsEnabled)
	ctx.Step(`^downloads of "([^"]*)" fail$`, downloadsOfFail)
	ctx.Step(`^I run the pipeline$`, iRunThePipeline)
	ctx.Step(`^I run the pipeline again$`, iRunThePipeline)
	ctx.Step(`^the summary should be "([^"]*)"$`, theSummaryShouldBe)
	ctx.Step(`^the clip "([^"]*)" should exist$`, theClipShouldExist)
	ctx.Step(`^the clip "([^"]*)" should be from run (\d+)$`, theClipShouldBeFromRun)
	ctx.Step(`^the directory "([^"]*)" should not exist$`, theDirectoryShouldNotExist)
	ctx.Step(`^you-get should have downloaded into "([^"]*)"$`, youGetShouldHaveDownloadedInto)
	ctx.Step(`^you-get should have been called (\d+) times$`, youGetShouldHaveBeenCalledTimes)
	ctx.Step(`^ffmpeg should have been called (\d+) times$`, ffmpegShouldHaveBeenCalledTimes)
	ctx.Step(`^ffmpeg should have been called with arguments:$`, ffmpegShouldHaveBeenCalledWithArguments)
}

func theVideoDirectoryIs(dir string) error {
	getPipelineContext().opts.VideoDir = dir
	return nil
}

func theAudioDirectoryIs(dir string) error {
	getPipelineContext().opts.OutputDir = dir
	return nil
}

func theManifest(doc *godog.DocString) error {
	p := getPipelineContext()
	entries, err := manifest.Parse([]byte(doc.Content))
	if err != nil {
		return fmt.Errorf("invalid manifest in scenario: %w", err)
	}
	p.entries = entries
	return nil
}

func skipModeIsEnabledFor(sites string) error {
	p := getPipelineContext()
	p.opts.Skip = true
	p.opts.Restricted = strings.Split(sites, ",")
	return nil
}

func forceModeIsEnabled() error {
	getPipelineContext().opts.Force = true
	return nil
}

func deleteModeIsEnabled() error {
	getPipelineContext().opts.Delete = true
	return nil
}

func downloadsOfFail(url string) error {
	getPipelineContext().tools.failURLs[url] = true
	return nil
}

func iRunThePipeline() error {
	p := getPipelineContext()
	p.tools.run++
	p.output.Reset()

	workspace := filesystem.NewWorkspaceWithFs(p.tools.fs)
	deps := cmd.PipelineDependencies{
		Identities: site.DefaultRegistry(),
		Windows:    clip.NewWindowResolver(nil, clip.DefaultDelimiter, clip.DefaultMinDuration),
		Downloader: youget.NewDownloader(workspace, youget.WithCommandRunner(p.tools)),
		Cutter:     ffmpeg.NewCutter(ffmpeg.WithCommandRunner(p.tools)),
		Workspace:  workspace,
		Logger:     logging.Discard(),
	}

	p.report, p.err = cmd.RunPipelineWithDependencies(context.Background(), deps, p.opts, p.entries, p.output)
	if p.err != nil {
		return fmt.Errorf("unexpected error: %v", p.err)
	}
	return nil
}

func theSummaryShouldBe(expected string) error {
	p := getPipelineContext()
	if got := p.report.Tally.String(); got != expected {
		return fmt.Errorf("expected summary %q, got %q", expected, got)
	}
	if !strings.Contains(p.output.String(), expected) {
		return fmt.Errorf("summary %q not printed:\n%s", expected, p.output.String())
	}
	return nil
}

func theClipShouldExist(path string) error {
	p := getPipelineContext()
	if ok, _ := afero.Exists(p.tools.fs, path); !ok {
		return fmt.Errorf("expected clip %s to exist", path)
	}
	return nil
}

func theClipShouldBeFromRun(path string, run int) error {
	p := getPipelineContext()
	data, err := afero.ReadFile(p.tools.fs, path)
	if err != nil {
		return err
	}
	if want := fmt.Sprintf("run %d", run); string(data) != want {
		return fmt.Errorf("expected clip %s to be written by %q, got %q", path, want, data)
	}
	return nil
}

func theDirectoryShouldNotExist(path string) error {
	p := getPipelineContext()
	if ok, _ := afero.DirExists(p.tools.fs, path); ok {
		return fmt.Errorf("expected directory %s to be removed", path)
	}
	return nil
}

func youGetShouldHaveDownloadedInto(dir string) error {
	p := getPipelineContext()
	for _, call := range p.tools.youGetCalls {
		if call[2] == dir {
			return nil
		}
	}
	return fmt.Errorf("no download into %s, calls: %v", dir, p.tools.youGetCalls)
}

func youGetShouldHaveBeenCalledTimes(n int) error {
	p := getPipelineContext()
	if len(p.tools.youGetCalls) != n {
		return fmt.Errorf("expected %d you-get calls, got %d", n, len(p.tools.youGetCalls))
	}
	return nil
}

func ffmpegShouldHaveBeenCalledTimes(n int) error {
	p := getPipelineContext()
	if len(p.tools.ffmpegCalls) != n {
		return fmt.Errorf("expected %d ffmpeg calls, got %d", n, len(p.tools.ffmpegCalls))
	}
	return nil
}

func ffmpegShouldHaveBeenCalledWithArguments(table *godog.Table) error {
	p := getPipelineContext()
	if len(p.tools.ffmpegCalls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}

	call := p.tools.ffmpegCalls[0]

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		expectedArg := row.Cells[0].Value
		found := false
		for _, arg := range call {
			if arg == expectedArg {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("expected argument %q not found in ffmpeg call: %v", expectedArg, call)
		}
	}
	return nil
}
