package ffmpeg

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"clipharvest/domain/clip"
)

// mockRunner records the commands it is asked to run
type mockRunner struct {
	name      string
	args      []string
	runErr    error
	outputErr error
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.name = name
	m.args = args
	return m.runErr
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	return nil, m.outputErr
}

func testRequest(force bool) *clip.CutRequest {
	return &clip.CutRequest{
		Source:      "videos/youtube/dQw4w9WgXcQ/target.mp4",
		Destination: "audios/intro.mp3",
		Window: clip.Window{
			Start: clip.Timestamp{Seconds: 5},
			End:   clip.Timestamp{Seconds: 6},
		},
		Force: force,
	}
}

func TestCutter_Cut(t *testing.T) {
	tests := []struct {
		name  string
		force bool
		want  []string
	}{
		{
			name: "keeps existing output by default",
			want: []string{
				"-n",
				"-ss", "00:00:05.000000",
				"-to", "00:00:06.000000",
				"-i", "videos/youtube/dQw4w9WgXcQ/target.mp4",
				"-vn",
				"-af", "loudnorm",
				"-ac", "2",
				"audios/intro.mp3",
			},
		},
		{
			name:  "force overwrites",
			force: true,
			want: []string{
				"-y",
				"-ss", "00:00:05.000000",
				"-to", "00:00:06.000000",
				"-i", "videos/youtube/dQw4w9WgXcQ/target.mp4",
				"-vn",
				"-af", "loudnorm",
				"-ac", "2",
				"audios/intro.mp3",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockRunner{}
			cutter := NewCutter(WithCommandRunner(runner))

			if err := cutter.Cut(context.Background(), testRequest(tt.force)); err != nil {
				t.Fatalf("Cut() unexpected error: %v", err)
			}
			if runner.name != "ffmpeg" {
				t.Errorf("Cut() ran %q, want ffmpeg", runner.name)
			}
			if !reflect.DeepEqual(runner.args, tt.want) {
				t.Errorf("Cut() args = %v, want %v", runner.args, tt.want)
			}
		})
	}
}

func TestCutter_Options(t *testing.T) {
	runner := &mockRunner{}
	cutter := NewCutter(
		WithCommandRunner(runner),
		WithFFmpegPath("/opt/ffmpeg/bin/ffmpeg"),
		WithAudioFilter(""),
		WithChannels(1),
	)

	if err := cutter.Cut(context.Background(), testRequest(false)); err != nil {
		t.Fatalf("Cut() unexpected error: %v", err)
	}
	if runner.name != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("Cut() ran %q", runner.name)
	}
	joined := strings.Join(runner.args, " ")
	if strings.Contains(joined, "-af") {
		t.Errorf("Cut() args %q should not contain an audio filter", joined)
	}
	if !strings.Contains(joined, "-ac 1") {
		t.Errorf("Cut() args %q should request one channel", joined)
	}
}

func TestCutter_CutFailure(t *testing.T) {
	runner := &mockRunner{runErr: errors.New("exit status 1")}
	cutter := NewCutter(WithCommandRunner(runner))

	err := cutter.Cut(context.Background(), testRequest(false))
	if err == nil {
		t.Fatal("Cut() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "ffmpeg cut failed") {
		t.Errorf("Cut() error = %v", err)
	}
	if !errors.Is(err, runner.runErr) {
		t.Error("Cut() should wrap the runner error")
	}
}

func TestCutter_InvalidRequest(t *testing.T) {
	runner := &mockRunner{}
	cutter := NewCutter(WithCommandRunner(runner))

	req := testRequest(false)
	req.Source = ""

	if err := cutter.Cut(context.Background(), req); err == nil {
		t.Fatal("Cut() expected error for missing source")
	}
	if runner.name != "" {
		t.Error("Cut() should not run ffmpeg for an invalid request")
	}
}

func TestCutter_VerifyInstalled(t *testing.T) {
	runner := &mockRunner{}
	if err := NewCutter(WithCommandRunner(runner)).VerifyInstalled(context.Background()); err != nil {
		t.Fatalf("VerifyInstalled() unexpected error: %v", err)
	}
	if len(runner.args) != 1 || runner.args[0] != "-version" {
		t.Errorf("VerifyInstalled() args = %v", runner.args)
	}

	runner.outputErr = errors.New("not found")
	if err := NewCutter(WithCommandRunner(runner)).VerifyInstalled(context.Background()); err == nil {
		t.Error("VerifyInstalled() expected error, got nil")
	}
}
