package clip

import "testing"

func TestNewCutRequest(t *testing.T) {
	window := Window{
		Start: Timestamp{Seconds: 5},
		End:   Timestamp{Seconds: 6},
	}

	tests := []struct {
		name        string
		source      string
		destination string
		window      Window
		wantErr     bool
		errContains string
	}{
		{
			name:        "valid request",
			source:      "videos/youtube/dQw4w9WgXcQ/target.mp4",
			destination: "audios/clip.mp3",
			window:      window,
		},
		{
			name:        "empty source",
			destination: "audios/clip.mp3",
			window:      window,
			wantErr:     true,
			errContains: "source path is required",
		},
		{
			name:        "empty destination",
			source:      "videos/youtube/dQw4w9WgXcQ/target.mp4",
			window:      window,
			wantErr:     true,
			errContains: "destination path is required",
		},
		{
			name:        "end equals start",
			source:      "videos/youtube/dQw4w9WgXcQ/target.mp4",
			destination: "audios/clip.mp3",
			window:      Window{Start: Timestamp{Seconds: 5}, End: Timestamp{Seconds: 5}},
			wantErr:     true,
			errContains: "must be after start time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCutRequest(tt.source, tt.destination, tt.window, true)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewCutRequest() expected error, got nil")
					return
				}
				if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
					t.Errorf("NewCutRequest() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("NewCutRequest() unexpected error: %v", err)
				return
			}

			if !got.Force {
				t.Error("NewCutRequest() dropped the force flag")
			}
		})
	}
}
