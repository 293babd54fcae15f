package clip

import "fmt"

// CutRequest represents a request to cut an audio clip out of a source video
type CutRequest struct {
	Source      string
	Destination string
	Window      Window
	Force       bool // overwrite an existing destination
}

// NewCutRequest creates a validated CutRequest
func NewCutRequest(source, destination string, window Window, force bool) (*CutRequest, error) {
	req := &CutRequest{
		Source:      source,
		Destination: destination,
		Window:      window,
		Force:       force,
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// Validate checks that the cut request is usable
func (r *CutRequest) Validate() error {
	if r.Source == "" {
		return fmt.Errorf("source path is required")
	}

	if r.Destination == "" {
		return fmt.Errorf("destination path is required")
	}

	if !r.Window.End.After(r.Window.Start) {
		return fmt.Errorf("end time %s must be after start time %s", r.Window.End, r.Window.Start)
	}

	return nil
}
