package clip

import "context"

// Downloader fetches a video into a directory and returns the local file path
// This is a port that can be implemented by different infrastructure adapters
type Downloader interface {
	Download(ctx context.Context, url, dir string) (string, error)
}

// Cutter produces an audio clip according to the request
type Cutter interface {
	Cut(ctx context.Context, req *CutRequest) error
}

// Workspace defines the directory operations the pipeline needs
type Workspace interface {
	// EnsureDir creates path and any parents; existing directories are fine
	EnsureDir(path string) error
	// RemoveAll deletes path and everything below it
	RemoveAll(path string) error
}
