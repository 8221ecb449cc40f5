// Package fetcher downloads remote datasets over HTTP.
package fetcher

import (
	"context"
	"io"
)

// Fetcher retrieves a remote dataset. Implementations make a single attempt
// per call.
type Fetcher interface {
	// Download returns the body of url. The caller closes it.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile streams url into path and returns the bytes written.
	// path is not created when the request fails.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}
