package artifacts

import (
	"context"
	"io"
)

// Sink receives finished report files and serves them back for download
type Sink interface {
	// Deliver publishes the file at localPath under name and returns where it now lives
	Deliver(ctx context.Context, localPath, name string) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}
