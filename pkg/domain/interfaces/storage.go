package interfaces

import "context"

// ReportStorage stores rendered reports outside the service
type ReportStorage interface {
	// Put writes data under key and returns a URI pointing to the stored object
	Put(ctx context.Context, key string, contentType string, data []byte) (string, error)
}
