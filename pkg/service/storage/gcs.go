package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/domain/interfaces"
)

// GCS stores rendered reports in a Cloud Storage bucket
type GCS struct {
	client *gcs.Client
	bucket string
	prefix string
}

var _ interfaces.ReportStorage = &GCS{}

// NewGCS creates a report storage on bucket. Object names are prefixed with
// prefix when it is not empty.
func NewGCS(ctx context.Context, bucket, prefix string) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &GCS{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Put uploads data as key and returns its gs:// URI
func (g *GCS) Put(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	name := objectName(g.prefix, key)
	if name == "" {
		return "", goerr.New("object key is required", goerr.V("bucket", g.bucket))
	}

	w := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write report object",
			goerr.V("bucket", g.bucket), goerr.V("object", name))
	}
	// Close commits the upload
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to upload report object",
			goerr.V("bucket", g.bucket), goerr.V("object", name))
	}

	return fmt.Sprintf("gs://%s/%s", g.bucket, name), nil
}

// Close releases the storage client
func (g *GCS) Close() error {
	return g.client.Close()
}

func objectName(prefix, key string) string {
	key = strings.Trim(key, "/")
	if key == "" {
		return ""
	}
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}
