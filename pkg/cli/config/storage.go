package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/service/storage"
	"github.com/secmon-lab/hva/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for report publishing
type Storage struct {
	bucket string
	prefix string
}

// Flags returns CLI flags for report storage configuration
func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "report-bucket",
			Usage:       "Cloud Storage bucket for published reports (publishing disabled when empty)",
			Category:    "Storage",
			Sources:     cli.EnvVars("HVA_REPORT_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "report-prefix",
			Usage:       "Object name prefix for published reports",
			Category:    "Storage",
			Value:       "reports",
			Sources:     cli.EnvVars("HVA_REPORT_PREFIX"),
			Destination: &x.prefix,
		},
	}
}

// LogValue implements slog.LogValuer
func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", x.bucket),
		slog.String("prefix", x.prefix),
	)
}

// IsConfigured returns true when a bucket is set
func (x *Storage) IsConfigured() bool {
	return x.bucket != ""
}

// Configure creates the report storage client. It returns nil without error
// when no bucket is configured. The caller must Close a non-nil result.
func (x *Storage) Configure(ctx context.Context) (*storage.GCS, error) {
	if !x.IsConfigured() {
		logging.Default().Info("Report bucket not configured, publishing disabled")
		return nil, nil
	}

	client, err := storage.NewGCS(ctx, x.bucket, x.prefix)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize report storage")
	}

	logging.Default().Info("Report publishing enabled", "bucket", x.bucket, "prefix", x.prefix)
	return client, nil
}
