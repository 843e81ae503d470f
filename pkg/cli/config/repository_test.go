package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hva/pkg/cli/config"
	"github.com/secmon-lab/hva/pkg/domain/interfaces"
	"github.com/urfave/cli/v3"
)

func configureRepository(t *testing.T, args ...string) (interfaces.Repository, error) {
	t.Helper()

	var cfg config.Repository
	var repo interfaces.Repository
	var cfgErr error
	cmd := &cli.Command{
		Name:  "test",
		Flags: cfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, cfgErr = cfg.Configure(ctx)
			return nil
		},
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...))).Required()
	return repo, cfgErr
}

func TestRepository_Configure(t *testing.T) {
	t.Run("memory is the default backend", func(t *testing.T) {
		repo, err := configureRepository(t)
		gt.NoError(t, err).Required()
		gt.Value(t, repo).NotNil()
		gt.NoError(t, repo.Close())
	})

	t.Run("firestore requires project id", func(t *testing.T) {
		_, err := configureRepository(t, "--repository-backend", "firestore")
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := configureRepository(t, "--repository-backend", "mysql")
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestStorage_Configure(t *testing.T) {
	var cfg config.Storage
	gt.B(t, cfg.IsConfigured()).False()

	client, err := cfg.Configure(context.Background())
	gt.NoError(t, err)
	gt.Value(t, client).Nil()
}
