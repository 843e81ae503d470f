package cli

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/cli/config"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdCatalog() *cli.Command {
	var catalogCfg config.Catalog

	return &cli.Command{
		Name:  "catalog",
		Usage: "Print an empty rating template for every hazard in the catalog",
		Flags: catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load hazard catalog")
			}

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(struct {
				Hazards []model.HazardRating `json:"hazards"`
			}{Hazards: catalog.Seed()}); err != nil {
				return goerr.Wrap(err, "failed to encode catalog")
			}
			return nil
		},
	}
}
