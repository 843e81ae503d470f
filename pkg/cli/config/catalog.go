package config

import (
	_ "embed"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

//go:embed default_catalog.toml
var defaultCatalog []byte

type catalogFile struct {
	Hazards []catalogHazard `toml:"hazard"`
}

type catalogHazard struct {
	ID       int    `toml:"id"`
	Name     string `toml:"name"`
	Category string `toml:"category"`
}

// Catalog holds CLI flags for the hazard catalog
type Catalog struct {
	path string
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to a hazard catalog TOML file (built-in catalog when omitted)",
			Category:    "Catalog",
			Sources:     cli.EnvVars("HVA_CATALOG"),
			Destination: &c.path,
		},
	}
}

// LogValue implements slog.LogValuer
func (c Catalog) LogValue() slog.Value {
	if c.path == "" {
		return slog.StringValue("(built-in)")
	}
	return slog.StringValue(c.path)
}

// Configure loads the catalog file given by --catalog, or the built-in
// catalog when no path is set
func (c *Catalog) Configure() (*model.HazardCatalog, error) {
	if c.path == "" {
		return DefaultCatalog()
	}
	return LoadCatalog(c.path)
}

// DefaultCatalog returns the built-in hazard catalog
func DefaultCatalog() (*model.HazardCatalog, error) {
	catalog, err := ParseCatalog(defaultCatalog)
	if err != nil {
		return nil, goerr.Wrap(err, "built-in catalog is broken")
	}
	return catalog, nil
}

// LoadCatalog reads and validates a hazard catalog from a TOML file
func LoadCatalog(path string) (*model.HazardCatalog, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "catalog file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V(ConfigPathKey, path))
	}

	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load catalog", goerr.V(ConfigPathKey, path))
	}
	return catalog, nil
}

// ParseCatalog decodes a TOML hazard catalog
func ParseCatalog(data []byte) (*model.HazardCatalog, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse catalog TOML", goerr.V("cause", err.Error()))
	}

	hazards := make([]model.Hazard, len(file.Hazards))
	for i, h := range file.Hazards {
		hazards[i] = model.Hazard{
			ID:       h.ID,
			Name:     h.Name,
			Category: types.HazardCategory(h.Category),
		}
	}

	catalog, err := model.NewHazardCatalog(hazards)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid hazard catalog", goerr.V("cause", err.Error()))
	}
	return catalog, nil
}
