package config

import (
	"context"
	"errors"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
	"github.com/notelens-lab/notelens/pkg/utils/logging"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Notebooks holds configuration for notebook preloading from a TOML file
type Notebooks struct {
	path string
}

// NotebookEntry represents one notebook definition in the preload file
type NotebookEntry struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks if the NotebookEntry is valid
func (n *NotebookEntry) Validate() error {
	if n.Name == "" {
		return goerr.New("notebook name is required", goerr.V("id", n.ID))
	}
	return nil
}

type notebookFile struct {
	Notebooks []NotebookEntry `toml:"notebook"`
}

// Flags returns CLI flags for notebook preload configuration
func (n *Notebooks) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notebooks",
			Usage:       "Path to a TOML file with notebooks to create at startup",
			Sources:     cli.EnvVars("NOTELENS_NOTEBOOKS"),
			Destination: &n.path,
		},
	}
}

// Configure loads the preload file, if configured, and creates every listed
// notebook that does not exist yet. Entries with an ID keep it; entries
// without one get a generated ID on every process start, so persistent
// deployments should pin IDs.
func (n *Notebooks) Configure(ctx context.Context, repo interfaces.Repository) error {
	if n.path == "" {
		return nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(n.path)
	if err != nil {
		return goerr.Wrap(err, "failed to read notebooks file", goerr.V("path", n.path))
	}

	var file notebookFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return goerr.Wrap(err, "failed to parse notebooks file", goerr.V("path", n.path))
	}

	for _, entry := range file.Notebooks {
		if err := entry.Validate(); err != nil {
			return goerr.Wrap(err, "invalid notebook entry", goerr.V("path", n.path))
		}

		id := types.NotebookID(entry.ID)
		if id != "" {
			if _, err := repo.Notebook().Get(ctx, id); err == nil {
				continue
			} else if !errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(err, "failed to check notebook", goerr.V("id", id))
			}
		}

		created, err := repo.Notebook().Create(ctx, &model.Notebook{ID: id, Name: entry.Name})
		if err != nil {
			return goerr.Wrap(err, "failed to create notebook", goerr.V("name", entry.Name))
		}
		logging.Default().Info("Preloaded notebook", "id", created.ID, "name", created.Name)
	}

	return nil
}
