package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
	"github.com/notelens-lab/notelens/pkg/repository/firestore"
	"github.com/notelens-lab/notelens/pkg/repository/memory"
	"github.com/notelens-lab/notelens/pkg/repository/mirror"
	"github.com/notelens-lab/notelens/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend    string
	projectID  string
	databaseID string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (memory or firestore)",
			Value:       "memory",
			Sources:     cli.EnvVars("NOTELENS_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("NOTELENS_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("NOTELENS_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
	}
}

// Configure initializes and returns a repository based on the configured
// backend. The firestore backend is mounted behind the in-memory cache as a
// best-effort durable mirror; the cache stays authoritative for this process.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case "memory":
		logging.Default().Info("Using in-memory repository (no durable mirror)")
		return memory.New(), nil

	case "firestore":
		if r.projectID == "" {
			return nil, goerr.New("firestore-project-id is required when using firestore backend")
		}
		durable, err := firestore.New(ctx, r.projectID, r.databaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using in-memory repository with Firestore mirror",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return mirror.New(memory.New(), durable), nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
