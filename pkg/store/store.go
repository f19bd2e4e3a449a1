// Package store persists projects.
//
// The [Store] interface abstracts over backends so the CLI and the server
// share one persistence model:
//
//   - [FileStore] keeps each project as a JSON document under a directory.
//     This is the CLI default.
//   - [MongoStore] keeps projects in a MongoDB collection for server
//     deployments.
//
// Missing projects surface as errors with code
// [pkgerrors.ErrCodeProjectNotFound]; backend failures carry
// [pkgerrors.ErrCodeStore].
package store

import (
	"context"
	"time"

	"github.com/porelab/porenet/pkg/project"
)

// Info is a project summary as returned by [Store.List].
type Info struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Store is the interface for project persistence backends.
type Store interface {
	// Save writes the project, replacing any previous document with the
	// same ID.
	Save(ctx context.Context, p *project.Project) error

	// Load reads the project with the given ID.
	Load(ctx context.Context, id string) (*project.Project, error)

	// List returns summaries of all stored projects, sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Delete removes the project with the given ID.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
