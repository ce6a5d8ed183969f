package companies

import "context"

// Repo is the company directory.
//
// Upsert is the only write path used by the OAuth flow: on a primary-key
// conflict it overwrites the profile, token fields and metadata, refreshes
// UpdatedAt and keeps the original CreatedAt. Concurrent upserts for the same
// ID are last-writer-wins.
type Repo interface {
	// FindByID returns nil and no error when the company does not exist.
	FindByID(ctx context.Context, id string) (*Company, error)
	Upsert(ctx context.Context, company *Company) (*Company, error)
	// Delete is an administrative operation; the OAuth flow never deletes.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*Company, error)
}
