// Package gitref defines the narrow collaborator used to read and mutate
// tags, and the factory selecting a concrete backend.
package gitref

import (
	"context"

	"review-consensus-guard/internal/entities"
)

// RefStore reads and mutates tags.
//
// GetTagRef returns nil without error for a missing tag. CreateTag only
// creates an absent tag (entities.ErrRefExists otherwise) and DeleteTag only
// deletes a tag still pointing at ref.ObjectID (entities.ErrRefChanged or
// entities.ErrRefNotFound otherwise).
type RefStore interface {
	GetTagRef(ctx context.Context, name string) (*entities.RefHandle, error)
	CreateTag(ctx context.Context, name, commitHash string, tagger entities.PersonIdent, message string) (entities.RefHandle, error)
	DeleteTag(ctx context.Context, ref entities.RefHandle) error
}
