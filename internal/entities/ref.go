package entities

import "errors"

var (
	// ErrRefExists is returned by a ref store when creating a tag that exists.
	ErrRefExists = errors.New("ref already exists")
	// ErrRefNotFound is returned by a ref store when deleting a missing tag.
	ErrRefNotFound = errors.New("ref not found")
	// ErrRefChanged is returned by a ref store when the tag no longer points
	// at the observed object.
	ErrRefChanged = errors.New("ref changed")
)

// RefHandle identifies a tag and the object it pointed at when read.
type RefHandle struct {
	Name     string
	ObjectID string
}

// TagRefName returns the fully qualified ref of a tag.
func TagRefName(name string) string {
	return "refs/tags/" + name
}
