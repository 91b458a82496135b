// Package crud holds the list/create/update/delete flow shared by every
// admin resource editor. Each resource kind supplies a Record, a Draft for
// creation, a Patch for partial updates and a Repository.
package crud

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record with this slug already exists")
	ErrInvalidID = errors.New("invalid record id")
)

// RequiredID rejects the nil UUID; validation.Required treats any [16]byte as set.
var RequiredID = validation.By(func(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return errors.New("cannot be blank")
	}
	return nil
})

// MediaRef points at a stored asset. Path is the storage key; URL is kept for
// rows written before the key was persisted.
type MediaRef struct {
	Path string
	URL  string
}

func (m MediaRef) Empty() bool {
	return m.Path == "" && m.URL == ""
}

type Record interface {
	RecordID() uuid.UUID
	// MediaRefs lists every asset the record owns.
	MediaRefs() []MediaRef
	// SearchText returns the fields the admin list filter matches against.
	SearchText() []string
}

// Draft is the payload for creating a record.
type Draft interface {
	Validate() error
}

// Patch is the payload for a partial update of an existing record.
type Patch interface {
	Validate() error
	TargetID() uuid.UUID
}

type Repository[T Record, D Draft, P Patch] interface {
	// List returns the full collection in the kind's default order.
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	Create(ctx context.Context, d D) (T, error)
	Update(ctx context.Context, p P) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MediaDiscarder removes assets that no record references any more.
// Implementations must not fail the caller: errors are logged and retried.
type MediaDiscarder interface {
	Discard(ctx context.Context, ref MediaRef, owner string)
}
