package model

import (
	"errors"
	"fmt"
)

var ErrTooManyFiles = errors.New("too many files in one bulk upload")

// BulkError reports a bulk upload that stopped part way. Images inserted
// before the failure stay in the gallery.
type BulkError struct {
	Inserted int
	Failed   string
	Err      error
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("bulk upload stopped at %q after %d images: %v", e.Failed, e.Inserted, e.Err)
}

func (e *BulkError) Unwrap() error { return e.Err }
