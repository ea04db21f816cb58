package matching

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError indicates the target entity of a matching request does not
// exist. Fatal: reported before any per-item work begins.
type NotFoundError struct {
	Kind string // "job" or "applicant"
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// MissingInputError indicates the target entity exists but lacks the text or
// document required to start a batch. Fatal, same as NotFoundError.
type MissingInputError struct {
	Kind   string // "job" or "applicant"
	ID     uuid.UUID
	Detail string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, e.ID, e.Detail)
}
