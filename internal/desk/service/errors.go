package service

import (
	"errors"
	"fmt"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/policy"
	"github.com/bitfantasy/assetdesk/internal/desk/repository"
)

// AuthorizationError the actor may not perform the action. Nothing was changed.
type AuthorizationError struct {
	Action policy.Action
	Role   entity.Role
	Reason string
}

func (e *AuthorizationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("role %q may not %s: %s", e.Role, e.Action, e.Reason)
	}
	return fmt.Sprintf("role %q may not %s", e.Role, e.Action)
}

// NotFoundError the referenced record does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ValidationError a request field is malformed.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Rule)
}

// StateConflictError the record's current state forbids the operation.
type StateConflictError struct {
	Entity string
	ID     string
	State  string
	Rule   string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s %s is %s: %s", e.Entity, e.ID, e.State, e.Rule)
}

// PersistenceError the store rejected a read or write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrNoRecipient no user account matches the notification target.
var ErrNoRecipient = errors.New("no recipient user")

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// lookup maps repository.ErrNotFound onto NotFoundError and anything else onto
// PersistenceError.
func lookup(err error, entityName, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entityName, ID: id}
	}
	return persistence("load "+entityName, err)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
