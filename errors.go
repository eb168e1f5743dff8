package joint

import (
	"errors"
	"fmt"
)

var (
	// ErrNilBody is returned when a definition is missing one of its bodies.
	ErrNilBody = errors.New("joint body is nil")
	// ErrSameBody is returned when both bodies of a definition are the same.
	ErrSameBody = errors.New("joint bodies must differ")
	// ErrInvalidParameter is returned for out of range definition values.
	ErrInvalidParameter = errors.New("invalid joint parameter")
	// ErrGearJointKind is returned when a gear joint is given a joint that is
	// neither revolute nor prismatic.
	ErrGearJointKind = errors.New("gear joint needs revolute or prismatic joints")
	// ErrNotActive is returned when destroying a joint that is not alive in the arena.
	ErrNotActive = errors.New("joint is not active in this arena")
	// ErrUnknownKind is returned for definitions the arena cannot build.
	ErrUnknownKind = errors.New("unknown joint kind")
)

// DefError describes a rejected joint definition.
type DefError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *DefError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s joint: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s joint: %s: %v", e.Kind, e.Field, e.Err)
}

func (e *DefError) Unwrap() error {
	return e.Err
}

func defError(kind Kind, field string, err error) error {
	return &DefError{Kind: kind, Field: field, Err: err}
}
