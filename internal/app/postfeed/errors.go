package postfeed

import (
	"errors"

	"github.com/dalemusser/postdesk/internal/app/system/gates"
)

var (
	ErrBusinessNotFound  = errors.New("business not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrPublishedDelete   = errors.New("published posts cannot be deleted here")
	ErrPublishedUpdate   = errors.New("published posts cannot be edited")
	ErrPlatformNotLinked = errors.New("platform is not linked")
	ErrInvalidInput      = errors.New("invalid input")
	ErrCreateBlocked     = errors.New("post creation is blocked")
)

// BlockedError carries the gate decision that refused a create.
// It matches ErrCreateBlocked with errors.Is.
type BlockedError struct {
	Gate gates.CreateGate
}

func (e *BlockedError) Error() string { return e.Gate.Message }

func (e *BlockedError) Unwrap() error { return ErrCreateBlocked }
