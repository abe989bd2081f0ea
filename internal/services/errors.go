package services

import "errors"

// Error taxonomy surfaced to the request layer. Handlers map each kind to a
// distinct status code so callers can tell "retry later" from "do not retry".
var (
	// not found
	ErrUserNotFound     = errors.New("user not found")
	ErrTransferNotFound = errors.New("transfer not found")

	// invalid request
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrSelfTransfer       = errors.New("cannot transfer to self")
	ErrInvalidPoints      = errors.New("points must be positive")
	ErrInsufficientPoints = errors.New("insufficient points")

	// forbidden
	ErrNotTransferOwner = errors.New("only the sender may confirm the transfer")

	// invalid state
	ErrTransferNotPending = errors.New("transfer is not pending")
	ErrTransferExpired    = errors.New("transfer expired")

	// conflict
	ErrTransferConflict = errors.New("transfer id collision")
)

// InvalidStateError reports the terminal status a confirm attempt ran into.
// It matches ErrTransferNotPending under errors.Is so handlers can treat all
// invalid-state failures as one kind while keeping the status in the message.
type InvalidStateError struct {
	Status string
}

func (e *InvalidStateError) Error() string {
	return "transfer is " + e.Status
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrTransferNotPending
}
