package errs

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrNotFound          = errors.New("not found")
	ErrDataConflict      = errors.New("data conflict")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrSelfTransfer      = errors.New("transfer to self")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNotEnoughFunds    = errors.New("not enough funds")
)

// IsRecoverable reports whether the error belongs to the ledger taxonomy
// above. Anything else is a storage failure: the interactive loop must not
// continue past one, since doing so risks unrecorded financial operations.
func IsRecoverable(err error) bool {
	for _, sentinel := range []error{
		ErrNotAuthenticated,
		ErrNotFound,
		ErrDataConflict,
		ErrRecipientNotFound,
		ErrSelfTransfer,
		ErrInvalidAmount,
		ErrNotEnoughFunds,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Provides details at which field unique violation has occurred.
type AlreadyExistsError struct {
	FieldName string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("record with field %q already exists", e.FieldName)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrDataConflict
}
