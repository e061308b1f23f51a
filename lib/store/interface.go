package store

import (
	"fmt"

	"github.com/trybenon/peopled/lib/model"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the interface to the authoritative backing store of the shared
// collection. The in-memory cache held by collection.Manager is reloaded from
// here before every operation, so implementations must reflect committed
// writes immediately.
//
// All methods are safe for concurrent use. Mutating methods that take an
// owner must only affect records whose Owner equals it; the boolean result
// reports whether a matching record existed.
type IStore interface {
	// Load returns all records, insertion (id) ordered. An empty owner
	// returns the unscoped global view, otherwise only that owner's records.
	Load(owner string) ([]model.Person, error)
	// Add persists a new record and returns the id the store assigned to it.
	Add(p model.Person) (id int64, err error)
	// Update replaces the record with the given id if it is owned by owner.
	Update(id int64, p model.Person, owner string) (updated bool, err error)
	// Remove deletes the record with the given id if it is owned by owner.
	Remove(id int64, owner string) (removed bool, err error)
	// RemoveMin deletes the owner's record with the smallest id.
	RemoveMin(owner string) (removed bool, err error)
	// Clear deletes all records of the owner and returns how many were removed.
	Clear(owner string) (removed int, err error)

	// AddUser creates a user with the given password hash. It returns false
	// without error if the login is already taken.
	AddUser(login, hash string) (created bool, err error)
	// UserHash returns the stored password hash for a login. The boolean
	// reports whether the user exists.
	UserHash(login string) (hash string, found bool, err error)

	// Close releases the store's resources.
	Close() error
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCConstraintViolation:
		errorCode = "ConstraintViolation"
	case RetCUnavailable:
		errorCode = "Unavailable"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("StoreError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess             RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                      // 1: Operation failed due to an internal error.
	RetCConstraintViolation                // 2: Operation violated a store constraint (e.g. duplicate key).
	RetCUnavailable                        // 3: The backing store is unreachable.
)
