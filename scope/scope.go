// Package scope derives the effective owner filter from the caller's
// identity and role. It is a pure function of its inputs; role state is
// never ambient.
package scope

import (
	"errors"

	"fintrack/api/models"
)

// ErrForbidden means a non-admin tried to act on another user's behalf.
var ErrForbidden = errors.New("only admin can act for other users")

// Owner resolves the owner filter for read operations. Admins see all
// owners unless they request a specific one; everyone else is scoped to
// self, and any requested owner is silently overridden.
func Owner(caller models.Caller, requested string) string {
	if !caller.IsAdmin() {
		return caller.ID
	}
	return requested
}

// CreationOwner resolves who a new record belongs to. Admins may create
// for any user; a non-admin naming anyone but themselves is rejected.
func CreationOwner(caller models.Caller, requested string) (string, error) {
	if requested == "" || requested == caller.ID {
		return caller.ID, nil
	}
	if !caller.IsAdmin() {
		return "", ErrForbidden
	}
	return requested, nil
}
