// Package scope implements the single authorization rule of the API:
// admins may read and mutate any user's records, standard users only
// their own. Every service consults this predicate before touching
// user-owned data instead of re-implementing the role branch.
package scope

import (
	apperrors "gastos/internal/errors"
	"gastos/internal/models"
)

// Caller identifies the authenticated user making a request, as verified
// by the auth middleware.
type Caller struct {
	UserID uint
	Role   models.UserRole
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// CanAccess reports whether the caller may view or mutate records owned
// by ownerID.
func (c Caller) CanAccess(ownerID uint) bool {
	return c.IsAdmin() || c.UserID == ownerID
}

// ResolveTarget maps a requested user ID to the effective record owner.
// Zero means "the caller"; anything else requires admin or self. A scope
// rejection is always FORBIDDEN, never an empty result or a not-found,
// so "no permission" stays distinguishable from "no data".
func (c Caller) ResolveTarget(requested uint) (uint, error) {
	if requested == 0 {
		return c.UserID, nil
	}
	if !c.CanAccess(requested) {
		return 0, apperrors.ErrForbidden
	}
	return requested, nil
}
