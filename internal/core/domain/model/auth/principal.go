// Package auth provides the authenticated principal consumed by the
// application layer. Token verification happens at the HTTP boundary; the
// core only ever consults the principal's role and identity.
package auth

import (
	"errors"
	"strings"
)

// RoleAdmin is the role string that marks administrative principals in the
// verified token claims.
const RoleAdmin = "ADMINISTRADOR"

// ErrPrincipalIsNotConstructed is returned when a Principal was not created
// through the NewPrincipal constructor.
var ErrPrincipalIsNotConstructed = errors.New("Principal must be created via NewPrincipal constructor")

// Principal is the authenticated caller: an identity plus a role taken from
// a verified token. It is a value object; the core never validates tokens,
// only consults role and id equality through the two predicates below.
type Principal struct {
	id   string
	role string

	isConstructed bool
}

// NewPrincipal creates a Principal from verified token claims.
// The id is required; the role may be any string, with only RoleAdmin
// carrying meaning.
func NewPrincipal(id, role string) (Principal, error) {
	if strings.TrimSpace(id) == "" {
		return Principal{}, errors.New("principal id is required")
	}
	return Principal{
		id:            id,
		role:          role,
		isConstructed: true,
	}, nil
}

// Validate ensures the Principal was created via NewPrincipal.
func (p Principal) Validate() error {
	if !p.isConstructed {
		return ErrPrincipalIsNotConstructed
	}
	return nil
}

// ID returns the principal's identity.
func (p Principal) ID() string {
	return p.id
}

// Role returns the raw role string from the token.
func (p Principal) Role() string {
	return p.role
}

// IsAdmin reports whether the principal holds the administrative role.
// This is one of the two authorization predicates used by every operation.
func (p Principal) IsAdmin() bool {
	return p.role == RoleAdmin
}

// CanAccess reports whether the principal may act on a resource owned by
// resourceOwnerID: admins always may, other principals only on their own
// resources. This is the second authorization predicate.
func (p Principal) CanAccess(resourceOwnerID string) bool {
	return p.IsAdmin() || p.id == resourceOwnerID
}
