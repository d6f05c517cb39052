package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// Role is the function a user performs inside a tenant. Case assignments are
// keyed by the same values.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleCEO          Role = "ceo"
	RoleTriage       Role = "triage"
	RoleInvestigator Role = "investigator"
	RoleUser         Role = "user"
)

// IsPrivileged reports whether the role can see every case of its tenant
func (r Role) IsPrivileged() bool {
	switch r {
	case RoleAdmin, RoleCEO, RoleTriage, RoleInvestigator:
		return true
	default:
		return false
	}
}

// In reports whether r is one of roles
func (r Role) In(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// UserID identifies an internal (authenticated) user
type UserID string

// TenantID is the isolation boundary every entity belongs to
type TenantID string

// DefaultTenantID is used when an inbound request carries no tenant header
const DefaultTenantID TenantID = "default"

var tenantPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,62}$`)

// Validate checks that the tenant ID is safe to use as a storage path segment
func (t TenantID) Validate() error {
	if !tenantPattern.MatchString(string(t)) {
		return goerr.New("tenant ID must be 1-63 letters, digits, hyphens or underscores", goerr.V("tenant_id", string(t)))
	}
	return nil
}

// String returns the string representation of the tenant ID
func (t TenantID) String() string {
	return string(t)
}
