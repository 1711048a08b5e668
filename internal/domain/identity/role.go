package identity

import "strings"

// Role represents the role carried by a user's profile
type Role string

const (
	RoleCustomer Role = "customer" // Default role for new registrations
	RoleVendor   Role = "vendor"   // Can list and manage products
	RoleAdmin    Role = "admin"    // Full access, bypasses quotas
)

// ParseRole parses a role string, returning false for unknown values
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleVendor:
		return RoleVendor, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// IsValid returns true for a known role
func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// CanManageProducts returns true if the role is allowed to create products
func (r Role) CanManageProducts() bool {
	return r == RoleVendor || r == RoleAdmin
}
