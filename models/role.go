package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. The same type is used by the
// auth middleware and the domain services.
type Role string

const (
	RoleRegularUser Role = "RegularUser"
	RolePremiumUser Role = "PremiumUser"
	RoleAdmin       Role = "Admin"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleRegularUser, RolePremiumUser, RoleAdmin}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleRegularUser, RolePremiumUser, RoleAdmin:
		return true
	}
	return false
}

// IsCustomer reports whether r may place orders
func (r Role) IsCustomer() bool {
	return r == RoleRegularUser || r == RolePremiumUser
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a role name (case-insensitive) into a Role
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}
