package models

import (
	"fmt"
	"slices"
	"strings"
)

// Role represents a role in the closed authorization enumeration.
type Role string

const (
	// RoleUser is a regular user with access to their own materials.
	RoleUser Role = "USER"
	// RoleAdmin is an administrator with full permissions.
	RoleAdmin Role = "ADMIN"
)

// IsValid checks if the role is a member of the closed enumeration.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole converts a string into a Role, rejecting anything outside
// the closed enumeration.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

// ParseRoles converts a list of role names into a normalized role set.
// The result is deduplicated and sorted for a stable encoding.
func ParseRoles(names []string) ([]Role, error) {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		r, err := ParseRole(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	slices.Sort(roles)
	return roles, nil
}

// EncodeRoles serializes a role set into the comma-separated column format.
func EncodeRoles(roles []Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}

// DecodeRoles parses the comma-separated column format back into a role set.
// Unknown names are dropped rather than failing: the column is only ever
// written through EncodeRoles, so anything else is external mutation.
func DecodeRoles(encoded string) []Role {
	if encoded == "" {
		return nil
	}
	var roles []Role
	for _, name := range strings.Split(encoded, ",") {
		r := Role(strings.ToUpper(strings.TrimSpace(name)))
		if r.IsValid() && !slices.Contains(roles, r) {
			roles = append(roles, r)
		}
	}
	slices.Sort(roles)
	return roles
}

// RoleNames converts a role set into plain strings for token claims and
// API responses.
func RoleNames(roles []Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
