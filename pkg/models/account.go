package models

import (
	"fmt"
	"slices"
	"time"
)

// Account represents a Helikon user for authentication and authorization.
//
// Roles are stored as a comma-separated encoding of the closed Role
// enumeration (see role.go). Username and email are unique; username is
// immutable after creation because it is the subject of issued tokens.
type Account struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null;size:255" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Roles        string     `gorm:"not null;size:100" json:"roles"`
	Approved     bool       `gorm:"default:false" json:"approved"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// TableName returns the table name for Account.
func (Account) TableName() string {
	return "accounts"
}

// RoleSet returns the decoded role set.
func (a *Account) RoleSet() []Role {
	return DecodeRoles(a.Roles)
}

// HasRole checks if the account carries the given role.
func (a *Account) HasRole(r Role) bool {
	return slices.Contains(a.RoleSet(), r)
}

// IsAdmin checks if the account carries the ADMIN role.
func (a *Account) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// SetRoles replaces the account's role set with the given one.
func (a *Account) SetRoles(roles []Role) {
	a.Roles = EncodeRoles(roles)
}

// AddRole adds a role to the account's role set if not already present.
func (a *Account) AddRole(r Role) {
	roles := a.RoleSet()
	if !slices.Contains(roles, r) {
		roles = append(roles, r)
		a.SetRoles(roles)
	}
}

// Validate checks if the account has a valid configuration.
// An account must carry at least one role from the closed enumeration.
func (a *Account) Validate() error {
	if a.Username == "" {
		return fmt.Errorf("username is required")
	}
	if a.Email == "" {
		return fmt.Errorf("email is required")
	}
	if len(a.RoleSet()) == 0 {
		return fmt.Errorf("account must have at least one role")
	}
	return nil
}
