package models

// Defaults for the distinguished administrative account created by the
// startup bootstrap when the store is empty. The initial password is meant
// to be rotated by an operator out-of-band; it can be overridden via
// configuration before first start.
const (
	// AdminUsername is the fixed username of the distinguished account.
	AdminUsername = "admin"

	// AdminEmail is the default email of the distinguished account.
	AdminEmail = "admin@helikon.at"

	// AdminInitialPassword is the default first-boot password.
	AdminInitialPassword = "admin123"
)

// DefaultAdminAccount builds the distinguished administrative account with
// the given password hash. The account is approved and carries ADMIN.
func DefaultAdminAccount(username, email, passwordHash string) *Account {
	if username == "" {
		username = AdminUsername
	}
	if email == "" {
		email = AdminEmail
	}
	admin := &Account{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Approved:     true,
	}
	admin.SetRoles([]Role{RoleAdmin})
	return admin
}
