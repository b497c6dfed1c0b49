package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ren-ben/HelikonProject/pkg/models"
)

// CreateAccount creates a new account. The username and email must be
// unique; violations are reported with field-specific errors so the
// caller can tell the user which one is taken.
func (s *GORMStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return s.classifyDuplicateAccount(ctx, err, account)
		}
		return err
	}

	return nil
}

// classifyDuplicateAccount decides whether a unique constraint violation
// was caused by the username or the email column. The driver error names
// the index on both backends; when it doesn't, fall back to probing.
func (s *GORMStore) classifyDuplicateAccount(ctx context.Context, err error, account *models.Account) error {
	errStr := err.Error()
	if strings.Contains(errStr, "username") {
		return models.ErrDuplicateUsername
	}
	if strings.Contains(errStr, "email") {
		return models.ErrDuplicateEmail
	}

	if _, lookupErr := s.GetAccountByUsername(ctx, account.Username); lookupErr == nil {
		return models.ErrDuplicateUsername
	}
	if _, lookupErr := s.GetAccountByEmail(ctx, account.Email); lookupErr == nil {
		return models.ErrDuplicateEmail
	}

	return models.ErrDuplicateAccount
}

// GetAccount retrieves an account by ID.
func (s *GORMStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return getByField[models.Account](ctx, s.db, "id", id, models.ErrAccountNotFound)
}

// GetAccountByUsername retrieves an account by username.
func (s *GORMStore) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	return getByField[models.Account](ctx, s.db, "username", username, models.ErrAccountNotFound)
}

// GetAccountByEmail retrieves an account by email.
func (s *GORMStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return getByField[models.Account](ctx, s.db, "email", email, models.ErrAccountNotFound)
}

// ListAccounts retrieves all accounts ordered by creation time.
func (s *GORMStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	return listAll[models.Account](ctx, s.db, withOrder("created_at ASC"))
}

// UpdateAccountRoles replaces the role set of an account.
func (s *GORMStore) UpdateAccountRoles(ctx context.Context, id string, roles []models.Role) (*models.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(roles) == 0 {
		return nil, fmt.Errorf("account must have at least one role")
	}
	account.SetRoles(roles)

	if err := s.db.WithContext(ctx).Model(account).Update("roles", account.Roles).Error; err != nil {
		return nil, err
	}

	return account, nil
}

// SetAccountApproval sets the approved flag of an account.
func (s *GORMStore) SetAccountApproval(ctx context.Context, id string, approved bool) (*models.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(account).Update("approved", approved).Error; err != nil {
		return nil, err
	}

	account.Approved = approved
	return account, nil
}

// UpdateLastLogin records a successful login timestamp.
func (s *GORMStore) UpdateLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	result := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("last_login", &now)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

// DeleteAccount deletes an account by ID.
func (s *GORMStore) DeleteAccount(ctx context.Context, id string) error {
	return deleteByField[models.Account](ctx, s.db, "id", id, models.ErrAccountNotFound)
}

// CountAccounts returns the total number of accounts.
func (s *GORMStore) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AdminBootstrap overrides the credentials of the bootstrap admin account.
// Zero values fall back to the well-known defaults. The username is fixed:
// the healing logic below keys on it across restarts.
type AdminBootstrap struct {
	Email           string `mapstructure:"email" yaml:"email"`
	InitialPassword string `mapstructure:"initial_password" yaml:"initial_password"`
}

// EnsureAdminAccount guarantees an operational admin account after startup:
//
//   - When the store is empty, the default admin account is created with
//     the configured initial credentials (or the well-known defaults),
//     approved and holding the ADMIN role. The password must be changed
//     after first login.
//   - When an account with the admin username exists but lost the ADMIN
//     role or its approval, both are restored. This heals external
//     mutations of the store between runs.
//   - When the store is non-empty and no admin-named account exists, no
//     account is created: the operator has taken over user management.
//
// The returned account is nil when no action was taken. Running this
// repeatedly never creates a second admin.
func (s *GORMStore) EnsureAdminAccount(ctx context.Context, boot AdminBootstrap) (*models.Account, error) {
	count, err := s.CountAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}

	if count == 0 {
		password := boot.InitialPassword
		if password == "" {
			password = models.AdminInitialPassword
		}
		hash, err := models.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := models.DefaultAdminAccount(models.AdminUsername, boot.Email, hash)
		if err := s.CreateAccount(ctx, admin); err != nil {
			// A concurrent bootstrap may have won the race; that still
			// satisfies the guarantee.
			if errors.Is(err, models.ErrDuplicateUsername) || errors.Is(err, models.ErrDuplicateEmail) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to create admin account: %w", err)
		}
		return admin, nil
	}

	admin, err := s.GetAccountByUsername(ctx, models.AdminUsername)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up admin account: %w", err)
	}

	if admin.IsAdmin() && admin.Approved {
		return nil, nil
	}

	admin.AddRole(models.RoleAdmin)
	admin.Approved = true

	err = s.db.WithContext(ctx).Model(admin).Updates(map[string]any{
		"roles":    admin.Roles,
		"approved": true,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to restore admin account: %w", err)
	}

	return admin, nil
}
