package store

import (
	"context"

	"github.com/ren-ben/HelikonProject/pkg/models"
)

// AccountStore manages user accounts and their credentials.
type AccountStore interface {
	// CreateAccount creates a new account.
	// Returns models.ErrDuplicateUsername or models.ErrDuplicateEmail
	// when the username or email is already taken.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccount retrieves an account by ID.
	GetAccount(ctx context.Context, id string) (*models.Account, error)

	// GetAccountByUsername retrieves an account by username.
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)

	// GetAccountByEmail retrieves an account by email.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	// ListAccounts retrieves all accounts ordered by creation time.
	ListAccounts(ctx context.Context) ([]*models.Account, error)

	// UpdateAccountRoles replaces the role set of an account.
	UpdateAccountRoles(ctx context.Context, id string, roles []models.Role) (*models.Account, error)

	// SetAccountApproval sets the approved flag of an account.
	SetAccountApproval(ctx context.Context, id string, approved bool) (*models.Account, error)

	// UpdateLastLogin records a successful login timestamp.
	UpdateLastLogin(ctx context.Context, id string) error

	// DeleteAccount deletes an account by ID.
	DeleteAccount(ctx context.Context, id string) error

	// CountAccounts returns the total number of accounts.
	CountAccounts(ctx context.Context) (int64, error)

	// EnsureAdminAccount guarantees that an operational admin account
	// exists after startup. See the method documentation on GORMStore.
	EnsureAdminAccount(ctx context.Context, boot AdminBootstrap) (*models.Account, error)
}

// MaterialStore manages lesson materials.
type MaterialStore interface {
	// CreateMaterial creates a new lesson material.
	CreateMaterial(ctx context.Context, material *models.LessonMaterial) error

	// GetMaterial retrieves a lesson material by ID.
	GetMaterial(ctx context.Context, id string) (*models.LessonMaterial, error)

	// ListMaterialsByOwner retrieves all materials owned by an account,
	// newest first.
	ListMaterialsByOwner(ctx context.Context, ownerID string) ([]*models.LessonMaterial, error)

	// UpdateMaterial persists changes to an existing material.
	UpdateMaterial(ctx context.Context, material *models.LessonMaterial) error

	// DeleteMaterial deletes a lesson material by ID.
	DeleteMaterial(ctx context.Context, id string) error

	// CountMaterialsByOwner returns the number of materials owned by an account.
	CountMaterialsByOwner(ctx context.Context, ownerID string) (int64, error)

	// CountMaterials returns the total number of materials.
	CountMaterials(ctx context.Context) (int64, error)
}

// SubjectStore manages per-user subject lists.
type SubjectStore interface {
	// ListSubjects retrieves the subjects of an account, seeding the
	// default subject list on first access.
	ListSubjects(ctx context.Context, ownerID string) ([]*models.Subject, error)

	// CreateSubject adds a subject for an account.
	// Returns models.ErrDuplicateSubject when the name already exists
	// for that account.
	CreateSubject(ctx context.Context, subject *models.Subject) error

	// DeleteSubject deletes a subject by ID.
	DeleteSubject(ctx context.Context, id string) error

	// GetSubject retrieves a subject by ID.
	GetSubject(ctx context.Context, id string) (*models.Subject, error)
}

// Store is the persistence interface of the backend.
type Store interface {
	AccountStore
	MaterialStore
	SubjectStore

	// Healthcheck verifies the database connection is alive.
	Healthcheck(ctx context.Context) error

	// Close closes the underlying database connection.
	Close() error
}
