//go:build integration

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/ren-ben/HelikonProject/pkg/models"
)

// createTestStore creates an in-memory SQLite store for testing.
func createTestStore(t *testing.T) *GORMStore {
	t.Helper()
	store, err := New(&Config{
		Type: DatabaseTypeSQLite,
		SQLite: SQLiteConfig{
			Path: ":memory:",
		},
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return store
}

func createTestAccount(t *testing.T, store *GORMStore, username, email string) *models.Account {
	t.Helper()
	account := &models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: "hashed-password",
		Approved:     true,
	}
	account.SetRoles([]models.Role{models.RoleUser})
	if err := store.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to create account %q: %v", username, err)
	}
	return account
}

func TestNew(t *testing.T) {
	t.Run("default config uses sqlite", func(t *testing.T) {
		config := &Config{}
		config.ApplyDefaults()

		if config.Type != DatabaseTypeSQLite {
			t.Errorf("expected SQLite, got %s", config.Type)
		}
	})

	t.Run("invalid config returns error", func(t *testing.T) {
		_, err := New(&Config{Type: "invalid"})
		if err == nil {
			t.Error("expected error for invalid config")
		}
	})

	t.Run("creates in-memory store", func(t *testing.T) {
		store := createTestStore(t)
		defer store.Close()

		if err := store.Healthcheck(context.Background()); err != nil {
			t.Errorf("expected healthy store, got %v", err)
		}
	})
}

func TestAccountOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	t.Run("create account", func(t *testing.T) {
		account := createTestAccount(t, store, "teacher1", "teacher1@example.com")
		if account.ID == "" {
			t.Error("expected generated account ID")
		}
	})

	t.Run("create without roles fails", func(t *testing.T) {
		account := &models.Account{
			Username:     "noroles",
			Email:        "noroles@example.com",
			PasswordHash: "hashed-password",
		}
		if err := store.CreateAccount(ctx, account); err == nil {
			t.Error("expected validation error for account without roles")
		}
	})

	t.Run("duplicate username fails", func(t *testing.T) {
		account := &models.Account{
			Username:     "teacher1",
			Email:        "other@example.com",
			PasswordHash: "hashed-password",
		}
		account.SetRoles([]models.Role{models.RoleUser})

		err := store.CreateAccount(ctx, account)
		if !errors.Is(err, models.ErrDuplicateUsername) {
			t.Errorf("expected ErrDuplicateUsername, got %v", err)
		}
	})

	t.Run("duplicate email fails", func(t *testing.T) {
		account := &models.Account{
			Username:     "teacher2",
			Email:        "teacher1@example.com",
			PasswordHash: "hashed-password",
		}
		account.SetRoles([]models.Role{models.RoleUser})

		err := store.CreateAccount(ctx, account)
		if !errors.Is(err, models.ErrDuplicateEmail) {
			t.Errorf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("get by username", func(t *testing.T) {
		account, err := store.GetAccountByUsername(ctx, "teacher1")
		if err != nil {
			t.Fatalf("failed to get account: %v", err)
		}
		if account.Email != "teacher1@example.com" {
			t.Errorf("expected email 'teacher1@example.com', got %q", account.Email)
		}
	})

	t.Run("get by email", func(t *testing.T) {
		account, err := store.GetAccountByEmail(ctx, "teacher1@example.com")
		if err != nil {
			t.Fatalf("failed to get account: %v", err)
		}
		if account.Username != "teacher1" {
			t.Errorf("expected username 'teacher1', got %q", account.Username)
		}
	})

	t.Run("get not found", func(t *testing.T) {
		_, err := store.GetAccountByUsername(ctx, "nonexistent")
		if !errors.Is(err, models.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("update roles", func(t *testing.T) {
		account, _ := store.GetAccountByUsername(ctx, "teacher1")

		updated, err := store.UpdateAccountRoles(ctx, account.ID, []models.Role{models.RoleUser, models.RoleAdmin})
		if err != nil {
			t.Fatalf("failed to update roles: %v", err)
		}
		if !updated.IsAdmin() {
			t.Error("expected account to be admin after update")
		}

		reloaded, _ := store.GetAccount(ctx, account.ID)
		if !reloaded.IsAdmin() {
			t.Error("expected role update to be persisted")
		}
	})

	t.Run("update roles rejects empty set", func(t *testing.T) {
		account, _ := store.GetAccountByUsername(ctx, "teacher1")

		_, err := store.UpdateAccountRoles(ctx, account.ID, nil)
		if err == nil {
			t.Error("expected error for empty role set")
		}
	})

	t.Run("set approval", func(t *testing.T) {
		account, _ := store.GetAccountByUsername(ctx, "teacher1")

		updated, err := store.SetAccountApproval(ctx, account.ID, false)
		if err != nil {
			t.Fatalf("failed to set approval: %v", err)
		}
		if updated.Approved {
			t.Error("expected account to be unapproved")
		}

		reloaded, _ := store.GetAccount(ctx, account.ID)
		if reloaded.Approved {
			t.Error("expected approval change to be persisted")
		}
	})

	t.Run("update last login", func(t *testing.T) {
		account, _ := store.GetAccountByUsername(ctx, "teacher1")

		if err := store.UpdateLastLogin(ctx, account.ID); err != nil {
			t.Fatalf("failed to update last login: %v", err)
		}

		reloaded, _ := store.GetAccount(ctx, account.ID)
		if reloaded.LastLogin == nil {
			t.Error("expected last login to be set")
		}
	})

	t.Run("update last login of missing account", func(t *testing.T) {
		err := store.UpdateLastLogin(ctx, "no-such-id")
		if !errors.Is(err, models.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("list and count", func(t *testing.T) {
		createTestAccount(t, store, "teacher3", "teacher3@example.com")

		accounts, err := store.ListAccounts(ctx)
		if err != nil {
			t.Fatalf("failed to list accounts: %v", err)
		}

		count, err := store.CountAccounts(ctx)
		if err != nil {
			t.Fatalf("failed to count accounts: %v", err)
		}
		if int64(len(accounts)) != count {
			t.Errorf("list returned %d accounts but count is %d", len(accounts), count)
		}
	})

	t.Run("delete account", func(t *testing.T) {
		account, _ := store.GetAccountByUsername(ctx, "teacher3")

		if err := store.DeleteAccount(ctx, account.ID); err != nil {
			t.Fatalf("failed to delete account: %v", err)
		}

		_, err := store.GetAccount(ctx, account.ID)
		if !errors.Is(err, models.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound after delete, got %v", err)
		}
	})

	t.Run("delete missing account", func(t *testing.T) {
		err := store.DeleteAccount(ctx, "no-such-id")
		if !errors.Is(err, models.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

func TestEnsureAdminAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store creates default admin", func(t *testing.T) {
		store := createTestStore(t)
		defer store.Close()

		admin, err := store.EnsureAdminAccount(ctx, AdminBootstrap{})
		if err != nil {
			t.Fatalf("EnsureAdminAccount failed: %v", err)
		}
		if admin == nil {
			t.Fatal("expected admin account to be created")
		}
		if admin.Username != models.AdminUsername {
			t.Errorf("expected username %q, got %q", models.AdminUsername, admin.Username)
		}
		if !admin.IsAdmin() {
			t.Error("expected admin account to carry ADMIN role")
		}
		if !admin.Approved {
			t.Error("expected admin account to be approved")
		}
		if !models.VerifyPassword(models.AdminInitialPassword, admin.PasswordHash) {
			t.Error("expected admin account to use the initial password")
		}
	})

	t.Run("configured credentials override the defaults", func(t *testing.T) {
		store := createTestStore(t)
		defer store.Close()

		admin, err := store.EnsureAdminAccount(ctx, AdminBootstrap{
			Email:           "root@school.example",
			InitialPassword: "s3cret-first-boot",
		})
		if err != nil {
			t.Fatalf("EnsureAdminAccount failed: %v", err)
		}
		if admin == nil {
			t.Fatal("expected admin account to be created")
		}
		if admin.Username != models.AdminUsername {
			t.Errorf("expected the fixed username %q, got %q", models.AdminUsername, admin.Username)
		}
		if admin.Email != "root@school.example" {
			t.Errorf("expected configured email, got %q", admin.Email)
		}
		if !models.VerifyPassword("s3cret-first-boot", admin.PasswordHash) {
			t.Error("expected admin account to use the configured password")
		}
		if models.VerifyPassword(models.AdminInitialPassword, admin.PasswordHash) {
			t.Error("expected the default password to be rejected")
		}
	})

	t.Run("repeated calls create no second admin", func(t *testing.T) {
		store := createTestStore(t)
		defer store.Close()

		if _, err := store.EnsureAdminAccount(ctx, AdminBootstrap{}); err != nil {
			t.Fatalf("first EnsureAdminAccount failed: %v", err)
		}

		admin, err := store.EnsureAdminAccount(ctx, AdminBootstrap{})
		if err != nil {
			t.Fatalf("second EnsureAdminAccount failed: %v", err)
		}
		if admin != nil {
			t.Error("expected no action on a healthy admin account")
		}

		count, _ := store.CountAccounts(ctx)
		if count != 1 {
			t.Errorf("expected exactly 1 account, got %d", count)
		}
	})

	t.Run("restores lost admin role and approval", func(t *testing.T) {
		store := createTestStore(t)
		defer store.Close()

		created, err := store.EnsureAdminAccount(ctx, AdminBootstrap{})
		if err != nil || created == nil {
			t.Fatalf("bootstrap failed: admin=%v err=%v", created, err)
		}

		// Simulate external mutation of the store between runs.
		if _, err := store.UpdateAccountRoles(ctx, created.ID, []models.Role{models.RoleUser}); err != nil {
			t.Fatalf("failed to demote admin: %v", err)
		}
		if _, err := store.SetAccountApproval(ctx, created.ID, false); err != nil {
			t.Fatalf("failed to unapprove admin: %v", err)
		}

		healed, err := store.EnsureAdminAccount(ctx, AdminBootstrap{})
		if err != nil {
			t.Fatalf("EnsureAdminAccount failed: %v", err)
		}
		if healed == nil {
			t.Fatal("expected the admin account to be healed")
		}
		if !healed.IsAdmin() {
			t.Error("expected ADMIN role to be restored")
		}
		if !healed.HasRole(models.RoleUser) {
			t.Error("expected existing roles to be kept")
		}
		if !healed.Approved {
			t.Error("expected approval to be restored")
		}

		reloaded, _ := store.GetAccountByUsername(ctx, models.AdminUsername)
		if !reloaded.IsAdmin() || !reloaded.Approved {
			t.Error("expected healed state to be persisted")
		}
	})

	t.Run("non-empty store without admin account takes no action", func(t *testing.T) {
		store := createTestStore(t)
		defer store.Close()

		createTestAccount(t, store, "operator", "operator@example.com")

		admin, err := store.EnsureAdminAccount(ctx, AdminBootstrap{})
		if err != nil {
			t.Fatalf("EnsureAdminAccount failed: %v", err)
		}
		if admin != nil {
			t.Error("expected no admin to be created in an operator-managed store")
		}

		count, _ := store.CountAccounts(ctx)
		if count != 1 {
			t.Errorf("expected account count to stay at 1, got %d", count)
		}
	})
}

func TestMaterialOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	owner := createTestAccount(t, store, "owner", "owner@example.com")
	other := createTestAccount(t, store, "other", "other@example.com")

	t.Run("create material", func(t *testing.T) {
		material := &models.LessonMaterial{
			OwnerID:      owner.ID,
			MaterialType: "lesson_plan",
			Topic:        "Photosynthesis",
			Content:      "# Lesson Plan\n...",
			Subject:      "Englisch",
		}

		if err := store.CreateMaterial(ctx, material); err != nil {
			t.Fatalf("failed to create material: %v", err)
		}
		if material.ID == "" {
			t.Error("expected generated material ID")
		}
	})

	t.Run("create without topic fails", func(t *testing.T) {
		material := &models.LessonMaterial{
			OwnerID:      owner.ID,
			MaterialType: "quiz",
			Content:      "...",
		}
		if err := store.CreateMaterial(ctx, material); err == nil {
			t.Error("expected validation error for missing topic")
		}
	})

	t.Run("list by owner", func(t *testing.T) {
		materials, err := store.ListMaterialsByOwner(ctx, owner.ID)
		if err != nil {
			t.Fatalf("failed to list materials: %v", err)
		}
		if len(materials) != 1 {
			t.Fatalf("expected 1 material, got %d", len(materials))
		}

		foreign, err := store.ListMaterialsByOwner(ctx, other.ID)
		if err != nil {
			t.Fatalf("failed to list materials: %v", err)
		}
		if len(foreign) != 0 {
			t.Errorf("expected no materials for other owner, got %d", len(foreign))
		}
	})

	t.Run("update material", func(t *testing.T) {
		materials, _ := store.ListMaterialsByOwner(ctx, owner.ID)
		material := materials[0]
		material.Topic = "Cell Biology"
		material.Content = "updated content"

		if err := store.UpdateMaterial(ctx, material); err != nil {
			t.Fatalf("failed to update material: %v", err)
		}

		reloaded, _ := store.GetMaterial(ctx, material.ID)
		if reloaded.Topic != "Cell Biology" {
			t.Errorf("expected topic 'Cell Biology', got %q", reloaded.Topic)
		}
		if reloaded.ModifiedAt == nil {
			t.Error("expected modification timestamp to be set")
		}
	})

	t.Run("update missing material", func(t *testing.T) {
		material := &models.LessonMaterial{
			ID:           "no-such-id",
			MaterialType: "quiz",
			Topic:        "x",
			Content:      "y",
		}
		err := store.UpdateMaterial(ctx, material)
		if !errors.Is(err, models.ErrMaterialNotFound) {
			t.Errorf("expected ErrMaterialNotFound, got %v", err)
		}
	})

	t.Run("count materials", func(t *testing.T) {
		byOwner, err := store.CountMaterialsByOwner(ctx, owner.ID)
		if err != nil {
			t.Fatalf("failed to count materials: %v", err)
		}
		if byOwner != 1 {
			t.Errorf("expected 1 material for owner, got %d", byOwner)
		}

		total, err := store.CountMaterials(ctx)
		if err != nil {
			t.Fatalf("failed to count materials: %v", err)
		}
		if total != 1 {
			t.Errorf("expected 1 material in total, got %d", total)
		}
	})

	t.Run("delete material", func(t *testing.T) {
		materials, _ := store.ListMaterialsByOwner(ctx, owner.ID)

		if err := store.DeleteMaterial(ctx, materials[0].ID); err != nil {
			t.Fatalf("failed to delete material: %v", err)
		}

		_, err := store.GetMaterial(ctx, materials[0].ID)
		if !errors.Is(err, models.ErrMaterialNotFound) {
			t.Errorf("expected ErrMaterialNotFound after delete, got %v", err)
		}
	})
}

func TestSubjectOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	owner := createTestAccount(t, store, "owner", "owner@example.com")
	other := createTestAccount(t, store, "other", "other@example.com")

	t.Run("first list seeds defaults", func(t *testing.T) {
		subjects, err := store.ListSubjects(ctx, owner.ID)
		if err != nil {
			t.Fatalf("failed to list subjects: %v", err)
		}
		if len(subjects) != len(models.DefaultSubjects) {
			t.Fatalf("expected %d seeded subjects, got %d", len(models.DefaultSubjects), len(subjects))
		}
		for _, subject := range subjects {
			if subject.OwnerID != owner.ID {
				t.Errorf("seeded subject %q has owner %q", subject.Name, subject.OwnerID)
			}
		}
	})

	t.Run("second list does not reseed", func(t *testing.T) {
		subjects, err := store.ListSubjects(ctx, owner.ID)
		if err != nil {
			t.Fatalf("failed to list subjects: %v", err)
		}
		if len(subjects) != len(models.DefaultSubjects) {
			t.Errorf("expected %d subjects, got %d", len(models.DefaultSubjects), len(subjects))
		}
	})

	t.Run("create subject", func(t *testing.T) {
		subject := &models.Subject{Name: "Chemie", OwnerID: owner.ID}

		if err := store.CreateSubject(ctx, subject); err != nil {
			t.Fatalf("failed to create subject: %v", err)
		}

		subjects, _ := store.ListSubjects(ctx, owner.ID)
		if len(subjects) != len(models.DefaultSubjects)+1 {
			t.Errorf("expected %d subjects, got %d", len(models.DefaultSubjects)+1, len(subjects))
		}
	})

	t.Run("duplicate name for same owner fails", func(t *testing.T) {
		subject := &models.Subject{Name: "Chemie", OwnerID: owner.ID}

		err := store.CreateSubject(ctx, subject)
		if !errors.Is(err, models.ErrDuplicateSubject) {
			t.Errorf("expected ErrDuplicateSubject, got %v", err)
		}
	})

	t.Run("same name for different owner succeeds", func(t *testing.T) {
		// Seed the other account first so the list is stable.
		if _, err := store.ListSubjects(ctx, other.ID); err != nil {
			t.Fatalf("failed to seed other account: %v", err)
		}

		subject := &models.Subject{Name: "Chemie", OwnerID: other.ID}
		if err := store.CreateSubject(ctx, subject); err != nil {
			t.Errorf("expected per-owner uniqueness, got %v", err)
		}
	})

	t.Run("delete subject", func(t *testing.T) {
		subjects, _ := store.ListSubjects(ctx, owner.ID)

		if err := store.DeleteSubject(ctx, subjects[0].ID); err != nil {
			t.Fatalf("failed to delete subject: %v", err)
		}

		_, err := store.GetSubject(ctx, subjects[0].ID)
		if !errors.Is(err, models.ErrSubjectNotFound) {
			t.Errorf("expected ErrSubjectNotFound after delete, got %v", err)
		}
	})

	t.Run("delete missing subject", func(t *testing.T) {
		err := store.DeleteSubject(ctx, "no-such-id")
		if !errors.Is(err, models.ErrSubjectNotFound) {
			t.Errorf("expected ErrSubjectNotFound, got %v", err)
		}
	})
}
