package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/ren-ben/HelikonProject/pkg/models"
)

// ListSubjects retrieves the subjects of an account. An account with no
// subjects is seeded with the default subject list on first access, so
// new users always start from a sensible catalogue.
func (s *GORMStore) ListSubjects(ctx context.Context, ownerID string) ([]*models.Subject, error) {
	subjects, err := listAll[models.Subject](ctx, s.db,
		withFilter("owner_id", ownerID),
		withOrder("name ASC"),
	)
	if err != nil {
		return nil, err
	}

	if len(subjects) > 0 {
		return subjects, nil
	}

	if err := s.seedDefaultSubjects(ctx, ownerID); err != nil {
		return nil, err
	}

	return listAll[models.Subject](ctx, s.db,
		withFilter("owner_id", ownerID),
		withOrder("name ASC"),
	)
}

func (s *GORMStore) seedDefaultSubjects(ctx context.Context, ownerID string) error {
	seeded := make([]*models.Subject, 0, len(models.DefaultSubjects))
	for _, name := range models.DefaultSubjects {
		seeded = append(seeded, &models.Subject{
			ID:      uuid.NewString(),
			Name:    name,
			OwnerID: ownerID,
		})
	}

	err := s.db.WithContext(ctx).Create(&seeded).Error
	if err != nil && isUniqueConstraintError(err) {
		// A concurrent request seeded the same account first.
		return nil
	}
	return err
}

// CreateSubject adds a subject for an account.
func (s *GORMStore) CreateSubject(ctx context.Context, subject *models.Subject) error {
	if err := subject.Validate(); err != nil {
		return err
	}

	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}

	return createEntity(ctx, s.db, subject, models.ErrDuplicateSubject)
}

// DeleteSubject deletes a subject by ID.
func (s *GORMStore) DeleteSubject(ctx context.Context, id string) error {
	return deleteByField[models.Subject](ctx, s.db, "id", id, models.ErrSubjectNotFound)
}

// GetSubject retrieves a subject by ID.
func (s *GORMStore) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	return getByField[models.Subject](ctx, s.db, "id", id, models.ErrSubjectNotFound)
}
