package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ren-ben/HelikonProject/pkg/models"
)

// CreateMaterial creates a new lesson material.
func (s *GORMStore) CreateMaterial(ctx context.Context, material *models.LessonMaterial) error {
	if err := material.Validate(); err != nil {
		return err
	}

	if material.ID == "" {
		material.ID = uuid.NewString()
	}

	return s.db.WithContext(ctx).Create(material).Error
}

// GetMaterial retrieves a lesson material by ID.
func (s *GORMStore) GetMaterial(ctx context.Context, id string) (*models.LessonMaterial, error) {
	return getByField[models.LessonMaterial](ctx, s.db, "id", id, models.ErrMaterialNotFound)
}

// ListMaterialsByOwner retrieves all materials owned by an account, newest first.
func (s *GORMStore) ListMaterialsByOwner(ctx context.Context, ownerID string) ([]*models.LessonMaterial, error) {
	return listAll[models.LessonMaterial](ctx, s.db,
		withFilter("owner_id", ownerID),
		withOrder("created_at DESC"),
	)
}

// UpdateMaterial persists changes to an existing material and bumps
// its modification timestamp.
func (s *GORMStore) UpdateMaterial(ctx context.Context, material *models.LessonMaterial) error {
	if err := material.Validate(); err != nil {
		return err
	}

	now := time.Now()
	material.ModifiedAt = &now

	result := s.db.WithContext(ctx).
		Model(&models.LessonMaterial{}).
		Where("id = ?", material.ID).
		Select("material_type", "topic", "content", "formatted_html", "subject",
			"language_level", "vocab_percentage", "content_focus",
			"include_vocab_list", "description", "tags", "modified_at").
		Updates(material)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrMaterialNotFound
	}
	return nil
}

// DeleteMaterial deletes a lesson material by ID.
func (s *GORMStore) DeleteMaterial(ctx context.Context, id string) error {
	return deleteByField[models.LessonMaterial](ctx, s.db, "id", id, models.ErrMaterialNotFound)
}

// CountMaterialsByOwner returns the number of materials owned by an account.
func (s *GORMStore) CountMaterialsByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.LessonMaterial{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountMaterials returns the total number of materials.
func (s *GORMStore) CountMaterials(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.LessonMaterial{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
