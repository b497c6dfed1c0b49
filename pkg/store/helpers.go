package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// getByField retrieves a single entity by a field value.
// Returns notFoundErr when no row matches.
func getByField[T any](ctx context.Context, db *gorm.DB, field string, value any, notFoundErr error) (*T, error) {
	var entity T
	query := db.WithContext(ctx).Where(fmt.Sprintf("%s = ?", field), value)

	if err := query.First(&entity).Error; err != nil {
		return nil, convertNotFoundError(err, notFoundErr)
	}

	return &entity, nil
}

// listAll retrieves all entities of a type, optionally filtered and ordered.
func listAll[T any](ctx context.Context, db *gorm.DB, opts ...func(*gorm.DB) *gorm.DB) ([]*T, error) {
	var entities []*T
	query := db.WithContext(ctx)

	for _, opt := range opts {
		query = opt(query)
	}

	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}

	return entities, nil
}

// createEntity inserts a new entity, mapping unique constraint violations
// to duplicateErr.
func createEntity[T any](ctx context.Context, db *gorm.DB, entity *T, duplicateErr error) error {
	if err := db.WithContext(ctx).Create(entity).Error; err != nil {
		if isUniqueConstraintError(err) {
			return duplicateErr
		}
		return err
	}
	return nil
}

// deleteByField deletes an entity by a field value.
// Returns notFoundErr when no row matches.
func deleteByField[T any](ctx context.Context, db *gorm.DB, field string, value any, notFoundErr error) error {
	var entity T
	result := db.WithContext(ctx).Where(fmt.Sprintf("%s = ?", field), value).Delete(&entity)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return notFoundErr
	}

	return nil
}

// withOrder returns a query option that orders results by the given column.
func withOrder(order string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}

// withFilter returns a query option that filters results by a field value.
func withFilter(field string, value any) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(fmt.Sprintf("%s = ?", field), value)
	}
}
