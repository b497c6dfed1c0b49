package store

import (
	"context"
	"fmt"
)

// Healthcheck verifies the database connection is alive.
func (s *GORMStore) Healthcheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	return sqlDB.Close()
}

// Compile-time checks that GORMStore implements the Store interface.
var (
	_ Store         = (*GORMStore)(nil)
	_ AccountStore  = (*GORMStore)(nil)
	_ MaterialStore = (*GORMStore)(nil)
	_ SubjectStore  = (*GORMStore)(nil)
)
