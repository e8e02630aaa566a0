package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store runs raw SQL for a single row type. It holds no state; callers pass
// the *gorm.DB (pool or transaction) on every call.
type Store[T any] struct{}

// Create inserts resource and fills storage-assigned columns such as serial ids.
// Associations are never written.
func (Store[T]) Create(ctx context.Context, db *gorm.DB, resource *T) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(resource).Error
}

// FindOne returns nil, nil when the query matches no row.
func (Store[T]) FindOne(ctx context.Context, db *gorm.DB, query string, args ...any) (*T, error) {
	var result T
	res := db.WithContext(ctx).Raw(query, args...).Scan(&result)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &result, nil
}

// FindAll never returns a nil slice.
func (Store[T]) FindAll(ctx context.Context, db *gorm.DB, query string, args ...any) ([]T, error) {
	result := make([]T, 0)
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Exec returns the number of rows the statement touched.
func (Store[T]) Exec(ctx context.Context, db *gorm.DB, query string, args ...any) (int64, error) {
	res := db.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
