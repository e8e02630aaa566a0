package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]InvoiceSummary, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Invoice, error)
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	UpdateAmount(ctx context.Context, db *gorm.DB, id int64, amt float64) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
