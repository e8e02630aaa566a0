package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]CompanySummary, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Company, error)
	ListInvoices(ctx context.Context, db *gorm.DB, code string) ([]Invoice, error)
	Insert(ctx context.Context, db *gorm.DB, company *Company) error
	Update(ctx context.Context, db *gorm.DB, company *Company) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, code string) (int64, error)
}
