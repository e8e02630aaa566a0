package repository

import (
	"context"

	"github.com/smallbiznis/biztime/internal/invoice/domain"
	"github.com/smallbiznis/biztime/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	invoices  repository.Store[domain.Invoice]
	summaries repository.Store[domain.InvoiceSummary]
}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.InvoiceSummary, error) {
	return r.summaries.FindAll(ctx, db,
		`SELECT id, comp_code FROM invoices ORDER BY id`,
	)
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Invoice, error) {
	return r.invoices.FindOne(ctx, db,
		`SELECT id, comp_code, amt, paid, add_date, paid_date FROM invoices WHERE id = ?`,
		id,
	)
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return r.invoices.Create(ctx, db, invoice)
}

func (r *repo) UpdateAmount(ctx context.Context, db *gorm.DB, id int64, amt float64) (int64, error) {
	return r.invoices.Exec(ctx, db,
		`UPDATE invoices SET amt = ? WHERE id = ?`,
		amt,
		id,
	)
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	return r.invoices.Exec(ctx, db,
		`DELETE FROM invoices WHERE id = ?`,
		id,
	)
}
