package repository

import (
	"context"

	"github.com/smallbiznis/biztime/internal/company/domain"
	"github.com/smallbiznis/biztime/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	companies repository.Store[domain.Company]
	summaries repository.Store[domain.CompanySummary]
	invoices  repository.Store[domain.Invoice]
}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.CompanySummary, error) {
	return r.summaries.FindAll(ctx, db,
		`SELECT code, name FROM companies ORDER BY code`,
	)
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Company, error) {
	return r.companies.FindOne(ctx, db,
		`SELECT code, name, description FROM companies WHERE code = ?`,
		code,
	)
}

func (r *repo) ListInvoices(ctx context.Context, db *gorm.DB, code string) ([]domain.Invoice, error) {
	return r.invoices.FindAll(ctx, db,
		`SELECT id, comp_code, amt, paid, add_date, paid_date
		 FROM invoices WHERE comp_code = ? ORDER BY id`,
		code,
	)
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	_, err := r.companies.Exec(ctx, db,
		`INSERT INTO companies (code, name, description) VALUES (?, ?, ?)`,
		company.Code,
		company.Name,
		company.Description,
	)
	return err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, company *domain.Company) (int64, error) {
	return r.companies.Exec(ctx, db,
		`UPDATE companies SET name = ?, description = ? WHERE code = ?`,
		company.Name,
		company.Description,
		company.Code,
	)
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, code string) (int64, error) {
	return r.companies.Exec(ctx, db,
		`DELETE FROM companies WHERE code = ?`,
		code,
	)
}
