package domain

import (
	"context"
	"errors"
)

type CreateCompanyRequest struct {
	Code        string
	Name        string
	Description string
}

type UpdateCompanyRequest struct {
	Code        string
	Name        string
	Description string
}

type Service interface {
	List(ctx context.Context) ([]CompanySummary, error)
	Get(ctx context.Context, code string) (CompanyDetail, error)
	Create(ctx context.Context, req CreateCompanyRequest) (Company, error)
	Update(ctx context.Context, req UpdateCompanyRequest) (Company, error)
	Delete(ctx context.Context, code string) error
}

var (
	ErrInvalidCode   = errors.New("invalid_code")
	ErrInvalidName   = errors.New("invalid_name")
	ErrNotFound      = errors.New("not_found")
	ErrAlreadyExists = errors.New("already_exists")
)
