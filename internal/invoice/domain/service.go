package domain

import (
	"context"
	"errors"
)

type CreateInvoiceRequest struct {
	CompCode string
	Amt      float64
}

type UpdateInvoiceRequest struct {
	ID  string
	Amt float64
}

type Service interface {
	List(ctx context.Context) ([]InvoiceSummary, error)
	Get(ctx context.Context, id string) (InvoiceDetail, error)
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	Update(ctx context.Context, req UpdateInvoiceRequest) (Invoice, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidCompany  = errors.New("invalid_company")
	ErrUnknownCompany  = errors.New("unknown_company")
	ErrNotFound        = errors.New("not_found")
	ErrAmountViolation = errors.New("amount_violation")
)
