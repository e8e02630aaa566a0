package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/biztime/internal/clock"
	companydomain "github.com/smallbiznis/biztime/internal/company/domain"
	"github.com/smallbiznis/biztime/internal/invoice/domain"
	"github.com/smallbiznis/biztime/internal/observability/logger"
	"github.com/smallbiznis/biztime/internal/observability/metrics"
	"github.com/smallbiznis/biztime/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Repo        domain.Repository
	CompanyRepo companydomain.Repository
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	repo        domain.Repository
	companyRepo companydomain.Repository
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		clock:       p.Clock,
		repo:        p.Repo,
		companyRepo: p.CompanyRepo,
		metrics:     p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.InvoiceSummary, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Get(ctx context.Context, rawID string) (domain.InvoiceDetail, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}
	if invoice == nil {
		return domain.InvoiceDetail{}, domain.ErrNotFound
	}

	company, err := s.companyRepo.FindByCode(ctx, s.db, invoice.CompCode)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}
	if company == nil {
		// The row was removed between the two reads.
		return domain.InvoiceDetail{}, domain.ErrNotFound
	}

	return domain.InvoiceDetail{
		ID:       invoice.ID,
		Amt:      invoice.Amt,
		Paid:     invoice.Paid,
		AddDate:  invoice.AddDate,
		PaidDate: invoice.PaidDate,
		Company:  *company,
	}, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	code := strings.TrimSpace(req.CompCode)
	if code == "" {
		return domain.Invoice{}, domain.ErrInvalidCompany
	}
	if !ValidAmount(req.Amt) {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}

	invoice := domain.Invoice{
		CompCode: code,
		Amt:      req.Amt,
		Paid:     false,
		AddDate:  datatypes.Date(today(s.clock.Now())),
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, classifyWriteErr(err)
	}

	s.metrics.RecordInvoiceCreated(ctx)
	logger.WithContext(ctx, s.log).Info("invoice created",
		zap.Int64("invoice_id", invoice.ID),
		zap.String("comp_code", invoice.CompCode),
	)

	// Respond with the stored row so column defaults and numeric scale apply.
	stored, err := s.repo.FindByID(ctx, s.db, invoice.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if stored == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *stored, nil
}

// Update changes only the amount; paid and paid_date are left as stored.
func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	id, err := ParseID(req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !ValidAmount(req.Amt) {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}

	if _, err := s.repo.UpdateAmount(ctx, s.db, id, req.Amt); err != nil {
		return domain.Invoice{}, classifyWriteErr(err)
	}

	// Re-read rather than trust RowsAffected, which MySQL reports as zero for unchanged rows.
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *invoice, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.metrics.RecordInvoiceDeleted(ctx)
	logger.WithContext(ctx, s.log).Info("invoice deleted", zap.Int64("invoice_id", id))
	return nil
}

// MaxAmount is the first value that no longer fits numeric(12,2).
const MaxAmount = 1e10

// ValidAmount accepts positive amounts below MaxAmount with at most two decimal places.
func ValidAmount(amt float64) bool {
	if math.IsNaN(amt) || amt <= 0 || amt >= MaxAmount {
		return false
	}
	return math.Round(amt*100)/100 == amt
}

// ParseID accepts positive base-10 integers only.
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func classifyWriteErr(err error) error {
	switch {
	case db.IsForeignKeyErr(err):
		return domain.ErrUnknownCompany
	case db.IsCheckErr(err):
		return domain.ErrAmountViolation
	default:
		return err
	}
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
