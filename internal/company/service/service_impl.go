package service

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/biztime/internal/company/domain"
	"github.com/smallbiznis/biztime/internal/observability/logger"
	"github.com/smallbiznis/biztime/internal/observability/metrics"
	"github.com/smallbiznis/biztime/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("company.service"),
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.CompanySummary, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Get(ctx context.Context, code string) (domain.CompanyDetail, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.CompanyDetail{}, domain.ErrNotFound
	}

	company, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return domain.CompanyDetail{}, err
	}
	if company == nil {
		return domain.CompanyDetail{}, domain.ErrNotFound
	}

	invoices, err := s.repo.ListInvoices(ctx, s.db, company.Code)
	if err != nil {
		return domain.CompanyDetail{}, err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}

	return domain.CompanyDetail{Company: *company, Invoices: invoices}, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateCompanyRequest) (domain.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Company{}, domain.ErrInvalidName
	}

	source := strings.TrimSpace(req.Code)
	if source == "" {
		source = name
	}
	code := Slugify(source)
	if code == "" {
		return domain.Company{}, domain.ErrInvalidCode
	}

	company := domain.Company{
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.repo.Insert(ctx, s.db, &company); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Company{}, domain.ErrAlreadyExists
		}
		return domain.Company{}, err
	}

	s.metrics.RecordCompanyCreated(ctx)
	logger.WithContext(ctx, s.log).Info("company created", zap.String("code", company.Code))

	return company, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCompanyRequest) (domain.Company, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.Company{}, domain.ErrNotFound
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Company{}, domain.ErrInvalidName
	}

	company := domain.Company{
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}

	affected, err := s.repo.Update(ctx, s.db, &company)
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Company{}, domain.ErrAlreadyExists
		}
		return domain.Company{}, err
	}
	if affected > 0 {
		return company, nil
	}

	// MySQL reports zero affected rows when the values are unchanged.
	existing, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return domain.Company{}, err
	}
	if existing == nil {
		return domain.Company{}, domain.ErrNotFound
	}
	return *existing, nil
}

func (s *Service) Delete(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrNotFound
	}

	affected, err := s.repo.Delete(ctx, s.db, code)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.metrics.RecordCompanyDeleted(ctx)
	logger.WithContext(ctx, s.log).Info("company deleted", zap.String("code", code))
	return nil
}

// Slugify lowercases value and joins its words with hyphens.
func Slugify(value string) string {
	return slug.Make(value)
}
