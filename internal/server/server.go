package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/biztime/internal/company"
	companydomain "github.com/smallbiznis/biztime/internal/company/domain"
	"github.com/smallbiznis/biztime/internal/config"
	"github.com/smallbiznis/biztime/internal/invoice"
	invoicedomain "github.com/smallbiznis/biztime/internal/invoice/domain"
	"github.com/smallbiznis/biztime/internal/observability"
	obsmiddleware "github.com/smallbiznis/biztime/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/biztime/internal/observability/metrics"
	obstracing "github.com/smallbiznis/biztime/internal/observability/tracing"
	"github.com/smallbiznis/biztime/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	company.Module,
	invoice.Module,
	ratelimit.Module,
	fx.Provide(NewServer),
	fx.Invoke(run),
)

const healthCheckTimeout = 2 * time.Second

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	registerValidatorTagNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log = log.Named("http")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	db         *gorm.DB
	companySvc companydomain.Service
	invoiceSvc invoicedomain.Service
	limiter    *ratelimit.Limiter
	obsMetrics *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	DB         *gorm.DB
	CompanySvc companydomain.Service
	InvoiceSvc invoicedomain.Service
	Limiter    *ratelimit.Limiter  `optional:"true"`
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		db:         p.DB,
		companySvc: p.CompanySvc,
		invoiceSvc: p.InvoiceSvc,
		limiter:    p.Limiter,
		obsMetrics: p.ObsMetrics,
	}

	svc.registerOpsRoutes()
	svc.registerCompanyRoutes()
	svc.registerInvoiceRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerOpsRoutes() {
	s.engine.GET("/health", s.Health)
}

func (s *Server) registerCompanyRoutes() {
	companies := s.engine.Group("/companies")

	companies.GET("", s.ListCompanies)
	companies.GET("/:code", s.GetCompany)
	companies.POST("", s.WriteRateLimit(), s.CreateCompany)
	companies.PUT("/:code", s.WriteRateLimit(), s.UpdateCompany)
	companies.DELETE("/:code", s.WriteRateLimit(), s.DeleteCompany)
}

func (s *Server) registerInvoiceRoutes() {
	invoices := s.engine.Group("/invoices")

	invoices.GET("", s.ListInvoices)
	invoices.GET("/:id", s.GetInvoice)
	invoices.POST("", s.WriteRateLimit(), s.CreateInvoice)
	invoices.PUT("/:id", s.WriteRateLimit(), s.UpdateInvoice)
	invoices.DELETE("/:id", s.WriteRateLimit(), s.DeleteInvoice)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}

func (s *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		obsmiddleware.FromContext(ctx).Warn("health check failed", zap.Error(err))
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
