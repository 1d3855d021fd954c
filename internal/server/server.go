package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invomate/gstbill/internal/apikey"
	apikeydomain "github.com/invomate/gstbill/internal/apikey/domain"
	"github.com/invomate/gstbill/internal/audit"
	auditdomain "github.com/invomate/gstbill/internal/audit/domain"
	"github.com/invomate/gstbill/internal/company"
	companydomain "github.com/invomate/gstbill/internal/company/domain"
	"github.com/invomate/gstbill/internal/config"
	"github.com/invomate/gstbill/internal/customer"
	customerdomain "github.com/invomate/gstbill/internal/customer/domain"
	"github.com/invomate/gstbill/internal/invoice"
	invoicedomain "github.com/invomate/gstbill/internal/invoice/domain"
	"github.com/invomate/gstbill/internal/observability/logging"
	obsmetrics "github.com/invomate/gstbill/internal/observability/metrics"
	obstracing "github.com/invomate/gstbill/internal/observability/tracing"
	"github.com/invomate/gstbill/internal/product"
	productdomain "github.com/invomate/gstbill/internal/product/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	obstracing.Module,
	fx.Provide(registerGin),
	audit.Module,
	apikey.Module,
	company.Module,
	customer.Module,
	product.Module,
	invoice.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, registry *prometheus.Registry, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinMiddleware(log.Named("http")))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func registerGin(log *zap.Logger, registry *prometheus.Registry, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, registry, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
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
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	apiKeySvc   apikeydomain.Service
	auditSvc    auditdomain.Service
	companySvc  companydomain.Service
	customerSvc customerdomain.Service
	productSvc  productdomain.Service
	invoiceSvc  invoicedomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	APIKeySvc   apikeydomain.Service
	AuditSvc    auditdomain.Service
	CompanySvc  companydomain.Service
	CustomerSvc customerdomain.Service
	ProductSvc  productdomain.Service
	InvoiceSvc  invoicedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		log:         p.Log.Named("server"),
		apiKeySvc:   p.APIKeySvc,
		auditSvc:    p.AuditSvc,
		companySvc:  p.CompanySvc,
		customerSvc: p.CustomerSvc,
		productSvc:  p.ProductSvc,
		invoiceSvc:  p.InvoiceSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// Provisioning is the only unauthenticated mutation: it creates the
	// company and hands back its first API key.
	api.POST("/companies", s.ProvisionCompany)

	authed := api.Group("")
	authed.Use(s.APIKeyRequired())
	{
		authed.GET("/company", s.GetCompany)
		authed.PATCH("/company", s.UpdateCompany)
		authed.DELETE("/company", s.DeleteCompany)

		authed.POST("/customers", s.CreateCustomer)
		authed.GET("/customers", s.ListCustomers)
		authed.GET("/customers/:id", s.GetCustomerByID)
		authed.PATCH("/customers/:id", s.UpdateCustomer)
		authed.DELETE("/customers/:id", s.DeleteCustomer)

		authed.POST("/products", s.CreateProduct)
		authed.GET("/products", s.ListProducts)
		authed.GET("/products/:id", s.GetProductByID)
		authed.PATCH("/products/:id", s.UpdateProduct)
		authed.DELETE("/products/:id", s.DeleteProduct)

		authed.POST("/invoices", s.CreateInvoice)
		authed.GET("/invoices", s.ListInvoices)
		authed.GET("/invoices/:id", s.GetInvoiceByID)
		authed.PATCH("/invoices/:id", s.UpdateInvoice)
		authed.PUT("/invoices/:id/items", s.ReplaceInvoiceItems)
		authed.DELETE("/invoices/:id", s.DeleteInvoice)

		authed.GET("/audit-logs", s.ListAuditLogs)
	}
}
