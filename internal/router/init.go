package router

import (
	"github.com/oksasatya/inventory-order-api/internal/application"
	"github.com/oksasatya/inventory-order-api/internal/container"
	"github.com/oksasatya/inventory-order-api/internal/infrastructure/elastic"
	"github.com/oksasatya/inventory-order-api/internal/infrastructure/storage"
	handlers "github.com/oksasatya/inventory-order-api/internal/interface/http"
	"github.com/oksasatya/inventory-order-api/internal/router/modules"
)

// Services are the application services shared by the HTTP modules and background jobs.
type Services struct {
	Audit        *application.AuditService
	Verification *application.VerificationService
	Auth         *application.AuthService
	Products     *application.ProductService
	Orders       *application.OrderService
}

// BuildServices wires repositories and optional adapters from the container into services.
// Adapters that are not configured stay as nil interfaces so services can detect them.
func BuildServices() *Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repos := container.GetRepositories()
	mail := container.GetMailQueue()

	var index application.ProductIndex
	if pi := elastic.NewProductIndex(container.GetES(), cfg.ESProductsIndex); pi != nil {
		index = pi
	}
	var images application.ImageStore
	if is := storage.NewGCSImageStore(container.GetGCS(), cfg.GCSBucket); is != nil {
		images = is
	}
	var orderMetrics application.OrderMetrics
	if m := container.GetMetrics(); m != nil {
		orderMetrics = m
	}

	audit := application.NewAuditService(repos.AuditLogs, container.GetAuditSink(), logger)
	verification := application.NewVerificationService(repos.Users, repos.Tokens, audit, mail, cfg, logger)
	return &Services{
		Audit:        audit,
		Verification: verification,
		Auth:         application.NewAuthService(repos.Users, verification, container.GetJWT(), container.GetRedis(), audit, cfg, logger),
		Products:     application.NewProductService(repos.Products, audit, index, images, logger),
		Orders:       application.NewOrderService(repos.Users, repos.Products, repos.Orders, audit, mail, orderMetrics, cfg, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, svcs *Services) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svcs.Auth, svcs.Verification, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewProductModule(handlers.NewProductHandler(svcs.Products, logger), jwt))
	r.Add(modules.NewOrderModule(handlers.NewOrderHandler(svcs.Orders, logger), jwt))
	r.Add(modules.NewAuditModule(handlers.NewAuditHandler(svcs.Audit), jwt))
	if m := container.GetMetrics(); m != nil && cfg.MetricsEnabled {
		r.Add(modules.NewMetricsModule(m))
	}
}
