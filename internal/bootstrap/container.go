// Package bootstrap arma repositorios, adaptadores y casos de uso a partir de la configuración.
// Lo comparten la API y la CLI.
package bootstrap

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	appanalytics "github.com/lafuga/gestion-api/internal/application/analytics"
	"github.com/lafuga/gestion-api/internal/application/auth"
	"github.com/lafuga/gestion-api/internal/application/catalog"
	"github.com/lafuga/gestion-api/internal/application/inventory"
	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/application/purchasing"
	"github.com/lafuga/gestion-api/internal/application/sales"
	"github.com/lafuga/gestion-api/internal/application/usecase"
	"github.com/lafuga/gestion-api/internal/infrastructure/imagesearch"
	infrapdf "github.com/lafuga/gestion-api/internal/infrastructure/pdf"
	"github.com/lafuga/gestion-api/internal/infrastructure/postgres"
	"github.com/lafuga/gestion-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/lafuga/gestion-api/internal/interfaces/http"
	"github.com/lafuga/gestion-api/pkg/config"
)

// Container casos de uso listos para usar.
type Container struct {
	Access        *auth.AccessUseCase
	Users         *usecase.UserUseCase
	Products      *usecase.ProductUseCase
	Images        *usecase.ImageUseCase
	Import        *usecase.ImportUseCase
	Labels        *usecase.LabelUseCase
	Backup        *usecase.BackupUseCase
	Suppliers     *usecase.SupplierUseCase
	Sales         *sales.SaleUseCase
	Stock         *inventory.StockUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Purchases     *purchasing.PurchaseUseCase
	Catalogs      *catalog.CatalogUseCase
	Dashboard     *appanalytics.DashboardUseCase
	Reports       *appanalytics.ReportsUseCase
	ImageSources  []string
}

// New conecta todo sobre el pool de PostgreSQL.
func New(cfg *config.Config, pool *pgxpool.Pool) *Container {
	productRepo := postgres.NewProductRepository(pool)
	historyRepo := postgres.NewProductHistoryRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	userRepo := postgres.NewAuthorizedUserRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	business := ports.BusinessInfo{Name: cfg.Business.Name, Phone: cfg.Business.Phone, Address: cfg.Business.Address}
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	// OpenFoodFacts primero (por código de barras), Google solo con credenciales.
	timeout := time.Duration(cfg.Images.TimeoutSeconds) * time.Second
	finders := []ports.ImageFinder{imagesearch.NewOpenFoodFacts(cfg.Images.OpenFoodFactsUserAgent, timeout)}
	if cfg.Images.GoogleEnabled() {
		finders = append(finders, imagesearch.NewGoogleCSE(cfg.Images.GoogleAPIKey, cfg.Images.GoogleEngineID, timeout))
	}
	sources := make([]string, 0, len(finders))
	for _, f := range finders {
		sources = append(sources, f.Source())
	}

	return &Container{
		Access:        auth.NewAccessUseCase(userRepo),
		Users:         usecase.NewUserUseCase(userRepo, txRunner),
		Products:      usecase.NewProductUseCase(productRepo, historyRepo, txRunner),
		Images:        usecase.NewImageUseCase(productRepo, finders...),
		Import:        usecase.NewImportUseCase(productRepo, historyRepo, txRunner, spreadsheet.NewTableReader()),
		Labels:        usecase.NewLabelUseCase(productRepo, pdfGenerator, business),
		Backup:        usecase.NewBackupUseCase(productRepo, saleRepo, spreadsheet.NewExcelBackupWriter()),
		Suppliers:     usecase.NewSupplierUseCase(supplierRepo),
		Sales:         sales.NewSaleUseCase(txRunner, saleRepo, pdfGenerator, business),
		Stock:         inventory.NewStockUseCase(txRunner, productRepo, movementRepo),
		Replenishment: inventory.NewReplenishmentUseCase(productRepo, supplierRepo),
		Purchases:     purchasing.NewPurchaseUseCase(txRunner, purchaseRepo, supplierRepo, cfg.Inventory.CostingMethod),
		Catalogs: catalog.NewCatalogUseCase(catalogRepo, productRepo, pdfGenerator, catalog.Options{
			PublicBaseURL: cfg.Catalog.PublicBaseURL,
			LinkTTL:       time.Duration(cfg.Catalog.LinkTTLDays) * 24 * time.Hour,
			Business:      business,
		}),
		Dashboard:    appanalytics.NewDashboardUseCase(reportRepo, productRepo),
		Reports:      appanalytics.NewReportsUseCase(reportRepo, productRepo),
		ImageSources: sources,
	}
}

// RouterDeps dependencias del router HTTP.
func (c *Container) RouterDeps(cfg config.AuthConfig) httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		Token:         httpRouter.TokenConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, Audience: cfg.JWTAudience},
		AccessUC:      c.Access,
		UserUC:        c.Users,
		ProductUC:     c.Products,
		ImageUC:       c.Images,
		ImportUC:      c.Import,
		LabelUC:       c.Labels,
		BackupUC:      c.Backup,
		SupplierUC:    c.Suppliers,
		SaleUC:        c.Sales,
		StockUC:       c.Stock,
		Replenishment: c.Replenishment,
		PurchaseUC:    c.Purchases,
		CatalogUC:     c.Catalogs,
		DashboardUC:   c.Dashboard,
		ReportsUC:     c.Reports,
	}
}
