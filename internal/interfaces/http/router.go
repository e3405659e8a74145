package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/lafuga/gestion-api/internal/application/analytics"
	"github.com/lafuga/gestion-api/internal/application/auth"
	"github.com/lafuga/gestion-api/internal/application/catalog"
	"github.com/lafuga/gestion-api/internal/application/inventory"
	"github.com/lafuga/gestion-api/internal/application/purchasing"
	"github.com/lafuga/gestion-api/internal/application/sales"
	"github.com/lafuga/gestion-api/internal/application/usecase"
	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Token         TokenConfig
	AccessUC      *auth.AccessUseCase
	UserUC        *usecase.UserUseCase
	ProductUC     *usecase.ProductUseCase
	ImageUC       *usecase.ImageUseCase
	ImportUC      *usecase.ImportUseCase
	LabelUC       *usecase.LabelUseCase
	BackupUC      *usecase.BackupUseCase
	SupplierUC    *usecase.SupplierUseCase
	SaleUC        *sales.SaleUseCase
	StockUC       *inventory.StockUseCase
	Replenishment *inventory.ReplenishmentUseCase
	PurchaseUC    *purchasing.PurchaseUseCase
	CatalogUC     *catalog.CatalogUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	ReportsUC     *appanalytics.ReportsUseCase
}

var (
	adminOnly     = RequireRole(entity.RoleAdmin)
	priceEditors  = RequireRole(entity.RoleAdmin, entity.RoleGerente)
	stockManagers = RequireRole(entity.RoleAdmin, entity.RoleSupervisor, entity.RoleGerente)
	editors       = RequireRole(entity.RoleAdmin, entity.RoleEditor, entity.RoleSupervisor, entity.RoleGerente)
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	catalogHandler := NewCatalogHandler(deps.CatalogUC)

	// Catálogo público (sin token)
	public := app.Group("/public")
	public.Get("/catalogs/:token", catalogHandler.Public)
	public.Get("/catalogs/:token/pdf", catalogHandler.PublicPDF)

	// Todo /api requiere token del proveedor y email en la lista de autorizados.
	api := app.Group("/api", AuthMiddleware(deps.Token), RequireAuthorizedUser(deps.AccessUC))

	userHandler := NewUserHandler(deps.AccessUC, deps.UserUC)
	api.Get("/me", userHandler.Me)
	users := api.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id/role", userHandler.UpdateRole)
	users.Delete("/:id", userHandler.Delete)

	// Products: las rutas fijas van antes de /:id
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	imageHandler := NewImageHandler(deps.ImageUC)
	fileHandler := NewFileHandler(deps.ImportUC, deps.LabelUC, deps.BackupUC)
	products.Get("/", productHandler.Search)
	products.Post("/", editors, productHandler.Create)
	products.Get("/stats", productHandler.Stats)
	products.Get("/categories", productHandler.Categories)
	products.Get("/categories/:category", productHandler.ByCategory)
	products.Get("/barcode/:barcode", productHandler.GetByBarcode)
	products.Get("/labels.pdf", fileHandler.Labels)
	products.Post("/bulk-price", priceEditors, productHandler.BulkPrice)
	products.Post("/import", editors, fileHandler.Import)
	products.Post("/images/sync", adminOnly, imageHandler.Sync)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", editors, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Put("/:id/barcode", editors, productHandler.SetBarcode)
	products.Get("/:id/history", productHandler.History)
	products.Post("/:id/image/search", imageHandler.Search)
	products.Put("/:id/image", editors, imageHandler.SetManual)
	products.Delete("/:id/image", editors, imageHandler.Clear)

	// Sales
	saleRoutes := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	saleRoutes.Post("/", saleHandler.Create)
	saleRoutes.Get("/", saleHandler.List)
	saleRoutes.Get("/stats", saleHandler.Stats)
	saleRoutes.Get("/:id", saleHandler.GetByID)
	saleRoutes.Get("/:id/ticket.pdf", saleHandler.Ticket)
	saleRoutes.Delete("/:id", adminOnly, saleHandler.Delete)

	// Inventory
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.Replenishment)
	inv.Post("/adjustments", stockManagers, inventoryHandler.Adjust)
	inv.Post("/initial", stockManagers, inventoryHandler.Initial)
	inv.Get("/movements", inventoryHandler.Movements)
	inv.Get("/alerts", inventoryHandler.Alerts)
	inv.Get("/reorder", inventoryHandler.Reorder)

	// Suppliers
	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/active", supplierHandler.Active)
	suppliers.Post("/", stockManagers, supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Patch("/:id", stockManagers, supplierHandler.Update)
	suppliers.Post("/:id/activate", stockManagers, supplierHandler.Activate)
	suppliers.Post("/:id/deactivate", stockManagers, supplierHandler.Deactivate)

	// Purchases
	purchases := api.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Get("/", purchaseHandler.List)
	purchases.Post("/", stockManagers, purchaseHandler.Register)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/receive", stockManagers, purchaseHandler.Receive)
	purchases.Post("/:id/cancel", adminOnly, purchaseHandler.Cancel)

	// Catalogs
	catalogs := api.Group("/catalogs")
	catalogs.Get("/", catalogHandler.List)
	catalogs.Post("/", catalogHandler.Create)
	catalogs.Get("/:id", catalogHandler.GetByID)
	catalogs.Patch("/:id", catalogHandler.Update)
	catalogs.Delete("/:id", catalogHandler.Delete)
	catalogs.Post("/:id/renew", catalogHandler.Renew)
	catalogs.Get("/:id/share", catalogHandler.Share)
	catalogs.Get("/:id/pdf", catalogHandler.PDF)

	// Dashboard y reportes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ReportsUC)
	api.Get("/dashboard", dashboardHandler.GetSummary)
	api.Get("/reports", dashboardHandler.Reports)
	api.Get("/backup", adminOnly, fileHandler.Backup)
}
