package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-sync-api/internal/application/sales"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    loginService
	Engine    sales.SaleConfirmer
	SyncUC    batchSyncer
	StatusUC  statusLookup
	ReceiptUC receiptDownloader
	StockUC   stockService
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: Bearer Token + rol de punto de venta
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin, entity.RoleSeller))

	saleHandler := NewSaleHandler(deps.Engine, deps.ReceiptUC)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/shops/:shopId", saleHandler.Confirm)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	syncHandler := NewSyncHandler(deps.SyncUC, deps.StatusUC)
	syncGroup := protected.Group("/sync")
	syncGroup.Post("/offline-sales", syncHandler.OfflineSales)
	syncGroup.Get("/status", syncHandler.Status)

	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup := protected.Group("/stock")
	stockGroup.Get("/shops/:shopId/products/:productId", stockHandler.Get)
	stockGroup.Post("/shops/:shopId/products/:productId/add", stockHandler.Add)
}
