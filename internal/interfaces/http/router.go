package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.StockLedgerUseCase
	Queries   *inventory.StockQueryUseCase
	Movements *inventory.MovementQueryUseCase
	Validator *jwt.Validator
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
// Las rutas estáticas de /stock se registran antes que /stock/:id.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Validator))

	admin := RequireRole(jwt.RoleAdmin)
	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	sales := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)

	stockHandler := NewStockHandler(deps.Ledger, deps.Queries)
	movementHandler := NewMovementHandler(deps.Movements)

	stock := api.Group("/stock")
	stock.Get("/", stockHandler.List)
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/expiring", stockHandler.Expiring)
	stock.Get("/expired", stockHandler.Expired)
	stock.Get("/attention", stockHandler.NeedingAttention)
	stock.Get("/available", stockHandler.Available)
	stock.Get("/availability", stockHandler.Availability)
	stock.Get("/valuation", stockHandler.Valuation)
	stock.Get("/batches/:batch", stockHandler.FindByBatch)
	stock.Post("/receipts", warehouse, stockHandler.Receive)
	stock.Post("/sales", sales, stockHandler.Sell)
	stock.Post("/transfers", warehouse, stockHandler.Transfer)
	stock.Post("/batches/:batch/expire", warehouse, stockHandler.MarkBatchExpired)
	stock.Post("/batches/:batch/damage", warehouse, stockHandler.MarkBatchDamaged)

	stock.Get("/:id", stockHandler.GetByID)
	stock.Get("/:id/movements", movementHandler.History)
	stock.Get("/:id/reconciliation", stockHandler.Reconcile)
	stock.Post("/:id/adjustments", admin, stockHandler.Adjust)
	stock.Post("/:id/reservations", sales, stockHandler.Reserve)
	stock.Post("/:id/releases", sales, stockHandler.Release)
	stock.Post("/:id/returns", warehouse, stockHandler.Return)
	stock.Delete("/:id", admin, stockHandler.Deactivate)

	api.Get("/products/:id/stock", stockHandler.ProductTotals)

	movements := api.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
}
