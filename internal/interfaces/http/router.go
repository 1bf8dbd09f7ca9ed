package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Coordinator   *inventory.Coordinator
	Serials       *inventory.SerialAllocator
	Stock         *inventory.StockUseCase
	Expiry        *inventory.ExpiryUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Logs          *inventory.LogUseCase
	Batches       *inventory.BatchQueryUseCase
	Parties       *inventory.PartyUseCase
	Catalog       *inventory.CatalogUseCase
	JWTSecret     string
	JWTIssuer     string
}

// Router registra las rutas de la API. Todo /api exige Bearer token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	anyRole := RequireRole(RoleAdmin, RoleStaff, RoleViewer)
	operator := RequireRole(RoleAdmin, RoleStaff)
	admin := RequireRole(RoleAdmin)

	stockHandler := NewStockHandler(deps.Stock, deps.Expiry, deps.Replenishment)
	stock := api.Group("/stock")
	stock.Get("/", anyRole, stockHandler.List)
	stock.Get("/replenishment", anyRole, stockHandler.Replenishment)
	stock.Get("/:id", anyRole, stockHandler.GetByID)
	stock.Patch("/:id", admin, stockHandler.UpdateSettings)
	api.Get("/expiry", anyRole, stockHandler.Expiry)

	disbursementHandler := NewDisbursementHandler(deps.Coordinator, deps.Batches)
	disbursements := api.Group("/disbursements")
	disbursements.Get("/", anyRole, disbursementHandler.List)
	disbursements.Get("/:id", anyRole, disbursementHandler.GetByID)
	disbursements.Post("/", operator, disbursementHandler.Create)
	disbursements.Delete("/:id", admin, disbursementHandler.Delete)

	donationHandler := NewDonationHandler(deps.Coordinator, deps.Batches)
	donations := api.Group("/donations")
	donations.Get("/", anyRole, donationHandler.List)
	donations.Get("/:id", anyRole, donationHandler.GetByID)
	donations.Post("/", operator, donationHandler.Create)
	donations.Post("/items/:id/handle", operator, donationHandler.HandleItem)
	donations.Delete("/:id", admin, donationHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.Coordinator, deps.Logs, deps.Serials)
	inv := api.Group("/inventory")
	inv.Get("/logs", anyRole, inventoryHandler.ListLogs)
	inv.Post("/adjustments", admin, inventoryHandler.RecordAdjustment)
	inv.Post("/adjustments/batch", admin, inventoryHandler.BatchAdjustments)

	serials := api.Group("/serials")
	serials.Post("/:type", operator, inventoryHandler.AllocateSerial)
	serials.Post("/:type/reconcile", admin, inventoryHandler.ReconcileSerial)

	partyHandler := NewPartyHandler(deps.Parties)
	api.Get("/recipients", anyRole, partyHandler.ListRecipients)
	api.Post("/recipients", operator, partyHandler.CreateRecipient)
	api.Get("/donors", anyRole, partyHandler.ListDonors)
	api.Post("/donors", operator, partyHandler.CreateDonor)

	catalogHandler := NewCatalogHandler(deps.Catalog)
	api.Get("/catalog", anyRole, catalogHandler.List)
	api.Put("/catalog", admin, catalogHandler.Upsert)
}
