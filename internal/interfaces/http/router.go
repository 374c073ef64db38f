package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medarrival/medarrival-api/internal/application/auth"
	"github.com/medarrival/medarrival-api/internal/application/reports"
	"github.com/medarrival/medarrival-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	ClientUC    *usecase.ClientUseCase
	SaleUC      *usecase.SaleUseCase
	ArrivalUC   *usecase.ArrivalUseCase
	SupplierUC  *usecase.SupplierUseCase
	ReceiptUC   *usecase.ReceiptUseCase
	KpiUC       *usecase.KpiUseCase
	ExportUC    *reports.ExportUseCase
	PriceGridUC *reports.PriceGridUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Put("/:id/custom-pricing/:clientId", productHandler.SetCustomPricing)
	products.Delete("/:id/custom-pricing/:clientId", productHandler.RemoveCustomPricing)

	// Clients (protegido), con recibos anidados
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)
	clients.Get("/:id/available-products", clientHandler.GetAvailableProducts)

	receiptHandler := NewReceiptHandler(deps.ReceiptUC)
	clients.Post("/:id/receipts", receiptHandler.Create)
	clients.Get("/:id/receipts", receiptHandler.List)
	clients.Get("/:id/receipts/:receiptId", receiptHandler.GetByID)
	clients.Put("/:id/receipts/:receiptId", receiptHandler.Update)
	clients.Delete("/:id/receipts/:receiptId", receiptHandler.Delete)
	clients.Get("/:id/receipts/:receiptId/document", receiptHandler.RenderDocument)
	clients.Post("/:id/receipts/:receiptId/attachments", receiptHandler.AddAttachment)
	clients.Get("/:id/receipts/:receiptId/attachments/:attachmentId", receiptHandler.GetAttachment)
	clients.Delete("/:id/receipts/:receiptId/attachments/:attachmentId", receiptHandler.DeleteAttachment)

	// Sales (protegido)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Put("/:id", saleHandler.Update)
	sales.Delete("/:id", saleHandler.Delete)

	// Arrivals (protegido)
	arrivals := protected.Group("/arrivals")
	arrivalHandler := NewArrivalHandler(deps.ArrivalUC)
	arrivals.Post("/", arrivalHandler.Create)
	arrivals.Get("/", arrivalHandler.List)
	arrivals.Get("/invoice/:invoiceNumber", arrivalHandler.GetByInvoiceNumber)
	arrivals.Get("/:id", arrivalHandler.GetByID)
	arrivals.Delete("/:id", arrivalHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Reports y grilla de precios (protegido; importar precios es solo admin)
	reportGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ExportUC, deps.PriceGridUC)
	reportGroup.Get("/monthly-product", reportHandler.MonthlyProduct)
	reportGroup.Get("/pricing", reportHandler.Pricing)
	reportGroup.Get("/forecast", reportHandler.Forecast)
	reportGroup.Get("/recap", reportHandler.Recap)
	reportGroup.Get("/export-all", reportHandler.ExportAll)
	reportGroup.Get("/price-grid", reportHandler.PriceGridExport)
	reportGroup.Post("/price-grid", AdminOnly(), reportHandler.PriceGridImport)

	// KPIs (protegido)
	kpiHandler := NewKpiHandler(deps.KpiUC)
	protected.Get("/kpis", kpiHandler.Dashboard)
}
