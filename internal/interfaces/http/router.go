package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/billstock-api/internal/application/analytics"
	"github.com/jhoicas/billstock-api/internal/application/billing"
	"github.com/jhoicas/billstock-api/internal/application/inventory"
	"github.com/jhoicas/billstock-api/internal/application/payroll"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BillEngine     *billing.BillEngine
	PaymentTracker *billing.PaymentTracker
	BillPDF        *billing.PDFUseCase
	ProductUC      *inventory.ProductUseCase
	StockEngine    *inventory.StockEngine
	DashboardUC    *appanalytics.DashboardUseCase
	WorkerUC       *payroll.WorkerUseCase
	JWTSecret      string
	JWTIssuer      string
}

// Router registra las rutas de la API. Todo /api exige Bearer Token con tenant.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Bills: /stats antes de /:billId
	bills := api.Group("/bills")
	billHandler := NewBillHandler(deps.BillEngine, deps.PaymentTracker, deps.BillPDF)
	bills.Post("/", billHandler.Create)
	bills.Get("/", billHandler.List)
	bills.Get("/stats", billHandler.Stats)
	bills.Get("/:billId", billHandler.GetByID)
	bills.Get("/:billId/pdf", billHandler.DownloadPDF)
	bills.Put("/:billId", billHandler.Update)
	bills.Delete("/:billId", billHandler.Delete)
	bills.Put("/:billId/items/:itemId", billHandler.UpdateItem)
	bills.Delete("/:billId/items/:itemId", billHandler.DeleteItem)
	bills.Post("/:billId/payments", billHandler.RecordPayment)
	bills.Get("/:billId/payments", billHandler.ListPayments)

	// Products: /stock-level antes de /:id
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockEngine)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/stock-level", productHandler.StockLevel)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/adjustments", productHandler.Adjustments)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/top-products", dashboardHandler.GetTopProducts)

	// Workers (nómina)
	workers := api.Group("/workers")
	workerHandler := NewWorkerHandler(deps.WorkerUC)
	workers.Post("/", workerHandler.Create)
	workers.Get("/", workerHandler.List)
	workers.Get("/:workerId", workerHandler.GetByID)
	workers.Put("/:workerId", workerHandler.Update)
	workers.Delete("/:workerId", workerHandler.Delete)
	workers.Post("/:workerId/payments", workerHandler.RecordPayment)
	workers.Get("/:workerId/payments", workerHandler.ListPayments)
}
