package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers bundles all HTTP handlers for route registration
type Handlers struct {
	Bill       *BillHandler
	Payment    *PaymentHandler
	Tag        *TagHandler
	Statistics *StatisticsHandler
	Export     *ExportHandler
	Logo       *LogoHandler
	WebSocket  *WebSocketHandler
}

// RegisterRoutes wires every API route onto the Echo instance
func RegisterRoutes(e *echo.Echo, h Handlers) {
	api := e.Group("/api/v1")

	bills := api.Group("/bills")
	bills.GET("", h.Bill.ListBills)
	bills.POST("", h.Bill.CreateBill)
	bills.GET("/:id", h.Bill.GetBill)
	bills.PUT("/:id", h.Bill.UpdateBill)
	bills.DELETE("/:id", h.Bill.DeleteBill)
	bills.PATCH("/:id/archive", h.Bill.ArchiveBill)

	bills.POST("/:id/logo", h.Logo.UploadLogo)
	bills.GET("/:id/logo", h.Logo.GetLogoURL)
	bills.DELETE("/:id/logo", h.Logo.DeleteLogo)

	payments := api.Group("/payments")
	payments.GET("", h.Payment.ListPayments)
	payments.POST("", h.Payment.CreatePayment)
	payments.PUT("/:id", h.Payment.UpdatePayment)
	payments.DELETE("/:id", h.Payment.DeletePayment)

	tags := api.Group("/tags")
	tags.GET("", h.Tag.ListTags)
	tags.POST("", h.Tag.CreateTag)
	tags.DELETE("/:id", h.Tag.DeleteTag)

	api.GET("/statistics", h.Statistics.GetStatistics)
	api.GET("/export/csv", h.Export.ExportCSV)

	e.GET("/ws", h.WebSocket.HandleConnection)
}
