package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billstock-api/internal/application/billing"
	"github.com/jhoicas/billstock-api/internal/application/dto"
)

// headerTotalCount total sin paginar de los listados que devuelven un arreglo.
const headerTotalCount = "X-Total-Count"

// BillHandler endpoints de facturas, sus líneas y sus abonos (protegido).
type BillHandler struct {
	engine   *billing.BillEngine
	payments *billing.PaymentTracker
	pdf      *billing.PDFUseCase
}

// NewBillHandler construye el handler.
func NewBillHandler(engine *billing.BillEngine, payments *billing.PaymentTracker, pdf *billing.PDFUseCase) *BillHandler {
	return &BillHandler{engine: engine, payments: payments, pdf: pdf}
}

// Create godoc
// @Summary      Crear factura de venta o compra
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "Factura con sus líneas"
// @Success      201   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/bills [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	out, err := h.engine.CreateBill(c.UserContext(), tenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        bill_type     query  string  false  "sell | buy"
// @Param        payment_type  query  string  false  "full | partial"
// @Param        status        query  string  false  "unpaid | partially_paid | paid"
// @Param        start_date    query  string  false  "YYYY-MM-DD"
// @Param        end_date      query  string  false  "YYYY-MM-DD"
// @Param        limit         query  int     false  "Máximo 100"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.BillResponse
// @Header       200  {integer} X-Total-Count  "Total sin paginar"
// @Router       /api/bills [get]
func (h *BillHandler) List(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.BillFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	out, err := h.engine.GetBills(c.UserContext(), tenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(headerTotalCount, strconv.Itoa(out.Page.Total))
	return c.JSON(out.Data)
}

// Stats devuelve los agregados de facturación del rango.
// GET /api/bills/stats?start_date=&end_date=
func (h *BillHandler) Stats(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.engine.GetBillStats(c.UserContext(), tenantID, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Factura con líneas y abonos
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        billId  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.BillDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bills/{billId} [get]
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.engine.GetBillByID(c.UserContext(), tenantID, c.Params("billId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF devuelve el comprobante imprimible.
// GET /api/bills/:billId/pdf
func (h *BillHandler) DownloadPDF(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	pdf, filename, err := h.pdf.DownloadBillPDF(c.UserContext(), tenantID, c.Params("billId"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}

// Update modifica cabecera, contacto y notas.
// PUT /api/bills/:billId
func (h *BillHandler) Update(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	out, err := h.engine.UpdateBill(c.UserContext(), tenantID, c.Params("billId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateItem modifica una línea y recalcula los totales.
// PUT /api/bills/:billId/items/:itemId
func (h *BillHandler) UpdateItem(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateBillItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	out, err := h.engine.UpdateBillItem(c.UserContext(), tenantID, c.Params("billId"), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteItem elimina una línea y recalcula los totales.
// DELETE /api/bills/:billId/items/:itemId
func (h *BillHandler) DeleteItem(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.engine.DeleteBillItem(c.UserContext(), tenantID, c.Params("billId"), c.Params("itemId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar abono
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        billId  path  string                    true  "ID de la factura"
// @Param        body    body  dto.RecordPaymentRequest  true  "Abono"
// @Success      201  {object}  dto.RecordPaymentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bills/{billId}/payments [post]
func (h *BillHandler) RecordPayment(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	out, err := h.payments.RecordPayment(c.UserContext(), tenantID, c.Params("billId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPayments abonos de la factura, más antiguo primero.
// GET /api/bills/:billId/payments
func (h *BillHandler) ListPayments(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.payments.ListBillPayments(c.UserContext(), tenantID, c.Params("billId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete revierte stock y ventas y elimina la factura.
// DELETE /api/bills/:billId
func (h *BillHandler) Delete(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.engine.DeleteBill(c.UserContext(), tenantID, c.Params("billId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Bill deleted successfully"})
}
