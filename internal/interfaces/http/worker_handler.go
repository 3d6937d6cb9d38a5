package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/application/payroll"
)

// WorkerHandler empleados y pagos de nómina (protegido).
type WorkerHandler struct {
	uc *payroll.WorkerUseCase
}

// NewWorkerHandler construye el handler.
func NewWorkerHandler(uc *payroll.WorkerUseCase) *WorkerHandler {
	return &WorkerHandler{uc: uc}
}

// Create POST /api/workers
func (h *WorkerHandler) Create(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateWorkerRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	out, err := h.uc.Create(c.UserContext(), tenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/workers
func (h *WorkerHandler) List(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	out, err := h.uc.List(c.UserContext(), tenantID, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/workers/:workerId
func (h *WorkerHandler) GetByID(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), tenantID, c.Params("workerId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/workers/:workerId
func (h *WorkerHandler) Update(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.UpdateWorkerRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	out, err := h.uc.Update(c.UserContext(), tenantID, c.Params("workerId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/workers/:workerId
func (h *WorkerHandler) Delete(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.UserContext(), tenantID, c.Params("workerId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Worker deleted successfully"})
}

// RecordPayment POST /api/workers/:workerId/payments
func (h *WorkerHandler) RecordPayment(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateWorkerPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	out, err := h.uc.RecordPayment(c.UserContext(), tenantID, c.Params("workerId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPayments GET /api/workers/:workerId/payments
func (h *WorkerHandler) ListPayments(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ListPayments(c.UserContext(), tenantID, c.Params("workerId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
