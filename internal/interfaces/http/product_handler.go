package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/application/inventory"
)

// ProductHandler catálogo, nivel de stock y libro de ajustes (protegido).
type ProductHandler struct {
	uc    *inventory.ProductUseCase
	stock *inventory.StockEngine
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *inventory.ProductUseCase, stock *inventory.StockEngine) *ProductHandler {
	return &ProductHandler{uc: uc, stock: stock}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	out, err := h.uc.Create(c.UserContext(), tenantID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo 100"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
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

// StockLevel stock vigente por nombre; 0 si el producto no existe.
// GET /api/products/stock-level?name=
func (h *ProductHandler) StockLevel(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return badRequest(c, "name query parameter is required")
	}
	qty, err := h.stock.GetStockLevel(c.UserContext(), tenantID, name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockLevelResponse{ProductName: name, StockQuantity: qty})
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjustments libro de ajustes del producto, más reciente primero.
// GET /api/products/:id/adjustments?limit=&offset=
func (h *ProductHandler) Adjustments(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	page.DefaultPage()
	list, err := h.stock.ListAdjustments(c.UserContext(), tenantID, c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockAdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, inventory.ToAdjustmentResponse(a))
	}
	return c.JSON(out)
}
