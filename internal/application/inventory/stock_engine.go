package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/inventory"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

// StockEngine valida y muta stock_quantity en respuesta al ciclo de vida de las facturas.
// Cada cambio se aplica de forma atómica en el store junto con su fila de auditoría
// (ver repository.StockAdjustmentRepository.Apply), de modo que dos ventas concurrentes
// del mismo producto no pueden sobrevender.
type StockEngine struct {
	products    repository.ProductRepository
	adjustments repository.StockAdjustmentRepository
	policies    domain.Policies
	log         zerolog.Logger
	now         func() time.Time
}

// NewStockEngine construye el motor de stock.
func NewStockEngine(
	products repository.ProductRepository,
	adjustments repository.StockAdjustmentRepository,
	policies domain.Policies,
	log zerolog.Logger,
) *StockEngine {
	return &StockEngine{
		products:    products,
		adjustments: adjustments,
		policies:    policies,
		log:         log,
		now:         time.Now,
	}
}

// AvailabilityResult resultado de ValidateAvailability.
type AvailabilityResult struct {
	Valid  bool
	Errors []string
}

// ValidateAvailability verifica que cada ítem tenga stock suficiente.
// En compras un producto inexistente no es error (se da de alta al ajustar).
// Los IDs de producto resueltos quedan escritos en los ítems.
// Es una verificación consultiva: AdjustStock vuelve a comprobar al aplicar.
func (e *StockEngine) ValidateAvailability(ctx context.Context, tenantID, billType string, items []*entity.BillItem) (*AvailabilityResult, error) {
	res := &AvailabilityResult{}
	for _, it := range items {
		p, err := e.resolve(ctx, tenantID, it)
		if err != nil {
			return nil, fmt.Errorf("validate availability: %w", err)
		}
		if p == nil {
			if billType == entity.BillTypeSell {
				res.Errors = append(res.Errors, fmt.Sprintf("Product not found: %s", it.ProductName))
			}
			continue
		}
		it.ProductID = p.ID
		if billType == entity.BillTypeSell && p.StockQuantity < it.Quantity {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: required %d, available %d", p.Name, it.Quantity, p.StockQuantity))
		}
	}
	res.Valid = len(res.Errors) == 0
	return res, nil
}

// AdjustStock aplica el efecto de cada ítem sobre el stock: resta en venta, suma en compra.
// Una compra que nombra un producto inexistente lo da de alta. Devuelve los ajustes aplicados,
// también cuando falla, para que el llamador pueda compensarlos.
func (e *StockEngine) AdjustStock(ctx context.Context, tenantID, billID, billType string, items []*entity.BillItem) ([]*entity.StockAdjustment, error) {
	applied := make([]*entity.StockAdjustment, 0, len(items))
	for _, it := range items {
		p, err := e.resolve(ctx, tenantID, it)
		if err != nil {
			if abortErr := e.onFailure(e.policies.StockApply, err, tenantID, billID, it.ProductName, "lookup de producto fallido"); abortErr != nil {
				return applied, abortErr
			}
			continue
		}
		if p == nil {
			if billType == entity.BillTypeBuy {
				if p, err = e.registerProduct(ctx, tenantID, it); err != nil {
					if abortErr := e.onFailure(e.policies.StockApply, err, tenantID, billID, it.ProductName, "alta de producto fallida"); abortErr != nil {
						return applied, abortErr
					}
					continue
				}
			} else {
				notFound := domain.NewNotFound(fmt.Sprintf("Product not found: %s", it.ProductName))
				if abortErr := e.onFailure(e.policies.MissingProduct, notFound, tenantID, billID, it.ProductName, "producto inexistente en venta, se omite"); abortErr != nil {
					return applied, abortErr
				}
				continue
			}
		}
		it.ProductID = p.ID

		adj := e.newAdjustment(tenantID, billID, p, billType, signedQuantity(billType, it.Quantity))
		if err := e.adjustments.Apply(ctx, adj, billType == entity.BillTypeSell); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				err = domain.NewInsufficientStock(fmt.Sprintf("%s: required %d, available %d", p.Name, it.Quantity, adj.PreviousQuantity))
			}
			if abortErr := e.onFailure(e.policies.StockApply, err, tenantID, billID, p.Name, "ajuste de stock fallido"); abortErr != nil {
				return applied, abortErr
			}
			continue
		}
		applied = append(applied, adj)
	}
	return applied, nil
}

// ReverseStockAdjustment es el inverso de AdjustStock para los mismos ítems: devuelve stock en
// venta y lo retira en compra. No exige disponibilidad, así reproduce exactamente la cantidad previa.
func (e *StockEngine) ReverseStockAdjustment(ctx context.Context, tenantID, billID, billType string, items []*entity.BillItem) ([]*entity.StockAdjustment, error) {
	reversals := make([]*entity.StockAdjustment, 0, len(items))
	for _, it := range items {
		p, err := e.resolve(ctx, tenantID, it)
		if err == nil && p == nil {
			err = domain.NewNotFound(fmt.Sprintf("Product not found: %s", it.ProductName))
		}
		if err != nil {
			if abortErr := e.onFailure(e.policies.Reversal, err, tenantID, billID, it.ProductName, "reversión omitida"); abortErr != nil {
				return reversals, abortErr
			}
			continue
		}
		adj := e.newAdjustment(tenantID, billID, p, entity.ReversalOperation(billType), -signedQuantity(billType, it.Quantity))
		if err := e.adjustments.Apply(ctx, adj, false); err != nil {
			if abortErr := e.onFailure(e.policies.Reversal, err, tenantID, billID, p.Name, "reversión fallida"); abortErr != nil {
				return reversals, abortErr
			}
			continue
		}
		reversals = append(reversals, adj)
	}
	return reversals, nil
}

// ReverseAdjustments revierte filas del libro en orden inverso. Las filas que ya son
// reversiones se ignoran.
func (e *StockEngine) ReverseAdjustments(ctx context.Context, tenantID string, adjustments []*entity.StockAdjustment) ([]*entity.StockAdjustment, error) {
	reversals := make([]*entity.StockAdjustment, 0, len(adjustments))
	for i := len(adjustments) - 1; i >= 0; i-- {
		orig := adjustments[i]
		if !orig.IsForward() {
			continue
		}
		adj := &entity.StockAdjustment{
			ID:             uuid.New().String(),
			TenantID:       tenantID,
			ProductID:      orig.ProductID,
			ProductName:    orig.ProductName,
			BillID:         orig.BillID,
			OperationType:  entity.ReversalOperation(orig.OperationType),
			QuantityChange: -orig.QuantityChange,
			CreatedAt:      e.now(),
		}
		if err := e.adjustments.Apply(ctx, adj, false); err != nil {
			if abortErr := e.onFailure(e.policies.Reversal, err, tenantID, orig.BillID, orig.ProductName, "reversión fallida"); abortErr != nil {
				return reversals, abortErr
			}
			continue
		}
		reversals = append(reversals, adj)
	}
	return reversals, nil
}

// ReverseBill revierte el efecto de stock de una factura a partir de su libro de ajustes.
// Las filas ya revertidas (p. ej. por un borrado previo interrumpido) no se revierten otra vez.
// Si la factura no tiene filas en el libro se revierte a partir de sus ítems.
func (e *StockEngine) ReverseBill(ctx context.Context, tenantID, billID, billType string, items []*entity.BillItem) ([]*entity.StockAdjustment, error) {
	ledger, err := e.adjustments.ListByBill(ctx, tenantID, billID)
	if err != nil {
		if abortErr := e.onFailure(e.policies.Reversal, err, tenantID, billID, "", "lectura del libro fallida"); abortErr != nil {
			return nil, abortErr
		}
		return nil, nil
	}
	if len(ledger) == 0 {
		return e.ReverseStockAdjustment(ctx, tenantID, billID, billType, items)
	}
	return e.ReverseAdjustments(ctx, tenantID, pendingReversal(ledger))
}

// pendingReversal devuelve las filas originales que aún no tienen su reversión en el libro.
func pendingReversal(ledger []*entity.StockAdjustment) []*entity.StockAdjustment {
	pending := make([]*entity.StockAdjustment, 0, len(ledger))
	for _, a := range ledger {
		if a.IsForward() {
			pending = append(pending, a)
		}
	}
	for _, r := range ledger {
		if r.IsForward() {
			continue
		}
		for i, a := range pending {
			if a.ProductID == r.ProductID && a.QuantityChange == -r.QuantityChange {
				pending = append(pending[:i], pending[i+1:]...)
				break
			}
		}
	}
	return pending
}

// GetStockLevel devuelve el stock del producto por nombre; 0 si no existe.
func (e *StockEngine) GetStockLevel(ctx context.Context, tenantID, productName string) (int, error) {
	p, err := e.products.GetByNameKey(ctx, tenantID, inventory.NameKey(productName))
	if err != nil {
		return 0, fmt.Errorf("get stock level: %w", err)
	}
	if p == nil {
		return 0, nil
	}
	return p.StockQuantity, nil
}

// ListAdjustments lista el libro de ajustes de un producto, más reciente primero.
func (e *StockEngine) ListAdjustments(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	p, err := e.products.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	if p == nil {
		return nil, domain.NewNotFound("Product not found")
	}
	list, err := e.adjustments.ListByProduct(ctx, tenantID, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	return list, nil
}

// ListBillAdjustments devuelve las filas del libro generadas por una factura.
func (e *StockEngine) ListBillAdjustments(ctx context.Context, tenantID, billID string) ([]*entity.StockAdjustment, error) {
	list, err := e.adjustments.ListByBill(ctx, tenantID, billID)
	if err != nil {
		return nil, fmt.Errorf("list bill adjustments: %w", err)
	}
	return list, nil
}

// resolve busca el producto por ID si el ítem ya lo tiene, si no por clave canónica del nombre.
func (e *StockEngine) resolve(ctx context.Context, tenantID string, it *entity.BillItem) (*entity.Product, error) {
	if it.ProductID != "" {
		p, err := e.products.GetByID(ctx, tenantID, it.ProductID)
		if err != nil || p != nil {
			return p, err
		}
	}
	return e.products.GetByNameKey(ctx, tenantID, inventory.NameKey(it.ProductName))
}

// registerProduct da de alta el producto de una línea de compra con stock 0; el ajuste posterior
// le suma la cantidad comprada. Si otro request lo creó primero se reutiliza ese.
func (e *StockEngine) registerProduct(ctx context.Context, tenantID string, it *entity.BillItem) (*entity.Product, error) {
	now := e.now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      inventory.DisplayName(it.ProductName),
		NameKey:   inventory.NameKey(it.ProductName),
		Unit:      it.Unit,
		UnitPrice: it.UnitPrice,
		MinSize:   it.MinSize,
		MaxSize:   it.MaxSize,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := e.products.Create(ctx, p)
	if errors.Is(err, domain.ErrDuplicate) {
		existing, getErr := e.products.GetByNameKey(ctx, tenantID, p.NameKey)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, err
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("tenant_id", tenantID).Str("product_id", p.ID).Str("product", p.Name).Msg("producto registrado por compra")
	return p, nil
}

func (e *StockEngine) newAdjustment(tenantID, billID string, p *entity.Product, op string, delta int) *entity.StockAdjustment {
	return &entity.StockAdjustment{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		ProductID:      p.ID,
		ProductName:    p.Name,
		BillID:         billID,
		OperationType:  op,
		QuantityChange: delta,
		CreatedAt:      e.now(),
	}
}

// onFailure aplica la política: con Abort devuelve el error, con Skip lo registra y devuelve nil.
func (e *StockEngine) onFailure(policy domain.FailurePolicy, err error, tenantID, billID, product, msg string) error {
	if policy == domain.PolicyAbort {
		return err
	}
	e.log.Warn().Err(err).
		Str("tenant_id", tenantID).
		Str("bill_id", billID).
		Str("product", product).
		Msg(msg)
	return nil
}

// signedQuantity negativo en venta, positivo en compra.
func signedQuantity(billType string, qty int) int {
	if billType == entity.BillTypeSell {
		return -qty
	}
	return qty
}
