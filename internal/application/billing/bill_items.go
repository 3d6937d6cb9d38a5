package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/billstock-api/internal/domain/inventory"
)

// UpdateBillItem modifica una línea y recalcula los totales de la factura.
// No afecta el stock: los efectos de inventario quedan fijados al crear la factura.
func (e *BillEngine) UpdateBillItem(ctx context.Context, tenantID, billID, itemID string, in dto.UpdateBillItemRequest) (*dto.BillItemUpdateResponse, error) {
	bill, err := e.getBill(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	items, err := e.bills.GetItems(ctx, tenantID, billID)
	if err != nil {
		return nil, fmt.Errorf("get bill items: %w", err)
	}
	item := findItem(items, itemID)
	if item == nil {
		return nil, domain.NewNotFound("Bill item not found")
	}

	var details []string
	if in.ProductName != nil {
		switch {
		case strings.TrimSpace(*in.ProductName) == "":
			details = append(details, "product_name cannot be empty")
		case domaininv.NameKey(*in.ProductName) != domaininv.NameKey(item.ProductName):
			// La línea queda atada al producto cuyo stock movió; solo se corrige la escritura del nombre.
			details = append(details, "product_name cannot refer to a different product")
		default:
			item.ProductName = strings.TrimSpace(*in.ProductName)
		}
	}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			details = append(details, "quantity must be greater than 0")
		} else {
			item.Quantity = *in.Quantity
		}
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			details = append(details, "unit_price cannot be negative")
		} else {
			item.UnitPrice = in.UnitPrice.Round(2)
		}
	}
	if in.Unit != nil {
		if strings.TrimSpace(*in.Unit) == "" {
			details = append(details, "unit cannot be empty")
		} else {
			item.Unit = strings.TrimSpace(*in.Unit)
		}
	}
	if in.MinSize != nil {
		item.MinSize = *in.MinSize
	}
	if in.MaxSize != nil {
		item.MaxSize = *in.MaxSize
	}
	if len(details) > 0 {
		return nil, domain.NewValidation(strings.Join(details, "; "), details...)
	}
	item.ComputeTotal()
	item.UpdatedAt = e.now()

	if err := e.recomputeTotals(bill, items); err != nil {
		return nil, err
	}
	if err := e.bills.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update bill item: %w", err)
	}
	if err := e.bills.UpdateTotals(ctx, bill); err != nil {
		return nil, fmt.Errorf("update bill totals: %w", err)
	}
	e.invalidate(ctx, tenantID)
	return &dto.BillItemUpdateResponse{
		Item: ToBillItemResponse(item),
		Bill: ToBillResponse(bill),
	}, nil
}

// DeleteBillItem elimina una línea y recalcula los totales. Una factura no puede quedar sin líneas.
func (e *BillEngine) DeleteBillItem(ctx context.Context, tenantID, billID, itemID string) (*dto.BillItemDeleteResponse, error) {
	bill, err := e.getBill(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	items, err := e.bills.GetItems(ctx, tenantID, billID)
	if err != nil {
		return nil, fmt.Errorf("get bill items: %w", err)
	}
	if findItem(items, itemID) == nil {
		return nil, domain.NewNotFound("Bill item not found")
	}
	if len(items) == 1 {
		return nil, domain.NewValidation("A bill must keep at least one item")
	}

	remaining := make([]*entity.BillItem, 0, len(items)-1)
	for _, it := range items {
		if it.ID != itemID {
			remaining = append(remaining, it)
		}
	}
	if err := e.recomputeTotals(bill, remaining); err != nil {
		return nil, err
	}
	if err := e.bills.DeleteItem(ctx, tenantID, billID, itemID); err != nil {
		return nil, fmt.Errorf("delete bill item: %w", err)
	}
	if err := e.bills.UpdateTotals(ctx, bill); err != nil {
		return nil, fmt.Errorf("update bill totals: %w", err)
	}
	e.invalidate(ctx, tenantID)
	return &dto.BillItemDeleteResponse{
		Message: "Bill item deleted successfully",
		Bill:    ToBillResponse(bill),
	}, nil
}

// recomputeTotals fija subtotal, descuento y total a partir de las líneas y re-deriva saldo y estado
// con lo ya pagado. Un total menor a lo pagado se rechaza.
func (e *BillEngine) recomputeTotals(bill *entity.Bill, items []*entity.BillItem) error {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total)
	}
	discount := subtotal.Mul(bill.DiscountPercent).Div(hundred).Round(2)
	total := subtotal.Sub(discount)
	if total.LessThan(bill.PaidAmount) {
		return domain.NewValidation(fmt.Sprintf("Bill total %s cannot be lower than the amount already paid %s",
			total.StringFixed(2), bill.PaidAmount.StringFixed(2)))
	}
	bill.Subtotal = subtotal
	bill.DiscountAmount = discount
	bill.TotalAmount = total
	bill.RefreshBalance()
	bill.UpdatedAt = e.now()
	return nil
}

func findItem(items []*entity.BillItem, itemID string) *entity.BillItem {
	for _, it := range items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}
