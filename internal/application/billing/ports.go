package billing

import (
	"context"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
)

// BillPDFGenerator genera la representación imprimible de una factura.
type BillPDFGenerator interface {
	GenerateBillPDF(ctx context.Context, bill *entity.Bill, items []*entity.BillItem, payments []*entity.Payment) ([]byte, error)
}
