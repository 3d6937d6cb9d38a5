package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

// PDFUseCase arma el comprobante imprimible de una factura.
type PDFUseCase struct {
	bills     repository.BillRepository
	payments  repository.PaymentRepository
	generator BillPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(bills repository.BillRepository, payments repository.PaymentRepository, generator BillPDFGenerator) *PDFUseCase {
	return &PDFUseCase{bills: bills, payments: payments, generator: generator}
}

// DownloadBillPDF devuelve el PDF y el nombre de archivo sugerido.
func (uc *PDFUseCase) DownloadBillPDF(ctx context.Context, tenantID, billID string) ([]byte, string, error) {
	bill, err := uc.bills.GetByID(ctx, tenantID, billID)
	if err != nil {
		return nil, "", fmt.Errorf("get bill: %w", err)
	}
	if bill == nil {
		return nil, "", domain.NewNotFound("Bill not found")
	}
	items, err := uc.bills.GetItems(ctx, tenantID, billID)
	if err != nil {
		return nil, "", fmt.Errorf("get bill items: %w", err)
	}
	payments, err := uc.payments.ListByBill(ctx, tenantID, billID)
	if err != nil {
		return nil, "", fmt.Errorf("list payments: %w", err)
	}
	pdf, err := uc.generator.GenerateBillPDF(ctx, bill, items, payments)
	if err != nil {
		return nil, "", fmt.Errorf("generate bill pdf: %w", err)
	}
	return pdf, fmt.Sprintf("bill-%s.pdf", bill.BillNumber), nil
}
