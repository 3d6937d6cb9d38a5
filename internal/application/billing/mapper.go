package billing

import (
	"time"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
)

// ToBillResponse mapea la cabecera a su DTO.
func ToBillResponse(b *entity.Bill) dto.BillResponse {
	return dto.BillResponse{
		ID:               b.ID,
		TenantID:         b.TenantID,
		BillNumber:       b.BillNumber,
		BillTitle:        b.BillTitle,
		BillDate:         dto.FormatDate(b.BillDate),
		BillType:         b.BillType,
		PartyName:        b.PartyName,
		PartyPhone:       b.PartyPhone,
		PartyEmail:       b.PartyEmail,
		PartyAddress:     b.PartyAddress,
		Subtotal:         b.Subtotal,
		DiscountPercent:  b.DiscountPercent,
		DiscountAmount:   b.DiscountAmount,
		TotalAmount:      b.TotalAmount,
		PaymentType:      b.PaymentType,
		PaidAmount:       b.PaidAmount,
		RemainingBalance: b.RemainingBalance,
		Status:           b.Status,
		Notes:            b.Notes,
		CreatedAt:        b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        b.UpdatedAt.Format(time.RFC3339),
	}
}

// ToBillItemResponse mapea una línea a su DTO.
func ToBillItemResponse(it *entity.BillItem) dto.BillItemResponse {
	return dto.BillItemResponse{
		ID:          it.ID,
		BillID:      it.BillID,
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		Unit:        it.Unit,
		UnitPrice:   it.UnitPrice,
		MinSize:     it.MinSize,
		MaxSize:     it.MaxSize,
		Total:       it.Total,
	}
}

// ToPaymentResponse mapea un abono a su DTO.
func ToPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		BillID:        p.BillID,
		Amount:        p.Amount,
		PaymentDate:   dto.FormatDate(p.PaymentDate),
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}
