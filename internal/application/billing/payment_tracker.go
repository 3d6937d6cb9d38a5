package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/application/ports"
	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

// PaymentTracker registra abonos contra el saldo de una factura.
// Es el único camino que modifica paid_amount después de la creación.
type PaymentTracker struct {
	bills    repository.BillRepository
	payments repository.PaymentRepository
	cache    ports.Cache
	log      zerolog.Logger
	now      func() time.Time
}

// NewPaymentTracker construye el registro de abonos.
func NewPaymentTracker(bills repository.BillRepository, payments repository.PaymentRepository, cache ports.Cache, log zerolog.Logger) *PaymentTracker {
	return &PaymentTracker{bills: bills, payments: payments, cache: cache, log: log, now: time.Now}
}

// RecordPayment valida el abono, lo suma a paid_amount con un update condicionado al total
// y agrega la fila del abono. Si la fila no se puede insertar se descuenta lo sumado.
func (t *PaymentTracker) RecordPayment(ctx context.Context, tenantID, billID string, in dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	ctx, span := tracer.Start(ctx, "billing.RecordPayment", trace.WithAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("bill.id", billID),
	))
	defer span.End()

	if in.PaymentAmount == nil || strings.TrimSpace(in.PaymentDate) == "" {
		return nil, domain.NewValidation("Payment amount and date are required")
	}
	amount := in.PaymentAmount.Round(2)
	if !amount.IsPositive() {
		return nil, domain.NewValidation("Payment amount must be greater than 0")
	}
	date, err := dto.ParseDate(strings.TrimSpace(in.PaymentDate))
	if err != nil {
		return nil, domain.NewValidation("payment_date must be YYYY-MM-DD")
	}

	bill, err := t.bills.GetByID(ctx, tenantID, billID)
	if err != nil {
		return nil, fmt.Errorf("get bill: %w", err)
	}
	if bill == nil {
		return nil, domain.NewNotFound("Bill not found")
	}
	if bill.PaidAmount.Add(amount).GreaterThan(bill.TotalAmount) {
		return nil, domain.NewPaymentExceedsTotal()
	}

	// El chequeo previo es consultivo; AddPaid vuelve a verificar de forma atómica.
	updated, err := t.bills.AddPaid(ctx, tenantID, billID, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentExceedsTotal):
			return nil, domain.NewPaymentExceedsTotal()
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.NewNotFound("Bill not found")
		}
		return nil, fmt.Errorf("record payment: %w", err)
	}

	payment := &entity.Payment{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		BillID:        billID,
		Amount:        amount,
		PaymentDate:   date,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Notes:         in.Notes,
		CreatedAt:     t.now(),
	}
	if err := t.payments.Create(ctx, payment); err != nil {
		if _, undoErr := t.bills.AddPaid(context.WithoutCancel(ctx), tenantID, billID, amount.Neg()); undoErr != nil {
			t.log.Error().Err(undoErr).Str("tenant_id", tenantID).Str("bill_id", billID).Msg("no se pudo compensar el abono")
		}
		return nil, fmt.Errorf("create payment: %w", err)
	}

	invalidateTenant(ctx, t.cache, t.log, tenantID)
	t.log.Info().Str("tenant_id", tenantID).Str("bill_id", billID).
		Str("amount", amount.StringFixed(2)).Str("status", updated.Status).Msg("abono registrado")
	return &dto.RecordPaymentResponse{
		Payment: ToPaymentResponse(payment),
		Bill:    ToBillResponse(updated),
	}, nil
}

// ListPayments abonos de una factura en orden de registro.
func (t *PaymentTracker) ListPayments(ctx context.Context, tenantID, billID string) ([]dto.PaymentResponse, error) {
	list, err := t.payments.ListByBill(ctx, tenantID, billID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToPaymentResponse(p))
	}
	return out, nil
}

// ListBillPayments como ListPayments pero verifica antes que la factura exista en el tenant.
func (t *PaymentTracker) ListBillPayments(ctx context.Context, tenantID, billID string) ([]dto.PaymentResponse, error) {
	bill, err := t.bills.GetByID(ctx, tenantID, billID)
	if err != nil {
		return nil, fmt.Errorf("get bill: %w", err)
	}
	if bill == nil {
		return nil, domain.NewNotFound("Bill not found")
	}
	return t.ListPayments(ctx, tenantID, billID)
}
