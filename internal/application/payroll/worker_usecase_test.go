package payroll_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/application/payroll"
	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/infrastructure/cache"
	"github.com/jhoicas/billstock-api/internal/infrastructure/memory"
)

const tenantID = "tenant-1"

func newUseCase() (*payroll.WorkerUseCase, *memory.Store) {
	store := memory.NewStore()
	return payroll.NewWorkerUseCase(store.Workers(), cache.NoopCache{}, zerolog.Nop()), store
}

func status(t *testing.T, err error) int {
	t.Helper()
	var ae *domain.AppError
	require.True(t, errors.As(err, &ae), "expected *domain.AppError, got %v", err)
	return ae.Status
}

func TestWorkerCRUD_Ciclo(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	created, err := uc.Create(ctx, tenantID, dto.CreateWorkerRequest{Name: " Ana ", Role: "cashier", Salary: decimal.NewFromInt(1200), JoinDate: "2023-05-01"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", created.Name)
	assert.True(t, created.Active)
	assert.Equal(t, "2023-05-01", created.JoinDate)

	inactive := false
	updated, err := uc.Update(ctx, tenantID, created.ID, dto.UpdateWorkerRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, "cashier", updated.Role)

	list, err := uc.List(ctx, tenantID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
	assert.Equal(t, 20, list.Page.Limit)

	require.NoError(t, uc.Delete(ctx, tenantID, created.ID))
	_, err = uc.GetByID(ctx, tenantID, created.ID)
	assert.Equal(t, http.StatusNotFound, status(t, err))
}

func TestWorkerCreate_Validacion(t *testing.T) {
	uc, _ := newUseCase()

	tests := []struct {
		name string
		req  dto.CreateWorkerRequest
	}{
		{"nombre vacío", dto.CreateWorkerRequest{Name: "  "}},
		{"salario negativo", dto.CreateWorkerRequest{Name: "Ana", Salary: decimal.NewFromInt(-1)}},
		{"fecha de ingreso inválida", dto.CreateWorkerRequest{Name: "Ana", JoinDate: "01/05/2023"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tenantID, tt.req)
			assert.Equal(t, http.StatusBadRequest, status(t, err))
		})
	}
}

func TestWorkerPayments_Nomina(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	w, err := uc.Create(ctx, tenantID, dto.CreateWorkerRequest{Name: "Ana", Salary: decimal.NewFromInt(1200)})
	require.NoError(t, err)

	amount := decimal.NewFromInt(600)
	p, err := uc.RecordPayment(ctx, tenantID, w.ID, dto.CreateWorkerPaymentRequest{Amount: &amount, PaymentDate: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-31", p.PaymentDate)

	zero := decimal.Zero
	_, err = uc.RecordPayment(ctx, tenantID, w.ID, dto.CreateWorkerPaymentRequest{Amount: &zero, PaymentDate: "2024-03-31"})
	assert.Equal(t, http.StatusBadRequest, status(t, err))

	_, err = uc.RecordPayment(ctx, tenantID, "missing", dto.CreateWorkerPaymentRequest{Amount: &amount, PaymentDate: "2024-03-31"})
	assert.Equal(t, http.StatusNotFound, status(t, err))

	list, err := uc.ListPayments(ctx, tenantID, w.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	total, err := store.Workers().TotalPayments(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, total.Equal(amount))
}
