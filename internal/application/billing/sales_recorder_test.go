package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
)

func TestGetTopSellingProducts_OrdenPorCantidad(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "Widget", "", 50)
	f.seed(t, "Bolt", "", 50)
	f.seed(t, "Nut", "", 50)
	ctx := context.Background()

	for _, req := range [][]int{{2, 4, 1}, {3, 0, 1}} {
		items := []struct {
			name string
			qty  int
		}{{"Widget", req[0]}, {"Bolt", req[1]}, {"nut", req[2]}}
		var lines []dto.BillItemRequest
		for _, it := range items {
			if it.qty > 0 {
				lines = append(lines, line(it.name, it.qty, 10))
			}
		}
		_, err := f.engine.CreateBill(ctx, tenantID, billRequest(entity.BillTypeSell, lines...))
		require.NoError(t, err)
	}

	top, err := f.sales.GetTopSellingProducts(ctx, tenantID, 2)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, "Widget", top[0].ProductName)
	assert.Equal(t, 5, top[0].TotalQuantitySold)
	assert.True(t, top[0].TotalRevenue.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "Bolt", top[1].ProductName)
	assert.Equal(t, 4, top[1].TotalQuantitySold)
}

func TestDeleteSalesRecords_Idempotente(t *testing.T) {
	f := newFixture(t)

	n, err := f.sales.DeleteSalesRecords(context.Background(), tenantID, "never-existed")

	require.NoError(t, err)
	assert.Zero(t, n)
}
