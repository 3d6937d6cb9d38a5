package postgres

import (
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(fmt.Errorf("boom")))
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullString(""))
	assert.Equal(t, "x", nullString("x"))
	assert.Nil(t, nullDate(time.Time{}))
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, d, nullDate(d))
}

func TestBillWhere(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	sql, args, err := psql.Select("id").From("bills").Where(billWhere("t1", &from, &to)).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bills WHERE (tenant_id = $1 AND bill_date >= $2 AND bill_date <= $3)", sql)
	assert.Equal(t, []any{"t1", from, to}, args)

	sql, args, err = psql.Select("id").From("bills").Where(billWhere("t1", nil, nil)).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bills WHERE (tenant_id = $1)", sql)
	assert.Len(t, args, 1)
}

func TestStatusCase(t *testing.T) {
	got := fmt.Sprintf(statusCase, "paid_amount + $3", "total_amount")
	assert.Equal(t, "CASE WHEN paid_amount + $3 >= total_amount THEN 'paid' WHEN paid_amount + $3 > 0 THEN 'partially_paid' ELSE 'unpaid' END", got)
}

func TestSchema(t *testing.T) {
	for _, table := range []string{"products", "bills", "bill_items", "bill_payments", "sales_records", "stock_adjustments", "workers", "worker_payments"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table, table)
	}
	assert.Contains(t, schemaSQL, "UNIQUE (tenant_id, name_key)")
}
