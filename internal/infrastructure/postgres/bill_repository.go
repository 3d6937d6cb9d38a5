package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

const billColumns = `id, tenant_id, bill_number, bill_title, bill_date, bill_type, party_name, party_phone, party_email, party_address,
	subtotal, discount_percent, discount_amount, total_amount, payment_type, paid_amount, remaining_balance, status, notes, created_at, updated_at`

const itemColumns = `id, tenant_id, bill_id, COALESCE(product_id, '') AS product_id, product_name, quantity, unit, unit_price,
	min_size, max_size, total, created_at, updated_at`

// statusCase deriva status desde la expresión de lo pagado ($paid) y total_amount.
const statusCase = `CASE WHEN %[1]s >= %[2]s THEN 'paid' WHEN %[1]s > 0 THEN 'partially_paid' ELSE 'unpaid' END`

// BillRepo facturas y sus líneas sobre PostgreSQL. Líneas y abonos se borran en cascada.
type BillRepo struct {
	db Querier
}

// NewBillRepository construye el adaptador sobre el pool.
func NewBillRepository(db Querier) *BillRepo {
	return &BillRepo{db: db}
}

func (r *BillRepo) Create(ctx context.Context, b *entity.Bill) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bills (`+billColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		b.ID, b.TenantID, b.BillNumber, b.BillTitle, b.BillDate, b.BillType, b.PartyName, b.PartyPhone,
		b.PartyEmail, b.PartyAddress, b.Subtotal, b.DiscountPercent, b.DiscountAmount, b.TotalAmount,
		b.PaymentType, b.PaidAmount, b.RemainingBalance, b.Status, b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

// CreateItems inserta todas las líneas en un único INSERT multi-fila: o entran todas o ninguna.
func (r *BillRepo) CreateItems(ctx context.Context, items []*entity.BillItem) error {
	if len(items) == 0 {
		return nil
	}
	q := psql.Insert("bill_items").Columns(
		"id", "tenant_id", "bill_id", "product_id", "product_name", "quantity", "unit", "unit_price",
		"min_size", "max_size", "total", "created_at", "updated_at",
	)
	for _, it := range items {
		q = q.Values(it.ID, it.TenantID, it.BillID, nullString(it.ProductID), it.ProductName, it.Quantity, it.Unit,
			it.UnitPrice, it.MinSize, it.MaxSize, it.Total, it.CreatedAt, it.UpdatedAt)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert bill items: %w", err)
	}
	return nil
}

func (r *BillRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Bill, error) {
	var b entity.Bill
	err := pgxscan.Get(ctx, r.db, &b, `SELECT `+billColumns+` FROM bills WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return &b, nil
}

// List filtra con squirrel; bill_date descendente.
func (r *BillRepo) List(ctx context.Context, tenantID string, f repository.BillFilter) ([]*entity.Bill, int, error) {
	where := billWhere(tenantID, f.StartDate, f.EndDate)
	if f.BillType != "" {
		where = append(where, squirrel.Eq{"bill_type": f.BillType})
	}
	if f.PaymentType != "" {
		where = append(where, squirrel.Eq{"payment_type": f.PaymentType})
	}
	if f.Status != "" {
		where = append(where, squirrel.Eq{"status": f.Status})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("bills").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count bills: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bills: %w", err)
	}

	q := psql.Select(billColumns).From("bills").Where(where).OrderBy("bill_date DESC", "created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bills: %w", err)
	}
	var list []*entity.Bill
	if err := pgxscan.Select(ctx, r.db, &list, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list bills: %w", err)
	}
	return list, total, nil
}

func billWhere(tenantID string, from, to *time.Time) squirrel.And {
	where := squirrel.And{squirrel.Eq{"tenant_id": tenantID}}
	if from != nil {
		where = append(where, squirrel.GtOrEq{"bill_date": *from})
	}
	if to != nil {
		where = append(where, squirrel.LtOrEq{"bill_date": *to})
	}
	return where
}

func (r *BillRepo) UpdateHeader(ctx context.Context, b *entity.Bill) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE bills SET bill_number = $3, bill_title = $4, bill_date = $5, party_name = $6, party_phone = $7,
		       party_email = $8, party_address = $9, notes = $10, updated_at = $11
		WHERE tenant_id = $1 AND id = $2`,
		b.TenantID, b.ID, b.BillNumber, b.BillTitle, b.BillDate, b.PartyName, b.PartyPhone,
		b.PartyEmail, b.PartyAddress, b.Notes, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bill header: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTotals fija subtotal, descuento y total; saldo y estado se derivan del paid_amount vigente.
// domain.ErrConflict si lo ya pagado supera el nuevo total.
func (r *BillRepo) UpdateTotals(ctx context.Context, b *entity.Bill) error {
	query := `
		UPDATE bills SET subtotal = $3, discount_amount = $4, total_amount = $5,
		       remaining_balance = $5 - paid_amount,
		       status = ` + fmt.Sprintf(statusCase, "paid_amount", "$5") + `,
		       updated_at = $6
		WHERE tenant_id = $1 AND id = $2 AND paid_amount <= $5
		RETURNING ` + billColumns
	err := pgxscan.Get(ctx, r.db, b, query, b.TenantID, b.ID, b.Subtotal, b.DiscountAmount, b.TotalAmount, b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, getErr := r.GetByID(ctx, b.TenantID, b.ID)
		if getErr != nil {
			return getErr
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update bill totals: %w", err)
	}
	return nil
}

// AddPaid suma amount a paid_amount solo si el resultado queda en [0, total_amount].
func (r *BillRepo) AddPaid(ctx context.Context, tenantID, billID string, amount decimal.Decimal) (*entity.Bill, error) {
	paid := "(paid_amount + $3)"
	query := `
		UPDATE bills SET paid_amount = ` + paid + `,
		       remaining_balance = total_amount - ` + paid + `,
		       status = ` + fmt.Sprintf(statusCase, paid, "total_amount") + `,
		       updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND ` + paid + ` <= total_amount AND ` + paid + ` >= 0
		RETURNING ` + billColumns
	var b entity.Bill
	err := pgxscan.Get(ctx, r.db, &b, query, tenantID, billID, amount)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, getErr := r.GetByID(ctx, tenantID, billID)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		if amount.IsNegative() {
			return nil, domain.ErrConflict
		}
		return nil, domain.ErrPaymentExceedsTotal
	}
	if err != nil {
		return nil, fmt.Errorf("add paid amount: %w", err)
	}
	return &b, nil
}

// ClaimDeletion reclama el borrado con un UPDATE condicional: gana solo quien afecta la fila.
func (r *BillRepo) ClaimDeletion(ctx context.Context, tenantID, id string) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE bills SET deleting = true, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND NOT deleting`, tenantID, id)
	if err != nil {
		return fmt.Errorf("claim bill deletion: %w", err)
	}
	if cmd.RowsAffected() != 1 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BillRepo) ReleaseDeletion(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.Exec(ctx, `UPDATE bills SET deleting = false WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("release bill deletion: %w", err)
	}
	return nil
}

// Delete elimina la factura; líneas y abonos caen por ON DELETE CASCADE.
func (r *BillRepo) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM bills WHERE tenant_id = $1 AND id = $2`, tenantID, id); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

func (r *BillRepo) GetItems(ctx context.Context, tenantID, billID string) ([]*entity.BillItem, error) {
	var list []*entity.BillItem
	query := `SELECT ` + itemColumns + ` FROM bill_items WHERE tenant_id = $1 AND bill_id = $2 ORDER BY created_at, id`
	if err := pgxscan.Select(ctx, r.db, &list, query, tenantID, billID); err != nil {
		return nil, fmt.Errorf("get bill items: %w", err)
	}
	return list, nil
}

func (r *BillRepo) GetItem(ctx context.Context, tenantID, billID, itemID string) (*entity.BillItem, error) {
	var it entity.BillItem
	query := `SELECT ` + itemColumns + ` FROM bill_items WHERE tenant_id = $1 AND bill_id = $2 AND id = $3`
	if err := pgxscan.Get(ctx, r.db, &it, query, tenantID, billID, itemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill item: %w", err)
	}
	return &it, nil
}

func (r *BillRepo) UpdateItem(ctx context.Context, it *entity.BillItem) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE bill_items SET product_name = $4, quantity = $5, unit = $6, unit_price = $7,
		       min_size = $8, max_size = $9, total = $10, updated_at = $11
		WHERE tenant_id = $1 AND bill_id = $2 AND id = $3`,
		it.TenantID, it.BillID, it.ID, it.ProductName, it.Quantity, it.Unit, it.UnitPrice,
		it.MinSize, it.MaxSize, it.Total, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bill item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BillRepo) DeleteItem(ctx context.Context, tenantID, billID, itemID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bill_items WHERE tenant_id = $1 AND bill_id = $2 AND id = $3`, tenantID, billID, itemID)
	if err != nil {
		return fmt.Errorf("delete bill item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BillRepo) SetItemProduct(ctx context.Context, tenantID, itemID, productID string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bill_items SET product_id = $3 WHERE tenant_id = $1 AND id = $2`, tenantID, itemID, productID)
	if err != nil {
		return fmt.Errorf("set item product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Stats agregados en una sola pasada con FILTER.
func (r *BillRepo) Stats(ctx context.Context, tenantID string, from, to *time.Time) (*entity.BillStats, error) {
	sql, args, err := psql.Select(
		"COUNT(*) AS total_bills",
		"COUNT(*) FILTER (WHERE bill_type = 'sell') AS sell_bills",
		"COUNT(*) FILTER (WHERE bill_type = 'buy') AS buy_bills",
		"COALESCE(SUM(total_amount) FILTER (WHERE bill_type = 'sell'), 0) AS total_sales",
		"COALESCE(SUM(total_amount) FILTER (WHERE bill_type = 'buy'), 0) AS total_purchases",
		"COALESCE(SUM(paid_amount), 0) AS total_paid",
		"COALESCE(SUM(remaining_balance), 0) AS total_outstanding",
		"COUNT(*) FILTER (WHERE status = 'paid') AS paid_count",
		"COUNT(*) FILTER (WHERE status = 'partially_paid') AS partially_paid_count",
		"COUNT(*) FILTER (WHERE status = 'unpaid') AS unpaid_count",
	).From("bills").Where(billWhere(tenantID, from, to)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bill stats: %w", err)
	}
	var st entity.BillStats
	if err := pgxscan.Get(ctx, r.db, &st, sql, args...); err != nil {
		return nil, fmt.Errorf("bill stats: %w", err)
	}
	return &st, nil
}
