package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/application/inventory"
	"github.com/jhoicas/billstock-api/internal/application/ports"
	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var tracer = otel.Tracer("billstock/billing")

var hundred = decimal.NewFromInt(100)

// EngineOptions opciones del motor de facturas.
type EngineOptions struct {
	Policies domain.Policies
	CacheTTL time.Duration
}

// BillEngine ciclo de vida de las facturas: orquesta el motor de stock y el registro de ventas.
// El store no ofrece transacciones, así que la creación corre como una secuencia ordenada de
// escrituras con una tabla de compensaciones (ver saga).
type BillEngine struct {
	bills    repository.BillRepository
	stock    *inventory.StockEngine
	sales    *SalesRecorder
	payments *PaymentTracker
	cache    ports.Cache
	opts     EngineOptions
	log      zerolog.Logger
	now      func() time.Time
}

// NewBillEngine construye el motor de facturas.
func NewBillEngine(
	bills repository.BillRepository,
	stock *inventory.StockEngine,
	sales *SalesRecorder,
	payments *PaymentTracker,
	cache ports.Cache,
	opts EngineOptions,
	log zerolog.Logger,
) *BillEngine {
	return &BillEngine{
		bills:    bills,
		stock:    stock,
		sales:    sales,
		payments: payments,
		cache:    cache,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// CreateBill crea una factura con sus líneas y aplica sus efectos:
//  1. validación estructural (sin escrituras)
//  2. disponibilidad de stock en ventas (sin escrituras)
//  3. insert de la cabecera y luego de las líneas; si fallan las líneas se borra la cabecera
//  4. ajuste de stock por línea con su fila de auditoría
//  5. registros de venta (solo ventas)
//
// Si un paso posterior al insert aborta según su política, se deshacen los pasos previos.
func (e *BillEngine) CreateBill(ctx context.Context, tenantID string, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	ctx, span := tracer.Start(ctx, "billing.CreateBill", trace.WithAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("bill.type", in.BillType),
	))
	defer span.End()

	// ── 1. Validación estructural ─────────────────────────────────────────────
	bill, items, err := e.buildBill(tenantID, in)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("bill.id", bill.ID))

	// ── 2. Disponibilidad (resuelve además los IDs de producto) ───────────────
	res, err := e.stock.ValidateAvailability(ctx, tenantID, bill.BillType, items)
	if err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}
	if !res.Valid {
		return nil, domain.NewInsufficientStock(res.Errors...)
	}
	unresolved := make(map[string]bool)
	for _, it := range items {
		if it.ProductID == "" {
			unresolved[it.ID] = true
		}
	}

	// ── 3. Cabecera y líneas ──────────────────────────────────────────────────
	saga := newSaga(e.log.With().Str("tenant_id", tenantID).Str("bill_id", bill.ID).Logger())
	if err := e.bills.Create(ctx, bill); err != nil {
		return nil, fmt.Errorf("create bill: %w", err)
	}
	saga.push("delete bill", func(ctx context.Context) error {
		return e.bills.Delete(ctx, tenantID, bill.ID)
	})
	if err := e.bills.CreateItems(ctx, items); err != nil {
		saga.rollback(ctx)
		return nil, fmt.Errorf("create bill items: %w", err)
	}

	// ── 4. Stock ──────────────────────────────────────────────────────────────
	applied, err := e.stock.AdjustStock(ctx, tenantID, bill.ID, bill.BillType, items)
	if len(applied) > 0 {
		saga.push("reverse stock", func(ctx context.Context) error {
			_, err := e.stock.ReverseAdjustments(ctx, tenantID, applied)
			return err
		})
	}
	if err != nil {
		saga.rollback(ctx)
		return nil, err
	}
	e.linkProducts(ctx, tenantID, items, unresolved)

	// ── 5. Registros de venta ─────────────────────────────────────────────────
	if bill.BillType == entity.BillTypeSell {
		if _, err := e.sales.CreateSalesRecords(ctx, tenantID, bill.ID, bill.BillDate, items); err != nil {
			if e.opts.Policies.SalesRecord == domain.PolicyAbort {
				saga.push("delete sales records", func(ctx context.Context) error {
					_, err := e.sales.DeleteSalesRecords(ctx, tenantID, bill.ID)
					return err
				})
				saga.rollback(ctx)
				return nil, fmt.Errorf("create sales records: %w", err)
			}
			e.log.Warn().Err(err).Str("tenant_id", tenantID).Str("bill_id", bill.ID).Msg("registros de venta omitidos")
		}
	}

	e.invalidate(ctx, tenantID)
	e.log.Info().Str("tenant_id", tenantID).Str("bill_id", bill.ID).Str("bill_type", bill.BillType).
		Int("items", len(items)).Int("adjustments", len(applied)).Msg("factura creada")
	out := ToBillResponse(bill)
	return &out, nil
}

// GetBillByID devuelve la cabecera, sus líneas y sus abonos.
func (e *BillEngine) GetBillByID(ctx context.Context, tenantID, billID string) (*dto.BillDetailResponse, error) {
	bill, err := e.getBill(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	items, err := e.bills.GetItems(ctx, tenantID, billID)
	if err != nil {
		return nil, fmt.Errorf("get bill items: %w", err)
	}
	payments, err := e.payments.ListPayments(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	out := &dto.BillDetailResponse{
		Bill:     ToBillResponse(bill),
		Items:    make([]dto.BillItemResponse, 0, len(items)),
		Payments: payments,
	}
	for _, it := range items {
		out.Items = append(out.Items, ToBillItemResponse(it))
	}
	return out, nil
}

// GetBills lista facturas filtradas, bill_date descendente.
func (e *BillEngine) GetBills(ctx context.Context, tenantID string, in dto.BillFilterRequest) (*dto.BillListResponse, error) {
	in.DefaultPage()
	filter := repository.BillFilter{
		BillType:    in.BillType,
		PaymentType: in.PaymentType,
		Status:      in.Status,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if filter.BillType != "" && !entity.IsValidBillType(filter.BillType) {
		return nil, domain.NewValidation("bill_type must be sell or buy")
	}
	if filter.PaymentType != "" && !entity.IsValidPaymentType(filter.PaymentType) {
		return nil, domain.NewValidation("payment_type must be full or partial")
	}
	if filter.Status != "" && !isValidStatus(filter.Status) {
		return nil, domain.NewValidation("status must be unpaid, partially_paid or paid")
	}
	var err error
	if filter.StartDate, filter.EndDate, err = parseRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	list, total, err := e.bills.List(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	out := &dto.BillListResponse{
		Data: make([]dto.BillResponse, 0, len(list)),
		Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, b := range list {
		out.Data = append(out.Data, ToBillResponse(b))
	}
	return out, nil
}

// UpdateBill modifica solo cabecera, contacto y notas. Totales, líneas y pagos tienen sus propias rutas.
func (e *BillEngine) UpdateBill(ctx context.Context, tenantID, billID string, in dto.UpdateBillRequest) (*dto.BillResponse, error) {
	bill, err := e.getBill(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	var details []string
	setRequired := func(dst *string, v *string, field string) {
		if v == nil {
			return
		}
		if strings.TrimSpace(*v) == "" {
			details = append(details, field+" cannot be empty")
			return
		}
		*dst = strings.TrimSpace(*v)
	}
	setRequired(&bill.BillNumber, in.BillNumber, "bill_number")
	setRequired(&bill.BillTitle, in.BillTitle, "bill_title")
	setRequired(&bill.PartyName, in.PartyName, "party_name")
	if in.BillDate != nil {
		d, err := dto.ParseDate(strings.TrimSpace(*in.BillDate))
		if err != nil {
			details = append(details, "bill_date must be YYYY-MM-DD")
		} else {
			bill.BillDate = d
		}
	}
	if in.PartyPhone != nil {
		bill.PartyPhone = *in.PartyPhone
	}
	if in.PartyEmail != nil {
		bill.PartyEmail = *in.PartyEmail
	}
	if in.PartyAddress != nil {
		bill.PartyAddress = *in.PartyAddress
	}
	if in.Notes != nil {
		bill.Notes = *in.Notes
	}
	if len(details) > 0 {
		return nil, domain.NewValidation(strings.Join(details, "; "), details...)
	}
	bill.UpdatedAt = e.now()
	if err := e.bills.UpdateHeader(ctx, bill); err != nil {
		return nil, fmt.Errorf("update bill: %w", err)
	}
	e.invalidate(ctx, tenantID)
	out := ToBillResponse(bill)
	return &out, nil
}

// DeleteBill deshace los efectos de la factura y luego la elimina:
// reclama el borrado, registros de venta, reversión de stock (leyendo el libro) y por último la
// cabecera con sus líneas. Solo un borrado concurrente gana la marca; los demás reciben 404.
// Las fallas de los dos pasos intermedios siguen la política de reversión.
func (e *BillEngine) DeleteBill(ctx context.Context, tenantID, billID string) error {
	ctx, span := tracer.Start(ctx, "billing.DeleteBill", trace.WithAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("bill.id", billID),
	))
	defer span.End()

	bill, err := e.getBill(ctx, tenantID, billID)
	if err != nil {
		return err
	}
	if err := e.bills.ClaimDeletion(ctx, tenantID, billID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("Bill not found")
		}
		return fmt.Errorf("claim bill deletion: %w", err)
	}
	release := func() {
		if err := e.bills.ReleaseDeletion(context.WithoutCancel(ctx), tenantID, billID); err != nil {
			e.log.Error().Err(err).Str("tenant_id", tenantID).Str("bill_id", billID).Msg("liberar marca de borrado")
		}
	}

	items, err := e.bills.GetItems(ctx, tenantID, billID)
	if err != nil {
		release()
		return fmt.Errorf("get bill items: %w", err)
	}
	if bill.BillType == entity.BillTypeSell {
		if _, err := e.sales.DeleteSalesRecords(ctx, tenantID, billID); err != nil {
			if e.opts.Policies.Reversal == domain.PolicyAbort {
				release()
				return err
			}
			e.log.Warn().Err(err).Str("tenant_id", tenantID).Str("bill_id", billID).Msg("borrado de registros de venta fallido")
		}
	}
	reversals, err := e.stock.ReverseBill(ctx, tenantID, billID, bill.BillType, items)
	if err != nil {
		release()
		return err
	}
	if err := e.bills.Delete(ctx, tenantID, billID); err != nil {
		release()
		return fmt.Errorf("delete bill: %w", err)
	}

	e.invalidate(ctx, tenantID)
	e.log.Info().Str("tenant_id", tenantID).Str("bill_id", billID).Int("reversals", len(reversals)).Msg("factura eliminada")
	return nil
}

// GetBillStats agregados de facturas en el rango (fechas inclusivas, ambas opcionales).
// El resultado se cachea por tenant y rango; cualquier escritura del tenant lo invalida.
func (e *BillEngine) GetBillStats(ctx context.Context, tenantID, startDate, endDate string) (*dto.BillStatsResponse, error) {
	from, to, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	key := ports.CacheKey(tenantID, "bills", "stats", startDate, endDate)
	var cached dto.BillStatsResponse
	if found, err := e.cache.Get(ctx, key, &cached); err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("cache get")
	} else if found {
		return &cached, nil
	}

	st, err := e.bills.Stats(ctx, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("bill stats: %w", err)
	}
	out := &dto.BillStatsResponse{
		StartDate:          startDate,
		EndDate:            endDate,
		TotalBills:         st.TotalBills,
		SellBills:          st.SellBills,
		BuyBills:           st.BuyBills,
		TotalSales:         st.TotalSales.Round(2),
		TotalPurchases:     st.TotalPurchases.Round(2),
		TotalPaid:          st.TotalPaid.Round(2),
		TotalOutstanding:   st.TotalOutstanding.Round(2),
		PaidCount:          st.PaidCount,
		PartiallyPaidCount: st.PartiallyPaidCount,
		UnpaidCount:        st.UnpaidCount,
	}
	if err := e.cache.Set(ctx, key, out, e.opts.CacheTTL); err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("cache set")
	}
	return out, nil
}

// buildBill valida la solicitud y arma la cabecera y sus líneas sin persistir nada.
func (e *BillEngine) buildBill(tenantID string, in dto.CreateBillRequest) (*entity.Bill, []*entity.BillItem, error) {
	var missing, details []string
	required := map[string]string{
		"bill_number": in.BillNumber,
		"bill_title":  in.BillTitle,
		"bill_date":   in.BillDate,
		"bill_type":   in.BillType,
		"party_name":  in.PartyName,
	}
	for _, field := range []string{"bill_number", "bill_title", "bill_date", "bill_type", "party_name"} {
		if strings.TrimSpace(required[field]) == "" {
			missing = append(missing, field)
		}
	}
	if in.TotalAmount == nil {
		missing = append(missing, "total_amount")
	}
	if len(missing) > 0 {
		details = append(details, "Missing required fields: "+strings.Join(missing, ", "))
	}

	billType := strings.TrimSpace(in.BillType)
	if billType != "" && !entity.IsValidBillType(billType) {
		details = append(details, "bill_type must be sell or buy")
	}
	paymentType := strings.TrimSpace(in.PaymentType)
	if paymentType != "" && !entity.IsValidPaymentType(paymentType) {
		details = append(details, "payment_type must be full or partial")
	}
	var billDate time.Time
	if strings.TrimSpace(in.BillDate) != "" {
		d, err := dto.ParseDate(strings.TrimSpace(in.BillDate))
		if err != nil {
			details = append(details, "bill_date must be YYYY-MM-DD")
		}
		billDate = d
	}
	if in.TotalAmount != nil && in.TotalAmount.IsNegative() {
		details = append(details, "total_amount cannot be negative")
	}
	if in.DiscountPercent != nil && (in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(hundred)) {
		details = append(details, "discount_percent must be between 0 and 100")
	}
	if in.PaidAmount != nil && in.PaidAmount.IsNegative() {
		details = append(details, "paid_amount cannot be negative")
	}
	if in.TotalAmount != nil && in.PaidAmount != nil && in.PaidAmount.GreaterThan(*in.TotalAmount) {
		details = append(details, "paid_amount cannot exceed total_amount")
	}
	if len(in.Items) == 0 {
		details = append(details, "At least one item is required")
	}
	for i, it := range in.Items {
		details = append(details, validateItem(i, it)...)
	}
	if len(details) > 0 {
		return nil, nil, domain.NewValidation(strings.Join(details, "; "), details...)
	}

	now := e.now()
	bill := &entity.Bill{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		BillNumber:   strings.TrimSpace(in.BillNumber),
		BillTitle:    strings.TrimSpace(in.BillTitle),
		BillDate:     billDate,
		BillType:     billType,
		PartyName:    strings.TrimSpace(in.PartyName),
		PartyPhone:   in.PartyPhone,
		PartyEmail:   in.PartyEmail,
		PartyAddress: in.PartyAddress,
		TotalAmount:  in.TotalAmount.Round(2),
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	items := make([]*entity.BillItem, 0, len(in.Items))
	itemsTotal := decimal.Zero
	for _, req := range in.Items {
		it := &entity.BillItem{
			ID:          uuid.New().String(),
			TenantID:    tenantID,
			BillID:      bill.ID,
			ProductName: strings.TrimSpace(req.ProductName),
			Quantity:    *req.Quantity,
			Unit:        strings.TrimSpace(req.Unit),
			UnitPrice:   req.UnitPrice.Round(2),
			MinSize:     req.MinSize,
			MaxSize:     req.MaxSize,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		it.ComputeTotal()
		itemsTotal = itemsTotal.Add(it.Total)
		items = append(items, it)
	}

	// Subtotal y descuento se aceptan tal como llegan; si faltan se derivan de las líneas.
	bill.Subtotal = itemsTotal
	if in.Subtotal != nil {
		bill.Subtotal = in.Subtotal.Round(2)
	}
	if in.DiscountPercent != nil {
		bill.DiscountPercent = *in.DiscountPercent
	}
	bill.DiscountAmount = bill.Subtotal.Mul(bill.DiscountPercent).Div(hundred).Round(2)
	if in.DiscountAmount != nil {
		bill.DiscountAmount = in.DiscountAmount.Round(2)
	}

	// Pago inicial: full liquida la factura completa.
	if in.PaidAmount != nil {
		bill.PaidAmount = in.PaidAmount.Round(2)
	}
	switch {
	case paymentType == entity.PaymentTypeFull:
		bill.PaidAmount = bill.TotalAmount
	case paymentType == "" && bill.PaidAmount.GreaterThanOrEqual(bill.TotalAmount):
		paymentType = entity.PaymentTypeFull
	case paymentType == "":
		paymentType = entity.PaymentTypePartial
	}
	bill.PaymentType = paymentType
	bill.RefreshBalance()
	return bill, items, nil
}

func validateItem(i int, it dto.BillItemRequest) []string {
	var details []string
	prefix := fmt.Sprintf("items[%d]: ", i)
	var missing []string
	if strings.TrimSpace(it.ProductName) == "" {
		missing = append(missing, "product_name")
	}
	if it.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if it.UnitPrice == nil {
		missing = append(missing, "unit_price")
	}
	if strings.TrimSpace(it.Unit) == "" {
		missing = append(missing, "unit")
	}
	if len(missing) > 0 {
		details = append(details, prefix+"missing "+strings.Join(missing, ", "))
	}
	if it.Quantity != nil && *it.Quantity <= 0 {
		details = append(details, prefix+"quantity must be greater than 0")
	}
	if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
		details = append(details, prefix+"unit_price cannot be negative")
	}
	return details
}

// linkProducts persiste el ID de los productos que se resolvieron recién al ajustar (altas por compra).
func (e *BillEngine) linkProducts(ctx context.Context, tenantID string, items []*entity.BillItem, unresolved map[string]bool) {
	for _, it := range items {
		if !unresolved[it.ID] || it.ProductID == "" {
			continue
		}
		if err := e.bills.SetItemProduct(ctx, tenantID, it.ID, it.ProductID); err != nil {
			e.log.Warn().Err(err).Str("tenant_id", tenantID).Str("item_id", it.ID).Msg("vincular producto a la línea")
		}
	}
}

func (e *BillEngine) getBill(ctx context.Context, tenantID, billID string) (*entity.Bill, error) {
	bill, err := e.bills.GetByID(ctx, tenantID, billID)
	if err != nil {
		return nil, fmt.Errorf("get bill: %w", err)
	}
	if bill == nil {
		return nil, domain.NewNotFound("Bill not found")
	}
	return bill, nil
}

func (e *BillEngine) invalidate(ctx context.Context, tenantID string) {
	invalidateTenant(ctx, e.cache, e.log, tenantID)
}

func invalidateTenant(ctx context.Context, cache ports.Cache, log zerolog.Logger, tenantID string) {
	if err := cache.InvalidatePrefix(ctx, ports.TenantCachePrefix(tenantID)); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID).Msg("cache invalidate")
	}
}

func isValidStatus(s string) bool {
	return s == entity.BillStatusUnpaid || s == entity.BillStatusPartiallyPaid || s == entity.BillStatusPaid
}

// parseRange interpreta start/end (YYYY-MM-DD, opcionales).
func parseRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		d, err := dto.ParseDate(start)
		if err != nil {
			return nil, nil, domain.NewValidation("start_date must be YYYY-MM-DD")
		}
		from = &d
	}
	if end != "" {
		d, err := dto.ParseDate(end)
		if err != nil {
			return nil, nil, domain.NewValidation("end_date must be YYYY-MM-DD")
		}
		to = &d
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, domain.NewValidation("end_date must not be before start_date")
	}
	return from, to, nil
}
