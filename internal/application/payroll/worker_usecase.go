// Package payroll gestiona empleados y sus pagos de nómina.
package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/application/ports"
	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

// WorkerUseCase CRUD de empleados y registro de pagos.
type WorkerUseCase struct {
	repo  repository.WorkerRepository
	cache ports.Cache
	log   zerolog.Logger
	now   func() time.Time
}

// NewWorkerUseCase construye el caso de uso.
func NewWorkerUseCase(repo repository.WorkerRepository, cache ports.Cache, log zerolog.Logger) *WorkerUseCase {
	return &WorkerUseCase{repo: repo, cache: cache, log: log, now: time.Now}
}

// Create registra un empleado activo.
func (uc *WorkerUseCase) Create(ctx context.Context, tenantID string, in dto.CreateWorkerRequest) (*dto.WorkerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidation("Worker name is required")
	}
	if in.Salary.IsNegative() {
		return nil, domain.NewValidation("Salary cannot be negative")
	}
	var joinDate time.Time
	if in.JoinDate != "" {
		d, err := dto.ParseDate(in.JoinDate)
		if err != nil {
			return nil, domain.NewValidation("join_date must be YYYY-MM-DD")
		}
		joinDate = d
	}
	now := uc.now()
	w := &entity.Worker{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		Role:      strings.TrimSpace(in.Role),
		Salary:    in.Salary.Round(2),
		JoinDate:  joinDate,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create worker: %w", err)
	}
	out := ToWorkerResponse(w)
	return &out, nil
}

// GetByID obtiene un empleado del tenant.
func (uc *WorkerUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.WorkerResponse, error) {
	w, err := uc.get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	out := ToWorkerResponse(w)
	return &out, nil
}

// List lista empleados por nombre.
func (uc *WorkerUseCase) List(ctx context.Context, tenantID string, page dto.PageRequest) (*dto.WorkerListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	out := &dto.WorkerListResponse{
		Data: make([]dto.WorkerResponse, 0, len(list)),
		Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, w := range list {
		out.Data = append(out.Data, ToWorkerResponse(w))
	}
	return out, nil
}

// Update aplica los campos presentes.
func (uc *WorkerUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateWorkerRequest) (*dto.WorkerResponse, error) {
	w, err := uc.get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidation("Worker name cannot be empty")
		}
		w.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		w.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Role != nil {
		w.Role = strings.TrimSpace(*in.Role)
	}
	if in.Salary != nil {
		if in.Salary.IsNegative() {
			return nil, domain.NewValidation("Salary cannot be negative")
		}
		w.Salary = in.Salary.Round(2)
	}
	if in.JoinDate != nil {
		d, err := dto.ParseDate(*in.JoinDate)
		if err != nil {
			return nil, domain.NewValidation("join_date must be YYYY-MM-DD")
		}
		w.JoinDate = d
	}
	if in.Active != nil {
		w.Active = *in.Active
	}
	w.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("update worker: %w", err)
	}
	out := ToWorkerResponse(w)
	return &out, nil
}

// Delete elimina el empleado y su historial de pagos.
func (uc *WorkerUseCase) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := uc.get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, tenantID, id); err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	uc.invalidate(ctx, tenantID)
	return nil
}

// RecordPayment registra un pago de nómina (monto > 0).
func (uc *WorkerUseCase) RecordPayment(ctx context.Context, tenantID, workerID string, in dto.CreateWorkerPaymentRequest) (*dto.WorkerPaymentResponse, error) {
	if in.Amount == nil || strings.TrimSpace(in.PaymentDate) == "" {
		return nil, domain.NewValidation("Payment amount and date are required")
	}
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, domain.NewValidation("Payment amount must be greater than 0")
	}
	date, err := dto.ParseDate(strings.TrimSpace(in.PaymentDate))
	if err != nil {
		return nil, domain.NewValidation("payment_date must be YYYY-MM-DD")
	}
	if _, err := uc.get(ctx, tenantID, workerID); err != nil {
		return nil, err
	}
	p := &entity.WorkerPayment{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		WorkerID:      workerID,
		Amount:        amount,
		PaymentDate:   date,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Notes:         in.Notes,
		CreatedAt:     uc.now(),
	}
	if err := uc.repo.CreatePayment(ctx, p); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound("Worker not found")
		}
		return nil, fmt.Errorf("create worker payment: %w", err)
	}
	uc.invalidate(ctx, tenantID)
	out := ToWorkerPaymentResponse(p)
	return &out, nil
}

// ListPayments pagos del empleado, más reciente primero.
func (uc *WorkerUseCase) ListPayments(ctx context.Context, tenantID, workerID string) ([]dto.WorkerPaymentResponse, error) {
	if _, err := uc.get(ctx, tenantID, workerID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListPayments(ctx, tenantID, workerID)
	if err != nil {
		return nil, fmt.Errorf("list worker payments: %w", err)
	}
	out := make([]dto.WorkerPaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToWorkerPaymentResponse(p))
	}
	return out, nil
}

func (uc *WorkerUseCase) get(ctx context.Context, tenantID, id string) (*entity.Worker, error) {
	w, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("get worker: %w", err)
	}
	if w == nil {
		return nil, domain.NewNotFound("Worker not found")
	}
	return w, nil
}

// invalidate descarta el resumen del dashboard, que incluye el total de nómina.
func (uc *WorkerUseCase) invalidate(ctx context.Context, tenantID string) {
	if err := uc.cache.InvalidatePrefix(ctx, ports.TenantCachePrefix(tenantID)); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("cache invalidate")
	}
}

// ToWorkerResponse mapea la entidad a su DTO.
func ToWorkerResponse(w *entity.Worker) dto.WorkerResponse {
	return dto.WorkerResponse{
		ID:        w.ID,
		Name:      w.Name,
		Phone:     w.Phone,
		Role:      w.Role,
		Salary:    w.Salary,
		JoinDate:  dto.FormatDate(w.JoinDate),
		Active:    w.Active,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
	}
}

// ToWorkerPaymentResponse mapea un pago de nómina a su DTO.
func ToWorkerPaymentResponse(p *entity.WorkerPayment) dto.WorkerPaymentResponse {
	return dto.WorkerPaymentResponse{
		ID:            p.ID,
		WorkerID:      p.WorkerID,
		Amount:        p.Amount,
		PaymentDate:   dto.FormatDate(p.PaymentDate),
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
	}
}
