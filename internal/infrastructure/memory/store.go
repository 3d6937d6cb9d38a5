// Package memory implementa los puertos de repositorio en memoria.
// Un único mutex serializa todas las operaciones, de modo que cada método es atómico,
// incluido el ajuste de stock con su fila de auditoría. Se usa en pruebas y con STORE_DRIVER=memory.
package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
)

// Store contenedor compartido de todas las colecciones.
type Store struct {
	mu sync.Mutex

	products       map[string]*entity.Product
	bills          map[string]*entity.Bill
	deleting       map[string]bool
	items          map[string]*entity.BillItem
	payments       map[string]*entity.Payment
	adjustments    []*entity.StockAdjustment
	sales          map[string]*entity.SalesRecord
	workers        map[string]*entity.Worker
	workerPayments map[string]*entity.WorkerPayment

	now func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:       make(map[string]*entity.Product),
		bills:          make(map[string]*entity.Bill),
		deleting:       make(map[string]bool),
		items:          make(map[string]*entity.BillItem),
		payments:       make(map[string]*entity.Payment),
		sales:          make(map[string]*entity.SalesRecord),
		workers:        make(map[string]*entity.Worker),
		workerPayments: make(map[string]*entity.WorkerPayment),
		now:            time.Now,
	}
}

// Products repositorio de productos sobre este store.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// StockAdjustments repositorio del libro de ajustes.
func (s *Store) StockAdjustments() *StockAdjustmentRepo { return &StockAdjustmentRepo{s: s} }

// Bills repositorio de facturas.
func (s *Store) Bills() *BillRepo { return &BillRepo{s: s} }

// Payments repositorio de abonos.
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s: s} }

// SalesRecords repositorio de registros de venta.
func (s *Store) SalesRecords() *SalesRecordRepo { return &SalesRecordRepo{s: s} }

// Workers repositorio de empleados.
func (s *Store) Workers() *WorkerRepo { return &WorkerRepo{s: s} }

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
