package domain

import (
	"fmt"
	"strings"
)

// FailurePolicy define qué hace un paso secundario de una operación compuesta cuando falla.
type FailurePolicy string

const (
	// PolicySkip registra la falla y deja que la operación continúe.
	PolicySkip FailurePolicy = "skip"
	// PolicyAbort detiene la operación y devuelve el error al llamador.
	PolicyAbort FailurePolicy = "abort"
)

// ParseFailurePolicy convierte el valor de configuración ("skip" | "abort").
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicySkip:
		return PolicySkip, nil
	case PolicyAbort:
		return PolicyAbort, nil
	}
	return "", fmt.Errorf("%w: política desconocida %q", ErrInvalidInput, s)
}

// Policies agrupa las políticas por llamador del motor de facturas.
type Policies struct {
	// MissingProduct: ítem de venta cuyo producto no existe.
	MissingProduct FailurePolicy
	// StockApply: el ajuste de stock falla al crear la factura.
	StockApply FailurePolicy
	// SalesRecord: falla la creación de un registro de venta.
	SalesRecord FailurePolicy
	// Reversal: falla la reversión de stock o el borrado de ventas al eliminar una factura.
	Reversal FailurePolicy
}

// DefaultPolicies valores por defecto.
func DefaultPolicies() Policies {
	return Policies{
		MissingProduct: PolicySkip,
		StockApply:     PolicyAbort,
		SalesRecord:    PolicyAbort,
		Reversal:       PolicySkip,
	}
}
