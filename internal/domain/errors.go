package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrPaymentExceedsTotal = errors.New("el pago excede el total de la factura")
)

// Códigos expuestos en el cuerpo de error HTTP.
const (
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodePaymentExceeds    = "PAYMENT_EXCEEDS_TOTAL"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL"
)

// AppError error de aplicación con el status HTTP que debe exponerse.
// Envuelve un error sentinela para que errors.Is siga funcionando.
type AppError struct {
	Code    string
	Message string
	Status  int
	Details []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewValidation error 400 de validación de entrada.
func NewValidation(message string, details ...string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Status: http.StatusBadRequest, Details: details, Err: ErrInvalidInput}
}

// NewNotFound error 404 para una entidad que no resuelve bajo el tenant actual.
func NewNotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Status: http.StatusNotFound, Err: ErrNotFound}
}

// NewInsufficientStock error 400 por faltante de stock; details lista cada producto.
func NewInsufficientStock(details ...string) *AppError {
	return &AppError{Code: CodeInsufficientStock, Message: "Insufficient stock", Status: http.StatusBadRequest, Details: details, Err: ErrInsufficientStock}
}

// NewPaymentExceedsTotal error 400 del techo de pagos.
func NewPaymentExceedsTotal() *AppError {
	return &AppError{Code: CodePaymentExceeds, Message: "Payment amount exceeds bill total", Status: http.StatusBadRequest, Err: ErrPaymentExceedsTotal}
}

// NewConflict error 409 por choque con el estado actual (p. ej. nombre duplicado).
func NewConflict(message string, err error) *AppError {
	return &AppError{Code: CodeConflict, Message: message, Status: http.StatusConflict, Err: err}
}

// NewInternal error 500 que envuelve una falla del store.
func NewInternal(message string, err error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError, Err: err}
}

// AsAppError extrae un *AppError de la cadena; los sentinelas sueltos se traducen a su status.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return &AppError{Code: CodeNotFound, Message: "Resource not found", Status: http.StatusNotFound, Err: err}
	case errors.Is(err, ErrInvalidInput):
		return &AppError{Code: CodeValidation, Message: err.Error(), Status: http.StatusBadRequest, Err: err}
	case errors.Is(err, ErrInsufficientStock):
		return &AppError{Code: CodeInsufficientStock, Message: "Insufficient stock", Status: http.StatusBadRequest, Err: err}
	case errors.Is(err, ErrPaymentExceedsTotal):
		return NewPaymentExceedsTotal()
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return &AppError{Code: CodeConflict, Message: err.Error(), Status: http.StatusConflict, Err: err}
	case errors.Is(err, ErrUnauthorized):
		return &AppError{Code: CodeUnauthorized, Message: "Unauthorized", Status: http.StatusUnauthorized, Err: err}
	}
	return NewInternal(err.Error(), err)
}

// StatusOf devuelve el status HTTP asociado al error.
func StatusOf(err error) int {
	if appErr := AsAppError(err); appErr != nil {
		return appErr.Status
	}
	return http.StatusOK
}
