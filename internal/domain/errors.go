package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrDiscountNotAuthorized = errors.New("el descuento supera el límite autorizado para el rol")
	ErrExpired               = errors.New("el catálogo no existe o ha expirado")
	ErrNoChange              = errors.New("no hay diferencia para registrar")
)

// ValidationError describe un campo inválido. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// BarcodeInUseError el código de barras ya pertenece a otro producto.
type BarcodeInUseError struct {
	Barcode     string
	ProductID   string
	ProductName string
}

func (e *BarcodeInUseError) Error() string {
	return fmt.Sprintf("el código de barras %s ya está asignado a %q", e.Barcode, e.ProductName)
}

func (e *BarcodeInUseError) Unwrap() error { return ErrDuplicate }

// InsufficientStockError stock insuficiente para un producto puntual.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   string
	Requested   string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %s, solicitado %s", e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
