package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementSale                = "VENTA"
	MovementPurchase            = "COMPRA"
	MovementManualAdjustment    = "AJUSTE_MANUAL"
	MovementShrinkage           = "MERMA"
	MovementBreakage            = "ROTURA"
	MovementExpiry              = "VENCIMIENTO"
	MovementCustomerReturn      = "DEVOLUCION_CLIENTE"
	MovementSupplierReturn      = "DEVOLUCION_PROVEEDOR"
	MovementInitialStock        = "INVENTARIO_INICIAL"
	MovementTransferIn          = "TRANSFERENCIA_ENTRADA"
	MovementTransferOut         = "TRANSFERENCIA_SALIDA"
	MovementInternalConsumption = "CONSUMO_INTERNO"
)

// Tipos de documento que originan un movimiento.
const (
	ReferenceSale       = "VENTA"
	ReferencePurchase   = "COMPRA"
	ReferenceAdjustment = "AJUSTE"
	ReferenceTransfer   = "TRANSFERENCIA"
)

// StockMovement representa un cambio de stock de un producto.
// Quantity es positiva para entradas y negativa para salidas.
type StockMovement struct {
	ID             string
	ProductID      string
	Type           string
	Quantity       decimal.Decimal
	PreviousStock  decimal.Decimal
	ResultingStock decimal.Decimal
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	UserID         string
	ReferenceID    string
	ReferenceType  string
	Reason         string
	Lot            string
	ExpiresOn      *time.Time
	CreatedAt      time.Time
}

// ValidMovementType valida un tipo de movimiento.
func ValidMovementType(t string) bool {
	switch t {
	case MovementSale, MovementPurchase, MovementManualAdjustment, MovementShrinkage,
		MovementBreakage, MovementExpiry, MovementCustomerReturn, MovementSupplierReturn,
		MovementInitialStock, MovementTransferIn, MovementTransferOut, MovementInternalConsumption:
		return true
	}
	return false
}

// IsAdjustmentType indica los tipos aceptados en un ajuste manual de stock.
func IsAdjustmentType(t string) bool {
	switch t {
	case MovementManualAdjustment, MovementShrinkage, MovementBreakage, MovementExpiry, MovementInternalConsumption:
		return true
	}
	return false
}
