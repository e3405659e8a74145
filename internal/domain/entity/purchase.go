package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra.
const (
	PurchaseStatusPending   = "PENDIENTE"
	PurchaseStatusReceived  = "RECIBIDA"
	PurchaseStatusPartial   = "PARCIAL"
	PurchaseStatusCancelled = "CANCELADA"
)

// Tipos de comprobante del proveedor.
const (
	DocumentInvoiceA   = "FACTURA_A"
	DocumentInvoiceB   = "FACTURA_B"
	DocumentInvoiceC   = "FACTURA_C"
	DocumentRemito     = "REMITO"
	DocumentCreditNote = "NOTA_CREDITO"
)

// Métodos de costeo soportados al recibir mercadería.
const (
	CostingWeightedAverage = "PROMEDIO_PONDERADO"
	CostingLastCost        = "ULTIMO_COSTO"
)

// Purchase compra a proveedor (cabecera).
type Purchase struct {
	ID            string
	SupplierID    string
	SupplierName  string // solo lectura, resuelto por join
	Date          time.Time
	InvoiceNumber string
	DocumentType  string
	CAE           string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Status        string
	Notes         string
	UserID        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []PurchaseItem
}

// PurchaseItem línea de la compra.
type PurchaseItem struct {
	ID               string
	PurchaseID       string
	ProductID        string
	Quantity         decimal.Decimal
	ReceivedQuantity decimal.Decimal
	UnitCost         decimal.Decimal
	TotalCost        decimal.Decimal
	Lot              string
	ExpiresOn        *time.Time
}

// Pending cantidad que falta recibir.
func (i PurchaseItem) Pending() decimal.Decimal {
	p := i.Quantity.Sub(i.ReceivedQuantity)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// ValidDocumentType valida el tipo de comprobante.
func ValidDocumentType(t string) bool {
	switch t {
	case DocumentInvoiceA, DocumentInvoiceB, DocumentInvoiceC, DocumentRemito, DocumentCreditNote:
		return true
	}
	return false
}

// ReceptionStatus deriva el estado a partir de lo recibido en cada línea.
func ReceptionStatus(items []PurchaseItem) string {
	anyReceived, allReceived := false, true
	for _, it := range items {
		if it.ReceivedQuantity.IsPositive() {
			anyReceived = true
		}
		if it.ReceivedQuantity.LessThan(it.Quantity) {
			allReceived = false
		}
	}
	switch {
	case allReceived:
		return PurchaseStatusReceived
	case anyReceived:
		return PurchaseStatusPartial
	default:
		return PurchaseStatusPending
	}
}
