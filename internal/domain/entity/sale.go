package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de venta.
const (
	SaleTypeRetail    = "MINORISTA"
	SaleTypeWholesale = "MAYORISTA"
)

// Tipo de precio aplicado en una línea del ticket.
const (
	PriceTypeRetail    = "menor"
	PriceTypeWholesale = "mayor"
	PriceTypeCustom    = "custom"
)

// Medios de pago aceptados.
const (
	PaymentCash        = "EFECTIVO"
	PaymentTransfer    = "TRANSFERENCIA"
	PaymentDebit       = "DEBITO"
	PaymentCredit      = "CREDITO"
	PaymentMercadoPago = "MERCADOPAGO"
	PaymentOther       = "OTRO"
)

// DefaultCustomerName se usa cuando el ticket no identifica al cliente.
const DefaultCustomerName = "Cliente General"

// Sale es un ticket de venta del punto de venta.
type Sale struct {
	ID                   string
	Number               int64
	CustomerName         string
	SaleType             string
	PaymentMethod        string
	Subtotal             decimal.Decimal
	GlobalDiscountPct    decimal.Decimal
	GlobalDiscount       decimal.Decimal
	GlobalDiscountReason string
	Total                decimal.Decimal
	Notes                string
	CreatedBy            string
	CreatedAt            time.Time
	Items                []SaleItem
}

// SaleItem línea del ticket. Código y nombre se copian para que el ticket
// no cambie si el producto se edita después.
type SaleItem struct {
	ID              string
	SaleID          string
	ProductID       string
	ProductCode     string
	ProductName     string
	Quantity        decimal.Decimal
	PriceType       string
	ListPrice       decimal.Decimal
	UnitPrice       decimal.Decimal
	UnitCost        decimal.Decimal
	LineDiscountPct decimal.Decimal
	LineDiscount    decimal.Decimal
	Subtotal        decimal.Decimal
}

// ValidSaleType valida el tipo de venta.
func ValidSaleType(t string) bool {
	return t == SaleTypeRetail || t == SaleTypeWholesale
}

// ValidPaymentMethod valida el medio de pago.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentDebit, PaymentCredit, PaymentMercadoPago, PaymentOther:
		return true
	}
	return false
}
