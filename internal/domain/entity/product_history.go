package entity

import "time"

// Campos auditados en el historial de productos.
const (
	HistoryFieldCost           = "costo"
	HistoryFieldWholesalePrice = "precio_mayor"
	HistoryFieldRetailPrice    = "precio_menor"
	HistoryFieldName           = "nombre"
	HistoryFieldCategory       = "categoria"
	HistoryFieldStatus         = "estado"
	HistoryFieldBarcode        = "codigo_barra"
)

// ProductHistory registra un cambio puntual sobre un campo del producto.
type ProductHistory struct {
	ID        string
	ProductID string
	Field     string
	OldValue  string
	NewValue  string
	Reason    string
	UserID    string
	CreatedAt time.Time
}
