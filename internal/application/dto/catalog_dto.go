package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VisibleFieldsDTO columnas que ve el cliente.
type VisibleFieldsDTO struct {
	Photo       bool `json:"photo"`
	Name        bool `json:"name"`
	Price       bool `json:"price"`
	Code        bool `json:"code"`
	Description bool `json:"description"`
	Unit        bool `json:"unit"`
}

// CatalogItemRequest producto del catálogo con su descuento o precio fijo.
type CatalogItemRequest struct {
	ProductID          string           `json:"product_id"`
	IndividualDiscount decimal.Decimal  `json:"individual_discount"`
	CustomPrice        *decimal.Decimal `json:"custom_price"`
}

// CreateCatalogRequest alta de catálogo. VisibleFields nil usa los valores por defecto.
type CreateCatalogRequest struct {
	CustomerName   string               `json:"customer_name"`
	Title          string               `json:"title"`
	GlobalDiscount decimal.Decimal      `json:"global_discount"`
	VisibleFields  *VisibleFieldsDTO    `json:"visible_fields"`
	Items          []CatalogItemRequest `json:"items"`
}

// UpdateCatalogRequest actualización parcial. Items no nil reemplaza la lista completa.
type UpdateCatalogRequest struct {
	CustomerName   *string              `json:"customer_name"`
	Title          *string              `json:"title"`
	GlobalDiscount *decimal.Decimal     `json:"global_discount"`
	VisibleFields  *VisibleFieldsDTO    `json:"visible_fields"`
	Items          []CatalogItemRequest `json:"items"`
}

// CatalogProductDTO producto resuelto con su precio final.
type CatalogProductDTO struct {
	ProductID          string           `json:"product_id,omitempty"`
	Code               string           `json:"code,omitempty"`
	Name               string           `json:"name,omitempty"`
	Description        string           `json:"description,omitempty"`
	Unit               string           `json:"unit,omitempty"`
	ImageURL           string           `json:"image_url,omitempty"`
	BasePrice          *decimal.Decimal `json:"base_price,omitempty"`
	IndividualDiscount *decimal.Decimal `json:"individual_discount,omitempty"`
	CustomPrice        *decimal.Decimal `json:"custom_price,omitempty"`
	FinalPrice         *decimal.Decimal `json:"final_price,omitempty"`
	Available          bool             `json:"available"`
}

// CatalogResponse catálogo con sus productos.
type CatalogResponse struct {
	ID             string              `json:"id"`
	CustomerName   string              `json:"customer_name"`
	Title          string              `json:"title"`
	PublicToken    string              `json:"public_token,omitempty"`
	PublicURL      string              `json:"public_url,omitempty"`
	ExpiresAt      time.Time           `json:"expires_at"`
	GlobalDiscount decimal.Decimal     `json:"global_discount"`
	VisibleFields  VisibleFieldsDTO    `json:"visible_fields"`
	Status         string              `json:"status"`
	CreatedBy      string              `json:"created_by,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	ItemCount      int                 `json:"item_count"`
	Products       []CatalogProductDTO `json:"products,omitempty"`
}

// CatalogListQuery filtros del listado.
type CatalogListQuery struct {
	IncludeExpired bool
	PageRequest
}

// CatalogListResponse lista paginada.
type CatalogListResponse struct {
	PageResponse
	Items []CatalogResponse `json:"items"`
}

// PublicCatalogResponse vista del cliente: solo los campos visibles, sin datos internos.
type PublicCatalogResponse struct {
	CustomerName  string              `json:"customer_name"`
	Title         string              `json:"title"`
	ExpiresAt     time.Time           `json:"expires_at"`
	VisibleFields VisibleFieldsDTO    `json:"visible_fields"`
	Products      []CatalogProductDTO `json:"products"`
}

// CatalogShareResponse enlace público y texto listo para WhatsApp.
type CatalogShareResponse struct {
	URL          string    `json:"url"`
	WhatsAppText string    `json:"whatsapp_text"`
	WhatsAppURL  string    `json:"whatsapp_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}
