package dto

import "time"

// ProductImageResponse imagen asociada a un producto.
type ProductImageResponse struct {
	ProductID string     `json:"product_id"`
	ImageURL  string     `json:"image_url"`
	Source    string     `json:"source"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Cached    bool       `json:"cached"`
	Found     bool       `json:"found"`
}

// SetImageRequest URL cargada a mano.
type SetImageRequest struct {
	ImageURL string `json:"image_url"`
}

// ImageSyncResponse resultado de la búsqueda masiva.
type ImageSyncResponse struct {
	Processed int `json:"processed"`
	Found     int `json:"found"`
	Errors    int `json:"errors"`
}
