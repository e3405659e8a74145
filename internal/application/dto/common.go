package dto

import (
	"fmt"
	"strings"
	"time"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize aplica el límite por defecto y el máximo permitido del listado.
func (p *PageRequest) Normalize(def, maxLimit int) {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// DefaultPage aplica 20 por defecto y 100 como máximo.
func (p *PageRequest) DefaultPage() {
	p.Normalize(20, 100)
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse confirmación simple.
type MessageResponse struct {
	Message string `json:"message"`
}

// Date fecha sin hora en JSON ("2006-01-02"). También acepta RFC 3339.
type Date struct {
	time.Time
}

// DateLayout formato de fechas en query strings y cuerpos JSON.
const DateLayout = "2006-01-02"

// UnmarshalJSON acepta "2006-01-02", RFC 3339 o null.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("fecha inválida %q: use AAAA-MM-DD", s)
		}
	}
	d.Time = t
	return nil
}

// MarshalJSON serializa como "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// TimePtr convierte a *time.Time (nil si d es nil o cero).
func (d *Date) TimePtr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// Actor usuario que ejecuta la operación (resuelto por el middleware de auth).
type Actor struct {
	UserID string
	Email  string
	Role   string
}

// Ref identificador a registrar en historial y movimientos: el email, o el ID si no hay email.
func (a Actor) Ref() string {
	if a.Email != "" {
		return a.Email
	}
	return a.UserID
}
