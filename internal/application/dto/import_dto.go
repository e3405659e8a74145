package dto

// ImportRowError fila rechazada (numeración de planilla: la cabecera es la fila 1).
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport resultado de una importación de productos.
type ImportReport struct {
	DryRun  bool             `json:"dry_run"`
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
}
