package entity

import "time"

// Assignment asigna a un comercial la responsabilidad de venta de una marca en un código postal
// dentro de una ventana de validez. Priority desempata entre comerciales (mayor gana).
// StartDate/EndDate nil significan ventana abierta por ese extremo.
type Assignment struct {
	ID           int64
	ComercialID  int64
	PostalCodeID int64
	BrandID      int64
	StartDate    *time.Time
	EndDate      *time.Time
	Active       bool
	Priority     int
	Observations string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
