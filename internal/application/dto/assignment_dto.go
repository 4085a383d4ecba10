package dto

import "time"

// BulkAssignmentRequest body para POST /api/assignments/bulk.
// BrandID nil = todas las marcas. Priority, Active y Cascade opcionales (0, true, true).
type BulkAssignmentRequest struct {
	ComercialID   int64   `json:"comercial_id" validate:"required,gt=0"`
	PostalCodeIDs []int64 `json:"postal_code_ids" validate:"required,min=1,dive,gt=0"`
	BrandID       *int64  `json:"brand_id,omitempty" validate:"omitempty,gt=0"`
	StartDate     *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority      *int    `json:"priority,omitempty" validate:"omitempty,gte=0"`
	Active        *bool   `json:"active,omitempty"`
	Observations  string  `json:"observations,omitempty" validate:"max=1000"`
	CreatedBy     string  `json:"created_by,omitempty"`
	Cascade       *bool   `json:"cascade,omitempty"`
}

// ProvinceAssignmentRequest body para POST /api/assignments/province.
// Province admite el ID numérico o el nombre literal de la provincia.
type ProvinceAssignmentRequest struct {
	ComercialID  int64   `json:"comercial_id" validate:"required,gt=0"`
	Province     string  `json:"province" validate:"required"`
	BrandID      *int64  `json:"brand_id,omitempty" validate:"omitempty,gt=0"`
	StartDate    *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority     *int    `json:"priority,omitempty" validate:"omitempty,gte=0"`
	Active       *bool   `json:"active,omitempty"`
	Observations string  `json:"observations,omitempty" validate:"max=1000"`
	CreatedBy    string  `json:"created_by,omitempty"`
	Cascade      *bool   `json:"cascade,omitempty"`
}

// PairFailure par (CP, marca) que no pudo insertarse.
type PairFailure struct {
	PostalCodeID int64  `json:"postal_code_id"`
	BrandID      int64  `json:"brand_id"`
	Error        string `json:"error"`
}

// BulkAssignmentResult resumen de una asignación masiva. Un éxito parcial se expresa en
// Failures, nunca como error global.
type BulkAssignmentResult struct {
	Created           int           `json:"created"`
	AlreadyAssigned   int           `json:"already_assigned"`
	Failed            int           `json:"failed"`
	ClientsReassigned int64         `json:"clients_reassigned"`
	Failures          []PairFailure `json:"failures"`
}

// CreateAssignmentRequest body para POST /api/assignments (una sola fila, sin cascada).
type CreateAssignmentRequest struct {
	ComercialID  int64   `json:"comercial_id" validate:"required,gt=0"`
	PostalCodeID int64   `json:"postal_code_id" validate:"required,gt=0"`
	BrandID      int64   `json:"brand_id" validate:"required,gt=0"`
	StartDate    *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority     *int    `json:"priority,omitempty" validate:"omitempty,gte=0"`
	Active       *bool   `json:"active,omitempty"`
	Observations string  `json:"observations,omitempty" validate:"max=1000"`
	CreatedBy    string  `json:"created_by,omitempty"`
}

// UpdateAssignmentRequest body para PUT /api/assignments/:id. Solo se aplican los campos
// presentes. ClearStartDate/ClearEndDate abren la ventana por ese extremo.
type UpdateAssignmentRequest struct {
	StartDate      *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate        *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ClearStartDate bool    `json:"clear_start_date,omitempty"`
	ClearEndDate   bool    `json:"clear_end_date,omitempty"`
	Active         *bool   `json:"active,omitempty"`
	Priority       *int    `json:"priority,omitempty" validate:"omitempty,gte=0"`
	Observations   *string `json:"observations,omitempty" validate:"omitempty,max=1000"`
}

// AssignmentResponse asignación en respuestas.
type AssignmentResponse struct {
	ID           int64     `json:"id"`
	ComercialID  int64     `json:"comercial_id"`
	PostalCodeID int64     `json:"postal_code_id"`
	BrandID      int64     `json:"brand_id"`
	StartDate    *string   `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Active       bool      `json:"active"`
	Priority     int       `json:"priority"`
	Observations string    `json:"observations,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AssignmentListResponse lista paginada de asignaciones.
type AssignmentListResponse struct {
	Items []AssignmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// EffectivePriorityResponse respuesta de GET /api/commercials/:id/priority.
// Priority -1 significa que el comercial no tiene asignación vigente.
type EffectivePriorityResponse struct {
	ComercialID   int64  `json:"comercial_id"`
	PostalCodeID  int64  `json:"postal_code_id"`
	ReferenceDate string `json:"reference_date"`
	Priority      int    `json:"priority"`
}
