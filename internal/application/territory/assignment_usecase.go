package territory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/crm-farma/internal/application/dto"
	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/internal/domain/entity"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
	"github.com/jhoicas/crm-farma/internal/domain/territory"
)

// AssignmentUseCase operaciones sobre asignaciones individuales. No disparan la cascada de
// clientes; para eso está BulkAssignmentUseCase.
type AssignmentUseCase struct {
	repo            repository.AssignmentRepository
	defaultPriority int
	loc             *time.Location
	now             func() time.Time
}

// NewAssignmentUseCase construye el caso de uso sobre el repositorio del pool.
func NewAssignmentUseCase(repo repository.AssignmentRepository, cfg Config) *AssignmentUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AssignmentUseCase{repo: repo, defaultPriority: cfg.DefaultPriority, loc: cfg.Location, now: cfg.Now}
}

// CreateAssignmentInput entrada para crear una sola asignación.
type CreateAssignmentInput struct {
	ComercialID  int64
	PostalCodeID int64
	BrandID      int64
	StartDate    *time.Time
	EndDate      *time.Time
	Priority     *int
	Active       *bool
	Observations string
	CreatedBy    string
}

// Create inserta una asignación. domain.ErrConflict si ya existe la misma clave.
func (uc *AssignmentUseCase) Create(ctx context.Context, in CreateAssignmentInput) (*dto.AssignmentResponse, error) {
	if in.ComercialID <= 0 || in.PostalCodeID <= 0 || in.BrandID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	a := &entity.Assignment{
		ComercialID:  in.ComercialID,
		PostalCodeID: in.PostalCodeID,
		BrandID:      in.BrandID,
		Active:       true,
		Priority:     uc.defaultPriority,
		Observations: in.Observations,
		CreatedBy:    in.CreatedBy,
	}
	if in.Priority != nil {
		a.Priority = *in.Priority
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	a.StartDate = dateOnlyPtr(in.StartDate)
	a.EndDate = dateOnlyPtr(in.EndDate)
	if err := validateWindow(a); err != nil {
		return nil, err
	}

	exists, err := uc.repo.Exists(ctx, a.ComercialID, a.PostalCodeID, a.BrandID, a.StartDate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toAssignmentResponse(a), nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *AssignmentUseCase) GetByID(ctx context.Context, id int64) (*dto.AssignmentResponse, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAssignmentResponse(a), nil
}

// List lista asignaciones filtradas con paginación (limit por defecto 20, máximo 100).
func (uc *AssignmentUseCase) List(ctx context.Context, f repository.AssignmentFilter) (*dto.AssignmentListResponse, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AssignmentResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAssignmentResponse(a))
	}
	return &dto.AssignmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// Update aplica una modificación parcial. No permite cambiar comercial, CP ni marca.
func (uc *AssignmentUseCase) Update(ctx context.Context, id int64, in dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.StartDate, err = mergeDate(a.StartDate, in.StartDate, in.ClearStartDate, "start_date"); err != nil {
		return nil, err
	}
	if a.EndDate, err = mergeDate(a.EndDate, in.EndDate, in.ClearEndDate, "end_date"); err != nil {
		return nil, err
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	if in.Priority != nil {
		a.Priority = *in.Priority
	}
	if in.Observations != nil {
		a.Observations = *in.Observations
	}
	if err := validateWindow(a); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toAssignmentResponse(a), nil
}

// mergeDate aplica un cambio parcial de fecha. Quitar un límite solo se hace con clear_*; una
// fecha presente pero vacía se rechaza.
func mergeDate(current *time.Time, value *string, clear bool, field string) (*time.Time, error) {
	switch {
	case value != nil && clear:
		return nil, fmt.Errorf("%s y clear_%s son excluyentes: %w", field, field, domain.ErrInvalidInput)
	case clear:
		return nil, nil
	case value == nil:
		return current, nil
	case strings.TrimSpace(*value) == "":
		return nil, fmt.Errorf("%s vacío; use clear_%s para quitarlo: %w", field, field, domain.ErrInvalidInput)
	default:
		return parseDate(*value)
	}
}

// Deactivate desactiva la asignación sin borrarla. Es la forma habitual de retirar un territorio.
func (uc *AssignmentUseCase) Deactivate(ctx context.Context, id int64) (*dto.AssignmentResponse, error) {
	inactive := false
	return uc.Update(ctx, id, dto.UpdateAssignmentRequest{Active: &inactive})
}

// Delete borra físicamente la asignación. Reservado a filas creadas por error.
func (uc *AssignmentUseCase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidInput
	}
	return uc.repo.Delete(ctx, id)
}

// EffectivePriority prioridad efectiva del comercial sobre el CP en date (nil = hoy).
func (uc *AssignmentUseCase) EffectivePriority(ctx context.Context, comercialID, postalCodeID int64, date *time.Time) (*dto.EffectivePriorityResponse, error) {
	ref := territory.ReferenceDate(uc.now(), uc.loc)
	if date != nil {
		ref = territory.DateOnly(*date)
	}
	p, err := NewPriorityResolver(uc.repo).EffectivePriority(ctx, comercialID, postalCodeID, ref)
	if err != nil {
		return nil, err
	}
	return &dto.EffectivePriorityResponse{
		ComercialID:   comercialID,
		PostalCodeID:  postalCodeID,
		ReferenceDate: ref.Format(dto.DateLayout),
		Priority:      p,
	}, nil
}

func (uc *AssignmentUseCase) get(ctx context.Context, id int64) (*entity.Assignment, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("asignación %d: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func validateWindow(a *entity.Assignment) error {
	if a.Priority < 0 {
		return fmt.Errorf("priority debe ser >= 0: %w", domain.ErrInvalidInput)
	}
	if a.StartDate != nil && a.EndDate != nil && a.EndDate.Before(*a.StartDate) {
		return fmt.Errorf("end_date anterior a start_date: %w", domain.ErrInvalidInput)
	}
	return nil
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := territory.DateOnly(*t)
	return &d
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dto.DateLayout)
	return &s
}

func toAssignmentResponse(a *entity.Assignment) *dto.AssignmentResponse {
	return &dto.AssignmentResponse{
		ID:           a.ID,
		ComercialID:  a.ComercialID,
		PostalCodeID: a.PostalCodeID,
		BrandID:      a.BrandID,
		StartDate:    formatDate(a.StartDate),
		EndDate:      formatDate(a.EndDate),
		Active:       a.Active,
		Priority:     a.Priority,
		Observations: a.Observations,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
