package territory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/crm-farma/internal/application/dto"
	"github.com/jhoicas/crm-farma/internal/domain"
)

// AssignFromRequest adapta el body HTTP/CLI al orquestador masivo. userID se usa como created_by
// cuando la petición no lo trae.
func (uc *BulkAssignmentUseCase) AssignFromRequest(ctx context.Context, userID string, in dto.BulkAssignmentRequest) (*dto.BulkAssignmentResult, error) {
	start, end, err := parseWindow(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	return uc.Assign(ctx, BulkAssignmentInput{
		ComercialID:   in.ComercialID,
		PostalCodeIDs: in.PostalCodeIDs,
		BrandID:       in.BrandID,
		StartDate:     start,
		EndDate:       end,
		Priority:      in.Priority,
		Active:        in.Active,
		Observations:  in.Observations,
		CreatedBy:     createdBy(in.CreatedBy, userID),
		Cascade:       in.Cascade,
	})
}

// AssignFromRequest adapta el body HTTP/CLI al orquestador por provincia.
func (uc *ProvinceAssignmentUseCase) AssignFromRequest(ctx context.Context, userID string, in dto.ProvinceAssignmentRequest) (*dto.BulkAssignmentResult, error) {
	start, end, err := parseWindow(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	return uc.Assign(ctx, ProvinceAssignmentInput{
		Province: in.Province,
		BulkAssignmentInput: BulkAssignmentInput{
			ComercialID:  in.ComercialID,
			BrandID:      in.BrandID,
			StartDate:    start,
			EndDate:      end,
			Priority:     in.Priority,
			Active:       in.Active,
			Observations: in.Observations,
			CreatedBy:    createdBy(in.CreatedBy, userID),
			Cascade:      in.Cascade,
		},
	})
}

// CreateFromRequest adapta el body HTTP a la creación de una asignación individual.
func (uc *AssignmentUseCase) CreateFromRequest(ctx context.Context, userID string, in dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	start, end, err := parseWindow(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	return uc.Create(ctx, CreateAssignmentInput{
		ComercialID:  in.ComercialID,
		PostalCodeID: in.PostalCodeID,
		BrandID:      in.BrandID,
		StartDate:    start,
		EndDate:      end,
		Priority:     in.Priority,
		Active:       in.Active,
		Observations: in.Observations,
		CreatedBy:    createdBy(in.CreatedBy, userID),
	})
}

func createdBy(explicit, userID string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	return userID
}

func parseWindow(start, end *string) (*time.Time, *time.Time, error) {
	s, err := parseDate(deref(start))
	if err != nil {
		return nil, nil, err
	}
	e, err := parseDate(deref(end))
	if err != nil {
		return nil, nil, err
	}
	return s, e, nil
}

// parseDate interpreta YYYY-MM-DD; cadena vacía = sin fecha.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("fecha %q no es YYYY-MM-DD: %w", s, domain.ErrInvalidInput)
	}
	return &t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
