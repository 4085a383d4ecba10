package territory

import (
	"context"
	"fmt"

	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

// ClientReassignment propaga una asignación nueva al propietario comercial de los clientes.
// La actualización es una sola sentencia; la comparación de prioridad se evalúa por cliente.
type ClientReassignment struct {
	repo repository.ClientRepository
}

// NewClientReassignment construye la cascada sobre el repositorio de clientes (normalmente tx).
func NewClientReassignment(repo repository.ClientRepository) *ClientReassignment {
	return &ClientReassignment{repo: repo}
}

// Reassign devuelve el número de clientes que cambian de propietario.
func (c *ClientReassignment) Reassign(ctx context.Context, p repository.ReassignmentParams) (int64, error) {
	if p.ComercialID <= 0 {
		return 0, domain.ErrInvalidInput
	}
	p.PostalCodeIDs = uniqueIDs(p.PostalCodeIDs)
	p.PostalCodeTexts = uniqueTexts(p.PostalCodeTexts)
	if len(p.PostalCodeIDs) == 0 && len(p.PostalCodeTexts) == 0 {
		return 0, nil
	}
	n, err := c.repo.ReassignOwnership(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("reasignar clientes: %w", err)
	}
	return n, nil
}

// uniqueIDs conserva el orden de primera aparición.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func uniqueTexts(texts []string) []string {
	seen := make(map[string]struct{}, len(texts))
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
