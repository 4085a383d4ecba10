package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/internal/domain/entity"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

const assignmentColumns = `id, comercial_id, postal_code_id, brand_id, start_date, end_date, active, priority,
	COALESCE(observations, ''), COALESCE(created_by, ''), created_at, updated_at`

// AssignmentRepo implementación de AssignmentRepository (usable con pool o tx).
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

// Exists compara start_date con IS NOT DISTINCT FROM para que NULL coincida con NULL.
func (r *AssignmentRepo) Exists(ctx context.Context, comercialID, postalCodeID, brandID int64, startDate *time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM assignments
			WHERE comercial_id = $1 AND postal_code_id = $2 AND brand_id = $3
			  AND start_date IS NOT DISTINCT FROM $4::date
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, comercialID, postalCodeID, brandID, startDate).Scan(&exists); err != nil {
		return false, wrapErr("exists assignment", err)
	}
	return exists, nil
}

// Create inserta dentro de un savepoint. Sin fila devuelta (conflicto en el índice único) o con
// violación de unicidad devuelve domain.ErrConflict.
func (r *AssignmentRepo) Create(ctx context.Context, a *entity.Assignment) error {
	query := `
		INSERT INTO assignments (comercial_id, postal_code_id, brand_id, start_date, end_date, active, priority, observations, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''))
		ON CONFLICT DO NOTHING
		RETURNING id, created_at, updated_at`
	err := withSavepoint(ctx, r.q, func(q Querier) error {
		return q.QueryRow(ctx, query,
			a.ComercialID, a.PostalCodeID, a.BrandID, a.StartDate, a.EndDate, a.Active, a.Priority,
			a.Observations, a.CreatedBy,
		).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows), isUniqueViolation(err):
		return domain.ErrConflict
	default:
		return wrapErr("insert assignment", err)
	}
}

// GetByID devuelve nil, nil si no existe.
func (r *AssignmentRepo) GetByID(ctx context.Context, id int64) (*entity.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	a, err := scanAssignment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get assignment", err)
	}
	return a, nil
}

// List aplica solo los filtros presentes, ordenado por id.
func (r *AssignmentRepo) List(ctx context.Context, f repository.AssignmentFilter) ([]*entity.Assignment, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ComercialID != nil {
		add("comercial_id = $%d", *f.ComercialID)
	}
	if f.PostalCodeID != nil {
		add("postal_code_id = $%d", *f.PostalCodeID)
	}
	if f.BrandID != nil {
		add("brand_id = $%d", *f.BrandID)
	}
	if f.Active != nil {
		add("active = $%d", *f.Active)
	}
	query := `SELECT ` + assignmentColumns + ` FROM assignments`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list assignments", err)
	}
	return collectAssignments(rows, "list assignments")
}

// ListByCommercialAndPostalCodes devuelve todas las filas del comercial en esos CPs; la vigencia
// la decide quien llama.
func (r *AssignmentRepo) ListByCommercialAndPostalCodes(ctx context.Context, comercialID int64, postalCodeIDs []int64) ([]*entity.Assignment, error) {
	if len(postalCodeIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE comercial_id = $1 AND postal_code_id = ANY($2::bigint[])`
	rows, err := r.q.Query(ctx, query, comercialID, postalCodeIDs)
	if err != nil {
		return nil, wrapErr("list assignments by commercial", err)
	}
	return collectAssignments(rows, "list assignments by commercial")
}

// Update reescribe los campos editables. domain.ErrNotFound si la fila ya no existe.
func (r *AssignmentRepo) Update(ctx context.Context, a *entity.Assignment) error {
	query := `
		UPDATE assignments
		SET start_date = $2, end_date = $3, active = $4, priority = $5, observations = NULLIF($6, ''), updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query, a.ID, a.StartDate, a.EndDate, a.Active, a.Priority, a.Observations).Scan(&a.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrNotFound
	case isUniqueViolation(err):
		return domain.ErrConflict
	default:
		return wrapErr("update assignment", err)
	}
}

// Delete borrado físico.
func (r *AssignmentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete assignment", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAssignment(row pgx.Row) (*entity.Assignment, error) {
	var a entity.Assignment
	err := row.Scan(
		&a.ID, &a.ComercialID, &a.PostalCodeID, &a.BrandID, &a.StartDate, &a.EndDate, &a.Active, &a.Priority,
		&a.Observations, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAssignments(rows pgx.Rows, op string) ([]*entity.Assignment, error) {
	defer rows.Close()
	var list []*entity.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return list, nil
}
