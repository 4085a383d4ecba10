// Package territorytest ofrece un almacén en memoria con semántica transaccional que implementa
// los puertos de repositorio del motor de territorios, para tests de casos de uso y handlers.
package territorytest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/internal/domain/entity"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
	"github.com/jhoicas/crm-farma/internal/domain/territory"
)

// Store datos en memoria. Los campos *Err permiten inyectar fallos.
type Store struct {
	mu sync.Mutex

	commercials map[int64]*entity.Commercial
	brands      []*entity.Brand
	provinces   map[int64]*entity.Province
	postalCodes []*entity.PostalCode
	assignments []*entity.Assignment
	clients     []*entity.Client
	nextID      int64

	// BrandsHaveActive simula si la tabla de marcas tiene de verdad la columna active.
	BrandsHaveActive bool

	// CreateErr se consulta antes de cada inserción; si devuelve error, el par falla.
	CreateErr   func(a *entity.Assignment) error
	ExistsErr   error
	ReassignErr error
	CommitErr   error

	// Contadores de llamadas.
	ExistsCalls   int
	CreateCalls   int
	ReassignCalls int
	LastReassign  repository.ReassignmentParams
}

// NewStore crea un almacén vacío con columna active en marcas.
func NewStore() *Store {
	return &Store{
		commercials:      map[int64]*entity.Commercial{},
		provinces:        map[int64]*entity.Province{},
		nextID:           1000,
		BrandsHaveActive: true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Siembra y consulta
// ──────────────────────────────────────────────────────────────────────────────

func (s *Store) AddCommercial(id int64, name string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commercials[id] = &entity.Commercial{ID: id, Name: name, Active: active}
}

func (s *Store) AddBrand(id int64, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands = append(s.brands, &entity.Brand{ID: id, Active: active})
}

func (s *Store) AddProvince(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provinces[id] = &entity.Province{ID: id, Name: name}
}

func (s *Store) AddPostalCode(id int64, code string, provinceID int64, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postalCodes = append(s.postalCodes, &entity.PostalCode{ID: id, Code: code, ProvinceID: provinceID, Active: active})
}

// AddClient siembra un cliente. postalCodeID y owner pueden ser nil.
func (s *Store) AddClient(id int64, postalCodeID *int64, postalCodeText string, owner *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, &entity.Client{ID: id, PostalCodeID: copyID(postalCodeID), PostalCodeText: postalCodeText, OwningCommercialID: copyID(owner)})
}

// AddAssignment siembra una asignación tal cual (sin comprobar unicidad).
func (s *Store) AddAssignment(a entity.Assignment) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a.ID = s.nextID
	s.assignments = append(s.assignments, &a)
	return a.ID
}

// Owner devuelve el propietario actual del cliente (nil si no tiene o no existe).
func (s *Store) Owner(clientID int64) *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.ID == clientID {
			return copyID(c.OwningCommercialID)
		}
	}
	return nil
}

// Assignments copia de todas las asignaciones confirmadas.
func (s *Store) Assignments() []entity.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		out = append(out, *a)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

// Run ejecuta fn con los repositorios del almacén y deshace todos los cambios si fn falla,
// el contexto se cancela o CommitErr está definido.
func (s *Store) Run(ctx context.Context, fn func(
	assignmentRepo repository.AssignmentRepository,
	brandRepo repository.BrandRepository,
	postalCodeRepo repository.PostalCodeRepository,
	clientRepo repository.ClientRepository,
) error) error {
	snapshot := s.snapshot()
	if err := fn(s.AssignmentRepo(), s.BrandRepo(), s.PostalCodeRepo(), s.ClientRepo()); err != nil {
		s.restore(snapshot)
		return err
	}
	if err := ctx.Err(); err != nil {
		s.restore(snapshot)
		return err
	}
	if s.CommitErr != nil {
		s.restore(snapshot)
		return s.CommitErr
	}
	return nil
}

type snapshot struct {
	assignments []*entity.Assignment
	clients     []*entity.Client
	nextID      int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{nextID: s.nextID}
	for _, a := range s.assignments {
		cp := *a
		snap.assignments = append(snap.assignments, &cp)
	}
	for _, c := range s.clients {
		cp := *c
		cp.PostalCodeID = copyID(c.PostalCodeID)
		cp.OwningCommercialID = copyID(c.OwningCommercialID)
		snap.clients = append(snap.clients, &cp)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = snap.assignments
	s.clients = snap.clients
	s.nextID = snap.nextID
}

// Repositorios atados al almacén.
func (s *Store) AssignmentRepo() repository.AssignmentRepository { return assignmentRepo{s} }
func (s *Store) BrandRepo() repository.BrandRepository           { return brandRepo{s} }
func (s *Store) PostalCodeRepo() repository.PostalCodeRepository { return postalCodeRepo{s} }
func (s *Store) ClientRepo() repository.ClientRepository         { return clientRepo{s} }
func (s *Store) CommercialRepo() repository.CommercialRepository { return commercialRepo{s} }

// ──────────────────────────────────────────────────────────────────────────────
// Asignaciones
// ──────────────────────────────────────────────────────────────────────────────

type assignmentRepo struct{ s *Store }

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return territory.DateOnly(*a).Equal(territory.DateOnly(*b))
}

func (r assignmentRepo) Exists(ctx context.Context, comercialID, postalCodeID, brandID int64, startDate *time.Time) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ExistsCalls++
	if s.ExistsErr != nil {
		return false, s.ExistsErr
	}
	return s.findKey(comercialID, postalCodeID, brandID, startDate, 0) != nil, nil
}

func (s *Store) findKey(comercialID, postalCodeID, brandID int64, startDate *time.Time, exceptID int64) *entity.Assignment {
	for _, a := range s.assignments {
		if a.ID != exceptID && a.ComercialID == comercialID && a.PostalCodeID == postalCodeID &&
			a.BrandID == brandID && sameDate(a.StartDate, startDate) {
			return a
		}
	}
	return nil
}

func (r assignmentRepo) Create(ctx context.Context, a *entity.Assignment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCalls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.CreateErr != nil {
		if err := s.CreateErr(a); err != nil {
			return err
		}
	}
	if s.findKey(a.ComercialID, a.PostalCodeID, a.BrandID, a.StartDate, 0) != nil {
		return domain.ErrConflict
	}
	s.nextID++
	now := time.Now()
	a.ID = s.nextID
	a.CreatedAt, a.UpdatedAt = now, now
	cp := *a
	s.assignments = append(s.assignments, &cp)
	return nil
}

func (r assignmentRepo) GetByID(ctx context.Context, id int64) (*entity.Assignment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assignments {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r assignmentRepo) List(ctx context.Context, f repository.AssignmentFilter) ([]*entity.Assignment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Assignment
	for _, a := range s.assignments {
		if f.ComercialID != nil && a.ComercialID != *f.ComercialID {
			continue
		}
		if f.PostalCodeID != nil && a.PostalCodeID != *f.PostalCodeID {
			continue
		}
		if f.BrandID != nil && a.BrandID != *f.BrandID {
			continue
		}
		if f.Active != nil && a.Active != *f.Active {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r assignmentRepo) ListByCommercialAndPostalCodes(ctx context.Context, comercialID int64, postalCodeIDs []int64) ([]*entity.Assignment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range postalCodeIDs {
		want[id] = true
	}
	var out []*entity.Assignment
	for _, a := range s.assignments {
		if a.ComercialID == comercialID && want[a.PostalCodeID] {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r assignmentRepo) Update(ctx context.Context, a *entity.Assignment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findKey(a.ComercialID, a.PostalCodeID, a.BrandID, a.StartDate, a.ID) != nil {
		return domain.ErrConflict
	}
	for i, cur := range s.assignments {
		if cur.ID == a.ID {
			a.UpdatedAt = time.Now()
			cp := *a
			s.assignments[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r assignmentRepo) Delete(ctx context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.assignments {
		if cur.ID == id {
			s.assignments = append(s.assignments[:i], s.assignments[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ──────────────────────────────────────────────────────────────────────────────
// Marcas, códigos postales, comerciales
// ──────────────────────────────────────────────────────────────────────────────

type brandRepo struct{ s *Store }

func (r brandRepo) ListIDs(ctx context.Context, caps repository.BrandCapabilities) ([]int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if caps.HasActive && !s.BrandsHaveActive {
		return nil, domain.ErrSchemaMismatch
	}
	var ids []int64
	for _, b := range s.brands {
		if caps.HasActive && !b.Active {
			continue
		}
		ids = append(ids, b.ID)
	}
	return ids, nil
}

type postalCodeRepo struct{ s *Store }

func (r postalCodeRepo) ListActiveIDsByProvinceID(ctx context.Context, provinceID int64) ([]int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for _, pc := range s.postalCodes {
		if pc.ProvinceID == provinceID && pc.Active {
			ids = append(ids, pc.ID)
		}
	}
	return ids, nil
}

func (r postalCodeRepo) ListActiveIDsByProvinceName(ctx context.Context, name string) ([]int64, error) {
	s := r.s
	s.mu.Lock()
	var provinceID int64
	for _, p := range s.provinces {
		if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name)) {
			provinceID = p.ID
		}
	}
	s.mu.Unlock()
	if provinceID == 0 {
		return nil, nil
	}
	return r.ListActiveIDsByProvinceID(ctx, provinceID)
}

func (r postalCodeRepo) CodesByIDs(ctx context.Context, ids []int64) ([]string, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	seen := map[string]bool{}
	var codes []string
	for _, pc := range s.postalCodes {
		if want[pc.ID] && !seen[pc.Code] {
			seen[pc.Code] = true
			codes = append(codes, pc.Code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

type commercialRepo struct{ s *Store }

func (r commercialRepo) GetByID(ctx context.Context, id int64) (*entity.Commercial, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commercials[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

type clientRepo struct{ s *Store }

// ReassignOwnership reproduce la sentencia UPDATE de postgres.ClientRepo cliente a cliente.
func (r clientRepo) ReassignOwnership(ctx context.Context, p repository.ReassignmentParams) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ReassignCalls++
	s.LastReassign = p
	if s.ReassignErr != nil {
		return 0, s.ReassignErr
	}
	ids := map[int64]bool{}
	for _, id := range p.PostalCodeIDs {
		ids[id] = true
	}
	texts := map[string]bool{}
	for _, t := range p.PostalCodeTexts {
		texts[t] = true
	}

	var n int64
	for _, c := range s.clients {
		matches := (c.PostalCodeID != nil && ids[*c.PostalCodeID]) ||
			(c.PostalCodeID == nil && texts[c.PostalCodeText])
		if !matches {
			continue
		}
		if c.OwningCommercialID != nil && *c.OwningCommercialID == p.ComercialID {
			continue
		}
		if !territory.ShouldReassign(c.OwningCommercialID, s.ownerPriority(c, p.ReferenceDate), p.NewPriority) {
			continue
		}
		owner := p.ComercialID
		c.OwningCommercialID = &owner
		n++
	}
	return n, nil
}

func (s *Store) ownerPriority(c *entity.Client, ref time.Time) int {
	if c.OwningCommercialID == nil {
		return territory.NoClaim
	}
	owner := *c.OwningCommercialID
	if c.PostalCodeID != nil {
		return territory.EffectivePriority(s.assignments, owner, *c.PostalCodeID, ref)
	}
	best := territory.NoClaim
	for _, pc := range s.postalCodes {
		if pc.Code != c.PostalCodeText {
			continue
		}
		if p := territory.EffectivePriority(s.assignments, owner, pc.ID, ref); p > best {
			best = p
		}
	}
	return best
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// ErrConnectionLost error estructural simulado, equivalente a perder la conexión.
var ErrConnectionLost = errors.Join(domain.ErrUnavailable, errors.New("conexión perdida"))
