package territory

import (
	"time"

	"github.com/jhoicas/crm-farma/internal/domain/entity"
)

// NoClaim es la prioridad efectiva de un comercial sin asignaciones vigentes.
// Cualquier asignación real (prioridad >= 0) la domina.
const NoClaim = -1

// DateOnly normaliza t a medianoche UTC del mismo día de calendario (en la zona de t).
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ReferenceDate devuelve la fecha de referencia ("hoy") para now en la zona loc.
func ReferenceDate(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOnly(now.In(loc))
}

// IsActive indica si la asignación está vigente en ref: activa y con ref dentro de
// [StartDate, EndDate], ambos extremos inclusivos y opcionales.
func IsActive(a *entity.Assignment, ref time.Time) bool {
	if a == nil || !a.Active {
		return false
	}
	day := DateOnly(ref)
	if a.StartDate != nil && DateOnly(*a.StartDate).After(day) {
		return false
	}
	if a.EndDate != nil && DateOnly(*a.EndDate).Before(day) {
		return false
	}
	return true
}

// EffectivePriority devuelve la prioridad máxima entre las asignaciones vigentes en ref del
// comercial sobre el código postal, o NoClaim si no hay ninguna.
func EffectivePriority(assignments []*entity.Assignment, comercialID, postalCodeID int64, ref time.Time) int {
	best := NoClaim
	for _, a := range assignments {
		if a == nil || a.ComercialID != comercialID || a.PostalCodeID != postalCodeID {
			continue
		}
		if IsActive(a, ref) && a.Priority > best {
			best = a.Priority
		}
	}
	return best
}

// Dominates indica si newPriority desplaza a un propietario con prioridad ownerPriority.
// La comparación es estricta: empatar no basta.
func Dominates(newPriority, ownerPriority int) bool {
	return newPriority > ownerPriority
}

// ShouldReassign decide, para un cliente, si pasa al comercial con newPriority.
// Un cliente sin propietario se captura siempre.
func ShouldReassign(owner *int64, ownerPriority, newPriority int) bool {
	if owner == nil {
		return true
	}
	return Dominates(newPriority, ownerPriority)
}
