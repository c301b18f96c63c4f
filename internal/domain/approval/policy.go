package approval

import "github.com/jhoicas/suministros-api/internal/domain/entity"

// Policy decide quién puede aprobar o rechazar una requisición y cuántos
// niveles de aprobación se requieren. Es una función de decisión pura: se
// construye desde la configuración del departamento en cada transición y no
// guarda estado de autorización.
type Policy struct {
	chainL1   string
	chainL2   string
	twoLevels bool
}

// ForDepartment construye la política a partir de la cadena configurada del
// departamento de la requisición.
func ForDepartment(dept *entity.Department) Policy {
	return Policy{
		chainL1:   dept.ApproverL1ID,
		chainL2:   dept.ApproverL2ID,
		twoLevels: dept.RequiresTwoLevels,
	}
}

// RequiredLevels devuelve 1 o 2. Se exige doble aprobación cuando el
// departamento la tiene forzada, o cuando la urgencia es high/urgent; en
// ambos casos solo si hay un aprobador L2 configurado.
func (p Policy) RequiredLevels(urgency entity.Urgency) int {
	if p.chainL2 == "" {
		return 1
	}
	if p.twoLevels || urgency == entity.UrgencyHigh || urgency == entity.UrgencyUrgent {
		return 2
	}
	return 1
}

// CanAct indica si el actor puede aprobar o rechazar en el nivel dado.
func (p Policy) CanAct(actorID string, level int) bool {
	switch level {
	case 1:
		return actorID != "" && actorID == p.chainL1
	case 2:
		return actorID != "" && actorID == p.chainL2
	}
	return false
}
