package approval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/suministros-api/internal/domain/approval"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

func deptWith(l1, l2 string, twoLevels bool) *entity.Department {
	return &entity.Department{
		ID:                "dept-1",
		Name:              "Mantenimiento",
		DefaultLocationID: "loc-1",
		ApproverL1ID:      l1,
		ApproverL2ID:      l2,
		RequiresTwoLevels: twoLevels,
	}
}

// Sin L2 configurado siempre es un solo nivel, sin importar urgencia.
func TestRequiredLevels_SinL2SiempreUnNivel(t *testing.T) {
	p := approval.ForDepartment(deptWith("user-l1", "", true))
	assert.Equal(t, 1, p.RequiredLevels(entity.UrgencyUrgent))
	assert.Equal(t, 1, p.RequiredLevels(entity.UrgencyLow))
}

// Departamento con doble nivel forzado exige 2 para cualquier urgencia.
func TestRequiredLevels_DobleNivelForzado(t *testing.T) {
	p := approval.ForDepartment(deptWith("user-l1", "user-l2", true))
	assert.Equal(t, 2, p.RequiredLevels(entity.UrgencyLow))
	assert.Equal(t, 2, p.RequiredLevels(entity.UrgencyNormal))
}

// Urgencia alta o urgente escala a doble nivel cuando hay L2 configurado.
func TestRequiredLevels_UrgenciaEscalaADobleNivel(t *testing.T) {
	p := approval.ForDepartment(deptWith("user-l1", "user-l2", false))
	assert.Equal(t, 1, p.RequiredLevels(entity.UrgencyNormal))
	assert.Equal(t, 2, p.RequiredLevels(entity.UrgencyHigh))
	assert.Equal(t, 2, p.RequiredLevels(entity.UrgencyUrgent))
}

func TestCanAct_SoloElAprobadorConfiguradoDeCadaNivel(t *testing.T) {
	p := approval.ForDepartment(deptWith("user-l1", "user-l2", false))

	assert.True(t, p.CanAct("user-l1", 1))
	assert.False(t, p.CanAct("user-l2", 1), "el L2 no puede actuar en el nivel 1")
	assert.True(t, p.CanAct("user-l2", 2))
	assert.False(t, p.CanAct("user-l1", 2), "el L1 no puede actuar en el nivel 2")
	assert.False(t, p.CanAct("otro", 1))
	assert.False(t, p.CanAct("", 1), "actor vacío nunca autoriza")
	assert.False(t, p.CanAct("user-l1", 3), "nivel fuera de rango")
}

// Cadena sin aprobadores configurados no autoriza a nadie.
func TestCanAct_CadenaVacia(t *testing.T) {
	p := approval.ForDepartment(deptWith("", "", false))
	assert.False(t, p.CanAct("user-l1", 1))
	assert.Equal(t, 1, p.RequiredLevels(entity.UrgencyUrgent))
}
