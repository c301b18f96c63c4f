package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// DepartmentUseCase casos de uso CRUD para departamentos y su cadena de
// aprobación. Cambiar aprobadores aquí cambia la política vigente: el
// workflow la relee en cada transición.
type DepartmentUseCase struct {
	repo    repository.DepartmentRepository
	locRepo repository.LocationRepository
}

// NewDepartmentUseCase construye el caso de uso.
func NewDepartmentUseCase(repo repository.DepartmentRepository, locRepo repository.LocationRepository) *DepartmentUseCase {
	return &DepartmentUseCase{repo: repo, locRepo: locRepo}
}

// Create crea un departamento. La ubicación por defecto debe existir: es
// donde se debitará el cumplimiento de sus requisiciones.
func (uc *DepartmentUseCase) Create(in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	loc, err := uc.locRepo.GetByID(in.DefaultLocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	dept := &entity.Department{
		ID:                uuid.New().String(),
		Name:              in.Name,
		DefaultLocationID: in.DefaultLocationID,
		ApproverL1ID:      in.ApproverL1ID,
		ApproverL2ID:      in.ApproverL2ID,
		RequiresTwoLevels: in.RequiresTwoLevels,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if dept.RequiresTwoLevels && dept.ApproverL2ID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(dept); err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// GetByID obtiene un departamento por ID.
func (uc *DepartmentUseCase) GetByID(id string) (*dto.DepartmentResponse, error) {
	dept, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, domain.ErrNotFound
	}
	return toDepartmentResponse(dept), nil
}

// Update actualiza los campos presentes en la petición.
func (uc *DepartmentUseCase) Update(id string, in dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	dept, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		dept.Name = *in.Name
	}
	if in.DefaultLocationID != nil {
		loc, err := uc.locRepo.GetByID(*in.DefaultLocationID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
		dept.DefaultLocationID = *in.DefaultLocationID
	}
	if in.ApproverL1ID != nil {
		dept.ApproverL1ID = *in.ApproverL1ID
	}
	if in.ApproverL2ID != nil {
		dept.ApproverL2ID = *in.ApproverL2ID
	}
	if in.RequiresTwoLevels != nil {
		dept.RequiresTwoLevels = *in.RequiresTwoLevels
	}
	if dept.RequiresTwoLevels && dept.ApproverL2ID == "" {
		return nil, domain.ErrInvalidInput
	}
	dept.UpdatedAt = time.Now()
	if err := uc.repo.Update(dept); err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// List lista los departamentos con paginación.
func (uc *DepartmentUseCase) List(limit, offset int) ([]dto.DepartmentResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DepartmentResponse, 0, len(list))
	for _, dept := range list {
		items = append(items, *toDepartmentResponse(dept))
	}
	return items, nil
}

func toDepartmentResponse(d *entity.Department) *dto.DepartmentResponse {
	if d == nil {
		return nil
	}
	return &dto.DepartmentResponse{
		ID:                d.ID,
		Name:              d.Name,
		DefaultLocationID: d.DefaultLocationID,
		ApproverL1ID:      d.ApproverL1ID,
		ApproverL2ID:      d.ApproverL2ID,
		RequiresTwoLevels: d.RequiresTwoLevels,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
