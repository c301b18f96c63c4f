package requisition

import (
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// SlipUseCase genera la papeleta imprimible (PDF) de una requisición para
// firma física en la entrega.
type SlipUseCase struct {
	reqRepo   repository.RequisitionRepository
	deptRepo  repository.DepartmentRepository
	itemRepo  repository.ItemRepository
	generator SlipGenerator
}

// NewSlipUseCase construye el caso de uso.
func NewSlipUseCase(
	reqRepo repository.RequisitionRepository,
	deptRepo repository.DepartmentRepository,
	itemRepo repository.ItemRepository,
	generator SlipGenerator,
) *SlipUseCase {
	return &SlipUseCase{reqRepo: reqRepo, deptRepo: deptRepo, itemRepo: itemRepo, generator: generator}
}

// Generate devuelve el PDF de la papeleta de la requisición indicada.
func (uc *SlipUseCase) Generate(requisitionNo string) ([]byte, error) {
	req, err := uc.reqRepo.GetByNo(requisitionNo)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	dept, err := uc.deptRepo.GetByID(req.DepartmentID)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, domain.ErrNotFound
	}
	names := make(map[string]string, len(req.Items))
	for _, it := range req.Items {
		item, err := uc.itemRepo.GetByID(it.ItemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			names[it.ItemID] = item.Name
		}
	}
	return uc.generator.Generate(req, dept, names)
}
