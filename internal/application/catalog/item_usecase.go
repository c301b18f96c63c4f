package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para el catálogo de consumibles.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un ítem del catálogo.
func (uc *ItemUseCase) Create(in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	now := time.Now()
	cost := decimal.Zero
	if in.DefaultUnitCost != nil {
		if in.DefaultUnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		cost = *in.DefaultUnitCost
	}
	item := &entity.Item{
		ID:               uuid.New().String(),
		Name:             in.Name,
		Unit:             in.Unit,
		ReorderThreshold: in.ReorderThreshold,
		DefaultUnitCost:  cost,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update actualiza los campos presentes en la petición.
func (uc *ItemUseCase) Update(id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.ReorderThreshold != nil {
		if *in.ReorderThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.ReorderThreshold = *in.ReorderThreshold
	}
	if in.DefaultUnitCost != nil {
		if in.DefaultUnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.DefaultUnitCost = *in.DefaultUnitCost
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista el catálogo con paginación.
func (uc *ItemUseCase) List(limit, offset int) ([]dto.ItemResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return items, nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:               it.ID,
		Name:             it.Name,
		Unit:             it.Unit,
		ReorderThreshold: it.ReorderThreshold,
		DefaultUnitCost:  it.DefaultUnitCost,
		CreatedAt:        it.CreatedAt,
		UpdatedAt:        it.UpdatedAt,
	}
}
