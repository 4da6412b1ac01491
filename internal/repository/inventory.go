package repository

import (
	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/pkg/xcontext"
)

type InventoryRepository interface {
	Create(xcontext.Context, *entity.InventoryEntry) error
	GetByID(xcontext.Context, string) (*entity.InventoryEntry, error)
	GetList(ctx xcontext.Context, userID string) ([]entity.InventoryEntry, error)

	// Transition performs the guarded status change "set status=to where
	// id=? and status=from". It reports false when the entry was not in the
	// from state, which is how concurrent claims lose the race.
	Transition(ctx xcontext.Context, id string, from, to entity.InventoryStatus) (bool, error)
}

type inventoryRepository struct{}

func NewInventoryRepository() InventoryRepository {
	return &inventoryRepository{}
}

func (r *inventoryRepository) Create(ctx xcontext.Context, data *entity.InventoryEntry) error {
	if err := ctx.DB().Create(data).Error; err != nil {
		return err
	}
	return nil
}

func (r *inventoryRepository) GetByID(ctx xcontext.Context, id string) (*entity.InventoryEntry, error) {
	result := &entity.InventoryEntry{}
	if err := ctx.DB().Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *inventoryRepository) GetList(
	ctx xcontext.Context, userID string,
) ([]entity.InventoryEntry, error) {
	result := []entity.InventoryEntry{}
	if err := ctx.DB().
		Where("user_id=?", userID).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *inventoryRepository) Transition(
	ctx xcontext.Context, id string, from, to entity.InventoryStatus,
) (bool, error) {
	tx := ctx.DB().Model(&entity.InventoryEntry{}).
		Where("id=? AND status=?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}
