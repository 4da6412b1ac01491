package repository

import (
	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(xcontext.Context, *entity.Item) error
	GetByID(xcontext.Context, string) (*entity.Item, error)

	// DecrementStock atomically takes one unit of a finite-stock item. It
	// reports false when the item is already depleted (or unlimited, which
	// needs no decrement).
	DecrementStock(ctx xcontext.Context, id string) (bool, error)
}

type itemRepository struct{}

func NewItemRepository() ItemRepository {
	return &itemRepository{}
}

func (r *itemRepository) Create(ctx xcontext.Context, data *entity.Item) error {
	if err := ctx.DB().Create(data).Error; err != nil {
		return err
	}
	return nil
}

func (r *itemRepository) GetByID(ctx xcontext.Context, id string) (*entity.Item, error) {
	result := &entity.Item{}
	if err := ctx.DB().Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *itemRepository) DecrementStock(ctx xcontext.Context, id string) (bool, error) {
	tx := ctx.DB().Model(&entity.Item{}).
		Where("id=? AND stock > 0", id).
		Update("stock", gorm.Expr("stock - 1"))
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}
