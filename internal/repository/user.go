package repository

import (
	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(xcontext.Context, *entity.User) error
	GetByID(xcontext.Context, string) (*entity.User, error)
	UpdateTradeLink(ctx xcontext.Context, id, tradeLink string) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx xcontext.Context, data *entity.User) error {
	if err := ctx.DB().Create(data).Error; err != nil {
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx xcontext.Context, id string) (*entity.User, error) {
	result := &entity.User{}
	if err := ctx.DB().Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) UpdateTradeLink(ctx xcontext.Context, id, tradeLink string) error {
	return ctx.DB().Model(&entity.User{}).
		Where("id=?", id).
		Update("trade_link", tradeLink).Error
}
