package repository

import (
	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/pkg/xcontext"
)

type SpinRepository interface {
	Create(xcontext.Context, *entity.Spin) error
	GetList(ctx xcontext.Context, userID string, offset, limit int) ([]entity.Spin, error)
	GetRecent(ctx xcontext.Context, limit int) ([]entity.Spin, error)
}

type spinRepository struct{}

func NewSpinRepository() SpinRepository {
	return &spinRepository{}
}

func (r *spinRepository) Create(ctx xcontext.Context, data *entity.Spin) error {
	if err := ctx.DB().Create(data).Error; err != nil {
		return err
	}
	return nil
}

func (r *spinRepository) GetList(
	ctx xcontext.Context, userID string, offset, limit int,
) ([]entity.Spin, error) {
	result := []entity.Spin{}
	if err := ctx.DB().
		Preload("Case").
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *spinRepository) GetRecent(ctx xcontext.Context, limit int) ([]entity.Spin, error) {
	result := []entity.Spin{}
	if err := ctx.DB().
		Preload("User").
		Preload("Case").
		Order("created_at DESC").
		Limit(limit).
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
