package repository

import (
	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/pkg/xcontext"
)

type CaseRepository interface {
	Create(xcontext.Context, *entity.Case) error
	CreateItem(xcontext.Context, *entity.CaseItem) error
	GetByID(xcontext.Context, string) (*entity.Case, error)
	GetActiveList(xcontext.Context) ([]entity.Case, error)
	GetContents(ctx xcontext.Context, caseID string) ([]entity.CaseItem, error)
}

type caseRepository struct{}

func NewCaseRepository() CaseRepository {
	return &caseRepository{}
}

func (r *caseRepository) Create(ctx xcontext.Context, data *entity.Case) error {
	if err := ctx.DB().Create(data).Error; err != nil {
		return err
	}
	return nil
}

func (r *caseRepository) CreateItem(ctx xcontext.Context, data *entity.CaseItem) error {
	if err := ctx.DB().Create(data).Error; err != nil {
		return err
	}
	return nil
}

func (r *caseRepository) GetByID(ctx xcontext.Context, id string) (*entity.Case, error) {
	result := &entity.Case{}
	if err := ctx.DB().Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *caseRepository) GetActiveList(ctx xcontext.Context) ([]entity.Case, error) {
	result := []entity.Case{}
	if err := ctx.DB().
		Where("is_active=?", true).
		Order("threshold ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *caseRepository) GetContents(ctx xcontext.Context, caseID string) ([]entity.CaseItem, error) {
	result := []entity.CaseItem{}
	if err := ctx.DB().
		Preload("Item").
		Where("case_id=?", caseID).
		Order("weight DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
