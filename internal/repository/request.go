package repository

import (
	"time"

	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/pkg/xcontext"
)

type RequestRepository interface {
	Create(xcontext.Context, *entity.FulfillmentRequest) error
	GetByID(xcontext.Context, string) (*entity.FulfillmentRequest, error)
	GetList(ctx xcontext.Context, status entity.RequestStatus, offset, limit int) ([]entity.FulfillmentRequest, error)
	GetPendingBefore(ctx xcontext.Context, before time.Time) ([]entity.FulfillmentRequest, error)

	// Resolve finalizes a pending request. It reports false when the request
	// was already terminal, which makes double resolution a no-op failure.
	Resolve(ctx xcontext.Context, id string, to entity.RequestStatus, reviewerID, comment string) (bool, error)
}

type requestRepository struct{}

func NewRequestRepository() RequestRepository {
	return &requestRepository{}
}

func (r *requestRepository) Create(ctx xcontext.Context, data *entity.FulfillmentRequest) error {
	if err := ctx.DB().Create(data).Error; err != nil {
		return err
	}
	return nil
}

func (r *requestRepository) GetByID(ctx xcontext.Context, id string) (*entity.FulfillmentRequest, error) {
	result := &entity.FulfillmentRequest{}
	if err := ctx.DB().Preload("Inventory").Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *requestRepository) GetList(
	ctx xcontext.Context, status entity.RequestStatus, offset, limit int,
) ([]entity.FulfillmentRequest, error) {
	tx := ctx.DB().
		Preload("Inventory").
		Offset(offset).
		Limit(limit).
		Order("CASE WHEN status='pending' THEN 0 ELSE 1 END").
		Order("created_at ASC")

	if status != "" {
		tx = tx.Where("status=?", status)
	}

	result := []entity.FulfillmentRequest{}
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *requestRepository) GetPendingBefore(
	ctx xcontext.Context, before time.Time,
) ([]entity.FulfillmentRequest, error) {
	result := []entity.FulfillmentRequest{}
	if err := ctx.DB().
		Where("status=? AND created_at < ?", entity.RequestPending, before).
		Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *requestRepository) Resolve(
	ctx xcontext.Context, id string, to entity.RequestStatus, reviewerID, comment string,
) (bool, error) {
	tx := ctx.DB().Model(&entity.FulfillmentRequest{}).
		Where("id=? AND status=?", id, entity.RequestPending).
		Updates(map[string]any{
			"status":      to,
			"reviewer_id": reviewerID,
			"comment":     comment,
			"reviewed_at": time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}
