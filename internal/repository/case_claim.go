package repository

import (
	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/pkg/xcontext"
)

type CaseClaimRepository interface {
	// Create races on the (user_id, case_id, period_key) unique index; the
	// caller treats a failure here as the already-claimed signal after
	// confirming the row exists.
	Create(xcontext.Context, *entity.CaseClaim) error
	Get(ctx xcontext.Context, userID, caseID, periodKey string) (*entity.CaseClaim, error)
}

type caseClaimRepository struct{}

func NewCaseClaimRepository() CaseClaimRepository {
	return &caseClaimRepository{}
}

func (r *caseClaimRepository) Create(ctx xcontext.Context, data *entity.CaseClaim) error {
	if err := ctx.DB().Create(data).Error; err != nil {
		return err
	}
	return nil
}

func (r *caseClaimRepository) Get(
	ctx xcontext.Context, userID, caseID, periodKey string,
) (*entity.CaseClaim, error) {
	result := &entity.CaseClaim{}
	if err := ctx.DB().
		Take(result, "user_id=? AND case_id=? AND period_key=?", userID, caseID, periodKey).
		Error; err != nil {
		return nil, err
	}

	return result, nil
}
