package domain

import (
	"github.com/caseclub-lab/backend/internal/model"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/pkg/errorx"
	"github.com/caseclub-lab/backend/pkg/xcontext"
)

const maxRecentSpins = 50

type SpinDomain interface {
	GetHistory(xcontext.Context, *model.GetSpinHistoryRequest) (*model.GetSpinHistoryResponse, error)
	GetRecent(xcontext.Context, *model.GetRecentSpinsRequest) (*model.GetRecentSpinsResponse, error)
}

type spinDomain struct {
	spinRepo repository.SpinRepository
}

func NewSpinDomain(spinRepo repository.SpinRepository) *spinDomain {
	return &spinDomain{spinRepo: spinRepo}
}

func (d *spinDomain) GetHistory(
	ctx xcontext.Context, req *model.GetSpinHistoryRequest,
) (*model.GetSpinHistoryResponse, error) {
	userID := xcontext.GetRequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	spins, err := d.spinRepo.GetList(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		ctx.Logger().Errorf("Cannot get spin history: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetSpinHistoryResponse{}
	for i := range spins {
		resp.Spins = append(resp.Spins, convertSpin(&spins[i], ""))
	}

	return resp, nil
}

// GetRecent is the public feed of latest wins shown on the landing page.
func (d *spinDomain) GetRecent(
	ctx xcontext.Context, req *model.GetRecentSpinsRequest,
) (*model.GetRecentSpinsResponse, error) {
	if req.Limit <= 0 || req.Limit > maxRecentSpins {
		req.Limit = maxRecentSpins
	}

	spins, err := d.spinRepo.GetRecent(ctx, req.Limit)
	if err != nil {
		ctx.Logger().Errorf("Cannot get recent spins: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetRecentSpinsResponse{}
	for i := range spins {
		resp.Spins = append(resp.Spins, convertSpin(&spins[i], spins[i].User.Name))
	}

	return resp, nil
}
