package domain

import (
	"strings"

	"github.com/caseclub-lab/backend/internal/model"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/pkg/errorx"
	"github.com/caseclub-lab/backend/pkg/xcontext"
)

type UserDomain interface {
	GetUser(xcontext.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	UpdateTradeLink(xcontext.Context, *model.UpdateTradeLinkRequest) (*model.UpdateTradeLinkResponse, error)
}

type userDomain struct {
	userRepo repository.UserRepository
}

func NewUserDomain(userRepo repository.UserRepository) *userDomain {
	return &userDomain{userRepo: userRepo}
}

func (d *userDomain) GetUser(
	ctx xcontext.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	userID := xcontext.GetRequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	if err := ensureUser(ctx, d.userRepo, userID); err != nil {
		ctx.Logger().Errorf("Cannot ensure user: %v", err)
		return nil, errorx.Unknown
	}

	u, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUserResponse{User: convertUser(u)}, nil
}

func (d *userDomain) UpdateTradeLink(
	ctx xcontext.Context, req *model.UpdateTradeLinkRequest,
) (*model.UpdateTradeLinkResponse, error) {
	userID := xcontext.GetRequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	link := strings.TrimSpace(req.TradeLink)
	if link != "" && !strings.HasPrefix(link, "https://") {
		return nil, errorx.New(errorx.BadRequest, "Trade link must be an https URL")
	}

	if err := ensureUser(ctx, d.userRepo, userID); err != nil {
		ctx.Logger().Errorf("Cannot ensure user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.UpdateTradeLink(ctx, userID, link); err != nil {
		ctx.Logger().Errorf("Cannot update trade link: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateTradeLinkResponse{}, nil
}
