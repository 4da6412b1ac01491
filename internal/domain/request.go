package domain

import (
	"errors"

	"github.com/caseclub-lab/backend/internal/common"
	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/model"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/pkg/enum"
	"github.com/caseclub-lab/backend/pkg/errorx"
	"github.com/caseclub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RequestDomain interface {
	GetList(xcontext.Context, *model.GetListRequestRequest) (*model.GetListRequestResponse, error)
	Resolve(xcontext.Context, *model.ResolveRequestRequest) (*model.ResolveRequestResponse, error)
}

type requestDomain struct {
	requestRepo   repository.RequestRepository
	inventoryRepo repository.InventoryRepository
	roleVerifier  *common.GlobalRoleVerifier
}

func NewRequestDomain(
	requestRepo repository.RequestRepository,
	inventoryRepo repository.InventoryRepository,
	userRepo repository.UserRepository,
) *requestDomain {
	return &requestDomain{
		requestRepo:   requestRepo,
		inventoryRepo: inventoryRepo,
		roleVerifier:  common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *requestDomain) GetList(
	ctx xcontext.Context, req *model.GetListRequestRequest,
) (*model.GetListRequestResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.RoleModerator); err != nil {
		ctx.Logger().Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	var status entity.RequestStatus
	if req.Status != "" {
		var err error
		status, err = enum.ToEnum[entity.RequestStatus](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status filter")
		}
	}

	if req.Limit == 0 {
		req.Limit = 50
	}

	requests, err := d.requestRepo.GetList(ctx, status, req.Offset, req.Limit)
	if err != nil {
		ctx.Logger().Errorf("Cannot get request list: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetListRequestResponse{}
	for i := range requests {
		resp.Requests = append(resp.Requests, convertRequest(&requests[i]))
	}

	return resp, nil
}

// Resolve finalizes a pending fulfillment request. Approval finishes the
// underlying inventory entry, denial returns it to the owner for another
// claim or a sell.
func (d *requestDomain) Resolve(
	ctx xcontext.Context, req *model.ResolveRequestRequest,
) (*model.ResolveRequestResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.RoleModerator); err != nil {
		ctx.Logger().Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	decision, err := enum.ToEnum[entity.RequestStatus](req.Decision)
	if err != nil || (decision != entity.RequestApproved && decision != entity.RequestDenied) {
		return nil, errorx.New(errorx.BadRequest, "Decision must be approved or denied")
	}

	request, err := d.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found request")
		}

		ctx.Logger().Errorf("Cannot get request: %v", err)
		return nil, errorx.Unknown
	}

	inventoryStatus := entity.InventoryReceived
	if decision == entity.RequestDenied {
		inventoryStatus = entity.InventoryAvailable
	}

	reviewerID := xcontext.GetRequestUserID(ctx)

	ctx.BeginTx()
	defer ctx.RollbackTx()

	resolved, err := d.requestRepo.Resolve(ctx, request.ID, decision, reviewerID, req.Comment)
	if err != nil {
		ctx.Logger().Errorf("Cannot resolve request: %v", err)
		return nil, errorx.Unknown
	}

	if !resolved {
		return nil, errorx.New(errorx.AlreadyResolved, "This request was already resolved")
	}

	moved, err := d.inventoryRepo.Transition(
		ctx, request.InventoryID, entity.InventoryProcessing, inventoryStatus)
	if err != nil {
		ctx.Logger().Errorf("Cannot transition inventory entry: %v", err)
		return nil, errorx.Unknown
	}

	if !moved {
		ctx.Logger().Errorf("Inventory entry %s is not processing while request %s was pending",
			request.InventoryID, request.ID)
		return nil, errorx.Unknown
	}

	ctx.CommitTx()

	return &model.ResolveRequestResponse{Status: string(decision)}, nil
}
