package domain

import (
	"errors"

	"github.com/caseclub-lab/backend/internal/client/smartshell"
	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/model"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/pkg/crypto"
	"github.com/caseclub-lab/backend/pkg/errorx"
	"github.com/caseclub-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type InventoryDomain interface {
	GetList(xcontext.Context, *model.GetInventoryRequest) (*model.GetInventoryResponse, error)
	Claim(xcontext.Context, *model.ClaimInventoryRequest) (*model.ClaimInventoryResponse, error)
	Sell(xcontext.Context, *model.SellInventoryRequest) (*model.SellInventoryResponse, error)
}

type inventoryDomain struct {
	inventoryRepo repository.InventoryRepository
	requestRepo   repository.RequestRepository
	userRepo      repository.UserRepository
	shell         smartshell.Client
}

func NewInventoryDomain(
	inventoryRepo repository.InventoryRepository,
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	shell smartshell.Client,
) *inventoryDomain {
	return &inventoryDomain{
		inventoryRepo: inventoryRepo,
		requestRepo:   requestRepo,
		userRepo:      userRepo,
		shell:         shell,
	}
}

func (d *inventoryDomain) GetList(
	ctx xcontext.Context, req *model.GetInventoryRequest,
) (*model.GetInventoryResponse, error) {
	userID := xcontext.GetRequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	entries, err := d.inventoryRepo.GetList(ctx, userID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get inventory: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetInventoryResponse{}
	for i := range entries {
		resp.Entries = append(resp.Entries, convertInventoryEntry(&entries[i]))
	}

	return resp, nil
}

// take moves an entry from available to processing on behalf of its owner.
// The transition is a single conditional update, so of two concurrent claims
// exactly one wins; the loser observes no affected row.
func (d *inventoryDomain) take(
	ctx xcontext.Context, inventoryID string,
) (*entity.InventoryEntry, error) {
	userID := xcontext.GetRequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	entry, err := d.inventoryRepo.GetByID(ctx, inventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found inventory entry")
		}

		ctx.Logger().Errorf("Cannot get inventory entry: %v", err)
		return nil, errorx.Unknown
	}

	if entry.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if slices.Contains(entity.TerminalInventoryStatuses, entry.Status) {
		return nil, errorx.New(errorx.Unavailable, "This prize was already claimed")
	}

	taken, err := d.inventoryRepo.Transition(
		ctx, entry.ID, entity.InventoryAvailable, entity.InventoryProcessing)
	if err != nil {
		ctx.Logger().Errorf("Cannot transition inventory entry: %v", err)
		return nil, errorx.Unknown
	}

	if !taken {
		return nil, errorx.New(errorx.AlreadyProcessing, "This prize is already being processed")
	}

	return entry, nil
}

// release rolls a taken entry back to available after a failed side effect.
func (d *inventoryDomain) release(ctx xcontext.Context, inventoryID string) {
	_, err := d.inventoryRepo.Transition(
		ctx, inventoryID, entity.InventoryProcessing, entity.InventoryAvailable)
	if err != nil {
		ctx.Logger().Errorf("Cannot release inventory entry %s: %v", inventoryID, err)
	}
}

func (d *inventoryDomain) Claim(
	ctx xcontext.Context, req *model.ClaimInventoryRequest,
) (*model.ClaimInventoryResponse, error) {
	entry, err := d.take(ctx, req.InventoryID)
	if err != nil {
		return nil, err
	}

	if entry.ItemType == entity.ItemMoney {
		return d.claimMoney(ctx, entry)
	}

	return d.claimDeliverable(ctx, entry)
}

// claimMoney credits the prize amount to the external bonus balance and
// finalizes the entry synchronously. A failed credit rolls the entry back;
// no money may appear claimed without the upstream write succeeding.
func (d *inventoryDomain) claimMoney(
	ctx xcontext.Context, entry *entity.InventoryEntry,
) (*model.ClaimInventoryResponse, error) {
	newBalance, err := d.shell.CreditBonus(ctx, entry.UserID, entry.Amount)
	if err != nil {
		ctx.Logger().Errorf("Cannot credit bonus: %v", err)
		d.release(ctx, entry.ID)
		return nil, errorx.New(errorx.Unavailable, "Balance service is unavailable, try again later")
	}

	if _, err := d.inventoryRepo.Transition(
		ctx, entry.ID, entity.InventoryProcessing, entity.InventoryReceived); err != nil {
		ctx.Logger().Errorf("Cannot finalize money claim: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClaimInventoryResponse{
		Status:     string(entity.InventoryReceived),
		NewBalance: newBalance,
	}, nil
}

// claimDeliverable opens an admin-reviewed fulfillment request. The entry
// stays processing until the request resolves or expires.
func (d *inventoryDomain) claimDeliverable(
	ctx xcontext.Context, entry *entity.InventoryEntry,
) (*model.ClaimInventoryResponse, error) {
	user, err := d.userRepo.GetByID(ctx, entry.UserID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get user: %v", err)
		d.release(ctx, entry.ID)
		return nil, errorx.Unknown
	}

	if user.TradeLink == "" {
		d.release(ctx, entry.ID)
		return nil, errorx.New(errorx.DeliveryInfoMissing,
			"Set your trade link before claiming items")
	}

	request := &entity.FulfillmentRequest{
		Base:        entity.Base{ID: uuid.NewString()},
		Code:        crypto.GenerateRequestCode(),
		InventoryID: entry.ID,
		UserID:      entry.UserID,
		Status:      entity.RequestPending,
	}
	if err := d.requestRepo.Create(ctx, request); err != nil {
		ctx.Logger().Errorf("Cannot create fulfillment request: %v", err)
		d.release(ctx, entry.ID)
		return nil, errorx.Unknown
	}

	return &model.ClaimInventoryResponse{
		Status:      string(entity.InventoryProcessing),
		RequestCode: request.Code,
	}, nil
}

func (d *inventoryDomain) Sell(
	ctx xcontext.Context, req *model.SellInventoryRequest,
) (*model.SellInventoryResponse, error) {
	userID := xcontext.GetRequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	entry, err := d.inventoryRepo.GetByID(ctx, req.InventoryID)
	if err == nil && entry.ItemType == entity.ItemMoney {
		return nil, errorx.New(errorx.BadRequest, "Money prizes cannot be sold, claim them instead")
	}

	entry, err = d.take(ctx, req.InventoryID)
	if err != nil {
		return nil, err
	}

	newBalance, err := d.shell.CreditBonus(ctx, entry.UserID, entry.SellPrice)
	if err != nil {
		ctx.Logger().Errorf("Cannot credit sell price: %v", err)
		d.release(ctx, entry.ID)
		return nil, errorx.New(errorx.Unavailable, "Balance service is unavailable, try again later")
	}

	if _, err := d.inventoryRepo.Transition(
		ctx, entry.ID, entity.InventoryProcessing, entity.InventorySold); err != nil {
		ctx.Logger().Errorf("Cannot finalize sell: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SellInventoryResponse{
		SoldFor:    entry.SellPrice,
		NewBalance: newBalance,
	}, nil
}
