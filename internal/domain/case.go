package domain

import (
	"context"
	"errors"
	"time"

	"github.com/caseclub-lab/backend/internal/client/smartshell"
	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/model"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/internal/domain/droptable"
	"github.com/caseclub-lab/backend/internal/domain/livefeed"
	"github.com/caseclub-lab/backend/pkg/dateutil"
	"github.com/caseclub-lab/backend/pkg/errorx"
	"github.com/caseclub-lab/backend/pkg/xcontext"
	"github.com/fatih/structs"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaseDomain interface {
	GetList(xcontext.Context, *model.GetListCaseRequest) (*model.GetListCaseResponse, error)
	GetEligibility(xcontext.Context, *model.GetCaseEligibilityRequest) (*model.GetCaseEligibilityResponse, error)
	Open(xcontext.Context, *model.OpenCaseRequest) (*model.OpenCaseResponse, error)
}

type caseDomain struct {
	caseRepo      repository.CaseRepository
	itemRepo      repository.ItemRepository
	claimRepo     repository.CaseClaimRepository
	spinRepo      repository.SpinRepository
	inventoryRepo repository.InventoryRepository
	userRepo      repository.UserRepository
	shell         smartshell.Client
	feed          livefeed.Broadcaster
	randSource    droptable.Source
}

func NewCaseDomain(
	caseRepo repository.CaseRepository,
	itemRepo repository.ItemRepository,
	claimRepo repository.CaseClaimRepository,
	spinRepo repository.SpinRepository,
	inventoryRepo repository.InventoryRepository,
	userRepo repository.UserRepository,
	shell smartshell.Client,
	feed livefeed.Broadcaster,
	randSource droptable.Source,
) *caseDomain {
	if randSource == nil {
		randSource = droptable.DefaultSource()
	}

	return &caseDomain{
		caseRepo:      caseRepo,
		itemRepo:      itemRepo,
		claimRepo:     claimRepo,
		spinRepo:      spinRepo,
		inventoryRepo: inventoryRepo,
		userRepo:      userRepo,
		shell:         shell,
		feed:          feed,
		randSource:    randSource,
	}
}

// depositTotals reads the ledger with fail-closed semantics: upstream outages
// degrade to zero rather than failing the request. The gate must never crash
// the user flow, but must never grant eligibility either.
func (d *caseDomain) depositTotals(ctx xcontext.Context, userID string) smartshell.Totals {
	if userID == "" {
		return smartshell.Totals{}
	}

	totals, err := d.shell.DepositTotals(ctx, userID)
	if err != nil {
		ctx.Logger().Warnf("Cannot get deposit totals, fail closed: %v", err)
		return smartshell.Totals{}
	}

	return totals
}

func progressFor(totals smartshell.Totals, caseType entity.CaseType) float64 {
	if caseType == entity.CaseDaily {
		return totals.Daily
	}

	// Monthly and event cases both run on the monthly window.
	return totals.Monthly
}

// isClaimed reports whether the case was already opened in the current
// period. The period key here and in Open comes from the same function, so
// the gate and the recorder can never disagree.
func (d *caseDomain) isClaimed(ctx xcontext.Context, userID string, c entity.Case) (bool, error) {
	periodKey, err := dateutil.PeriodKey(c.Type, time.Now(), ctx.Configs().Club.Location())
	if err != nil {
		return false, err
	}

	_, err = d.claimRepo.Get(ctx, userID, c.ID, periodKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (d *caseDomain) isExpiredEvent(c entity.Case) bool {
	return c.Type == entity.CaseEvent && c.EventEndsAt != nil && time.Now().After(*c.EventEndsAt)
}

func (d *caseDomain) GetEligibility(
	ctx xcontext.Context, req *model.GetCaseEligibilityRequest,
) (*model.GetCaseEligibilityResponse, error) {
	c, err := d.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found case")
		}

		ctx.Logger().Errorf("Cannot get case: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetCaseEligibilityResponse{Required: c.Threshold}

	// Guests always see zero progress; real progress is never leaked to
	// anonymous probing.
	userID := xcontext.GetRequestUserID(ctx)
	if userID == "" {
		return resp, nil
	}

	resp.Progress = progressFor(d.depositTotals(ctx, userID), c.Type)
	if resp.Progress < c.Threshold || !c.IsActive || d.isExpiredEvent(*c) {
		return resp, nil
	}

	claimed, err := d.isClaimed(ctx, userID, *c)
	if err != nil {
		ctx.Logger().Errorf("Cannot check the claim period: %v", err)
		return nil, errorx.Unknown
	}

	resp.Eligible = !claimed
	return resp, nil
}

func (d *caseDomain) Open(ctx xcontext.Context, req *model.OpenCaseRequest) (*model.OpenCaseResponse, error) {
	userID := xcontext.GetRequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	if err := ensureUser(ctx, d.userRepo, userID); err != nil {
		ctx.Logger().Errorf("Cannot ensure user: %v", err)
		return nil, errorx.Unknown
	}

	c, err := d.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found case")
		}

		ctx.Logger().Errorf("Cannot get case: %v", err)
		return nil, errorx.Unknown
	}

	if !c.IsActive {
		return nil, errorx.New(errorx.Unavailable, "This case is not available")
	}

	if d.isExpiredEvent(*c) {
		return nil, errorx.New(errorx.Unavailable, "This event has ended")
	}

	progress := progressFor(d.depositTotals(ctx, userID), c.Type)
	if progress < c.Threshold {
		return nil, errorx.New(errorx.NotEligible,
			"Deposit %.2f of %.2f required to open this case", progress, c.Threshold)
	}

	claimed, err := d.isClaimed(ctx, userID, *c)
	if err != nil {
		ctx.Logger().Errorf("Cannot check the claim period: %v", err)
		return nil, errorx.Unknown
	}

	if claimed {
		return nil, errorx.New(errorx.AlreadyClaimed, "You already opened this case in this period")
	}

	pool, err := d.prizePool(ctx, *c)
	if err != nil {
		return nil, err
	}

	prize, err := droptable.Draw(pool, d.randSource)
	if err != nil {
		// A broken pool is an operator problem, not a user one.
		ctx.Logger().Errorf("Broken definition of case %s: %v", c.ID, err)
		return nil, errorx.New(errorx.CaseMisconfigured, "This case is misconfigured")
	}

	periodKey, err := dateutil.PeriodKey(c.Type, time.Now(), ctx.Configs().Club.Location())
	if err != nil {
		ctx.Logger().Errorf("Cannot compute period key: %v", err)
		return nil, errorx.Unknown
	}

	// The claim insert, the spin record, and the inventory entry are one
	// atomic unit. The unique index on case claims resolves the race between
	// concurrent opens: exactly one transaction inserts, the rest fail here.
	ctx.BeginTx()
	defer ctx.RollbackTx()

	err = d.claimRepo.Create(ctx, &entity.CaseClaim{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    userID,
		CaseID:    c.ID,
		PeriodKey: periodKey,
	})
	if err != nil {
		ctx.RollbackTx()
		if _, getErr := d.claimRepo.Get(ctx, userID, c.ID, periodKey); getErr == nil {
			return nil, errorx.New(errorx.AlreadyClaimed, "You already opened this case in this period")
		}

		ctx.Logger().Errorf("Cannot create case claim: %v", err)
		return nil, errorx.Unknown
	}

	snapshot := entity.PrizeSnapshot{
		Title:  prize.Item.Title,
		Amount: prize.Item.PriceEUR,
		Rarity: prize.Rarity,
		Image:  prize.Item.Image,
	}

	spin := &entity.Spin{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    userID,
		CaseID:    c.ID,
		ItemID:    prize.ItemID,
		PeriodKey: periodKey,
		Prize:     structs.Map(snapshot),
	}
	if err := d.spinRepo.Create(ctx, spin); err != nil {
		ctx.Logger().Errorf("Cannot create spin record: %v", err)
		return nil, errorx.Unknown
	}

	inventory := &entity.InventoryEntry{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    userID,
		ItemID:    prize.ItemID,
		Title:     prize.Item.Title,
		Image:     prize.Item.Image,
		Rarity:    prize.Rarity,
		ItemType:  prize.Item.Type,
		Amount:    prize.Item.PriceEUR,
		SellPrice: prize.Item.SellPriceEUR,
		Status:    entity.InventoryAvailable,
	}
	if err := d.inventoryRepo.Create(ctx, inventory); err != nil {
		ctx.Logger().Errorf("Cannot create inventory entry: %v", err)
		return nil, errorx.Unknown
	}

	if ctx.Configs().Case.EnforceStock && prize.Item.Stock != entity.UnlimitedStock {
		taken, err := d.itemRepo.DecrementStock(ctx, prize.ItemID)
		if err != nil {
			ctx.Logger().Errorf("Cannot decrement stock: %v", err)
			return nil, errorx.Unknown
		}

		if !taken {
			return nil, errorx.New(errorx.Unavailable, "This prize is out of stock")
		}
	}

	ctx.CommitTx()

	if d.feed != nil {
		spin.Case = *c
		go d.feed.Broadcast(context.Background(), convertSpin(spin, ""))
	}

	return &model.OpenCaseResponse{
		SpinID: spin.ID,
		Prize: model.Prize{
			InventoryID: inventory.ID,
			ItemID:      prize.ItemID,
			Title:       snapshot.Title,
			Amount:      snapshot.Amount,
			Rarity:      snapshot.Rarity,
			Image:       snapshot.Image,
		},
	}, nil
}

// prizePool loads the case contents, optionally excluding depleted items when
// stock enforcement is configured on.
func (d *caseDomain) prizePool(ctx xcontext.Context, c entity.Case) ([]entity.CaseItem, error) {
	contents, err := d.caseRepo.GetContents(ctx, c.ID)
	if err != nil {
		ctx.Logger().Errorf("Cannot get case contents: %v", err)
		return nil, errorx.Unknown
	}

	if !ctx.Configs().Case.EnforceStock {
		return contents, nil
	}

	pool := make([]entity.CaseItem, 0, len(contents))
	for _, entry := range contents {
		if entry.Item.Stock == 0 {
			continue
		}
		pool = append(pool, entry)
	}

	return pool, nil
}

func (d *caseDomain) GetList(
	ctx xcontext.Context, req *model.GetListCaseRequest,
) (*model.GetListCaseResponse, error) {
	cases, err := d.caseRepo.GetActiveList(ctx)
	if err != nil {
		ctx.Logger().Errorf("Cannot get case list: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.GetRequestUserID(ctx)
	totals := d.depositTotals(ctx, userID)

	resp := &model.GetListCaseResponse{}
	for _, c := range cases {
		contents, err := d.caseRepo.GetContents(ctx, c.ID)
		if err != nil {
			ctx.Logger().Errorf("Cannot get case contents: %v", err)
			return nil, errorx.Unknown
		}

		caseModel := model.Case{
			ID:        c.ID,
			Name:      c.Name,
			Type:      string(c.Type),
			Threshold: c.Threshold,
			Required:  c.Threshold,
		}

		if c.EventEndsAt != nil {
			caseModel.EventEndsAt = c.EventEndsAt.Format(time.RFC3339)
		}

		for _, entry := range contents {
			caseModel.Items = append(caseModel.Items, model.CaseItem{
				ID:     entry.ID,
				ItemID: entry.ItemID,
				Title:  entry.Item.Title,
				Image:  entry.Item.Image,
				Rarity: entry.Rarity,
				Weight: entry.Weight,
			})
		}

		if userID != "" {
			caseModel.Progress = progressFor(totals, c.Type)
			if caseModel.Progress >= c.Threshold && !d.isExpiredEvent(c) {
				claimed, err := d.isClaimed(ctx, userID, c)
				if err != nil {
					ctx.Logger().Errorf("Cannot check the claim period: %v", err)
					return nil, errorx.Unknown
				}
				caseModel.Eligible = !claimed
			}
		}

		resp.Cases = append(resp.Cases, caseModel)
	}

	return resp, nil
}
