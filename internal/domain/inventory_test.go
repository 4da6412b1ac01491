package domain

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/model"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/pkg/errorx"
	"github.com/caseclub-lab/backend/pkg/testutil"
	"github.com/caseclub-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func newInventoryDomainForTest(shell *testutil.MockSmartShell) *inventoryDomain {
	return NewInventoryDomain(
		repository.NewInventoryRepository(),
		repository.NewRequestRepository(),
		repository.NewUserRepository(),
		shell,
	)
}

func insertInventoryEntry(
	t *testing.T, ctx xcontext.Context, id, userID string, itemType entity.ItemType,
) *entity.InventoryEntry {
	t.Helper()

	entry := &entity.InventoryEntry{
		Base:      entity.Base{ID: id},
		UserID:    userID,
		ItemID:    testutil.SkinItem,
		Title:     "Prize",
		ItemType:  itemType,
		Amount:    5,
		SellPrice: 3,
		Status:    entity.InventoryAvailable,
	}
	if itemType == entity.ItemMoney {
		entry.ItemID = testutil.MoneyItem
		entry.SellPrice = 0
	}

	require.NoError(t, repository.NewInventoryRepository().Create(ctx, entry))
	return entry
}

func Test_inventoryDomain_Claim_Money(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	shell := &testutil.MockSmartShell{}
	domain := newInventoryDomainForTest(shell)

	insertInventoryEntry(t, ctx, "prize1", testutil.User1, entity.ItemMoney)

	resp, err := domain.Claim(ctx, &model.ClaimInventoryRequest{InventoryID: "prize1"})
	require.NoError(t, err)
	require.Equal(t, string(entity.InventoryReceived), resp.Status)
	require.Equal(t, 5.0, resp.NewBalance)
	require.Equal(t, []float64{5}, shell.Credits())

	entry, err := domain.inventoryRepo.GetByID(ctx, "prize1")
	require.NoError(t, err)
	require.Equal(t, entity.InventoryReceived, entry.Status)

	// A terminal entry cannot be claimed again.
	_, err = domain.Claim(ctx, &model.ClaimInventoryRequest{InventoryID: "prize1"})
	requireErrorCode(t, err, errorx.Unavailable)
}

func Test_inventoryDomain_Claim_MoneyCreditFails(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	shell := &testutil.MockSmartShell{
		CreditBonusFunc: func(context.Context, string, float64) (float64, error) {
			return 0, errors.New("upstream down")
		},
	}
	domain := newInventoryDomainForTest(shell)

	insertInventoryEntry(t, ctx, "prize1", testutil.User1, entity.ItemMoney)

	_, err := domain.Claim(ctx, &model.ClaimInventoryRequest{InventoryID: "prize1"})
	requireErrorCode(t, err, errorx.Unavailable)

	// The failed credit released the entry, so a retry can succeed.
	entry, err := domain.inventoryRepo.GetByID(ctx, "prize1")
	require.NoError(t, err)
	require.Equal(t, entity.InventoryAvailable, entry.Status)

	shell.CreditBonusFunc = nil
	resp, err := domain.Claim(ctx, &model.ClaimInventoryRequest{InventoryID: "prize1"})
	require.NoError(t, err)
	require.Equal(t, string(entity.InventoryReceived), resp.Status)
}

func Test_inventoryDomain_Claim_Deliverable(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	domain := newInventoryDomainForTest(&testutil.MockSmartShell{})

	insertInventoryEntry(t, ctx, "prize1", testutil.User1, entity.ItemSkin)

	resp, err := domain.Claim(ctx, &model.ClaimInventoryRequest{InventoryID: "prize1"})
	require.NoError(t, err)
	require.Equal(t, string(entity.InventoryProcessing), resp.Status)
	require.Contains(t, resp.RequestCode, "REQ-")

	// The claim opened a pending fulfillment request.
	var request entity.FulfillmentRequest
	require.NoError(t, ctx.DB().Take(&request, "inventory_id=?", "prize1").Error)
	require.Equal(t, entity.RequestPending, request.Status)
	require.Equal(t, testutil.User1, request.UserID)
	require.Equal(t, resp.RequestCode, request.Code)

	// A second claim of the processing entry is rejected.
	_, err = domain.Claim(ctx, &model.ClaimInventoryRequest{InventoryID: "prize1"})
	requireErrorCode(t, err, errorx.AlreadyProcessing)
}

func Test_inventoryDomain_Claim_DeliverableWithoutTradeLink(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User2)

	domain := newInventoryDomainForTest(&testutil.MockSmartShell{})

	insertInventoryEntry(t, ctx, "prize1", testutil.User2, entity.ItemSkin)

	_, err := domain.Claim(ctx, &model.ClaimInventoryRequest{InventoryID: "prize1"})
	requireErrorCode(t, err, errorx.DeliveryInfoMissing)

	// The rejection left the entry claimable and created no request.
	entry, err := domain.inventoryRepo.GetByID(ctx, "prize1")
	require.NoError(t, err)
	require.Equal(t, entity.InventoryAvailable, entry.Status)

	err = ctx.DB().Take(&entity.FulfillmentRequest{}, "inventory_id=?", "prize1").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_inventoryDomain_Claim_NotOwner(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User2)

	domain := newInventoryDomainForTest(&testutil.MockSmartShell{})

	insertInventoryEntry(t, ctx, "prize1", testutil.User1, entity.ItemSkin)

	_, err := domain.Claim(ctx, &model.ClaimInventoryRequest{InventoryID: "prize1"})
	requireErrorCode(t, err, errorx.PermissionDenied)

	_, err = domain.Claim(ctx, &model.ClaimInventoryRequest{InventoryID: "missing"})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_inventoryDomain_Claim_ConcurrentSingleWinner(t *testing.T) {
	db := testutil.CreateFixtureDb()

	shell := &testutil.MockSmartShell{}
	domain := newInventoryDomainForTest(shell)

	setupCtx := testutil.MockContextWithUserID(db, testutil.User1)
	insertInventoryEntry(t, setupCtx, "prize1", testutil.User1, entity.ItemMoney)

	var claimed, rejected int64
	eg := errgroup.Group{}
	for i := 0; i < 8; i++ {
		eg.Go(func() error {
			ctx := testutil.MockContextWithUserID(db, testutil.User1)
			_, err := domain.Claim(ctx, &model.ClaimInventoryRequest{InventoryID: "prize1"})
			if err == nil {
				atomic.AddInt64(&claimed, 1)
				return nil
			}

			var errx errorx.Error
			if errors.As(err, &errx) &&
				(errx.Code == uint64(errorx.AlreadyProcessing) ||
					errx.Code == uint64(errorx.Unavailable)) {
				atomic.AddInt64(&rejected, 1)
				return nil
			}

			return err
		})
	}
	require.NoError(t, eg.Wait())

	// Exactly one claim credited the balance.
	require.Equal(t, int64(1), claimed)
	require.Equal(t, int64(7), rejected)
	require.Equal(t, []float64{5}, shell.Credits())
}

func Test_inventoryDomain_Sell(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	shell := &testutil.MockSmartShell{}
	domain := newInventoryDomainForTest(shell)

	insertInventoryEntry(t, ctx, "prize1", testutil.User1, entity.ItemSkin)

	resp, err := domain.Sell(ctx, &model.SellInventoryRequest{InventoryID: "prize1"})
	require.NoError(t, err)
	require.Equal(t, 3.0, resp.SoldFor)
	require.Equal(t, 3.0, resp.NewBalance)

	entry, err := domain.inventoryRepo.GetByID(ctx, "prize1")
	require.NoError(t, err)
	require.Equal(t, entity.InventorySold, entry.Status)

	// Sold is terminal.
	_, err = domain.Sell(ctx, &model.SellInventoryRequest{InventoryID: "prize1"})
	requireErrorCode(t, err, errorx.Unavailable)
}

func Test_inventoryDomain_Sell_MoneyPrize(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	domain := newInventoryDomainForTest(&testutil.MockSmartShell{})

	insertInventoryEntry(t, ctx, "prize1", testutil.User1, entity.ItemMoney)

	_, err := domain.Sell(ctx, &model.SellInventoryRequest{InventoryID: "prize1"})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_inventoryDomain_Sell_CreditFails(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	shell := &testutil.MockSmartShell{
		CreditBonusFunc: func(context.Context, string, float64) (float64, error) {
			return 0, errors.New("upstream down")
		},
	}
	domain := newInventoryDomainForTest(shell)

	insertInventoryEntry(t, ctx, "prize1", testutil.User1, entity.ItemSkin)

	_, err := domain.Sell(ctx, &model.SellInventoryRequest{InventoryID: "prize1"})
	requireErrorCode(t, err, errorx.Unavailable)

	entry, err := domain.inventoryRepo.GetByID(ctx, "prize1")
	require.NoError(t, err)
	require.Equal(t, entity.InventoryAvailable, entry.Status)
}

func Test_inventoryDomain_GetList(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	domain := newInventoryDomainForTest(&testutil.MockSmartShell{})

	insertInventoryEntry(t, ctx, "prize1", testutil.User1, entity.ItemSkin)
	insertInventoryEntry(t, ctx, "prize2", testutil.User2, entity.ItemSkin)

	resp, err := domain.GetList(ctx, &model.GetInventoryRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	require.Equal(t, "prize1", resp.Entries[0].ID)
}
