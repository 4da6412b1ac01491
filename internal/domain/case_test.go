package domain

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/caseclub-lab/backend/internal/client/smartshell"
	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/model"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/pkg/errorx"
	"github.com/caseclub-lab/backend/pkg/logger"
	"github.com/caseclub-lab/backend/pkg/testutil"
	"github.com/caseclub-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fixedSource struct {
	value float64
}

func (s fixedSource) Float64() float64 { return s.value }

func newCaseDomainForTest(shell smartshell.Client, value float64) *caseDomain {
	return NewCaseDomain(
		repository.NewCaseRepository(),
		repository.NewItemRepository(),
		repository.NewCaseClaimRepository(),
		repository.NewSpinRepository(),
		repository.NewInventoryRepository(),
		repository.NewUserRepository(),
		shell,
		nil,
		fixedSource{value},
	)
}

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, uint64(code), errx.Code)
}

func Test_caseDomain_GetEligibility(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	shell := &testutil.MockSmartShell{
		DepositTotalsFunc: func(context.Context, string) (smartshell.Totals, error) {
			return smartshell.Totals{Daily: 4, Monthly: 4}, nil
		},
	}
	domain := newCaseDomainForTest(shell, 0)

	// Below the threshold.
	resp, err := domain.GetEligibility(ctx, &model.GetCaseEligibilityRequest{CaseID: testutil.DailyCase})
	require.NoError(t, err)
	require.False(t, resp.Eligible)
	require.Equal(t, 4.0, resp.Progress)
	require.Equal(t, testutil.DailyThreshold, resp.Required)

	// At the threshold.
	shell.DepositTotalsFunc = func(context.Context, string) (smartshell.Totals, error) {
		return smartshell.Totals{Daily: testutil.DailyThreshold}, nil
	}
	resp, err = domain.GetEligibility(ctx, &model.GetCaseEligibilityRequest{CaseID: testutil.DailyCase})
	require.NoError(t, err)
	require.True(t, resp.Eligible)

	_, err = domain.GetEligibility(ctx, &model.GetCaseEligibilityRequest{CaseID: "missing"})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_caseDomain_GetEligibility_FailClosed(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	shell := &testutil.MockSmartShell{
		DepositTotalsFunc: func(context.Context, string) (smartshell.Totals, error) {
			return smartshell.Totals{}, errors.New("upstream down")
		},
	}
	domain := newCaseDomainForTest(shell, 0)

	// A ledger outage degrades to zero progress, it never grants access.
	resp, err := domain.GetEligibility(ctx, &model.GetCaseEligibilityRequest{CaseID: testutil.DailyCase})
	require.NoError(t, err)
	require.False(t, resp.Eligible)
	require.Equal(t, 0.0, resp.Progress)
}

func Test_caseDomain_GetEligibility_Guest(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContext(db)

	domain := newCaseDomainForTest(&testutil.MockSmartShell{}, 0)

	resp, err := domain.GetEligibility(ctx, &model.GetCaseEligibilityRequest{CaseID: testutil.DailyCase})
	require.NoError(t, err)
	require.False(t, resp.Eligible)
	require.Equal(t, 0.0, resp.Progress)
	require.Equal(t, testutil.DailyThreshold, resp.Required)
}

func Test_caseDomain_Open(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	shell := &testutil.MockSmartShell{
		DepositTotalsFunc: func(context.Context, string) (smartshell.Totals, error) {
			return smartshell.Totals{Daily: 20}, nil
		},
	}

	// The draw lands at zero, the heaviest entry of the daily pool wins.
	domain := newCaseDomainForTest(shell, 0)

	resp, err := domain.Open(ctx, &model.OpenCaseRequest{CaseID: testutil.DailyCase})
	require.NoError(t, err)
	require.Equal(t, testutil.MoneyItem, resp.Prize.ItemID)
	require.Equal(t, testutil.MoneyPrize, resp.Prize.Amount)
	require.NotEmpty(t, resp.SpinID)
	require.NotEmpty(t, resp.Prize.InventoryID)

	// The draw left an available inventory entry with a snapshot of the item.
	inventoryRepo := repository.NewInventoryRepository()
	entry, err := inventoryRepo.GetByID(ctx, resp.Prize.InventoryID)
	require.NoError(t, err)
	require.Equal(t, entity.InventoryAvailable, entry.Status)
	require.Equal(t, entity.ItemMoney, entry.ItemType)
	require.Equal(t, testutil.MoneyPrize, entry.Amount)

	// The same period cannot be opened twice.
	_, err = domain.Open(ctx, &model.OpenCaseRequest{CaseID: testutil.DailyCase})
	requireErrorCode(t, err, errorx.AlreadyClaimed)

	// The case shows as not eligible for the rest of the period.
	elig, err := domain.GetEligibility(ctx, &model.GetCaseEligibilityRequest{CaseID: testutil.DailyCase})
	require.NoError(t, err)
	require.False(t, elig.Eligible)

	// Another case with its own period is unaffected.
	shell.DepositTotalsFunc = func(context.Context, string) (smartshell.Totals, error) {
		return smartshell.Totals{Daily: 20, Monthly: 150}, nil
	}
	_, err = domain.Open(ctx, &model.OpenCaseRequest{CaseID: testutil.MonthlyCase})
	require.NoError(t, err)
}

func Test_caseDomain_Open_BroadcastsSpin(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	shell := &testutil.MockSmartShell{
		DepositTotalsFunc: func(context.Context, string) (smartshell.Totals, error) {
			return smartshell.Totals{Daily: 20}, nil
		},
	}
	feed := &testutil.MockBroadcaster{}
	domain := NewCaseDomain(
		repository.NewCaseRepository(),
		repository.NewItemRepository(),
		repository.NewCaseClaimRepository(),
		repository.NewSpinRepository(),
		repository.NewInventoryRepository(),
		repository.NewUserRepository(),
		shell,
		feed,
		fixedSource{0},
	)

	_, err := domain.Open(ctx, &model.OpenCaseRequest{CaseID: testutil.DailyCase})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(feed.Spins()) == 1 },
		time.Second, 10*time.Millisecond)

	spin := feed.Spins()[0]
	require.Equal(t, "Daily Case", spin.CaseName)
	require.Equal(t, "5 EUR bonus", spin.Title)
	require.Equal(t, testutil.MoneyPrize, spin.Amount)
}

func Test_caseDomain_Open_NotEligible(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	shell := &testutil.MockSmartShell{
		DepositTotalsFunc: func(context.Context, string) (smartshell.Totals, error) {
			return smartshell.Totals{Daily: 9.99}, nil
		},
	}
	domain := newCaseDomainForTest(shell, 0)

	_, err := domain.Open(ctx, &model.OpenCaseRequest{CaseID: testutil.DailyCase})
	requireErrorCode(t, err, errorx.NotEligible)

	// No spin, claim, or inventory row leaked from the denied open.
	var count int64
	require.NoError(t, ctx.DB().Model(&entity.Spin{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, ctx.DB().Model(&entity.CaseClaim{}).Count(&count).Error)
	require.Zero(t, count)
}

func Test_caseDomain_Open_Guest(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContext(db)

	domain := newCaseDomainForTest(&testutil.MockSmartShell{}, 0)

	_, err := domain.Open(ctx, &model.OpenCaseRequest{CaseID: testutil.DailyCase})
	requireErrorCode(t, err, errorx.Unauthenticated)
}

func Test_caseDomain_Open_ExpiredEvent(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	ended := time.Now().Add(-time.Hour)
	require.NoError(t, ctx.DB().Model(&entity.Case{}).
		Where("id=?", testutil.EventCase).
		Update("event_ends_at", &ended).Error)

	shell := &testutil.MockSmartShell{
		DepositTotalsFunc: func(context.Context, string) (smartshell.Totals, error) {
			return smartshell.Totals{Monthly: 1000}, nil
		},
	}
	domain := newCaseDomainForTest(shell, 0)

	_, err := domain.Open(ctx, &model.OpenCaseRequest{CaseID: testutil.EventCase})
	requireErrorCode(t, err, errorx.Unavailable)
}

func Test_caseDomain_Open_ExactlyOnce(t *testing.T) {
	db := testutil.CreateFixtureDb()

	shell := &testutil.MockSmartShell{
		DepositTotalsFunc: func(context.Context, string) (smartshell.Totals, error) {
			return smartshell.Totals{Daily: 20}, nil
		},
	}
	domain := newCaseDomainForTest(shell, 0)

	var opened, rejected int64
	eg := errgroup.Group{}
	for i := 0; i < 8; i++ {
		eg.Go(func() error {
			ctx := testutil.MockContextWithUserID(db, testutil.User1)
			_, err := domain.Open(ctx, &model.OpenCaseRequest{CaseID: testutil.DailyCase})
			if err == nil {
				atomic.AddInt64(&opened, 1)
				return nil
			}

			var errx errorx.Error
			if errors.As(err, &errx) && errx.Code == uint64(errorx.AlreadyClaimed) {
				atomic.AddInt64(&rejected, 1)
				return nil
			}

			return err
		})
	}
	require.NoError(t, eg.Wait())

	require.Equal(t, int64(1), opened)
	require.Equal(t, int64(7), rejected)

	// Exactly one spin and one inventory entry exist.
	ctx := testutil.MockContext(db)
	var count int64
	require.NoError(t, ctx.DB().Model(&entity.Spin{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
	require.NoError(t, ctx.DB().Model(&entity.InventoryEntry{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func Test_caseDomain_Open_StockEnforcement(t *testing.T) {
	db := testutil.CreateFixtureDb()

	cfg := testutil.MockConfigs()
	cfg.Case.EnforceStock = true
	ctx := xcontext.NewContext(context.Background(), nil, nil, cfg, logger.NewLogger(logger.DEBUG), db)
	xcontext.SetRequestUserID(ctx, testutil.User1)

	// Deplete the physical item.
	require.NoError(t, ctx.DB().Model(&entity.Item{}).
		Where("id=?", testutil.PhysicalItem).
		Update("stock", 0).Error)

	shell := &testutil.MockSmartShell{
		DepositTotalsFunc: func(context.Context, string) (smartshell.Totals, error) {
			return smartshell.Totals{Daily: 20}, nil
		},
	}

	// A draw at the very top of the range would select the physical item if
	// it stayed in the pool. With it excluded, the remaining entries absorb
	// the full range.
	domain := newCaseDomainForTest(shell, 0.999999)

	resp, err := domain.Open(ctx, &model.OpenCaseRequest{CaseID: testutil.DailyCase})
	require.NoError(t, err)
	require.NotEqual(t, testutil.PhysicalItem, resp.Prize.ItemID)
}

func Test_caseDomain_GetList(t *testing.T) {
	db := testutil.CreateFixtureDb()
	ctx := testutil.MockContextWithUserID(db, testutil.User1)

	shell := &testutil.MockSmartShell{
		DepositTotalsFunc: func(context.Context, string) (smartshell.Totals, error) {
			return smartshell.Totals{Daily: 20, Monthly: 20}, nil
		},
	}
	domain := newCaseDomainForTest(shell, 0)

	resp, err := domain.GetList(ctx, &model.GetListCaseRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Cases, 3)

	byID := map[string]model.Case{}
	for _, c := range resp.Cases {
		byID[c.ID] = c
	}

	require.True(t, byID[testutil.DailyCase].Eligible)
	require.Len(t, byID[testutil.DailyCase].Items, 3)

	// Monthly progress of 20 is below its threshold of 100.
	require.False(t, byID[testutil.MonthlyCase].Eligible)
	require.Equal(t, 20.0, byID[testutil.MonthlyCase].Progress)
}
