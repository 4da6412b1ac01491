package smartshell

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/caseclub-lab/backend/config"
	"github.com/caseclub-lab/backend/pkg/api"
	"github.com/caseclub-lab/backend/pkg/dateutil"
)

type refreshState struct {
	done chan struct{}
	err  error
}

type defaultClient struct {
	cfg config.SmartShellConfigs
	loc *time.Location

	caller api.Generator
	// heavyCaller serves balance and payment-history reads, which upstream
	// answers slowly.
	heavyCaller api.Generator

	mu             sync.Mutex
	token          string
	tokenExpiresAt time.Time
	refresh        *refreshState
}

func NewClient(cfg config.SmartShellConfigs, loc *time.Location) *defaultClient {
	return &defaultClient{
		cfg:         cfg,
		loc:         loc,
		caller:      api.NewGenerator(cfg.BaseURL, cfg.CallTimeout),
		heavyCaller: api.NewGenerator(cfg.BaseURL, cfg.HeavyCallTimeout),
	}
}

// accessToken returns the cached service token, refreshing it when it is
// within the safety margin of expiry. Concurrent callers share a single
// in-flight refresh instead of each logging in again.
func (c *defaultClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	for {
		if c.token != "" && time.Until(c.tokenExpiresAt) > c.cfg.TokenSafetyMargin {
			token := c.token
			c.mu.Unlock()
			return token, nil
		}

		if c.refresh == nil {
			break
		}

		inflight := c.refresh
		c.mu.Unlock()

		select {
		case <-inflight.done:
		case <-ctx.Done():
			return "", ctx.Err()
		}

		if inflight.err != nil {
			return "", inflight.err
		}
		c.mu.Lock()
	}

	inflight := &refreshState{done: make(chan struct{})}
	c.refresh = inflight
	c.mu.Unlock()

	token, expiresIn, err := c.authenticate(ctx)

	c.mu.Lock()
	if err == nil {
		c.token = token
		c.tokenExpiresAt = time.Now().Add(expiresIn)
	}
	c.refresh = nil
	c.mu.Unlock()

	inflight.err = err
	close(inflight.done)

	return token, err
}

func (c *defaultClient) authenticate(ctx context.Context) (string, time.Duration, error) {
	resp, err := c.caller.New("/auth/service").
		Body(api.JSON{"login": c.cfg.Login, "password": c.cfg.Password}).
		POST(ctx)
	if err != nil {
		return "", 0, err
	}

	if resp.Code != 200 {
		return "", 0, fmt.Errorf("authenticate got status %d", resp.Code)
	}

	body, err := resp.JSON()
	if err != nil {
		return "", 0, err
	}

	token, err := body.GetString("token")
	if err != nil {
		return "", 0, err
	}

	expiresIn, err := body.GetNumber("expires_in")
	if err != nil {
		return "", 0, err
	}

	return token, time.Duration(expiresIn) * time.Second, nil
}

func (c *defaultClient) DepositTotals(ctx context.Context, userUUID string) (Totals, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return Totals{}, err
	}

	resp, err := c.heavyCaller.New("/users/%s/payments", userUUID).
		Header("Authorization", "Bearer "+token).
		Query(api.Parameter{
			"page":      "1",
			"page_size": strconv.Itoa(c.cfg.PaymentsPageSize),
		}).
		GET(ctx)
	if err != nil {
		return Totals{}, err
	}

	if resp.Code != 200 {
		return Totals{}, fmt.Errorf("list payments got status %d", resp.Code)
	}

	payments, err := paymentList(resp)
	if err != nil {
		return Totals{}, err
	}

	now := time.Now()
	dayKey := dateutil.DayKey(now, c.loc)
	monthKey := dateutil.MonthKey(now, c.loc)

	var totals Totals
	for _, payment := range payments {
		amount, ok := depositAmount(payment)
		if !ok {
			continue
		}

		paidAt, err := dateutil.ParsePaymentDate(paymentDate(payment), c.loc)
		if err != nil {
			// Unparseable upstream dates are skipped, not fatal.
			continue
		}

		paidKey := dateutil.DayKey(paidAt, c.loc)
		if paidKey == dayKey {
			totals.Daily += amount
		}
		if dateutil.InMonth(paidKey, monthKey) {
			totals.Monthly += amount
		}
	}

	return totals, nil
}

func (c *defaultClient) Balance(ctx context.Context, userUUID string) (Balance, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return Balance{}, err
	}

	resp, err := c.heavyCaller.New("/users/%s/balance", userUUID).
		Header("Authorization", "Bearer "+token).
		GET(ctx)
	if err != nil {
		return Balance{}, err
	}

	if resp.Code != 200 {
		return Balance{}, fmt.Errorf("get balance got status %d", resp.Code)
	}

	body, err := resp.JSON()
	if err != nil {
		return Balance{}, err
	}

	deposit, err := body.GetNumber("deposit")
	if err != nil {
		return Balance{}, err
	}

	bonus, err := body.GetNumber("bonus")
	if err != nil {
		return Balance{}, err
	}

	return Balance{Deposit: deposit, Bonus: bonus}, nil
}

func (c *defaultClient) CreditBonus(ctx context.Context, userUUID string, amount float64) (float64, error) {
	balance, err := c.Balance(ctx, userUUID)
	if err != nil {
		return 0, err
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return 0, err
	}

	newBonus := balance.Bonus + amount
	resp, err := c.heavyCaller.New("/users/%s/bonus", userUUID).
		Header("Authorization", "Bearer "+token).
		Body(api.JSON{"value": newBonus}).
		PUT(ctx)
	if err != nil {
		return 0, err
	}

	if resp.Code != 200 {
		return 0, fmt.Errorf("set bonus got status %d", resp.Code)
	}

	return newBonus, nil
}
