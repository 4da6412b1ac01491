// Package smartshell talks to the external billing system. All tolerance for
// upstream data inconsistency (alternate field names, mixed date formats,
// localized titles) lives here; nothing of it leaks into the domains.
package smartshell

import "context"

type Totals struct {
	Daily   float64
	Monthly float64
}

type Balance struct {
	Deposit float64
	Bonus   float64
}

type Client interface {
	// DepositTotals aggregates the user's genuine top-up payments into
	// club-local "today" and "this month" sums.
	DepositTotals(ctx context.Context, userUUID string) (Totals, error)

	Balance(ctx context.Context, userUUID string) (Balance, error)

	// CreditBonus adds amount to the user's bonus balance and returns the new
	// bonus value.
	CreditBonus(ctx context.Context, userUUID string, amount float64) (float64, error)
}
