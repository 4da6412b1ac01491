package testutil

import (
	"context"
	"sync"

	"github.com/caseclub-lab/backend/internal/client/smartshell"
)

// MockSmartShell implements smartshell.Client with overridable functions.
// The zero value reports no deposits and accepts every credit.
type MockSmartShell struct {
	DepositTotalsFunc func(ctx context.Context, userUUID string) (smartshell.Totals, error)
	BalanceFunc       func(ctx context.Context, userUUID string) (smartshell.Balance, error)
	CreditBonusFunc   func(ctx context.Context, userUUID string, amount float64) (float64, error)

	mutex   sync.Mutex
	credits []float64
}

func (m *MockSmartShell) DepositTotals(ctx context.Context, userUUID string) (smartshell.Totals, error) {
	if m.DepositTotalsFunc != nil {
		return m.DepositTotalsFunc(ctx, userUUID)
	}
	return smartshell.Totals{}, nil
}

func (m *MockSmartShell) Balance(ctx context.Context, userUUID string) (smartshell.Balance, error) {
	if m.BalanceFunc != nil {
		return m.BalanceFunc(ctx, userUUID)
	}
	return smartshell.Balance{}, nil
}

func (m *MockSmartShell) CreditBonus(ctx context.Context, userUUID string, amount float64) (float64, error) {
	if m.CreditBonusFunc != nil {
		return m.CreditBonusFunc(ctx, userUUID, amount)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.credits = append(m.credits, amount)

	total := 0.0
	for _, c := range m.credits {
		total += c
	}
	return total, nil
}

// Credits returns every amount passed to the default CreditBonus.
func (m *MockSmartShell) Credits() []float64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]float64{}, m.credits...)
}
