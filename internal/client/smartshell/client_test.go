package smartshell

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/caseclub-lab/backend/config"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type fakeShell struct {
	authCount int64
	expiresIn int

	payments []map[string]any
	balance  map[string]any

	bonusValues []float64
}

func (f *fakeShell) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/service", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		atomic.AddInt64(&f.authCount, 1)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "club-login", body["login"])

		writeJSON(w, map[string]any{
			"token":      fmt.Sprintf("token-%d", atomic.LoadInt64(&f.authCount)),
			"expires_in": f.expiresIn,
		})
	})

	mux.HandleFunc("/users/u1/payments", func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		require.Equal(t, "1", r.URL.Query().Get("page"))
		writeJSON(w, map[string]any{"payments": f.payments})
	})

	mux.HandleFunc("/users/u1/balance", func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		writeJSON(w, f.balance)
	})

	mux.HandleFunc("/users/u1/bonus", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		requireBearer(t, r)

		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.bonusValues = append(f.bonusValues, body["value"])
		writeJSON(w, map[string]any{"ok": true})
	})

	return mux
}

func requireBearer(t *testing.T, r *http.Request) {
	require.Contains(t, r.Header.Get("Authorization"), "Bearer token-")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newTestClient(baseURL string) *defaultClient {
	loc, err := time.LoadLocation("Europe/Riga")
	if err != nil {
		panic(err)
	}

	return NewClient(config.SmartShellConfigs{
		BaseURL:           baseURL,
		Login:             "club-login",
		Password:          "club-password",
		PaymentsPageSize:  200,
		CallTimeout:       5 * time.Second,
		HeavyCallTimeout:  5 * time.Second,
		TokenSafetyMargin: time.Minute,
	}, loc)
}

func Test_defaultClient_CoalescedAuthentication(t *testing.T) {
	shell := &fakeShell{
		expiresIn: 3600,
		balance:   map[string]any{"deposit": 1.0, "bonus": 2.0},
	}
	server := httptest.NewServer(shell.handler(t))
	defer server.Close()

	client := newTestClient(server.URL)

	eg := errgroup.Group{}
	for i := 0; i < 10; i++ {
		eg.Go(func() error {
			_, err := client.Balance(context.Background(), "u1")
			return err
		})
	}
	require.NoError(t, eg.Wait())

	// Ten concurrent callers share one login.
	require.Equal(t, int64(1), atomic.LoadInt64(&shell.authCount))

	// The cached token also serves later calls.
	_, err := client.Balance(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, int64(1), atomic.LoadInt64(&shell.authCount))
}

func Test_defaultClient_TokenRefreshWithinSafetyMargin(t *testing.T) {
	// The token expires inside the safety margin, so every call refreshes.
	shell := &fakeShell{
		expiresIn: 30,
		balance:   map[string]any{"deposit": 1.0, "bonus": 2.0},
	}
	server := httptest.NewServer(shell.handler(t))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Balance(context.Background(), "u1")
	require.NoError(t, err)
	_, err = client.Balance(context.Background(), "u1")
	require.NoError(t, err)

	require.Equal(t, int64(2), atomic.LoadInt64(&shell.authCount))
}

func Test_defaultClient_DepositTotals(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Riga")
	require.NoError(t, err)

	now := time.Now().In(loc)
	today := now.Format("2006-01-02")
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, loc)
	lastMonth := firstOfMonth.AddDate(0, -1, 0)

	shell := &fakeShell{
		expiresIn: 3600,
		payments: []map[string]any{
			// Localized title, counts today.
			{"title": "Пополнение счета", "amount": 10.0, "created_at": today + "T10:00:00Z"},

			// Item type flag instead of a title, dotted date, counts this
			// month.
			{
				"name":  "Invoice 42",
				"sum":   20.0,
				"date":  firstOfMonth.Format("02.01.2006 15:04"),
				"items": []map[string]any{{"type": "topup"}},
			},

			// Refund of a deposit, excluded.
			{"title": "Deposit", "amount": 15.0, "is_refunded": true, "created_at": today},

			// Negative entry, excluded.
			{"title": "Deposit correction", "amount": -5.0, "created_at": today},

			// Not a deposit at all.
			{"title": "Pizza and cola", "amount": 8.0, "created_at": today},

			// Deposit of the previous month, excluded from both windows.
			{"title": "deposit", "amount": 50.0, "created_at": lastMonth.Format("2006-01-02")},

			// Unparseable date, skipped.
			{"title": "deposit", "amount": 30.0, "created_at": "soon"},
		},
	}
	server := httptest.NewServer(shell.handler(t))
	defer server.Close()

	client := newTestClient(server.URL)

	totals, err := client.DepositTotals(context.Background(), "u1")
	require.NoError(t, err)

	expectedDaily := 10.0
	if now.Day() == 1 {
		// The month-start entry falls on today.
		expectedDaily += 20
	}
	require.Equal(t, expectedDaily, totals.Daily)
	require.Equal(t, 30.0, totals.Monthly)
}

func Test_defaultClient_DepositTotals_RawArrayBody(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Riga")
	require.NoError(t, err)
	today := time.Now().In(loc).Format("2006-01-02")

	// Some upstream versions answer with a bare array.
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/service", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"token": "token-1", "expires_in": 3600})
	})
	mux.HandleFunc("/users/u1/payments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{"title": "top-up", "amount": 7.0, "created_at": today},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL)

	totals, err := client.DepositTotals(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 7.0, totals.Daily)
	require.Equal(t, 7.0, totals.Monthly)
}

func Test_defaultClient_CreditBonus(t *testing.T) {
	shell := &fakeShell{
		expiresIn: 3600,
		balance:   map[string]any{"deposit": 12.0, "bonus": 2.5},
	}
	server := httptest.NewServer(shell.handler(t))
	defer server.Close()

	client := newTestClient(server.URL)

	newBonus, err := client.CreditBonus(context.Background(), "u1", 5)
	require.NoError(t, err)
	require.Equal(t, 7.5, newBonus)
	require.Equal(t, []float64{7.5}, shell.bonusValues)
}
