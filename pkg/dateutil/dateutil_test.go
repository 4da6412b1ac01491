package dateutil

import (
	"testing"
	"time"

	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func Test_PeriodKey_ClubTimezone(t *testing.T) {
	club, err := time.LoadLocation("Europe/Riga")
	require.NoError(t, err)

	// Late evening UTC is already the next day in the club timezone.
	moment := time.Date(2026, 3, 31, 22, 30, 0, 0, time.UTC)

	key, err := PeriodKey(entity.CaseDaily, moment, club)
	require.NoError(t, err)
	require.Equal(t, "2026-04-01", key)

	key, err = PeriodKey(entity.CaseMonthly, moment, club)
	require.NoError(t, err)
	require.Equal(t, "2026-04", key)

	// Event cases share the monthly window.
	key, err = PeriodKey(entity.CaseEvent, moment, club)
	require.NoError(t, err)
	require.Equal(t, "2026-04", key)

	_, err = PeriodKey(entity.CaseType("weekly"), moment, club)
	require.Error(t, err)
}

func Test_PeriodKey_IndependentOfCallerTimezone(t *testing.T) {
	club, err := time.LoadLocation("Europe/Riga")
	require.NoError(t, err)

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	moment := time.Date(2026, 3, 31, 22, 30, 0, 0, time.UTC)

	utcKey, err := PeriodKey(entity.CaseDaily, moment, club)
	require.NoError(t, err)

	tokyoKey, err := PeriodKey(entity.CaseDaily, moment.In(tokyo), club)
	require.NoError(t, err)

	require.Equal(t, utcKey, tokyoKey)
}

func Test_InMonth(t *testing.T) {
	require.True(t, InMonth("2026-04-01", "2026-04"))
	require.False(t, InMonth("2026-05-01", "2026-04"))
}

func Test_ParsePaymentDate(t *testing.T) {
	club, err := time.LoadLocation("Europe/Riga")
	require.NoError(t, err)

	iso, err := ParsePaymentDate("2026-04-01T15:04:05Z", club)
	require.NoError(t, err)
	require.Equal(t, "2026-04-01", DayKey(iso, club))

	dotted, err := ParsePaymentDate("01.04.2026 15:04", club)
	require.NoError(t, err)
	require.Equal(t, "2026-04-01", DayKey(dotted, club))

	require.Equal(t, iso, dotted)

	_, err = ParsePaymentDate("april first", club)
	require.Error(t, err)

	_, err = ParsePaymentDate("bad", club)
	require.Error(t, err)
}
