package dateutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/caseclub-lab/backend/internal/entity"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// DayKey returns the club-local calendar day key (YYYY-MM-DD).
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// MonthKey returns the club-local calendar month key (YYYY-MM).
func MonthKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(monthLayout)
}

// PeriodKey returns the claim period key of a case type at the given moment.
// The eligibility gate and the outcome recorder must both use this function,
// otherwise they can disagree about the current period.
func PeriodKey(caseType entity.CaseType, t time.Time, loc *time.Location) (string, error) {
	switch caseType {
	case entity.CaseDaily:
		return DayKey(t, loc), nil

	case entity.CaseMonthly, entity.CaseEvent:
		// Event cases reuse the monthly claim window. Their own expiry is
		// checked separately by the eligibility gate.
		return MonthKey(t, loc), nil

	default:
		return "", fmt.Errorf("case type must be daily, monthly, or event, but got %s", caseType)
	}
}

// InMonth reports whether the day key belongs to the month key.
func InMonth(dayKey, monthKey string) bool {
	return strings.HasPrefix(dayKey, monthKey)
}

// ParsePaymentDate normalizes a billing transaction date string. The upstream
// mixes two formats: ISO-like "YYYY-MM-DD..." and "DD.MM.YYYY...". The time of
// day is irrelevant for period bucketing and is dropped. The result is
// anchored to the club timezone.
func ParsePaymentDate(s string, loc *time.Location) (time.Time, error) {
	if len(s) < 10 {
		return time.Time{}, fmt.Errorf("date string too short: %q", s)
	}

	head := s[:10]
	switch {
	case head[4] == '-':
		return time.ParseInLocation(dayLayout, head, loc)
	case head[2] == '.':
		return time.ParseInLocation("02.01.2006", head, loc)
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}
