package entity

import (
	"time"

	"github.com/caseclub-lab/backend/pkg/enum"
)

type CaseType string

var (
	CaseDaily   = enum.New(CaseType("daily"))
	CaseMonthly = enum.New(CaseType("monthly"))
	CaseEvent   = enum.New(CaseType("event"))
)

// Case is a prize pool gated by a deposit threshold. Cases are soft-deactivated
// rather than deleted while spin history references them.
type Case struct {
	Base

	Name      string
	Type      CaseType
	Threshold float64
	IsActive  bool

	// EventEndsAt closes an event case independently of its claim window.
	// Nil for daily and monthly cases.
	EventEndsAt *time.Time
}

// CaseItem is one entry of a case's prize pool. Weights are relative draw
// probabilities; the admin editor keeps the effective percentages of a case
// summing to 100, the draw itself only requires every weight to be positive.
type CaseItem struct {
	Base

	CaseID string `gorm:"index"`
	Case   Case   `gorm:"foreignKey:CaseID"`

	ItemID string
	Item   Item `gorm:"foreignKey:ItemID"`

	Weight float64
	Rarity string
}
