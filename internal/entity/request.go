package entity

import (
	"time"

	"github.com/caseclub-lab/backend/pkg/enum"
)

type RequestStatus string

var (
	RequestPending  = enum.New(RequestStatus("pending"))
	RequestApproved = enum.New(RequestStatus("approved"))
	RequestDenied   = enum.New(RequestStatus("denied"))
	RequestExpired  = enum.New(RequestStatus("expired"))
)

// FulfillmentRequest is the admin-reviewed handoff of a claimed non-money
// prize. An inventory entry in processing has exactly one pending request;
// resolving it is terminal.
type FulfillmentRequest struct {
	Base

	// Code is the human-facing id (REQ-XXXXXX) shown to admins and users.
	Code string `gorm:"unique"`

	InventoryID string         `gorm:"index"`
	Inventory   InventoryEntry `gorm:"foreignKey:InventoryID"`

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Status     RequestStatus `gorm:"index"`
	Comment    string
	ReviewerID string
	ReviewedAt time.Time
}
