package entity

import "github.com/caseclub-lab/backend/pkg/enum"

type InventoryStatus string

var (
	InventoryAvailable  = enum.New(InventoryStatus("available"))
	InventoryProcessing = enum.New(InventoryStatus("processing"))
	InventoryReceived   = enum.New(InventoryStatus("received"))
	InventorySold       = enum.New(InventoryStatus("sold"))
	InventoryReturned   = enum.New(InventoryStatus("returned"))
)

// TerminalInventoryStatuses are the states an entry never leaves.
var TerminalInventoryStatuses = []InventoryStatus{
	InventoryReceived, InventorySold, InventoryReturned,
}

// InventoryEntry is one awarded prize instance. It snapshots the item fields
// at award time and is retained as history once terminal. Status transitions
// are guarded conditional updates, never read-then-write.
type InventoryEntry struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	ItemID string
	Item   Item `gorm:"foreignKey:ItemID"`

	Title    string
	Image    string
	Rarity   string
	ItemType ItemType

	// Amount is credited on claim of money items, SellPrice on sell of
	// everything else.
	Amount    float64
	SellPrice float64

	Status InventoryStatus `gorm:"index"`
}
