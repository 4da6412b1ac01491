package entity

import "github.com/caseclub-lab/backend/pkg/enum"

type ItemType string

var (
	ItemSkin     = enum.New(ItemType("skin"))
	ItemPhysical = enum.New(ItemType("physical"))
	ItemMoney    = enum.New(ItemType("money"))
)

const UnlimitedStock = -1

type Item struct {
	Base

	Type  ItemType
	Title string
	Image string

	// PriceEUR is the display value; for money items it is also the amount
	// credited to the balance on claim.
	PriceEUR     float64
	SellPriceEUR float64

	// Stock is -1 for unlimited. It only affects draws when stock enforcement
	// is configured on.
	Stock int `gorm:"default:-1"`
}

func (i *Item) IsMoney() bool {
	return i.Type == ItemMoney
}
