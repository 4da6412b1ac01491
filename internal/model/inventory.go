package model

type InventoryEntry struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Image     string  `json:"image"`
	Rarity    string  `json:"rarity"`
	ItemType  string  `json:"item_type"`
	Amount    float64 `json:"amount"`
	SellPrice float64 `json:"sell_price"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

type GetInventoryRequest struct{}

type GetInventoryResponse struct {
	Entries []InventoryEntry `json:"entries"`
}

type ClaimInventoryRequest struct {
	InventoryID string `json:"inventory_id"`
}

type ClaimInventoryResponse struct {
	Status string `json:"status"`

	// RequestCode is set when an admin-reviewed fulfillment request was
	// created for the claim.
	RequestCode string `json:"request_code,omitempty"`

	// NewBalance is set when a money prize was credited synchronously.
	NewBalance float64 `json:"new_balance,omitempty"`
}

type SellInventoryRequest struct {
	InventoryID string `json:"inventory_id"`
}

type SellInventoryResponse struct {
	SoldFor    float64 `json:"sold_for"`
	NewBalance float64 `json:"new_balance"`
}
