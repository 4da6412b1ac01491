package model

type CaseItem struct {
	ID     string  `json:"id"`
	ItemID string  `json:"item_id"`
	Title  string  `json:"title"`
	Image  string  `json:"image"`
	Rarity string  `json:"rarity"`
	Weight float64 `json:"weight"`
}

type Case struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Threshold   float64    `json:"threshold"`
	EventEndsAt string     `json:"event_ends_at,omitempty"`
	Items       []CaseItem `json:"items"`

	Eligible bool    `json:"eligible"`
	Progress float64 `json:"progress"`
	Required float64 `json:"required"`
}

type GetListCaseRequest struct{}

type GetListCaseResponse struct {
	Cases []Case `json:"cases"`
}

type GetCaseEligibilityRequest struct {
	CaseID string `json:"case_id"`
}

type GetCaseEligibilityResponse struct {
	Eligible bool    `json:"eligible"`
	Progress float64 `json:"progress"`
	Required float64 `json:"required"`
}

type OpenCaseRequest struct {
	CaseID string `json:"case_id"`
}

type OpenCaseResponse struct {
	SpinID string `json:"spin_id"`
	Prize  Prize  `json:"prize"`
}

type Prize struct {
	InventoryID string  `json:"inventory_id"`
	ItemID      string  `json:"item_id"`
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Rarity      string  `json:"rarity"`
	Image       string  `json:"image"`
}
