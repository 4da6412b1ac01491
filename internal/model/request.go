package model

type FulfillmentRequest struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	InventoryID string `json:"inventory_id"`
	UserID      string `json:"user_id"`
	ItemTitle   string `json:"item_title"`
	Status      string `json:"status"`
	Comment     string `json:"comment,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type GetListRequestRequest struct {
	Status string `json:"status"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetListRequestResponse struct {
	Requests []FulfillmentRequest `json:"requests"`
}

type ResolveRequestRequest struct {
	RequestID string `json:"request_id"`
	Decision  string `json:"decision"`
	Comment   string `json:"comment"`
}

type ResolveRequestResponse struct {
	Status string `json:"status"`
}
