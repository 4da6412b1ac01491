package model

type Spin struct {
	ID        string  `json:"id"`
	CaseID    string  `json:"case_id"`
	CaseName  string  `json:"case_name,omitempty"`
	UserName  string  `json:"user_name,omitempty"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Rarity    string  `json:"rarity"`
	Image     string  `json:"image"`
	CreatedAt string  `json:"created_at"`
}

type GetSpinHistoryRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetSpinHistoryResponse struct {
	Spins []Spin `json:"spins"`
}

type GetRecentSpinsRequest struct {
	Limit int `json:"limit"`
}

type GetRecentSpinsResponse struct {
	Spins []Spin `json:"spins"`
}
