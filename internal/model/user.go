package model

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TradeLink string `json:"trade_link"`
	Level     int    `json:"level"`
	XP        int    `json:"xp"`
	Role      string `json:"role"`
}

type GetUserRequest struct{}

type GetUserResponse struct {
	User User `json:"user"`
}

type UpdateTradeLinkRequest struct {
	TradeLink string `json:"trade_link"`
}

type UpdateTradeLinkResponse struct{}
