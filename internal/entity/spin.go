package entity

// Spin is the append-only history of every successful draw. Rows are never
// mutated or deleted; they feed the live feed and the win-history view. Prize
// holds a snapshot of the awarded item so history survives catalog edits.
type Spin struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	CaseID string
	Case   Case `gorm:"foreignKey:CaseID"`

	ItemID    string
	PeriodKey string

	Prize Map
}

// PrizeSnapshot is the denormalized prize view stored on a spin and pushed to
// the live feed.
type PrizeSnapshot struct {
	Title  string  `json:"title" structs:"title"`
	Amount float64 `json:"amount" structs:"amount"`
	Rarity string  `json:"rarity" structs:"rarity"`
	Image  string  `json:"image" structs:"image"`
}
