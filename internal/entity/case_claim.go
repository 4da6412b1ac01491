package entity

// CaseClaim marks that a user opened a case in a claim period. The composite
// unique index is the load-bearing constraint that makes a draw exactly-once:
// concurrent opens of the same period race on this insert and the database
// rejects all but one.
type CaseClaim struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_case_claims_user_case_period"`
	User   User   `gorm:"foreignKey:UserID"`

	CaseID string `gorm:"uniqueIndex:idx_case_claims_user_case_period"`
	Case   Case   `gorm:"foreignKey:CaseID"`

	// PeriodKey is YYYY-MM-DD for daily cases and YYYY-MM for monthly and
	// event cases, computed in the club timezone.
	PeriodKey string `gorm:"uniqueIndex:idx_case_claims_user_case_period"`
}
