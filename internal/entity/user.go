package entity

import "github.com/caseclub-lab/backend/pkg/enum"

type GlobalRole string

var (
	RoleUser      = enum.New(GlobalRole("user"))
	RoleModerator = enum.New(GlobalRole("moderator"))
	RoleAdmin     = enum.New(GlobalRole("admin"))
	RoleOwner     = enum.New(GlobalRole("owner"))
)

// User maps an external billing identity (the id is the billing system uuid)
// to local loyalty state. Rows are created on first authenticated call and
// never deleted by this subsystem.
type User struct {
	Base

	Name string

	// TradeLink is the delivery destination for non-money prizes. Claiming a
	// physical or skin item fails while it is empty.
	TradeLink string

	Level int
	XP    int

	Role GlobalRole `gorm:"default:user"`
}
