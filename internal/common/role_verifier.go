package common

import (
	"fmt"

	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/pkg/xcontext"
)

// Role ordinals: a role grants access when its ordinal is at least the
// required one.
var roleOrdinal = map[entity.GlobalRole]int{
	entity.RoleUser:      0,
	entity.RoleModerator: 1,
	entity.RoleAdmin:     2,
	entity.RoleOwner:     3,
}

type GlobalRoleVerifier struct {
	userRepo repository.UserRepository
}

func NewGlobalRoleVerifier(userRepo repository.UserRepository) *GlobalRoleVerifier {
	return &GlobalRoleVerifier{userRepo: userRepo}
}

func (verifier *GlobalRoleVerifier) Verify(ctx xcontext.Context, required entity.GlobalRole) error {
	userID := xcontext.GetRequestUserID(ctx)
	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user is not valid")
	}

	if roleOrdinal[u.Role] < roleOrdinal[required] {
		return fmt.Errorf("user role does not have permission")
	}

	return nil
}
