package domain

import (
	"errors"

	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// ensureUser creates the local row of an externally-identified user on first
// sight. Identities come from the billing system; local rows only carry
// loyalty state.
func ensureUser(ctx xcontext.Context, userRepo repository.UserRepository, userID string) error {
	_, err := userRepo.GetByID(ctx, userID)
	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return userRepo.Create(ctx, &entity.User{Base: entity.Base{ID: userID}})
}
