package common

import (
	"testing"

	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_GlobalRoleVerifier(t *testing.T) {
	db := testutil.CreateFixtureDb()
	verifier := NewGlobalRoleVerifier(repository.NewUserRepository())

	// A regular user passes the user bar only.
	ctx := testutil.MockContextWithUserID(db, testutil.User1)
	require.NoError(t, verifier.Verify(ctx, entity.RoleUser))
	require.Error(t, verifier.Verify(ctx, entity.RoleModerator))
	require.Error(t, verifier.Verify(ctx, entity.RoleAdmin))

	// A moderator passes up to the moderator bar.
	ctx = testutil.MockContextWithUserID(db, testutil.Moderator)
	require.NoError(t, verifier.Verify(ctx, entity.RoleUser))
	require.NoError(t, verifier.Verify(ctx, entity.RoleModerator))
	require.Error(t, verifier.Verify(ctx, entity.RoleAdmin))

	// An admin outranks a moderator.
	ctx = testutil.MockContextWithUserID(db, testutil.Admin)
	require.NoError(t, verifier.Verify(ctx, entity.RoleModerator))
	require.NoError(t, verifier.Verify(ctx, entity.RoleAdmin))
	require.Error(t, verifier.Verify(ctx, entity.RoleOwner))

	// Guests and unknown users fail every bar.
	ctx = testutil.MockContextWithUserID(db, "nobody")
	require.Error(t, verifier.Verify(ctx, entity.RoleUser))
}
