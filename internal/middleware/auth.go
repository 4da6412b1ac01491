package middleware

import (
	"strings"

	"github.com/caseclub-lab/backend/pkg/errorx"
	"github.com/caseclub-lab/backend/pkg/xcontext"
)

// WithAuth resolves the Bearer token into a request user id. It never fails
// by itself so that public endpoints can serve guests; Authenticate below
// rejects guests on protected branches.
func WithAuth(ctx xcontext.Context) error {
	header := ctx.Request().Header.Get("Authorization")
	if header == "" {
		return nil
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return errorx.New(errorx.Unauthenticated, "Invalid authorization header")
	}

	accessToken, err := ctx.AccessTokenEngine().Verify(token)
	if err != nil {
		ctx.Logger().Debugf("Cannot verify access token: %v", err)
		return errorx.New(errorx.Unauthenticated, "Invalid access token")
	}

	xcontext.SetRequestUserID(ctx, accessToken.ID)
	return nil
}

func Authenticate(ctx xcontext.Context) error {
	if xcontext.GetRequestUserID(ctx) == "" {
		return errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}
	return nil
}
