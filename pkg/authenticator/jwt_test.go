package authenticator_test

import (
	"testing"
	"time"

	"github.com/caseclub-lab/backend/config"
	"github.com/caseclub-lab/backend/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type tokenObj struct {
	ID string `json:"id"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[tokenObj](config.TokenConfigs{
		Secret:     "secret",
		Expiration: time.Minute,
	})

	token, err := engine.Generate("user1", tokenObj{ID: "user1"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user1", obj.ID)
}

func TestJWTExpired(t *testing.T) {
	engine := authenticator.NewTokenEngine[tokenObj](config.TokenConfigs{
		Secret:     "secret",
		Expiration: -time.Minute,
	})

	token, err := engine.Generate("user1", tokenObj{ID: "user1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	engine := authenticator.NewTokenEngine[tokenObj](config.TokenConfigs{
		Secret:     "secret",
		Expiration: time.Minute,
	})

	otherEngine := authenticator.NewTokenEngine[tokenObj](config.TokenConfigs{
		Secret:     "another-secret",
		Expiration: time.Minute,
	})

	token, err := engine.Generate("user1", tokenObj{ID: "user1"})
	require.NoError(t, err)

	_, err = otherEngine.Verify(token)
	require.Error(t, err)
}
