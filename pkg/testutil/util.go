package testutil

import (
	"context"
	"time"

	"github.com/caseclub-lab/backend/config"
	"github.com/caseclub-lab/backend/pkg/logger"
	"github.com/caseclub-lab/backend/pkg/xcontext"

	"gorm.io/gorm"
)

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		Auth: config.AuthConfigs{
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Secret:     "secret",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "session",
		},
		Club: config.ClubConfigs{
			Timezone: "Europe/Riga",
		},
		Request: config.RequestConfigs{
			ExpireAfter:   time.Hour,
			SweepInterval: 10 * time.Minute,
		},
	}
}

// MockContext returns a request-less context over db. Pass the same db to
// several contexts to model concurrent callers of one database.
func MockContext(db *gorm.DB) xcontext.Context {
	return xcontext.NewContext(context.Background(), nil, nil, MockConfigs(), logger.NewLogger(logger.DEBUG), db)
}

func MockContextWithUserID(db *gorm.DB, userID string) xcontext.Context {
	ctx := MockContext(db)
	xcontext.SetRequestUserID(ctx, userID)
	return ctx
}
