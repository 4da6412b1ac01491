package main

import (
	"context"

	"github.com/caseclub-lab/backend/internal/domain/cron"
	"github.com/caseclub-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.migrateDB()
	s.loadRepos()

	ctx := xcontext.NewContext(context.Background(), nil, nil, *s.configs, s.logger, s.db)

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Start(ctx,
		cron.NewExpireRequestsCronJob(
			s.requestRepo, s.inventoryRepo, s.configs.Request.SweepInterval),
	)

	return nil
}
