package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/caseclub-lab/backend/internal/domain/livefeed"
	"github.com/caseclub-lab/backend/internal/middleware"
	"github.com/caseclub-lab/backend/pkg/router"
	"github.com/caseclub-lab/backend/pkg/ws"
	"github.com/caseclub-lab/backend/pkg/xredis"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.migrateDB()
	s.loadSmartShell()
	s.loadLiveFeed()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.configs.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on port: %s", s.configs.ApiServer.Port)
	if err := httpServer.ListenAndServe(); err != nil {
		panic(err)
	}
	s.logger.Infof("Server stopped")
	return nil
}

func (s *srv) loadLiveFeed() {
	s.hub = ws.NewHub()
	go s.hub.Run()

	if addr := s.configs.Redis.Addr; addr != "" {
		redisClient, err := xredis.NewClient(context.Background(), addr)
		if err != nil {
			panic(err)
		}
		s.redisClient = redisClient
	}

	feed := livefeed.New(s.hub, s.redisClient, s.logger)
	go feed.Run(context.Background())
	s.feed = feed
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.Before(middleware.AllowCors)
	s.router.Before(middleware.WithAuth)
	s.router.AddCloser(middleware.Logger())

	// These following APIs require authentication.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate)
	{
		// Case API
		router.GET(authRouter, "/getCaseEligibility", s.caseDomain.GetEligibility)
		router.POST(authRouter, "/openCase", s.caseDomain.Open)

		// Inventory API
		router.GET(authRouter, "/getInventory", s.inventoryDomain.GetList)
		router.POST(authRouter, "/claimInventory", s.inventoryDomain.Claim)
		router.POST(authRouter, "/sellInventory", s.inventoryDomain.Sell)

		// Spin API
		router.GET(authRouter, "/getSpinHistory", s.spinDomain.GetHistory)

		// User API
		router.GET(authRouter, "/getUser", s.userDomain.GetUser)
		router.POST(authRouter, "/updateTradeLink", s.userDomain.UpdateTradeLink)

		// Admin API
		router.GET(authRouter, "/getListRequest", s.requestDomain.GetList)
		router.POST(authRouter, "/resolveRequest", s.requestDomain.Resolve)
	}

	// Public API.
	router.GET(s.router, "/getListCase", s.caseDomain.GetList)
	router.GET(s.router, "/getRecentSpins", s.spinDomain.GetRecent)

	s.router.Raw("/ws/livefeed", func(w http.ResponseWriter, r *http.Request) {
		if err := ws.ServeClient(s.hub, livefeed.Channel, w, r); err != nil {
			s.logger.Warnf("Cannot serve live feed client: %v", err)
		}
	})
}
