package main

import (
	"github.com/caseclub-lab/backend/config"
	"github.com/caseclub-lab/backend/internal/client/smartshell"
	"github.com/caseclub-lab/backend/internal/domain"
	"github.com/caseclub-lab/backend/internal/domain/livefeed"
	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/pkg/logger"
	"github.com/caseclub-lab/backend/pkg/router"
	"github.com/caseclub-lab/backend/pkg/ws"
	"github.com/caseclub-lab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	userRepo      repository.UserRepository
	caseRepo      repository.CaseRepository
	itemRepo      repository.ItemRepository
	claimRepo     repository.CaseClaimRepository
	spinRepo      repository.SpinRepository
	inventoryRepo repository.InventoryRepository
	requestRepo   repository.RequestRepository

	caseDomain      domain.CaseDomain
	inventoryDomain domain.InventoryDomain
	requestDomain   domain.RequestDomain
	userDomain      domain.UserDomain
	spinDomain      domain.SpinDomain

	shell       smartshell.Client
	redisClient xredis.Client
	hub         *ws.Hub
	feed        livefeed.Broadcaster

	router *router.Router

	db *gorm.DB

	configs *config.Configs

	logger logger.Logger
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" || s.configs.Env == "testing" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.New(mysql.Config{
		DSN:                       s.configs.Database.ConnectionString(), // data source name
		DefaultStringSize:         256,                                   // default size for string fields
		DisableDatetimePrecision:  true,                                  // disable datetime precision, which not supported before MySQL 5.6
		DontSupportRenameIndex:    true,                                  // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
		DontSupportRenameColumn:   true,                                  // `change` when rename column, rename column not supported before MySQL 8, MariaDB
		SkipInitializeWithVersion: false,                                 // auto configure based on currently MySQL version
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.db); err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.caseRepo = repository.NewCaseRepository()
	s.itemRepo = repository.NewItemRepository()
	s.claimRepo = repository.NewCaseClaimRepository()
	s.spinRepo = repository.NewSpinRepository()
	s.inventoryRepo = repository.NewInventoryRepository()
	s.requestRepo = repository.NewRequestRepository()
}

func (s *srv) loadSmartShell() {
	s.shell = smartshell.NewClient(s.configs.SmartShell, s.configs.Club.Location())
}

func (s *srv) loadDomains() {
	s.caseDomain = domain.NewCaseDomain(
		s.caseRepo, s.itemRepo, s.claimRepo, s.spinRepo, s.inventoryRepo,
		s.userRepo, s.shell, s.feed, nil)
	s.inventoryDomain = domain.NewInventoryDomain(
		s.inventoryRepo, s.requestRepo, s.userRepo, s.shell)
	s.requestDomain = domain.NewRequestDomain(s.requestRepo, s.inventoryRepo, s.userRepo)
	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.spinDomain = domain.NewSpinDomain(s.spinRepo)
}
