package testutil

import (
	"time"

	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Fixture ids used across domain tests.
const (
	User1          = "user1" // has a trade link
	User2          = "user2" // no trade link
	Moderator      = "moderator"
	Admin          = "admin"
	DailyCase      = "daily_case"
	MonthlyCase    = "monthly_case"
	EventCase      = "event_case"
	MoneyItem      = "money_item"
	SkinItem       = "skin_item"
	PhysicalItem   = "physical_item"
	MoneyPrize     = 5.0
	DailyThreshold = 10.0
)

func CreateFixtureDb() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// A sqlite memory database lives per connection. One connection keeps
	// every context of a test on the same database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	insertUsers(db)
	insertItems(db)
	insertCases(db)

	return db
}

func insertUsers(db *gorm.DB) {
	ctx := MockContext(db)
	userRepo := repository.NewUserRepository()

	users := []entity.User{
		{
			Base:      entity.Base{ID: User1},
			Name:      "First User",
			TradeLink: "https://steamcommunity.com/tradeoffer/new/?partner=1",
		},
		{
			Base: entity.Base{ID: User2},
			Name: "Second User",
		},
		{
			Base: entity.Base{ID: Moderator},
			Name: "Moderator",
			Role: entity.RoleModerator,
		},
		{
			Base: entity.Base{ID: Admin},
			Name: "Admin",
			Role: entity.RoleAdmin,
		},
	}

	for i := range users {
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			panic(err)
		}
	}
}

func insertItems(db *gorm.DB) {
	ctx := MockContext(db)
	itemRepo := repository.NewItemRepository()

	items := []entity.Item{
		{
			Base:     entity.Base{ID: MoneyItem},
			Type:     entity.ItemMoney,
			Title:    "5 EUR bonus",
			PriceEUR: MoneyPrize,
		},
		{
			Base:         entity.Base{ID: SkinItem},
			Type:         entity.ItemSkin,
			Title:        "AK-47 Redline",
			PriceEUR:     25,
			SellPriceEUR: 18,
		},
		{
			Base:         entity.Base{ID: PhysicalItem},
			Type:         entity.ItemPhysical,
			Title:        "Gaming Mouse",
			PriceEUR:     40,
			SellPriceEUR: 30,
			Stock:        2,
		},
	}

	for i := range items {
		if err := itemRepo.Create(ctx, &items[i]); err != nil {
			panic(err)
		}
	}
}

func insertCases(db *gorm.DB) {
	ctx := MockContext(db)
	caseRepo := repository.NewCaseRepository()

	eventEnd := time.Now().Add(24 * time.Hour)
	cases := []entity.Case{
		{
			Base:      entity.Base{ID: DailyCase},
			Name:      "Daily Case",
			Type:      entity.CaseDaily,
			Threshold: DailyThreshold,
			IsActive:  true,
		},
		{
			Base:      entity.Base{ID: MonthlyCase},
			Name:      "Monthly Case",
			Type:      entity.CaseMonthly,
			Threshold: 100,
			IsActive:  true,
		},
		{
			Base:        entity.Base{ID: EventCase},
			Name:        "Summer Event Case",
			Type:        entity.CaseEvent,
			Threshold:   50,
			IsActive:    true,
			EventEndsAt: &eventEnd,
		},
	}

	for i := range cases {
		if err := caseRepo.Create(ctx, &cases[i]); err != nil {
			panic(err)
		}
	}

	pool := []entity.CaseItem{
		{Base: entity.Base{ID: "daily_money"}, CaseID: DailyCase, ItemID: MoneyItem, Weight: 70, Rarity: "common"},
		{Base: entity.Base{ID: "daily_skin"}, CaseID: DailyCase, ItemID: SkinItem, Weight: 25, Rarity: "rare"},
		{Base: entity.Base{ID: "daily_physical"}, CaseID: DailyCase, ItemID: PhysicalItem, Weight: 5, Rarity: "legendary"},

		{Base: entity.Base{ID: "monthly_skin"}, CaseID: MonthlyCase, ItemID: SkinItem, Weight: 80, Rarity: "rare"},
		{Base: entity.Base{ID: "monthly_physical"}, CaseID: MonthlyCase, ItemID: PhysicalItem, Weight: 20, Rarity: "legendary"},

		{Base: entity.Base{ID: "event_money"}, CaseID: EventCase, ItemID: MoneyItem, Weight: 50, Rarity: "common"},
		{Base: entity.Base{ID: "event_skin"}, CaseID: EventCase, ItemID: SkinItem, Weight: 50, Rarity: "rare"},
	}

	for i := range pool {
		if err := caseRepo.CreateItem(ctx, &pool[i]); err != nil {
			panic(err)
		}
	}
}
