package domain

import (
	"time"

	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/model"
)

func convertSpin(spin *entity.Spin, userName string) model.Spin {
	return model.Spin{
		ID:        spin.ID,
		CaseID:    spin.CaseID,
		CaseName:  spin.Case.Name,
		UserName:  userName,
		Title:     mapString(spin.Prize, "title"),
		Amount:    mapNumber(spin.Prize, "amount"),
		Rarity:    mapString(spin.Prize, "rarity"),
		Image:     mapString(spin.Prize, "image"),
		CreatedAt: spin.CreatedAt.Format(time.RFC3339),
	}
}

func convertInventoryEntry(entry *entity.InventoryEntry) model.InventoryEntry {
	return model.InventoryEntry{
		ID:        entry.ID,
		Title:     entry.Title,
		Image:     entry.Image,
		Rarity:    entry.Rarity,
		ItemType:  string(entry.ItemType),
		Amount:    entry.Amount,
		SellPrice: entry.SellPrice,
		Status:    string(entry.Status),
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
}

func convertRequest(req *entity.FulfillmentRequest) model.FulfillmentRequest {
	return model.FulfillmentRequest{
		ID:          req.ID,
		Code:        req.Code,
		InventoryID: req.InventoryID,
		UserID:      req.UserID,
		ItemTitle:   req.Inventory.Title,
		Status:      string(req.Status),
		Comment:     req.Comment,
		CreatedAt:   req.CreatedAt.Format(time.RFC3339),
	}
}

func convertUser(u *entity.User) model.User {
	return model.User{
		ID:        u.ID,
		Name:      u.Name,
		TradeLink: u.TradeLink,
		Level:     u.Level,
		XP:        u.XP,
		Role:      string(u.Role),
	}
}

func mapString(m entity.Map, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func mapNumber(m entity.Map, key string) float64 {
	switch t := m[key].(type) {
	case float64:
		return t
	case int:
		return float64(t)
	}
	return 0
}
