package models

import (
	"time"

	"gorm.io/gorm"
)

// TycoonProfile tracks gamified progression for each user (denormalized for performance)
type TycoonProfile struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to the core CekKirim account

	// Core progression
	XP            int64  `json:"xp" gorm:"default:0"`
	Level         int    `json:"level" gorm:"default:1"`
	WarehouseName string `json:"warehouse_name"` // cosmetic label from the level ladder

	// Activity counters
	MissionsClaimed int64 `json:"missions_claimed" gorm:"default:0"`

	// Milestones
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// LevelDefinition is one rung of the static warehouse ladder.
type LevelDefinition struct {
	Level int    `json:"level"`
	MinXP int64  `json:"min_xp"`
	Name  string `json:"name"`
	Perk  string `json:"perk"`
}

// WarehouseLevels is the full ladder, ascending by MinXP. Level is derived
// from XP as the highest rung with MinXP <= XP. The names and perks are
// product copy — do not edit without the growth team.
var WarehouseLevels = []LevelDefinition{
	{Level: 1, MinXP: 0, Name: "Garasi Rumah", Perk: "Starter Pack"},
	{Level: 2, MinXP: 100, Name: "Garasi Rumah (Upgraded)", Perk: "None"},
	{Level: 3, MinXP: 300, Name: "Toko Kecil", Perk: "Diskon 5%"},
	{Level: 4, MinXP: 600, Name: "Toko Kecil (Ramai)", Perk: "Skin: Blue Truck"},
	{Level: 5, MinXP: 1000, Name: "Gudang Sedang", Perk: "Prioritas CS"},
	{Level: 6, MinXP: 1500, Name: "Gudang Sedang (Full)", Perk: "Diskon 10%"},
	{Level: 7, MinXP: 2200, Name: "Gudang Besar", Perk: "Skin: Gold Truck"},
	{Level: 8, MinXP: 3000, Name: "Gudang Besar (Automated)", Perk: "Analisis Bisnis"},
	{Level: 9, MinXP: 4000, Name: "Gudang Raksasa", Perk: "Diskon 15%"},
	{Level: 10, MinXP: 5500, Name: "Gudang Raksasa (Sultan)", Perk: "ALL FREE ADMIN FEES"},
}

// LevelForXP returns the ladder rung for a cumulative XP total.
func LevelForXP(xp int64) LevelDefinition {
	for i := len(WarehouseLevels) - 1; i >= 0; i-- {
		if WarehouseLevels[i].MinXP <= xp {
			return WarehouseLevels[i]
		}
	}
	return WarehouseLevels[0]
}

// NextLevel returns the rung above the given level, or nil at the cap.
func NextLevel(level int) *LevelDefinition {
	for i := range WarehouseLevels {
		if WarehouseLevels[i].Level == level+1 {
			return &WarehouseLevels[i]
		}
	}
	return nil
}
