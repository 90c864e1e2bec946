package models

import (
	"time"
)

// BadgeType: static config, seeded from BadgeTriggers below
type BadgeType struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"` // e.g., "FIRST_CLAIM", "TOKO_KECIL"
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IconURL     string    `gorm:"type:text" json:"icon_url"`
	Rarity      string    `gorm:"type:varchar(16);default:'common'" json:"rarity"` // common, rare, epic, legendary
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge: awarded instance (many-to-many)
type UserBadge struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"not null;uniqueIndex:idx_user_badge" json:"external_user_id"`
	BadgeCode      string    `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_code"`
	AwardedAt      time.Time `gorm:"autoCreateTime" json:"awarded_at"`
}

// BadgeTrigger pairs a badge with the profile thresholds that unlock it.
// A zero threshold means "not required".
type BadgeTrigger struct {
	BadgeType
	MinLevel           int
	MinMissionsClaimed int64
}

// BadgeTriggers is evaluated after every XP grant, in order.
var BadgeTriggers = []BadgeTrigger{
	{
		BadgeType: BadgeType{
			Code:        "FIRST_CLAIM",
			Name:        "Misi Pertama",
			Description: "Klaim misi harian pertamamu",
			Rarity:      "common",
		},
		MinMissionsClaimed: 1,
	},
	{
		BadgeType: BadgeType{
			Code:        "CLAIM_25",
			Name:        "Rajin Setor",
			Description: "Klaim 25 misi harian",
			Rarity:      "rare",
		},
		MinMissionsClaimed: 25,
	},
	{
		BadgeType: BadgeType{
			Code:        "TOKO_KECIL",
			Name:        "Buka Toko",
			Description: "Capai level 3 (Toko Kecil)",
			Rarity:      "common",
		},
		MinLevel: 3,
	},
	{
		BadgeType: BadgeType{
			Code:        "GUDANG_BESAR",
			Name:        "Juragan Gudang",
			Description: "Capai level 7 (Gudang Besar)",
			Rarity:      "epic",
		},
		MinLevel: 7,
	},
	{
		BadgeType: BadgeType{
			Code:        "SULTAN",
			Name:        "Sultan Ekspedisi",
			Description: "Capai level 10 (Gudang Raksasa Sultan)",
			Rarity:      "legendary",
		},
		MinLevel: 10,
	},
}
