package models

import (
	"time"
)

// MissionDifficulty buckets templates for the daily draw
type MissionDifficulty string

const (
	DifficultyEasy   MissionDifficulty = "EASY"
	DifficultyMedium MissionDifficulty = "MEDIUM"
	DifficultyHard   MissionDifficulty = "HARD"
)

// MissionStatus is derived, never stored
type MissionStatus string

const (
	MissionInProgress MissionStatus = "IN_PROGRESS"
	MissionCompleted  MissionStatus = "COMPLETED"
	MissionClaimed    MissionStatus = "CLAIMED"
)

// Trackable task types emitted by the core CekKirim services
const (
	TaskTrackPackage   = "track_package"
	TaskCompareRates   = "compare_rates"
	TaskCreateShipment = "create_shipment"
	TaskTopupWallet    = "topup_wallet"
	TaskPayPPOB        = "pay_ppob"
	TaskInviteReferral = "invite_referral"
)

// MissionTemplate: static config catalog (seeded from code, managed by admins)
type MissionTemplate struct {
	ID          string            `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string            `gorm:"uniqueIndex;not null" json:"code"` // e.g., "EASY_TRACK_3"
	Title       string            `gorm:"not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	TaskType    string            `gorm:"index;not null" json:"task_type"`
	TargetCount int               `gorm:"not null" json:"target_count"`
	XPReward    int64             `gorm:"not null" json:"xp_reward"`
	Difficulty  MissionDifficulty `gorm:"type:varchar(16);not null;index" json:"difficulty"`
	IsActive    bool              `gorm:"default:true;index" json:"is_active"`
	IconURL     string            `gorm:"type:text" json:"icon_url"`

	// Optional availability window for seasonal missions; the scheduler
	// flips IsActive when the window opens/closes.
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// DailyMission: one instance per user per template per calendar date.
// The composite unique index is what makes first-of-the-day generation safe
// under concurrent requests (insert conflicts are dropped, then re-read).
type DailyMission struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string `gorm:"not null;uniqueIndex:idx_daily_user_template_date" json:"user_id"`
	TemplateID string `gorm:"not null;uniqueIndex:idx_daily_user_template_date" json:"template_id"`
	Date       string `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_user_template_date;index" json:"date"` // YYYY-MM-DD

	Progress  int        `gorm:"default:0" json:"progress"`
	IsClaimed bool       `gorm:"default:false" json:"is_claimed"`
	ClaimedAt *time.Time `json:"claimed_at,omitempty"`

	Template MissionTemplate `gorm:"foreignKey:TemplateID" json:"-"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Status derives the lifecycle state: CLAIMED is terminal, COMPLETED means
// claimable, anything else is still in progress.
func (m *DailyMission) Status() MissionStatus {
	if m.IsClaimed {
		return MissionClaimed
	}
	if m.Progress >= m.Template.TargetCount {
		return MissionCompleted
	}
	return MissionInProgress
}

// MissionView is the JSON shape handed to the missions tab.
type MissionView struct {
	ID          string        `json:"id"`
	ConfigID    string        `json:"config_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Progress    int           `json:"progress"`
	TargetCount int           `json:"target_count"`
	IsClaimed   bool          `json:"is_claimed"`
	XPReward    int64         `json:"xp_reward"`
	Status      MissionStatus `json:"status"`
}

// DefaultMissionTemplates is the built-in catalog, upserted at startup.
// Admins can add seasonal templates on top via the admin endpoints.
var DefaultMissionTemplates = []MissionTemplate{
	{
		Code:        "EASY_TRACK_3",
		Title:       "Cek Resi Kilat",
		Description: "Lacak 3 paket hari ini",
		TaskType:    TaskTrackPackage,
		TargetCount: 3,
		XPReward:    20,
		Difficulty:  DifficultyEasy,
	},
	{
		Code:        "EASY_COMPARE_1",
		Title:       "Bandingkan Ongkir",
		Description: "Bandingkan tarif pengiriman 1 kali",
		TaskType:    TaskCompareRates,
		TargetCount: 1,
		XPReward:    15,
		Difficulty:  DifficultyEasy,
	},
	{
		Code:        "EASY_TOPUP_1",
		Title:       "Isi Saldo",
		Description: "Top up saldo dompet 1 kali",
		TaskType:    TaskTopupWallet,
		TargetCount: 1,
		XPReward:    25,
		Difficulty:  DifficultyEasy,
	},
	{
		Code:        "MED_SHIP_2",
		Title:       "Juragan Paket",
		Description: "Buat 2 order pengiriman",
		TaskType:    TaskCreateShipment,
		TargetCount: 2,
		XPReward:    50,
		Difficulty:  DifficultyMedium,
	},
	{
		Code:        "MED_PPOB_2",
		Title:       "Bayar Tagihan",
		Description: "Selesaikan 2 transaksi PPOB",
		TaskType:    TaskPayPPOB,
		TargetCount: 2,
		XPReward:    40,
		Difficulty:  DifficultyMedium,
	},
	{
		Code:        "MED_TRACK_10",
		Title:       "Mata Elang",
		Description: "Lacak 10 paket hari ini",
		TaskType:    TaskTrackPackage,
		TargetCount: 10,
		XPReward:    45,
		Difficulty:  DifficultyMedium,
	},
	{
		Code:        "HARD_SHIP_5",
		Title:       "Sultan Ekspedisi",
		Description: "Buat 5 order pengiriman dalam sehari",
		TaskType:    TaskCreateShipment,
		TargetCount: 5,
		XPReward:    150,
		Difficulty:  DifficultyHard,
	},
	{
		Code:        "HARD_REFER_1",
		Title:       "Ajak Teman Cuan",
		Description: "Ajak 1 teman bergabung lewat kode referral",
		TaskType:    TaskInviteReferral,
		TargetCount: 1,
		XPReward:    120,
		Difficulty:  DifficultyHard,
	},
}
