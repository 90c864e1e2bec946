package models

import (
	"time"
)

// XPLedgerEntry is the append-only audit trail of every XP grant.
// The profile's xp column stays authoritative for balance; the unique
// (user, source) index is what makes grants idempotent per source tag
// (e.g. "MISSION_<id>" can only ever credit once).
type XPLedgerEntry struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"not null;uniqueIndex:idx_ledger_user_source;index" json:"external_user_id"`
	Amount         int64     `gorm:"not null" json:"amount"`
	Source         string    `gorm:"not null;uniqueIndex:idx_ledger_user_source" json:"source"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}
