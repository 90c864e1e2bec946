package services

import (
	"path/filepath"
	"testing"

	"cekkirim-tycoon-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.TycoonProfile{},
		&models.XPLedgerEntry{},
		&models.MissionTemplate{},
		&models.DailyMission{},
		&models.BadgeType{},
		&models.UserBadge{},
	))
	return db
}

func TestGetProfileLazyCreate(t *testing.T) {
	svc := NewTycoonService(newTestDB(t))

	prof, err := svc.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), prof.XP)
	assert.Equal(t, 1, prof.Level)
	assert.Equal(t, "Garasi Rumah", prof.WarehouseName)

	// Second read returns the same row, no second insert
	again, err := svc.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, prof.ID, again.ID)

	var count int64
	require.NoError(t, svc.DB.Model(&models.TycoonProfile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAwardXPLevelBoundary(t *testing.T) {
	svc := NewTycoonService(newTestDB(t))

	award, err := svc.AwardXP("user-1", 99, "grant-1")
	require.NoError(t, err)
	assert.Equal(t, int64(99), award.XP)
	assert.Equal(t, 1, award.Level)
	assert.False(t, award.LeveledUp)

	// One more XP flips to level 2 exactly at the 100 threshold
	award, err = svc.AwardXP("user-1", 1, "grant-2")
	require.NoError(t, err)
	assert.Equal(t, int64(100), award.XP)
	assert.Equal(t, 2, award.Level)
	assert.Equal(t, "Garasi Rumah (Upgraded)", award.WarehouseName)
	assert.True(t, award.LeveledUp)

	prof, err := svc.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, prof.Level)
	assert.NotNil(t, prof.LastLevelUpAt)
}

func TestAwardXPLevelMonotonic(t *testing.T) {
	svc := NewTycoonService(newTestDB(t))

	lastLevel := 0
	sources := []string{"a", "b", "c", "d", "e"}
	amounts := []int64{50, 300, 10, 700, 5000}
	for i, amount := range amounts {
		award, err := svc.AwardXP("user-1", amount, sources[i])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, award.Level, lastLevel, "level must never decrease")
		assert.Equal(t, models.LevelForXP(award.XP).Level, award.Level,
			"level must track the ladder for the current XP")
		lastLevel = award.Level
	}

	// 50+300+10+700+5000 = 6060 → level 10
	prof, err := svc.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(6060), prof.XP)
	assert.Equal(t, 10, prof.Level)
	assert.Equal(t, "Gudang Raksasa (Sultan)", prof.WarehouseName)

	var ledgerCount int64
	require.NoError(t, svc.DB.Model(&models.XPLedgerEntry{}).
		Where("external_user_id = ?", "user-1").Count(&ledgerCount).Error)
	assert.Equal(t, int64(5), ledgerCount)
}

func TestAwardXPRejectsNonPositive(t *testing.T) {
	svc := NewTycoonService(newTestDB(t))

	_, err := svc.AwardXP("user-1", 0, "zero")
	assert.ErrorIs(t, err, ErrInvalidXPAmount)

	_, err = svc.AwardXP("user-1", -50, "negative")
	assert.ErrorIs(t, err, ErrInvalidXPAmount)

	var ledgerCount int64
	require.NoError(t, svc.DB.Model(&models.XPLedgerEntry{}).Count(&ledgerCount).Error)
	assert.Equal(t, int64(0), ledgerCount)
}

func TestAwardXPIdempotentPerSource(t *testing.T) {
	svc := NewTycoonService(newTestDB(t))

	first, err := svc.AwardXP("user-1", 120, "MISSION_abc")
	require.NoError(t, err)
	assert.False(t, first.Duplicate)
	assert.Equal(t, int64(120), first.XP)

	// Retrying the same source credits nothing
	second, err := svc.AwardXP("user-1", 120, "MISSION_abc")
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, int64(120), second.XP)

	prof, err := svc.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), prof.XP)

	var ledgerCount int64
	require.NoError(t, svc.DB.Model(&models.XPLedgerEntry{}).
		Where("external_user_id = ? AND source = ?", "user-1", "MISSION_abc").
		Count(&ledgerCount).Error)
	assert.Equal(t, int64(1), ledgerCount)
}

func TestLevelBadgesAutoAwarded(t *testing.T) {
	svc := NewTycoonService(newTestDB(t))

	_, err := svc.AwardXP("user-1", 400, "big-grant") // level 3
	require.NoError(t, err)

	var badges []models.UserBadge
	require.NoError(t, svc.DB.Where("external_user_id = ?", "user-1").Find(&badges).Error)
	codes := make([]string, len(badges))
	for i, b := range badges {
		codes[i] = b.BadgeCode
	}
	assert.Contains(t, codes, "TOKO_KECIL")
	assert.NotContains(t, codes, "GUDANG_BESAR")
}

func TestGetLedgerPagination(t *testing.T) {
	svc := NewTycoonService(newTestDB(t))

	for _, src := range []string{"s1", "s2", "s3"} {
		_, err := svc.AwardXP("user-1", 10, src)
		require.NoError(t, err)
	}

	page, err := svc.GetLedger("user-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page["total_items"])
	assert.Equal(t, 2, page["total_pages"])
	assert.Len(t, page["entries"], 2)
}

func TestLeaderboardOrdersByXP(t *testing.T) {
	svc := NewTycoonService(newTestDB(t))

	_, err := svc.AwardXP("user-low", 50, "a")
	require.NoError(t, err)
	_, err = svc.AwardXP("user-high", 900, "b")
	require.NoError(t, err)
	_, err = svc.AwardXP("user-mid", 200, "c")
	require.NoError(t, err)

	top, err := svc.GetLeaderboard(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "user-high", top[0].ExternalUserID)
	assert.Equal(t, "user-mid", top[1].ExternalUserID)
}
