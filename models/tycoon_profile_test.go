package models

import (
	"testing"
)

func TestLevelForXPBoundaries(t *testing.T) {
	cases := []struct {
		xp        int64
		wantLevel int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{150, 2},
		{299, 2},
		{300, 3},
		{599, 3},
		{600, 4},
		{999, 4},
		{1000, 5},
		{2199, 6},
		{2200, 7},
		{5499, 9},
		{5500, 10},
		{1_000_000, 10},
	}
	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got.Level != tc.wantLevel {
			t.Errorf("LevelForXP(%d).Level = %d, want %d", tc.xp, got.Level, tc.wantLevel)
		}
	}
}

func TestLadderShape(t *testing.T) {
	if len(WarehouseLevels) != 10 {
		t.Fatalf("ladder has %d rungs, want 10", len(WarehouseLevels))
	}
	if WarehouseLevels[0].MinXP != 0 || WarehouseLevels[0].Level != 1 {
		t.Fatalf("ladder must start at (level 1, 0 XP), got (%d, %d)",
			WarehouseLevels[0].Level, WarehouseLevels[0].MinXP)
	}
	for i := 1; i < len(WarehouseLevels); i++ {
		if WarehouseLevels[i].MinXP <= WarehouseLevels[i-1].MinXP {
			t.Errorf("ladder not ascending at rung %d: %d <= %d",
				i, WarehouseLevels[i].MinXP, WarehouseLevels[i-1].MinXP)
		}
		if WarehouseLevels[i].Level != WarehouseLevels[i-1].Level+1 {
			t.Errorf("ladder levels not contiguous at rung %d", i)
		}
	}
}

func TestNextLevel(t *testing.T) {
	next := NextLevel(1)
	if next == nil || next.Level != 2 || next.Name != "Garasi Rumah (Upgraded)" {
		t.Fatalf("NextLevel(1) = %+v, want level 2 'Garasi Rumah (Upgraded)'", next)
	}
	if got := NextLevel(10); got != nil {
		t.Fatalf("NextLevel(10) = %+v, want nil at cap", got)
	}
}

func TestMissionStatusDerivation(t *testing.T) {
	m := DailyMission{
		Progress: 0,
		Template: MissionTemplate{TargetCount: 3},
	}
	if got := m.Status(); got != MissionInProgress {
		t.Fatalf("fresh mission status = %s, want %s", got, MissionInProgress)
	}
	m.Progress = 3
	if got := m.Status(); got != MissionCompleted {
		t.Fatalf("completed mission status = %s, want %s", got, MissionCompleted)
	}
	m.IsClaimed = true
	if got := m.Status(); got != MissionClaimed {
		t.Fatalf("claimed mission status = %s, want %s", got, MissionClaimed)
	}
}
