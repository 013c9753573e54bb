package services

import (
	"errors"
	"testing"
)

func TestCheckinReward(t *testing.T) {
	tests := []struct {
		streak int
		want   int64
	}{
		{1, 100},
		{2, 120},
		{3, 140},
		{4, 160},
		{11, 300},  // bonus caps at 200
		{100, 300}, // still capped
	}
	for _, tt := range tests {
		if got := CheckinReward(tt.streak); got != tt.want {
			t.Fatalf("reward(streak=%d): expected %d, got %d", tt.streak, tt.want, got)
		}
	}
}

func TestCheckinTwiceInWindowRejected(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	checkins := NewCheckinService(db, clock)
	economy := NewEconomyService(db, clock)

	first, err := checkins.Checkin(1, 10)
	if err != nil {
		t.Fatalf("first checkin: %v", err)
	}
	if first.Reward != 100 || first.Streak != 1 {
		t.Fatalf("expected reward=100 streak=1, got %+v", first)
	}

	clock.advance(3600) // one hour later
	_, err = checkins.Checkin(1, 10)
	var already *AlreadyCheckedInError
	if !errors.As(err, &already) {
		t.Fatalf("expected AlreadyCheckedInError, got %v", err)
	}
	if already.Remaining != 23*3600 {
		t.Fatalf("expected 23h remaining, got %ds", already.Remaining)
	}

	// nothing moved: streak still 1, balance still 100
	_, streak, err := checkins.GetCheckin(1, 10)
	if err != nil {
		t.Fatalf("get checkin: %v", err)
	}
	if streak != 1 {
		t.Fatalf("expected streak unchanged at 1, got %d", streak)
	}
	coins, _ := economy.GetCoins(1, 10)
	if coins != 100 {
		t.Fatalf("expected balance unchanged at 100, got %d", coins)
	}
}

func TestCheckinStreakGrowsWithinGrace(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	checkins := NewCheckinService(db, clock)
	economy := NewEconomyService(db, clock)

	wantRewards := []int64{100, 120, 140, 160}
	for day, want := range wantRewards {
		result, err := checkins.Checkin(1, 10)
		if err != nil {
			t.Fatalf("checkin %d: %v", day+1, err)
		}
		if result.Streak != day+1 {
			t.Fatalf("checkin %d: expected streak %d, got %d", day+1, day+1, result.Streak)
		}
		if result.Reward != want {
			t.Fatalf("checkin %d: expected reward %d, got %d", day+1, want, result.Reward)
		}
		clock.advance(30 * 3600) // ≥24h and ≤48h later: streak continues
	}

	coins, _ := economy.GetCoins(1, 10)
	if coins != 100+120+140+160 {
		t.Fatalf("expected total rewards credited, got %d", coins)
	}
}

func TestCheckinStreakResetsAfterGrace(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	checkins := NewCheckinService(db, clock)

	if _, err := checkins.Checkin(1, 10); err != nil {
		t.Fatalf("first checkin: %v", err)
	}
	clock.advance(30 * 3600)
	second, err := checkins.Checkin(1, 10)
	if err != nil {
		t.Fatalf("second checkin: %v", err)
	}
	if second.Streak != 2 {
		t.Fatalf("expected streak 2, got %d", second.Streak)
	}

	clock.advance(49 * 3600) // missed the 48h grace window
	third, err := checkins.Checkin(1, 10)
	if err != nil {
		t.Fatalf("third checkin: %v", err)
	}
	if third.Streak != 1 || third.Reward != 100 {
		t.Fatalf("expected streak reset to 1 with base reward, got %+v", third)
	}
}
