package services

import (
	"errors"
	"math"
	"testing"

	"guild-ledger/models"
)

func TestAddCoinsAccumulates(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db, newFakeClock())

	deltas := []int64{100, 50, -30, 25}
	var want int64
	var got int64
	for _, d := range deltas {
		var err error
		got, err = economy.AddCoins(1, 10, d)
		if err != nil {
			t.Fatalf("add %d: %v", d, err)
		}
		want += d
	}
	if got != want {
		t.Fatalf("expected balance %d, got %d", want, got)
	}

	coins, err := economy.GetCoins(1, 10)
	if err != nil {
		t.Fatalf("get coins: %v", err)
	}
	if coins != want {
		t.Fatalf("expected stored balance %d, got %d", want, coins)
	}
}

func TestAddCoinsNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db, newFakeClock())

	if _, err := economy.AddCoins(1, 10, 40); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := economy.AddCoins(1, 10, -41); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	coins, err := economy.GetCoins(1, 10)
	if err != nil {
		t.Fatalf("get coins: %v", err)
	}
	if coins != 40 {
		t.Fatalf("expected balance untouched at 40, got %d", coins)
	}
}

func TestGetCoinsLazyInit(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db, newFakeClock())

	coins, err := economy.GetCoins(1, 99)
	if err != nil {
		t.Fatalf("get coins: %v", err)
	}
	if coins != 0 {
		t.Fatalf("expected fresh wallet at 0, got %d", coins)
	}
}

func TestTransferFee(t *testing.T) {
	tests := []struct {
		amount int64
		want   int64
	}{
		{1, 1},    // floor(0.05) = 0, clamped to 1
		{19, 1},   // floor(0.95) = 0, clamped to 1
		{20, 1},   // exactly 1
		{100, 5},  // 5%
		{999, 49}, // floor(49.95)
	}
	for _, tt := range tests {
		if got := TransferFee(tt.amount, DefaultFeeRate); got != tt.want {
			t.Fatalf("fee(%d): expected %d, got %d", tt.amount, tt.want, got)
		}
	}
}

func TestTransferExactFunds(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db, newFakeClock())

	// 100 + 5% fee = 105, the sender's entire balance.
	if _, err := economy.AddCoins(1, 10, 105); err != nil {
		t.Fatalf("fund sender: %v", err)
	}

	result, err := economy.Transfer(1, 10, 20, 100, DefaultFeeRate)
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if result.Amount != 100 || result.Fee != 5 {
		t.Fatalf("expected amount=100 fee=5, got %+v", result)
	}

	sender, _ := economy.GetCoins(1, 10)
	recipient, _ := economy.GetCoins(1, 20)
	if sender != 0 {
		t.Fatalf("expected sender at 0, got %d", sender)
	}
	if recipient != 100 {
		t.Fatalf("expected recipient at 100, got %d", recipient)
	}

	var audit []models.Transfer
	if err := db.Find(&audit).Error; err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	if len(audit) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(audit))
	}
	if audit[0].Amount != 100 || audit[0].Fee != 5 || audit[0].FromUserID != 10 || audit[0].ToUserID != 20 {
		t.Fatalf("unexpected audit row: %+v", audit[0])
	}
}

func TestTransferInsufficientLeavesBalancesUntouched(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db, newFakeClock())

	// one coin short of 100 + fee
	if _, err := economy.AddCoins(1, 10, 104); err != nil {
		t.Fatalf("fund sender: %v", err)
	}

	_, err := economy.Transfer(1, 10, 20, 100, DefaultFeeRate)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	sender, _ := economy.GetCoins(1, 10)
	recipient, _ := economy.GetCoins(1, 20)
	if sender != 104 || recipient != 0 {
		t.Fatalf("expected 104/0 after failed transfer, got %d/%d", sender, recipient)
	}

	var count int64
	db.Model(&models.Transfer{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no audit row after failed transfer, got %d", count)
	}
}

func TestTransferPreconditions(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db, newFakeClock())

	if _, err := economy.Transfer(1, 10, 10, 100, DefaultFeeRate); !errors.Is(err, ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}
	if _, err := economy.Transfer(1, 10, 20, 0, DefaultFeeRate); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := economy.Transfer(1, 10, 20, -5, DefaultFeeRate); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
}

func TestCanTransferCooldown(t *testing.T) {
	db := newTestDB(t)
	clock := newFakeClock()
	economy := NewEconomyService(db, clock)

	allowed, remain, err := economy.CanTransfer(1, 10, DefaultTransferCooldown)
	if err != nil {
		t.Fatalf("can transfer: %v", err)
	}
	if !allowed || remain != 0 {
		t.Fatalf("expected first transfer allowed, got allowed=%v remain=%d", allowed, remain)
	}

	if _, err := economy.AddCoins(1, 10, 1000); err != nil {
		t.Fatalf("fund sender: %v", err)
	}
	if _, err := economy.Transfer(1, 10, 20, 100, DefaultFeeRate); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	allowed, remain, err = economy.CanTransfer(1, 10, DefaultTransferCooldown)
	if err != nil {
		t.Fatalf("can transfer: %v", err)
	}
	if allowed || remain != DefaultTransferCooldown {
		t.Fatalf("expected cooldown of %ds, got allowed=%v remain=%d", DefaultTransferCooldown, allowed, remain)
	}

	clock.advance(DefaultTransferCooldown)
	allowed, remain, err = economy.CanTransfer(1, 10, DefaultTransferCooldown)
	if err != nil {
		t.Fatalf("can transfer: %v", err)
	}
	if !allowed || remain != 0 {
		t.Fatalf("expected cooldown elapsed, got allowed=%v remain=%d", allowed, remain)
	}
}

func TestTransferScopedToGuild(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db, newFakeClock())

	if _, err := economy.AddCoins(1, 10, 500); err != nil {
		t.Fatalf("fund guild 1: %v", err)
	}
	if _, err := economy.Transfer(2, 10, 20, 100, DefaultFeeRate); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected guild-2 wallet to be empty, got %v", err)
	}
	coins, _ := economy.GetCoins(1, 10)
	if coins != 500 {
		t.Fatalf("guild-1 balance should be untouched, got %d", coins)
	}
}

func TestTransferRejectsOverflowingAmount(t *testing.T) {
	db := newTestDB(t)
	economy := NewEconomyService(db, newFakeClock())

	// amount+fee would wrap negative and turn the debit into a credit
	_, err := economy.Transfer(1, 10, 20, math.MaxInt64, DefaultFeeRate)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	sender, _ := economy.GetCoins(1, 10)
	recipient, _ := economy.GetCoins(1, 20)
	if sender != 0 || recipient != 0 {
		t.Fatalf("expected both wallets untouched, got sender=%d recipient=%d", sender, recipient)
	}
	var audits int64
	db.Model(&models.Transfer{}).Count(&audits)
	if audits != 0 {
		t.Fatalf("expected no audit row, got %d", audits)
	}
}
