package services

import (
	"fmt"
	"log"
	"math"

	"guild-ledger/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultFeeRate is charged on top of every peer-to-peer transfer.
const DefaultFeeRate = 0.05

// DefaultTransferCooldown is the minimum gap between transfers by one sender.
const DefaultTransferCooldown int64 = 60

// TransferFee is the fee for a given amount: 5% by default, never below 1.
func TransferFee(amount int64, rate float64) int64 {
	fee := int64(math.Floor(float64(amount) * rate))
	if fee < 1 {
		fee = 1
	}
	return fee
}

// EconomyService owns wallet balances and transfers. All mutations run inside
// store transactions; balances can never be observed negative.
type EconomyService struct {
	DB    *gorm.DB
	Clock Clock
}

func NewEconomyService(db *gorm.DB, clock Clock) *EconomyService {
	return &EconomyService{DB: db, Clock: clock}
}

// ensureWallet lazily creates the zero-balance row. Safe under concurrency:
// the insert is dropped if another request created the row first.
func ensureWallet(tx *gorm.DB, guildID, userID int64) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Wallet{GuildID: guildID, UserID: userID}).Error
}

// GetCoins returns the member's balance, creating the wallet if needed.
func (s *EconomyService) GetCoins(guildID, userID int64) (int64, error) {
	if err := ensureWallet(s.DB, guildID, userID); err != nil {
		return 0, err
	}
	var w models.Wallet
	if err := s.DB.Where("guild_id = ? AND user_id = ?", guildID, userID).First(&w).Error; err != nil {
		return 0, err
	}
	return w.Coins, nil
}

// AddCoins adjusts the balance by delta and returns the new balance.
// Negative deltas are internal-only (purchases, transfer debits) and fail
// with ErrInsufficientFunds instead of driving the balance below zero.
func (s *EconomyService) AddCoins(guildID, userID, delta int64) (int64, error) {
	var coins int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		coins, err = adjustCoinsTx(tx, guildID, userID, delta)
		return err
	})
	return coins, err
}

// adjustCoinsTx is the single place wallet balances change. The guarded
// UPDATE keeps the non-negative invariant even when requests for the same
// member race across processes.
func adjustCoinsTx(tx *gorm.DB, guildID, userID, delta int64) (int64, error) {
	if err := ensureWallet(tx, guildID, userID); err != nil {
		return 0, err
	}

	q := tx.Model(&models.Wallet{}).
		Where("guild_id = ? AND user_id = ?", guildID, userID)
	if delta < 0 {
		q = q.Where("coins >= ?", -delta)
	}
	res := q.Update("coins", gorm.Expr("coins + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrInsufficientFunds
	}

	var w models.Wallet
	if err := tx.Where("guild_id = ? AND user_id = ?", guildID, userID).First(&w).Error; err != nil {
		return 0, err
	}
	return w.Coins, nil
}

// CanTransfer checks the sender's transfer cooldown against their most recent
// transfer in the guild. Returns whether a transfer is allowed and, if not,
// the seconds remaining.
func (s *EconomyService) CanTransfer(guildID, fromUserID, cooldownSec int64) (bool, int64, error) {
	var last models.Transfer
	err := s.DB.Where("guild_id = ? AND from_user_id = ?", guildID, fromUserID).
		Order("created_ts DESC").
		First(&last).Error
	if err == gorm.ErrRecordNotFound {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	remain := cooldownRemaining(s.Clock.Now(), last.CreatedTs, cooldownSec)
	return remain == 0, remain, nil
}

// TransferResult reports a completed transfer.
type TransferResult struct {
	Amount int64 `json:"amount"`
	Fee    int64 `json:"fee"`
}

// Transfer moves amount coins from one member to another, charging the fee to
// the sender. Debit, credit and the audit row commit together or not at all.
// Self-transfers and non-positive amounts are rejected up front.
func (s *EconomyService) Transfer(guildID, fromUserID, toUserID, amount int64, feeRate float64) (*TransferResult, error) {
	if fromUserID == toUserID {
		return nil, ErrSelfTransfer
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	fee := TransferFee(amount, feeRate)
	// amount+fee must not wrap: a wrapped negative total would credit the
	// sender instead of debiting them.
	if amount > math.MaxInt64-fee {
		return nil, ErrInvalidAmount
	}
	total := amount + fee

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := adjustCoinsTx(tx, guildID, fromUserID, -total); err != nil {
			return err
		}
		if _, err := adjustCoinsTx(tx, guildID, toUserID, amount); err != nil {
			return err
		}
		rec := models.Transfer{
			ID:         uuid.NewString(),
			GuildID:    guildID,
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Amount:     amount,
			Fee:        fee,
			CreatedTs:  s.Clock.Now(),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("failed to record transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("💸 Transfer: guild=%d %d → %d amount=%d fee=%d", guildID, fromUserID, toUserID, amount, fee)
	return &TransferResult{Amount: amount, Fee: fee}, nil
}

// RecentTransfers returns the latest transfers involving a member, newest
// first. Read-only view over the audit log.
func (s *EconomyService) RecentTransfers(guildID, userID int64, limit int) ([]models.Transfer, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []models.Transfer
	err := s.DB.Where("guild_id = ? AND (from_user_id = ? OR to_user_id = ?)", guildID, userID, userID).
		Order("created_ts DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// TopCoins returns the guild's richest members.
func (s *EconomyService) TopCoins(guildID int64, limit int) ([]models.Wallet, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []models.Wallet
	err := s.DB.Where("guild_id = ?", guildID).
		Order("coins DESC, user_id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
