package services

import (
	"errors"
	"fmt"
)

// Expected, recoverable outcomes. Callers branch on these; anything else
// coming out of a service is a storage failure and propagates unchanged.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

// CooldownError rejects a rate-limited action and reports how long until it
// is accepted again.
type CooldownError struct {
	Remaining int64 // seconds
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, %ds remaining", e.Remaining)
}

// AlreadyCheckedInError rejects a check-in attempted within the 24h window.
type AlreadyCheckedInError struct {
	Remaining int64 // seconds until the next check-in is allowed
}

func (e *AlreadyCheckedInError) Error() string {
	return fmt.Sprintf("already checked in, %ds remaining", e.Remaining)
}
