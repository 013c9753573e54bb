package services

import "time"

// Clock supplies the current time as unix seconds (UTC). Every cooldown and
// timestamp in the ledger goes through it so tests can advance time freely.
type Clock interface {
	Now() int64
}

// SystemClock is the production clock.
type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().UTC().Unix()
}
