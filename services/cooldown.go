package services

// cooldownRemaining is the shared gate for every rate-limited accumulator
// (XP, message counter, transfers, check-ins). It returns how many seconds
// are left in the window; zero means the action may run. A zero last
// timestamp means the action never ran.
func cooldownRemaining(now, last, windowSec int64) int64 {
	if last <= 0 {
		return 0
	}
	remain := windowSec - (now - last)
	if remain < 0 {
		return 0
	}
	return remain
}
