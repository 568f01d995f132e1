package email

import "time"

// Cooldown is the resend throttle on verification mail. The zero value is
// already expired.
type Cooldown struct {
	Deadline time.Time
}

// StartCooldown opens a cooldown window of the given length.
func StartCooldown(now time.Time, d time.Duration) Cooldown {
	return Cooldown{Deadline: now.Add(d)}
}

// Expired reports whether the window has passed.
func (c Cooldown) Expired(now time.Time) bool {
	return !now.Before(c.Deadline)
}

// Remaining returns the time left in the window, never negative.
func (c Cooldown) Remaining(now time.Time) time.Duration {
	if c.Expired(now) {
		return 0
	}
	return c.Deadline.Sub(now)
}
