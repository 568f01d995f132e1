package email

import (
	"testing"
	"time"
)

func TestCooldown(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := StartCooldown(start, time.Minute)

	if c.Expired(start) {
		t.Fatal("cooldown expired immediately")
	}
	if got := c.Remaining(start.Add(45 * time.Second)); got != 15*time.Second {
		t.Fatalf("Remaining = %v, want 15s", got)
	}
	if !c.Expired(start.Add(time.Minute)) {
		t.Fatal("cooldown not expired at the deadline")
	}
	if got := c.Remaining(start.Add(2 * time.Minute)); got != 0 {
		t.Fatalf("Remaining after expiry = %v, want 0", got)
	}
}

func TestZeroCooldownIsExpired(t *testing.T) {
	t.Parallel()

	var c Cooldown
	if !c.Expired(time.Now()) {
		t.Fatal("zero cooldown not expired")
	}
}
