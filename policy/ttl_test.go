package policy

import (
	"testing"
	"time"
)

func TestVerificationTTL(t *testing.T) {
	tests := []struct {
		status VerificationStatus
		want   time.Duration
	}{
		{VerificationVerified, 24 * time.Hour},
		{VerificationRejected, 24 * time.Hour},
		{VerificationPending, time.Minute},
		{VerificationUnsubmitted, 2 * time.Minute},
		{VerificationStatus("weird"), 2 * time.Minute},
	}
	for _, tc := range tests {
		if got := VerificationTTL(tc.status); got != tc.want {
			t.Errorf("VerificationTTL(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestBalanceTTL(t *testing.T) {
	tests := []struct {
		balance float64
		want    time.Duration
	}{
		{0, 5 * time.Minute},
		{0.01, time.Minute},
		{500, time.Minute},
		{9_999.99, time.Minute},
		{10_000, 30 * time.Second},
		{1_000_000, 30 * time.Second},
	}
	for _, tc := range tests {
		if got := BalanceTTL(tc.balance); got != tc.want {
			t.Errorf("BalanceTTL(%v) = %v, want %v", tc.balance, got, tc.want)
		}
	}
}

func TestMatchStartTTLBands(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		until time.Duration
		want  time.Duration
	}{
		{72 * time.Hour, 24 * time.Hour},
		{48 * time.Hour, 24 * time.Hour},
		{30 * time.Hour, 12 * time.Hour},
		{24 * time.Hour, 12 * time.Hour},
		{3 * time.Hour, 10 * time.Minute},
		{2 * time.Hour, 10 * time.Minute},
		{time.Hour, 2 * time.Minute},
		{30 * time.Minute, 2 * time.Minute},
		{10 * time.Minute, time.Minute},
		{0, time.Minute},
		{-5 * time.Minute, time.Minute}, // match already started
	}
	for _, tc := range tests {
		if got := MatchStartTTL(now.Add(tc.until), now); got != tc.want {
			t.Errorf("MatchStartTTL(start in %v) = %v, want %v", tc.until, got, tc.want)
		}
	}
}

// TestMatchStartTTLMonotonic: the lifetime never grows as the match gets
// closer.
func TestMatchStartTTLMonotonic(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	prev := time.Duration(1<<63 - 1)
	for until := 96 * time.Hour; until >= -2*time.Hour; until -= 15 * time.Minute {
		got := MatchStartTTL(now.Add(until), now)
		if got > prev {
			t.Fatalf("TTL grew as match approached: until=%v ttl=%v prev=%v", until, got, prev)
		}
		prev = got
	}
}
