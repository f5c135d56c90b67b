// Package policy holds the dynamic TTL functions: pure mappings from domain
// state to a cache lifetime. The shared rule shape is "stable state caches
// long, volatile or high-stakes state caches short".
package policy

import "time"

// VerificationStatus is the KYC state of a user document.
type VerificationStatus string

const (
	VerificationUnsubmitted VerificationStatus = "unsubmitted"
	VerificationPending     VerificationStatus = "pending"
	VerificationVerified    VerificationStatus = "verified"
	VerificationRejected    VerificationStatus = "rejected"
)

// VerificationTTL caches terminal states for a day; a pending document can
// flip at any moment, so it gets the shortest lifetime.
func VerificationTTL(s VerificationStatus) time.Duration {
	switch s {
	case VerificationVerified, VerificationRejected:
		return 24 * time.Hour
	case VerificationPending:
		return time.Minute
	default:
		return 2 * time.Minute
	}
}

// Balance bands. Large balances are the costliest to serve stale.
const (
	highBalance = 10_000
)

// BalanceTTL shortens the cache lifetime as the wallet balance grows. An
// empty wallet can't lose money to a stale read.
func BalanceTTL(balance float64) time.Duration {
	switch {
	case balance == 0:
		return 5 * time.Minute
	case balance >= highBalance:
		return 30 * time.Second
	default:
		return time.Minute
	}
}

// MatchStartTTL steps the lifetime down as the match approaches: lineups,
// odds and contest fill rates all churn hardest right before lock. Once the
// match has started the shortest band applies.
func MatchStartTTL(start, now time.Time) time.Duration {
	until := start.Sub(now)
	switch {
	case until >= 48*time.Hour:
		return 24 * time.Hour
	case until >= 24*time.Hour:
		return 12 * time.Hour
	case until >= 2*time.Hour:
		return 10 * time.Minute
	case until >= 30*time.Minute:
		return 2 * time.Minute
	default:
		return time.Minute
	}
}
