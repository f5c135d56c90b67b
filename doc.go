// Package fancache implements the two-tier read cache used by the fantasy
// contest backend: a process-local bounded tier in front of a shared Redis
// tier, composed cache-aside with stampede protection.
//
// Components:
//   - local.Tier: in-process byte store with a fixed short TTL and
//     insertion-order eviction (default local.Bounded; BigCache and
//     Ristretto adapters available).
//   - remote.Store: distributed byte store with TTLs, pipelined batches,
//     cursor scans and a set-if-absent lock primitive (Redis).
//   - codec.Codec[V]: (de)serializes V <-> []byte.
//   - compress: transparent gzip for payloads above a size threshold.
//   - policy: pure TTL functions mapping domain state to cache lifetimes.
//
// Keys (remote tier, all under the configured prefix):
//
//	<key>       - value entry
//	<key>:meta  - compression flag companion ("1" when gzipped)
//	lock:<key>  - advisory compute lock, TTL-bounded
//
// Failure policy: cache infrastructure never fails the caller. Reads degrade
// to misses, writes report a boolean, and only compute callbacks passed to
// Fetch may surface errors.
//
// Cache-aside pattern:
//
//	v, ok, err := cache.Fetch(ctx, "wallet:42", policy.BalanceTTL(bal),
//	    func(ctx context.Context) (Wallet, bool, error) {
//	        return loadWalletFromDB(ctx, 42)
//	    })
package fancache
