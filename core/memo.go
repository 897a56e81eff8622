package core

import (
	"hash/fnv"
	"strconv"
	"sync/atomic"
	"time"
)

// sequenceSpread is an odd 64-bit constant that spreads consecutive sequence
// values across the hash space before mixing.
const sequenceSpread = 0x9e3779b97f4a7c15

// MemoGenerator derives the 64-bit correlation id that binds a listing, a
// caller identity and a logical timestamp. The id travels in the memo field of
// the out-of-band ledger transfer and is matched back to exactly one pending
// order without any lookup table on the ledger side.
type MemoGenerator struct {
	sequence atomic.Uint64
}

// Generate is the deterministic, non-cryptographic FNV-1a hash of the triple.
// Identical inputs always produce the same memo.
func (g *MemoGenerator) Generate(listingID string, caller Identity, at time.Time) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(listingID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(caller.String()))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strconv.FormatInt(at.UnixNano(), 10)))
	memo := h.Sum64()
	if memo == 0 {
		memo = 1
	}
	return memo
}

// Next mixes the deterministic hash with a per-process sequence so two orders
// initiated at the same logical instant cannot share a memo. Collisions with a
// live pending order are additionally rejected at claim time.
func (g *MemoGenerator) Next(listingID string, caller Identity, at time.Time) uint64 {
	seq := g.sequence.Add(1)
	memo := g.Generate(listingID, caller, at) ^ (seq * sequenceSpread)
	if memo == 0 {
		memo = seq
	}
	return memo
}
