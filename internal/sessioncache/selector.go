package sessioncache

import (
	"sort"
	"time"
)

// DefaultExpiryWindow is the minimum lifetime an entry needs left to be
// served. Anything closer to expiring would likely expire mid-use.
const DefaultExpiryWindow = 15 * time.Minute

// Reasons an entry is purged
const (
	ReasonInvalid       = "invalid"
	ReasonAlmostExpired = "almost expired"
	ReasonSuperseded    = "superseded"
)

type Eviction struct {
	Candidate
	Reason string
}

// Selection is the outcome of a sweep over one key's entries
type Selection struct {
	// Active is nil when no entry may be served
	Active *Candidate
	Purge  []Eviction
}

// Select picks the entry to serve among candidates and the entries to purge.
//
// Entries with an invalid name or with less than window left before
// expiring are purged. Of the rest, the one expiring last is active and the
// others are purged, so at most one entry per key survives a sweep.
func Select(now time.Time, window time.Duration, candidates []Candidate) Selection {
	var sel Selection
	var live []Candidate

	for _, c := range candidates {
		switch {
		case c.Err != nil:
			sel.Purge = append(sel.Purge, Eviction{c, ReasonInvalid})
		case c.Expiration.Sub(now) < window:
			sel.Purge = append(sel.Purge, Eviction{c, ReasonAlmostExpired})
		default:
			live = append(live, c)
		}
	}

	if len(live) == 0 {
		return sel
	}

	sort.SliceStable(live, func(i, j int) bool {
		return live[i].Expiration.After(live[j].Expiration)
	})

	active := live[0]
	sel.Active = &active
	for _, c := range live[1:] {
		sel.Purge = append(sel.Purge, Eviction{c, ReasonSuperseded})
	}

	return sel
}
