package profile

import "fmt"

// IDPolicy decides how new interest ids are allocated.
type IDPolicy string

const (
	// PolicyCounter never hands out an id twice within a store session.
	PolicyCounter IDPolicy = "counter"
	// PolicyMax recomputes max(id)+1 over the current draft. An id freed by
	// removing the last entry is handed out again.
	PolicyMax IDPolicy = "max"
)

// ParseIDPolicy parses "counter" or "max".
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch IDPolicy(s) {
	case PolicyCounter, PolicyMax:
		return IDPolicy(s), nil
	}
	return "", fmt.Errorf("invalid interest id policy %q (want counter or max)", s)
}

// idAllocator hands out interest ids for one draft.
type idAllocator struct {
	policy IDPolicy
	last   int // highest id handed out or seen; counter policy only
}

func newIDAllocator(policy IDPolicy, floor int, draft []Interest) *idAllocator {
	a := &idAllocator{policy: policy, last: floor}
	if m := maxInterestID(draft); m > a.last {
		a.last = m
	}
	return a
}

func (a *idAllocator) next(current []Interest) int {
	if a.policy == PolicyMax {
		return maxInterestID(current) + 1
	}
	if m := maxInterestID(current); m > a.last {
		a.last = m
	}
	a.last++
	return a.last
}
