// Package pagetrack hands out page numbers for paged archive requests.
//
// Every page is issued at most once unless it is released again with
// Remove, which callers do when the request for it failed.
package pagetrack

import (
	"sort"
	"sync"
)

// DefaultMax is the number of pages a tracker issues when no limit is given.
const DefaultMax = 100

// Tracker issues increasing page numbers starting at 1.
type Tracker struct {
	mu       sync.Mutex
	max      int
	next     int
	released []int
}

// New creates a tracker that issues at most max pages.
func New(max int) *Tracker {
	if max <= 0 {
		max = DefaultMax
	}
	return &Tracker{max: max, next: 1}
}

// Next returns the next page to request. Released pages are handed out
// again, lowest first, before new ones. ok is false once max pages have
// been issued and none are released.
func (t *Tracker) Next() (page int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.released) > 0 {
		page = t.released[0]
		t.released = t.released[1:]
		return page, true
	}
	if t.next > t.max {
		return 0, false
	}
	page = t.next
	t.next++
	return page, true
}

// Remove releases page so that a later Next can return it again.
// Pages that were never issued, or are already released, are ignored.
func (t *Tracker) Remove(page int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if page < 1 || page >= t.next {
		return
	}
	for _, p := range t.released {
		if p == page {
			return
		}
	}
	t.released = append(t.released, page)
	sort.Ints(t.released)
}

// Issued reports how many distinct pages are currently held by callers.
func (t *Tracker) Issued() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.next - 1 - len(t.released)
}
