package session

import "github.com/blackwell-systems/mediadesk/internal/media"

// Collect puts a displayed image into the basket. It reports false when
// the image is already collected or not displayed.
func (s *Session) Collect(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if media.IndexOf(s.collected, id) >= 0 {
		return false
	}
	img := media.ByID(s.displayed, id)
	if img == nil {
		return false
	}
	s.collected = append(s.collected, img.Clone())
	return true
}

// Discard takes an image out of the basket.
func (s *Session) Discard(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	s.collected, found = media.Remove(s.collected, id)
	return found
}

// ToggleCollect collects or discards id and reports whether it is
// collected afterwards.
func (s *Session) ToggleCollect(id int) bool {
	if s.Discard(id) {
		return false
	}
	return s.Collect(id)
}

// DiscardAll empties the basket and the pending upload list.
func (s *Session) DiscardAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collected = nil
	s.uploads = nil
}

// IsCollected reports whether id is in the basket.
func (s *Session) IsCollected(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return media.IndexOf(s.collected, id) >= 0
}

// Collected returns the basket ids in collection order.
func (s *Session) Collected() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return media.IDs(s.collected)
}
