package session

import (
	"context"

	"github.com/blackwell-systems/mediadesk/internal/archive"
	"github.com/blackwell-systems/mediadesk/internal/media"
)

// Load requests one archive page. A failed page is released back to the
// tracker; it is not retried.
func (s *Session) Load(ctx context.Context, page int) (*archive.Page, error) {
	p, err := s.arc.FetchPage(ctx, page, s.opts.FetchSize)
	if err != nil {
		s.tracker.Remove(page)
		s.log.Warn("archive page request failed", "page", page, "error", err)
		return nil, err
	}
	return p, nil
}

// Init loads the first page, shows one window of it and buffers the rest.
// The next page is prefetched only when nothing is left in the buffer.
// When the first page already holds more than one window, the buffer is
// full enough for the first More, which then fetches the next page; an
// extra request here would only grow the buffer past the second window.
func (s *Session) Init(ctx context.Context) error {
	page, ok := s.tracker.Next()
	if !ok {
		return ErrNoMorePages
	}
	p, err := s.Load(ctx, page)
	if err != nil {
		return err
	}

	s.mu.Lock()
	per := p.Pagination.ItemsPerPage
	if per <= 0 {
		per = s.opts.FetchSize
	}
	n := min(per, len(p.Items))
	s.itemsPerPage = per
	s.displayed = media.CloneAll(p.Items[:n])
	s.loaded = media.CloneAll(p.Items[n:])
	empty := len(s.loaded) == 0
	s.mu.Unlock()

	if empty {
		s.fetchNext(ctx)
	}
	return nil
}

// More moves the next window from the buffer into the displayed list and
// then fetches another page into the buffer in the background.
func (s *Session) More(ctx context.Context) *Future[int] {
	s.mu.Lock()
	n := min(s.itemsPerPage, len(s.loaded))
	s.displayed = append(s.displayed, s.loaded[:n]...)
	s.loaded = append([]media.Image(nil), s.loaded[n:]...)
	s.mu.Unlock()

	return s.fetchNext(ctx)
}

// fetchNext requests the next tracker page and appends it to the buffer.
// The future resolves to the number of buffered items.
func (s *Session) fetchNext(ctx context.Context) *Future[int] {
	page, ok := s.tracker.Next()
	if !ok {
		return Resolved(0, ErrNoMorePages)
	}
	f := Go(func() (int, error) {
		p, err := s.Load(ctx, page)
		if err != nil {
			return 0, err
		}
		s.mu.Lock()
		s.loaded = append(s.loaded, media.CloneAll(p.Items)...)
		s.mu.Unlock()
		return len(p.Items), nil
	})
	s.mu.Lock()
	s.prefetch = f
	s.mu.Unlock()
	return f
}

// Prefetch returns the most recent background page fetch, or nil.
func (s *Session) Prefetch() *Future[int] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefetch
}

// Displayed returns a copy of the images currently shown.
func (s *Session) Displayed() []media.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return media.CloneAll(s.displayed)
}

// Buffered returns a copy of the images fetched but not yet shown.
func (s *Session) Buffered() []media.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return media.CloneAll(s.loaded)
}

// ItemsPerPage is the window size reported by the archive on Init.
func (s *Session) ItemsPerPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsPerPage
}

// FindDisplayed returns a copy of the displayed image with id.
func (s *Session) FindDisplayed(id int) (media.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if img := media.ByID(s.displayed, id); img != nil {
		return img.Clone(), true
	}
	return media.Image{}, false
}
