package session

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/mediadesk/internal/media"
	"golang.org/x/sync/errgroup"
)

// maxParallelFetches bounds the record fetches of one bulk operation.
const maxParallelFetches = 8

// Attach links id to the article. Nothing changes locally unless the
// archive accepted the link; attaching an attached image is a no-op.
//
// With fromUpload the full record is fetched from the archive, otherwise
// the displayed record is copied and marked incomplete.
func (s *Session) Attach(ctx context.Context, id int, fromUpload bool) error {
	unlock, err := s.locks.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	return s.attach(ctx, id, fromUpload)
}

// Detach unlinks id from the article. Detaching an image that is not
// attached is a no-op.
func (s *Session) Detach(ctx context.Context, id int) error {
	unlock, err := s.locks.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	return s.detach(ctx, id)
}

// ToggleAttach attaches id when it is detached and detaches it otherwise.
// It reports whether id is attached afterwards. The decision is taken
// under the id's lock, so toggles pressed while a request is in flight
// apply in order.
func (s *Session) ToggleAttach(ctx context.Context, id int) (bool, error) {
	unlock, err := s.locks.lock(ctx, id)
	if err != nil {
		return false, err
	}
	defer unlock()

	if s.IsAttached(id) {
		if err := s.detach(ctx, id); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.attach(ctx, id, false); err != nil {
		return false, err
	}
	return true, nil
}

// attach and detach expect the caller to hold the lock of id.
func (s *Session) attach(ctx context.Context, id int, fromUpload bool) error {
	if s.IsAttached(id) {
		return nil
	}
	if err := s.arc.Link(ctx, s.opts.Article, id); err != nil {
		return fmt.Errorf("attaching image %d: %w", id, err)
	}
	img := s.linkedRecord(ctx, id, fromUpload)

	s.mu.Lock()
	s.attached = media.Append(s.attached, img)
	s.mu.Unlock()
	s.log.Debug("image attached", "id", id)
	return nil
}

func (s *Session) detach(ctx context.Context, id int) error {
	if !s.IsAttached(id) {
		return nil
	}
	if err := s.arc.Unlink(ctx, s.opts.Article, id); err != nil {
		return fmt.Errorf("detaching image %d: %w", id, err)
	}

	s.mu.Lock()
	s.attached, _ = media.Remove(s.attached, id)
	s.mu.Unlock()
	s.log.Debug("image detached", "id", id)
	return nil
}

// AttachBulk links every id that is not attached yet in a single request
// and returns the ids it attached. On failure nothing changes.
func (s *Session) AttachBulk(ctx context.Context, ids []int, fromUpload bool) ([]int, error) {
	unlock, err := s.locks.lock(ctx, ids...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	pending := s.notAttached(ids)
	if len(pending) == 0 {
		return nil, nil
	}
	if err := s.arc.Link(ctx, s.opts.Article, pending...); err != nil {
		return nil, fmt.Errorf("attaching %d images: %w", len(pending), err)
	}

	records := make([]media.Image, len(pending))
	var g errgroup.Group
	g.SetLimit(maxParallelFetches)
	for i, id := range pending {
		g.Go(func() error {
			records[i] = s.linkedRecord(ctx, id, fromUpload)
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	for _, img := range records {
		s.attached = media.Append(s.attached, img)
	}
	s.mu.Unlock()
	s.log.Debug("images attached", "ids", pending)
	return pending, nil
}

// AttachAll attaches the whole basket. On success the attached ids leave
// the basket and the selection is closed.
func (s *Session) AttachAll(ctx context.Context) error {
	ids := s.Collected()
	if _, err := s.AttachBulk(ctx, ids, false); err != nil {
		return err
	}

	s.mu.Lock()
	for _, id := range ids {
		s.collected, _ = media.Remove(s.collected, id)
	}
	s.mu.Unlock()

	if s.opts.OnSelectionClose != nil {
		s.opts.OnSelectionClose()
	}
	return nil
}

// AttachAllUploaded attaches every finished upload.
func (s *Session) AttachAllUploaded(ctx context.Context) ([]int, error) {
	return s.AttachBulk(ctx, s.CompletedIDs(), true)
}

// LoadAttached replaces the attached set with what the archive reports
// for the article. Embedding flags of known images are kept.
//
// Attach and detach calls that complete while the listing is in flight
// win over the listing: an id attached meanwhile stays, an id detached
// meanwhile does not come back.
func (s *Session) LoadAttached(ctx context.Context) error {
	before := s.attachedSet()
	images, err := s.arc.FetchAttached(ctx, s.opts.Article)
	if err != nil {
		return fmt.Errorf("loading attached images: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	listed := make(map[int]bool, len(images))
	var next []media.Image
	for _, img := range images {
		listed[img.ID] = true
		old := media.ByID(s.attached, img.ID)
		if old == nil && before[img.ID] {
			continue
		}
		img := img.Clone()
		if old != nil {
			img.Included = old.Included
		}
		next = media.Append(next, img)
	}
	for _, img := range s.attached {
		if !listed[img.ID] && !before[img.ID] {
			next = media.Append(next, img)
		}
	}
	s.attached = next
	return nil
}

func (s *Session) attachedSet() map[int]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[int]bool, len(s.attached))
	for _, img := range s.attached {
		set[img.ID] = true
	}
	return set
}

// CompleteAttached fetches the full record of every incomplete attached
// image and merges the missing fields in.
func (s *Session) CompleteAttached(ctx context.Context) error {
	s.mu.Lock()
	var ids []int
	for _, img := range s.attached {
		if img.Incomplete {
			ids = append(ids, img.ID)
		}
	}
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for _, id := range ids {
		g.Go(func() error {
			full, err := s.arc.FetchImage(gctx, id)
			if err != nil {
				return fmt.Errorf("completing image %d: %w", id, err)
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			if img := media.ByID(s.attached, id); img != nil {
				img.Merge(*full)
				img.Incomplete = false
			}
			return nil
		})
	}
	return g.Wait()
}

// IsAttached reports whether id is attached to the article.
func (s *Session) IsAttached(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return media.IndexOf(s.attached, id) >= 0
}

// FindAttached returns a copy of the attached record for id.
func (s *Session) FindAttached(id int) (media.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if img := media.ByID(s.attached, id); img != nil {
		return img.Clone(), true
	}
	return media.Image{}, false
}

// ByID is FindAttached for callers that only ever ask for attached ids.
func (s *Session) ByID(id int) (media.Image, error) {
	img, ok := s.FindAttached(id)
	if !ok {
		return media.Image{}, fmt.Errorf("%w: image %d is not attached", ErrInvariantViolation, id)
	}
	return img, nil
}

// Attached returns a copy of the attached set in attach order.
func (s *Session) Attached() []media.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return media.CloneAll(s.attached)
}

// DetachingAllowed reports whether id may be detached, which is the case
// unless it is embedded in the article body.
func (s *Session) DetachingAllowed(id int) bool {
	return !s.InArticleBody(id)
}

func (s *Session) notAttached(ids []int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] || media.IndexOf(s.attached, id) >= 0 {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// linkedRecord builds the attached record for a freshly linked image. A
// record that cannot be fetched is stored as an incomplete placeholder so
// the local state still matches the archive.
func (s *Session) linkedRecord(ctx context.Context, id int, fromUpload bool) media.Image {
	if !fromUpload {
		if img, ok := s.FindDisplayed(id); ok {
			img.Incomplete = true
			img.Included = false
			return img
		}
	}
	full, err := s.arc.FetchImage(ctx, id)
	if err != nil {
		s.log.Warn("image linked but its record could not be fetched", "id", id, "error", err)
		return media.Image{ID: id, Incomplete: true}
	}
	img := full.Clone()
	img.Incomplete = false
	img.Included = false
	return img
}
