package session

import (
	"fmt"

	"github.com/blackwell-systems/mediadesk/internal/media"
)

// Include embeds an attached image in the article body and returns the
// handle of the new embedding. Handles start at 0 and are never reused.
func (s *Session) Include(id int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := media.ByID(s.attached, id)
	if img == nil {
		return -1, fmt.Errorf("%w: cannot include image %d, it is not attached", ErrInvariantViolation, id)
	}
	img.Included = true

	idx := s.nextIncluded
	s.nextIncluded++
	size := s.opts.DefaultSize
	s.included[idx] = &media.Embedded{
		Image: img.Clone(),
		Size:  size,
		Style: media.StyleFor(size, s.opts.Widths),
	}
	s.log.Debug("image included", "id", id, "index", idx)
	return idx, nil
}

// Exclude marks an attached image as no longer embedded. Existing
// embeddings stay resolvable through their handles.
func (s *Session) Exclude(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := media.ByID(s.attached, id)
	if img == nil {
		return fmt.Errorf("%w: cannot exclude image %d, it is not attached", ErrInvariantViolation, id)
	}
	img.Included = false
	return nil
}

// Included resolves an embedding handle.
func (s *Session) Included(idx int) (media.Embedded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.included[idx]
	if !ok {
		return media.Embedded{}, false
	}
	out := *e
	out.Image = e.Image.Clone()
	return out, true
}

// Resize changes the size of one embedding.
func (s *Session) Resize(idx int, size media.Size) error {
	if _, err := media.ParseSize(string(size)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.included[idx]
	if !ok {
		return fmt.Errorf("%w: no embedding with index %d", ErrInvariantViolation, idx)
	}
	e.Size = size
	e.Style = media.StyleFor(size, s.opts.Widths)
	return nil
}

// InArticleBody reports whether the attached image id is embedded.
func (s *Session) InArticleBody(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := media.ByID(s.attached, id)
	return img != nil && img.Included
}
