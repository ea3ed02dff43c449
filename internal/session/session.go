// Package session holds the image state of one article editing session:
// the archive browser, the selection basket, the attached set, the
// embeddings in the article body and the upload queue.
//
// All collections sit behind a single mutex that is never held across a
// network call. Collections change only after the archive has confirmed
// an operation.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/blackwell-systems/mediadesk/internal/archive"
	"github.com/blackwell-systems/mediadesk/internal/media"
	"github.com/spf13/afero"
)

// DefaultFetchSize is the items_per_page requested from the archive.
const DefaultFetchSize = 500

// Archive is the remote image archive. *archive.Client implements it.
type Archive interface {
	FetchPage(ctx context.Context, page, perPage int) (*archive.Page, error)
	FetchImage(ctx context.Context, id int) (*media.Image, error)
	FetchAttached(ctx context.Context, art archive.Article) ([]media.Image, error)
	Link(ctx context.Context, art archive.Article, ids ...int) error
	Unlink(ctx context.Context, art archive.Article, ids ...int) error
	CreateImage(ctx context.Context, form archive.UploadForm, progress archive.ProgressFunc) (int, error)
}

// PageTracker hands out archive page numbers. A page whose request failed
// is handed back with Remove so it can be requested again.
type PageTracker interface {
	Next() (page int, ok bool)
	Remove(page int)
}

// Options configures a Session.
type Options struct {
	Article      archive.Article
	FetchSize    int
	DefaultSize  media.Size
	Widths       map[media.Size]string
	Photographer string // default photographer for uploads

	Fs     afero.Fs
	Logger *slog.Logger

	// OnSelectionClose is called after the basket was attached in full.
	OnSelectionClose func()
}

// Session is the image state of one article being edited.
type Session struct {
	arc     Archive
	tracker PageTracker
	opts    Options
	fs      afero.Fs
	log     *slog.Logger
	locks   *keyLock

	mu           sync.Mutex
	loaded       []media.Image
	displayed    []media.Image
	itemsPerPage int
	prefetch     *Future[int]
	collected    []media.Image
	attached     []media.Image
	uploads      []*Upload
	included     map[int]*media.Embedded
	nextIncluded int
}

// New creates a Session for opts.Article.
func New(arc Archive, tracker PageTracker, opts Options) *Session {
	if opts.FetchSize <= 0 {
		opts.FetchSize = DefaultFetchSize
	}
	if opts.DefaultSize == "" {
		opts.DefaultSize = media.DefaultSize
	}
	if opts.Widths == nil {
		opts.Widths = media.DefaultWidths
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Session{
		arc:      arc,
		tracker:  tracker,
		opts:     opts,
		fs:       opts.Fs,
		log:      opts.Logger.With("article", opts.Article.String()),
		locks:    newKeyLock(),
		included: make(map[int]*media.Embedded),
	}
}

// Article returns the article this session edits.
func (s *Session) Article() archive.Article { return s.opts.Article }
