package session_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/blackwell-systems/mediadesk/internal/archive"
	"github.com/blackwell-systems/mediadesk/internal/media"
	"github.com/blackwell-systems/mediadesk/internal/pagetrack"
	"github.com/blackwell-systems/mediadesk/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
)

func init() {
	chi.RegisterMethod(archive.MethodLink)
	chi.RegisterMethod(archive.MethodUnlink)
}

var testArticle = archive.Article{Number: 12, Language: "en"}

// fakeArchive is an in-memory content API served over httptest.
type fakeArchive struct {
	mu           sync.Mutex
	perPage      int
	pages        map[int][]media.Image
	images       map[int]media.Image
	attached     []int
	pageRequests []int
	imageFetches []int
	links        [][]int
	unlinks      [][]int
	uploads      []string
	nextID       int

	failPages   map[int]bool
	failLink    bool
	failImage   bool
	failUpload  bool
	rejectFiles map[string]bool
	noLocation  bool
	linkGate    chan struct{}

	// listStarted is signalled once the attached listing is built;
	// listGate then holds the response back.
	listStarted chan struct{}
	listGate    chan struct{}
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{
		perPage:   2,
		pages:       make(map[int][]media.Image),
		images:      make(map[int]media.Image),
		failPages:   make(map[int]bool),
		rejectFiles: make(map[string]bool),
		nextID:      100,
	}
}

func (f *fakeArchive) router() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/images", f.listImages)
		r.Post("/images", f.createImage)
		r.Get("/images/{id}", f.getImage)
		r.Get("/articles/{number}/{language}/images", f.listAttached)
		r.Method(archive.MethodLink, "/articles/{number}/{language}", http.HandlerFunc(f.link))
		r.Method(archive.MethodUnlink, "/articles/{number}/{language}", http.HandlerFunc(f.unlink))
	})
	return r
}

func (f *fakeArchive) listImages(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	f.mu.Lock()
	f.pageRequests = append(f.pageRequests, page)
	fail := f.failPages[page]
	items := f.pages[page]
	per := f.perPage
	f.mu.Unlock()

	if fail {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, archive.Page{Items: items, Pagination: archive.Pagination{ItemsPerPage: per, CurrentPage: page}})
}

func (f *fakeArchive) getImage(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	f.mu.Lock()
	f.imageFetches = append(f.imageFetches, id)
	img, ok := f.images[id]
	fail := f.failImage
	f.mu.Unlock()

	switch {
	case fail:
		http.Error(w, "boom", http.StatusInternalServerError)
	case !ok:
		http.NotFound(w, r)
	default:
		writeJSON(w, img)
	}
}

func (f *fakeArchive) listAttached(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	var items []media.Image
	for _, id := range f.attached {
		items = append(items, f.images[id])
	}
	started, gate := f.listStarted, f.listGate
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	writeJSON(w, map[string]interface{}{"items": items})
}

func (f *fakeArchive) link(w http.ResponseWriter, r *http.Request) {
	ids := archive.IDsFromLinkHeader(r.Header.Get("Link"))
	f.mu.Lock()
	f.links = append(f.links, ids)
	gate, fail := f.linkGate, f.failLink
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail {
		http.Error(w, "nope", http.StatusInternalServerError)
		return
	}
	f.mu.Lock()
	f.attached = append(f.attached, ids...)
	f.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func (f *fakeArchive) unlink(w http.ResponseWriter, r *http.Request) {
	ids := archive.IDsFromLinkHeader(r.Header.Get("Link"))
	f.mu.Lock()
	f.unlinks = append(f.unlinks, ids)
	for _, id := range ids {
		for i, a := range f.attached {
			if a == id {
				f.attached = append(f.attached[:i], f.attached[i+1:]...)
				break
			}
		}
	}
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeArchive) createImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, hdr, err := r.FormFile(archive.FieldImage)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.uploads = append(f.uploads, hdr.Filename)
	fail, noLoc := f.failUpload || f.rejectFiles[hdr.Filename], f.noLocation
	id := f.nextID
	f.nextID++
	f.images[id] = media.Image{
		ID:           id,
		Basename:     hdr.Filename,
		Photographer: r.FormValue(archive.FieldPhotographer),
		Description:  r.FormValue(archive.FieldDescription),
	}
	f.mu.Unlock()

	if fail {
		http.Error(w, "disk full", http.StatusInternalServerError)
		return
	}
	if !noLoc {
		w.Header().Set("Location", "/api/images/"+strconv.Itoa(id))
	}
	w.WriteHeader(http.StatusCreated)
}

func (f *fakeArchive) update(fn func(*fakeArchive)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeArchive) linkRequests() [][]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]int(nil), f.links...)
}

func (f *fakeArchive) unlinkRequests() [][]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]int(nil), f.unlinks...)
}

func (f *fakeArchive) requestedPages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pageRequests...)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type fixture struct {
	arc     *fakeArchive
	client  *archive.Client
	tracker *pagetrack.Tracker
	fs      afero.Fs
	s       *session.Session
	closed  int
}

func newFixture(t *testing.T, setup func(*fakeArchive)) *fixture {
	t.Helper()
	fa := newFakeArchive()
	if setup != nil {
		setup(fa)
	}
	srv := httptest.NewServer(fa.router())
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fx := &fixture{
		arc:     fa,
		client:  archive.New("", srv.URL+"/api", archive.WithLogger(logger)),
		tracker: pagetrack.New(10),
		fs:      afero.NewMemMapFs(),
	}
	fx.s = session.New(fx.client, fx.tracker, session.Options{
		Article:          testArticle,
		FetchSize:        500,
		Fs:               fx.fs,
		Logger:           logger,
		OnSelectionClose: func() { fx.closed++ },
	})
	return fx
}

// writePNG stores a w×h PNG at path on the fixture filesystem.
func (fx *fixture) writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := afero.WriteFile(fx.fs, path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func idsOf(images []media.Image) []int { return media.IDs(images) }

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var ctx = context.Background()
