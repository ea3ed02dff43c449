package session

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync"

	"github.com/blackwell-systems/mediadesk/internal/archive"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// LocalFile is a file picked for upload.
type LocalFile struct {
	Path string
	Name string // defaults to the base name of Path
}

// Upload is a picked file on its way into the archive.
type Upload struct {
	s    *Session
	Key  uuid.UUID
	File LocalFile

	mu           sync.Mutex
	photographer string
	description  string
	contentType  string
	data         []byte
	width        int
	height       int
	read         *Future[struct{}]
	upload       *Future[int]
	uploaded     bool
	id           int
	sent         int64
	total        int64
	percent      string
	err          error
}

// UploadStatus is a snapshot of an Upload.
type UploadStatus struct {
	Key          uuid.UUID `json:"key" yaml:"key"`
	Name         string    `json:"name" yaml:"name"`
	Photographer string    `json:"photographer,omitempty" yaml:"photographer,omitempty"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	ContentType  string    `json:"contentType,omitempty" yaml:"content_type,omitempty"`
	Width        int       `json:"width,omitempty" yaml:"width,omitempty"`
	Height       int       `json:"height,omitempty" yaml:"height,omitempty"`
	Ready        bool      `json:"ready" yaml:"ready"`
	IsUploaded   bool      `json:"isUploaded" yaml:"is_uploaded"`
	ID           int       `json:"id,omitempty" yaml:"id,omitempty"`
	Sent         int64     `json:"sent" yaml:"sent"`
	Total        int64     `json:"total" yaml:"total"`
	Percent      string    `json:"percent" yaml:"percent"`
	Err          error     `json:"-" yaml:"-"`
}

// Decorate turns a picked file into an upload record that has not been
// read or uploaded.
func (s *Session) Decorate(f LocalFile) *Upload {
	if f.Name == "" {
		f.Name = filepath.Base(f.Path)
	}
	return &Upload{
		s:            s,
		Key:          uuid.New(),
		File:         f,
		photographer: s.opts.Photographer,
		percent:      Percent(0, 0),
	}
}

// AddToUploadList decorates files, queues them and starts reading each.
func (s *Session) AddToUploadList(ctx context.Context, files []LocalFile) []*Upload {
	added := make([]*Upload, 0, len(files))
	for _, f := range files {
		added = append(added, s.Decorate(f))
	}
	s.mu.Lock()
	s.uploads = append(s.uploads, added...)
	s.mu.Unlock()

	for _, u := range added {
		u.ReadRawData(ctx)
	}
	return added
}

// UploadAll starts every queued upload that has not finished yet. Uploads
// already in flight are not started twice.
func (s *Session) UploadAll(ctx context.Context) []*Future[int] {
	var out []*Future[int]
	for _, u := range s.Queue() {
		if f := u.startOnce(ctx); f != nil {
			out = append(out, f)
		}
	}
	return out
}

// Queue returns the upload records in the order they were added.
func (s *Session) Queue() []*Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Upload(nil), s.uploads...)
}

// CompletedIDs returns the archive ids of every finished upload.
func (s *Session) CompletedIDs() []int {
	var ids []int
	for _, u := range s.Queue() {
		if st := u.Status(); st.IsUploaded {
			ids = append(ids, st.ID)
		}
	}
	return ids
}

// Clear empties the upload list.
func (s *Session) Clear() {
	s.mu.Lock()
	s.uploads = nil
	s.mu.Unlock()
}

// ReadRawData reads the file into memory and inspects it. Empty
// photographer and description fields are filled from EXIF.
func (u *Upload) ReadRawData(ctx context.Context) *Future[struct{}] {
	f := Go(func() (struct{}, error) {
		return struct{}{}, u.readRaw(ctx)
	})
	u.mu.Lock()
	u.read = f
	u.mu.Unlock()
	return f
}

func (u *Upload) readRaw(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := afero.ReadFile(u.s.fs, u.File.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", u.File.Path, err)
	}
	info, err := inspect(data)
	if err != nil {
		return fmt.Errorf("reading %s: %w", u.File.Path, err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.data = data
	u.contentType = info.contentType
	u.width, u.height = info.width, info.height
	if u.photographer == "" {
		u.photographer = info.artist
	}
	if u.description == "" {
		u.description = info.description
	}
	return nil
}

// StartUpload sends the file to the archive and resolves to the new
// image id. A read still in flight is waited for; a file never read is
// read first.
func (u *Upload) StartUpload(ctx context.Context) *Future[int] {
	f := Go(func() (int, error) { return u.send(ctx) })
	u.mu.Lock()
	u.upload = f
	u.mu.Unlock()
	return f
}

// startOnce starts the upload unless it finished or is running.
func (u *Upload) startOnce(ctx context.Context) *Future[int] {
	u.mu.Lock()
	if u.uploaded {
		u.mu.Unlock()
		return nil
	}
	if u.upload != nil {
		if done, _ := u.upload.Settled(); !done {
			f := u.upload
			u.mu.Unlock()
			return f
		}
	}
	u.mu.Unlock()
	return u.StartUpload(ctx)
}

func (u *Upload) send(ctx context.Context) (int, error) {
	if err := u.WaitRead(ctx); err != nil {
		u.fail(err)
		return 0, err
	}

	u.mu.Lock()
	form := archive.UploadForm{
		Photographer: u.photographer,
		Description:  u.description,
		Filename:     u.File.Name,
		ContentType:  u.contentType,
		Data:         u.data,
	}
	u.err = nil
	u.mu.Unlock()

	id, err := u.s.arc.CreateImage(ctx, form, u.progress)
	if err != nil {
		if archive.IsNetwork(err) {
			err = fmt.Errorf("%w: %s: %w", ErrUploadFailed, u.File.Name, err)
		} else {
			err = fmt.Errorf("uploading %s: %w", u.File.Name, err)
		}
		u.fail(err)
		return 0, err
	}

	u.mu.Lock()
	u.uploaded = true
	u.id = id
	u.mu.Unlock()
	u.s.log.Debug("image uploaded", "file", u.File.Name, "id", id)
	return id, nil
}

// WaitRead waits for the file to be in memory, starting a read when none
// is running. A failed read is retried.
func (u *Upload) WaitRead(ctx context.Context) error {
	u.mu.Lock()
	read, ready := u.read, u.data != nil
	u.mu.Unlock()
	if ready {
		return nil
	}
	if read != nil {
		if done, err := read.Settled(); done && err != nil {
			read = nil
		}
	}
	if read == nil {
		read = u.ReadRawData(ctx)
	}
	_, err := read.Wait(ctx)
	return err
}

func (u *Upload) progress(sent, total int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sent, u.total = sent, total
	u.percent = Percent(sent, total)
}

func (u *Upload) fail(err error) {
	u.mu.Lock()
	u.err = err
	u.mu.Unlock()
}

// SetPhotographer overrides the photographer sent with the upload.
func (u *Upload) SetPhotographer(name string) {
	u.mu.Lock()
	u.photographer = name
	u.mu.Unlock()
}

// SetDescription overrides the description sent with the upload.
func (u *Upload) SetDescription(text string) {
	u.mu.Lock()
	u.description = text
	u.mu.Unlock()
}

// RawData returns the bytes read from disk, or nil before the read
// finished. The slice must not be modified.
func (u *Upload) RawData() []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.data
}

// Status returns a snapshot of the upload.
func (u *Upload) Status() UploadStatus {
	u.mu.Lock()
	defer u.mu.Unlock()
	return UploadStatus{
		Key:          u.Key,
		Name:         u.File.Name,
		Photographer: u.photographer,
		Description:  u.description,
		ContentType:  u.contentType,
		Width:        u.width,
		Height:       u.height,
		Ready:        u.data != nil,
		IsUploaded:   u.uploaded,
		ID:           u.id,
		Sent:         u.sent,
		Total:        u.total,
		Percent:      u.percent,
		Err:          u.err,
	}
}

// Percent formats upload progress as a whole percentage, "0%" while the
// total is unknown.
func Percent(sent, total int64) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(sent)/float64(total)*100)))
}
