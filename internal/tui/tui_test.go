package tui

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/blackwell-systems/mediadesk/internal/media"
	"github.com/blackwell-systems/mediadesk/internal/session"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

func TestImageItem_Label(t *testing.T) {
	it := ImageItem{Image: media.Image{
		ID:           42,
		Basename:     "harbour.jpg",
		Width:        800,
		Height:       600,
		Photographer: "Ana",
	}}
	got := it.label()
	for _, want := range []string{"42", "harbour.jpg", "800×600", "© Ana"} {
		if !strings.Contains(got, want) {
			t.Errorf("label() = %q, missing %q", got, want)
		}
	}
	if !strings.Contains(it.FilterValue(), "Ana") {
		t.Errorf("FilterValue() = %q, missing photographer", it.FilterValue())
	}
}

func TestImageItem_Marks(t *testing.T) {
	cases := []struct {
		item ImageItem
		want string
	}{
		{ImageItem{}, ""},
		{ImageItem{Attached: true}, "✓"},
		{ImageItem{Collected: true, Included: true}, "●"},
	}
	for _, c := range cases {
		got := c.item.marks()
		if c.want != "" && !strings.Contains(got, c.want) {
			t.Errorf("marks(%+v) = %q, want it to contain %q", c.item, got, c.want)
		}
	}
}

func TestKittyChunks(t *testing.T) {
	payload := strings.Repeat("A", 4096*2+10)
	out := kittyChunks(payload)

	if n := strings.Count(out, "\x1b_G"); n != 3 {
		t.Errorf("chunks = %d, want 3", n)
	}
	if !strings.HasPrefix(out, "\x1b_Ga=T,f=100,m=1;") {
		t.Errorf("first chunk header = %q", out[:20])
	}
	if !strings.Contains(out, "\x1b_Gm=0;") {
		t.Error("last chunk does not close the transfer")
	}
}

func TestDetectImageProtocol(t *testing.T) {
	cases := []struct {
		term, program string
		want          TerminalImageProtocol
	}{
		{"xterm-kitty", "", ProtocolKitty},
		{"xterm-256color", "ghostty", ProtocolKitty},
		{"xterm-256color", "iTerm.app", ProtocolITerm2},
		{"xterm-256color", "Apple_Terminal", ProtocolNone},
	}
	for _, c := range cases {
		t.Setenv("TERM", c.term)
		t.Setenv("TERM_PROGRAM", c.program)
		if got := DetectImageProtocol(); got != c.want {
			t.Errorf("DetectImageProtocol(%q, %q) = %v, want %v", c.term, c.program, got, c.want)
		}
	}
}

func TestRenderPreview(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 200))); err != nil {
		t.Fatal(err)
	}
	if got := RenderPreview(buf.Bytes(), ProtocolNone); got != "" {
		t.Error("preview rendered without a protocol")
	}
	if got := RenderPreview([]byte("not an image"), ProtocolITerm2); got != "" {
		t.Error("preview rendered for undecodable data")
	}
	if got := RenderPreview(buf.Bytes(), ProtocolITerm2); !strings.HasPrefix(got, "\x1b]1337;File=inline=1:") {
		t.Errorf("iTerm2 preview = %q", got[:min(len(got), 30)])
	}
}

func TestRenderUploadLine(t *testing.T) {
	bar := progress.New(progress.WithoutPercentage())
	cases := []struct {
		st   session.UploadStatus
		want string
	}{
		{session.UploadStatus{Name: "a.png"}, "reading"},
		{session.UploadStatus{Name: "a.png", Ready: true, Sent: 5, Total: 10, Percent: "50%"}, "50%"},
		{session.UploadStatus{Name: "a.png", IsUploaded: true, ID: 42}, "#42"},
		{session.UploadStatus{Name: "a.png", Err: errors.New("boom")}, "failed"},
	}
	for _, c := range cases {
		if got := renderUploadLine(c.st, bar); !strings.Contains(got, c.want) {
			t.Errorf("renderUploadLine(%+v) = %q, want %q", c.st, got, c.want)
		}
	}
}

func pickerFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, p := range []string{"/pics/b.JPG", "/pics/a.png", "/pics/notes.txt", "/pics/.hidden.png", "/pics/trip/c.jpg"} {
		if err := afero.WriteFile(fs, p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func TestListImageDir(t *testing.T) {
	items, err := ListImageDir(pickerFs(t), "/pics", false)
	if err != nil {
		t.Fatalf("ListImageDir: %v", err)
	}
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	if got := strings.Join(names, ","); got != "trip,a.png,b.JPG" {
		t.Errorf("names = %q, want %q", got, "trip,a.png,b.JPG")
	}

	items, _ = ListImageDir(pickerFs(t), "/pics", true)
	if len(items) != 4 {
		t.Errorf("with hidden: %d items, want 4", len(items))
	}
}

func TestFilePicker_SelectionSurvivesChdir(t *testing.T) {
	m := filePickerModel{fs: pickerFs(t), selected: map[string]bool{}}
	m.list = list.New(nil, fileDelegate{}, 80, 20)
	if err := m.chdir("/pics"); err != nil {
		t.Fatal(err)
	}

	m.list.Select(1) // a.png
	m.toggle()
	if err := m.chdir("/pics/trip"); err != nil {
		t.Fatal(err)
	}
	m.toggle() // c.jpg
	if err := m.chdir("/pics"); err != nil {
		t.Fatal(err)
	}
	if f := m.list.Items()[1].(*FileItem); !f.selected {
		t.Errorf("%s lost its mark after chdir", f.Path)
	}

	m.list.Select(2)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := next.(filePickerModel).result
	want := []string{"/pics/a.png", "/pics/trip/c.jpg"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("result = %v, want %v", got, want)
	}
}
