package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/mediadesk/internal/session"
	"github.com/blackwell-systems/mediadesk/internal/util"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// tickMsg is sent periodically to refresh the UI
type tickMsg time.Time

// uploadProgressModel shows one bar per upload. Progress is polled from
// the upload records on every tick.
type uploadProgressModel struct {
	progress  progress.Model
	uploads   []*session.Upload
	futures   []*session.Future[int]
	done      bool
	cancelled bool
}

func (m uploadProgressModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m uploadProgressModel) settled() bool {
	for _, f := range m.futures {
		if done, _ := f.Settled(); !done {
			return false
		}
	}
	return true
}

func (m uploadProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		}

	case tickMsg:
		if m.settled() {
			m.done = true
			return m, tea.Quit
		}
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 40
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		if m.progress.Width < 10 {
			m.progress.Width = 10
		}
		return m, nil
	}

	return m, nil
}

func (m uploadProgressModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleHeader.Render(fmt.Sprintf("Uploading %d images", len(m.uploads))) + "\n\n")
	for _, u := range m.uploads {
		b.WriteString(renderUploadLine(u.Status(), m.progress) + "\n")
	}
	b.WriteString("\n" + StyleHelp.Render("ctrl+c to cancel"))
	return b.String()
}

func renderUploadLine(st session.UploadStatus, bar progress.Model) string {
	name := fmt.Sprintf("%-24s", ansi.Truncate(st.Name, 24, "…"))
	frac := 0.0
	if st.Total > 0 {
		frac = float64(st.Sent) / float64(st.Total)
	}

	var tail string
	switch {
	case st.Err != nil:
		tail = StyleError.Render("failed")
	case st.IsUploaded:
		tail = StyleAttached.Render(fmt.Sprintf("✓ #%d", st.ID))
	case !st.Ready:
		tail = StyleHelp.Render("reading")
	default:
		tail = fmt.Sprintf("%4s %s", st.Percent, StyleHelp.Render(util.FormatBytes(st.Sent)))
	}
	return name + " " + bar.ViewAs(frac) + " " + tail
}

// ShowUploadProgress displays a progress bar per upload until every
// future has settled. Returns error if cancelled by user (Ctrl+C); the
// caller is expected to cancel the uploads' context then.
func ShowUploadProgress(uploads []*session.Upload, futures []*session.Future[int]) error {
	m := uploadProgressModel{
		progress: progress.New(progress.WithDefaultGradient()),
		uploads:  uploads,
		futures:  futures,
	}

	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if fm, ok := finalModel.(uploadProgressModel); ok && fm.cancelled {
		return fmt.Errorf("cancelled by user")
	}
	return nil
}
