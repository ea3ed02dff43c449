package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/blackwell-systems/mediadesk/internal/session"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// opDoneMsg reports the end of an asynchronous session operation.
type opDoneMsg struct {
	label string
	err   error
}

// pageMsg reports a finished background page fetch.
type pageMsg struct {
	n   int
	err error
}

type editorModel struct {
	ctx       context.Context
	s         *session.Session
	list      list.Model
	keys      EditorKeys
	status    string
	failed    bool
	activeCmd string
	busy      int
	quitting  bool
}

var editorShortcuts = []ShortcutEntry{
	{Key: " ", Label: "space collect"},
	{Key: "enter", Label: "enter attach basket"},
	{Key: "m", Label: "m more"},
	{Key: "a", Label: "a attach/detach"},
	{Key: "i", Label: "i include"},
	{Key: "x", Label: "x exclude"},
	{Key: "c", Label: "c complete"},
	{Key: "q", Label: "q quit"},
}

func newEditorModel(ctx context.Context, s *session.Session) editorModel {
	keys := NewEditorKeys()
	l := list.New(nil, imageDelegate{}, 0, 0)
	l.Title = "Archive · article " + s.Article().String()
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = StyleHeader
	l.Styles.PaginationStyle = StyleHelp
	l.Styles.HelpStyle = StyleHelp
	l.AdditionalShortHelpKeys = keys.ShortHelp
	l.AdditionalFullHelpKeys = keys.FullHelp

	m := editorModel{ctx: ctx, s: s, list: l, keys: keys}
	m.list.SetItems(m.items())
	return m
}

// items builds the list from the session's displayed images.
func (m editorModel) items() []list.Item {
	displayed := m.s.Displayed()
	items := make([]list.Item, len(displayed))
	for i, img := range displayed {
		items[i] = ImageItem{
			Image:     img,
			Collected: m.s.IsCollected(img.ID),
			Attached:  m.s.IsAttached(img.ID),
			Included:  m.s.InArticleBody(img.ID),
		}
	}
	return items
}

func (m editorModel) selectedID() (int, bool) {
	it, ok := m.list.SelectedItem().(ImageItem)
	if !ok {
		return 0, false
	}
	return it.Image.ID, true
}

func (m editorModel) run(label string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{label: label, err: fn()}
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if cmd, handled := m.handleKey(msg); handled {
			m.activeCmd = msg.String()
			refresh := m.list.SetItems(m.items())
			return m, tea.Batch(cmd, highlightCmd(), refresh)
		}

	case opDoneMsg:
		m.busy--
		m.setResult(msg.label, msg.err)
		refresh := m.list.SetItems(m.items())
		return m, refresh

	case pageMsg:
		m.busy--
		switch {
		case errors.Is(msg.err, session.ErrNoMorePages):
			m.setResult("archive exhausted", nil)
		case msg.err != nil:
			m.setResult("", msg.err)
		default:
			m.setResult(fmt.Sprintf("buffered %d more images", msg.n), nil)
		}
		refresh := m.list.SetItems(m.items())
		return m, refresh

	case clearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.WindowSizeMsg:
		h, v := StyleBorder.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKey applies an editor binding. Session calls that talk to the
// archive run as commands and report back with opDoneMsg or pageMsg.
func (m *editorModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	ctx, s := m.ctx, m.s

	switch {
	case key.Matches(msg, m.keys.More):
		f := s.More(ctx)
		m.busy++
		return func() tea.Msg {
			n, err := f.Wait(ctx)
			return pageMsg{n: n, err: err}
		}, true

	case key.Matches(msg, m.keys.AttachBasket):
		n := len(s.Collected())
		if n == 0 {
			m.setResult("basket is empty", nil)
			return nil, true
		}
		m.busy++
		return m.run(fmt.Sprintf("attached %d images", n), func() error {
			return s.AttachAll(ctx)
		}), true

	case key.Matches(msg, m.keys.Complete):
		m.busy++
		return m.run("metadata completed", func() error {
			return s.CompleteAttached(ctx)
		}), true
	}

	id, ok := m.selectedID()
	if !ok {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Collect):
		if s.ToggleCollect(id) {
			m.setResult(fmt.Sprintf("collected %d", id), nil)
		} else {
			m.setResult(fmt.Sprintf("discarded %d", id), nil)
		}
		return nil, true

	case key.Matches(msg, m.keys.ToggleAttach):
		if !s.DetachingAllowed(id) {
			m.setResult("", fmt.Errorf("image %d is in the article body, exclude it first", id))
			return nil, true
		}
		m.busy++
		return func() tea.Msg {
			attached, err := s.ToggleAttach(ctx, id)
			return opDoneMsg{label: toggleLabel(id, attached), err: err}
		}, true

	case key.Matches(msg, m.keys.Include):
		idx, err := s.Include(id)
		m.setResult(fmt.Sprintf("included %d as #%d", id, idx), err)
		return nil, true

	case key.Matches(msg, m.keys.Exclude):
		err := s.Exclude(id)
		m.setResult(fmt.Sprintf("excluded %d", id), err)
		return nil, true
	}
	return nil, false
}

// toggleLabel describes the state a toggle ended in.
func toggleLabel(id int, attached bool) string {
	if attached {
		return fmt.Sprintf("attached %d", id)
	}
	return fmt.Sprintf("detached %d", id)
}

func (m *editorModel) setResult(label string, err error) {
	if err != nil {
		m.status, m.failed = err.Error(), true
		return
	}
	m.status, m.failed = label, false
}

func (m editorModel) View() string {
	if m.quitting {
		return ""
	}
	status := StyleHelp.Render(m.status)
	if m.failed {
		status = StyleError.Render(m.status)
	}
	if m.busy > 0 {
		status = StyleHelp.Render("working… ") + status
	}
	basket := StyleCollected.Render(fmt.Sprintf("basket %d", len(m.s.Collected())))
	attached := StyleAttached.Render(fmt.Sprintf("attached %d", len(m.s.Attached())))
	header := basket + "  " + attached + "  " + status

	return RenderWithFooter(header+"\n"+m.list.View(), editorShortcuts, m.activeCmd)
}

// RunEditor opens the interactive image editor over an initialised
// session and returns when the user quits.
func RunEditor(ctx context.Context, s *session.Session) error {
	p := tea.NewProgram(newEditorModel(ctx, s), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
