package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/blackwell-systems/mediadesk/internal/media"
	"github.com/blackwell-systems/mediadesk/internal/util"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// ImageItem is an archive image in the editor list.
type ImageItem struct {
	Image     media.Image
	Collected bool
	Attached  bool
	Included  bool
}

// FilterValue returns a string used for filtering in the list
func (i ImageItem) FilterValue() string {
	return fmt.Sprintf("%d %s %s %s", i.Image.ID, i.Image.Basename, i.Image.Description, i.Image.Photographer)
}

// marks renders the state column: basket, attached, embedded.
func (i ImageItem) marks() string {
	var b strings.Builder
	if i.Collected {
		b.WriteString(StyleCollected.Render("●"))
	} else {
		b.WriteString(" ")
	}
	if i.Attached {
		b.WriteString(StyleAttached.Render("✓"))
	} else {
		b.WriteString(" ")
	}
	if i.Included {
		b.WriteString(StyleIncluded.Render("¶"))
	} else {
		b.WriteString(" ")
	}
	return b.String()
}

// label is the plain text shown after the marks.
func (i ImageItem) label() string {
	name := i.Image.Basename
	if name == "" {
		name = "(no name)"
	}
	parts := []string{fmt.Sprintf("%-7d", i.Image.ID), name}
	if dim := util.Dimensions(i.Image.Width, i.Image.Height); dim != "" {
		parts = append(parts, dim)
	}
	if i.Image.Photographer != "" {
		parts = append(parts, "© "+i.Image.Photographer)
	}
	if i.Image.Description != "" {
		parts = append(parts, "· "+i.Image.Description)
	}
	return strings.Join(parts, " ")
}

type imageDelegate struct{}

func (d imageDelegate) Height() int  { return 1 }
func (d imageDelegate) Spacing() int { return 0 }
func (d imageDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d imageDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(ImageItem)
	if !ok {
		return
	}

	width := m.Width() - 6
	if width < 10 {
		width = 10
	}
	text := ansi.Truncate(it.label(), width, "…")

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("›")+it.marks()+" "+StyleHighlight.Render(text))
		return
	}
	_, _ = fmt.Fprint(w, " "+it.marks()+" "+StyleNormal.Render(text))
}
