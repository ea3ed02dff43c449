package tui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
)

// imageExts are the extensions offered for upload.
var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".tif": true, ".tiff": true, ".bmp": true,
}

// FileItem is a directory or image file in the picker.
type FileItem struct {
	Name     string
	Path     string
	IsDir    bool
	Size     int64
	selected bool
}

// FilterValue implements list.Item
func (f *FileItem) FilterValue() string {
	return f.Name
}

type fileDelegate struct{}

func (d fileDelegate) Height() int  { return 1 }
func (d fileDelegate) Spacing() int { return 0 }
func (d fileDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d fileDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	f, ok := item.(*FileItem)
	if !ok {
		return
	}

	prefix := "    "
	name := f.Name
	if f.IsDir {
		name += "/"
	} else if f.selected {
		prefix = "[" + StyleAttached.Render("✓") + "] "
	} else {
		prefix = "[ ] "
	}

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› ")+prefix+StyleHighlight.Render(name))
		return
	}
	_, _ = fmt.Fprint(w, "  "+prefix+StyleNormal.Render(name))
}

type filePickerKeys struct {
	quit         key.Binding
	confirm      key.Binding
	open         key.Binding
	parent       key.Binding
	toggle       key.Binding
	toggleHidden key.Binding
}

var fileKeys = filePickerKeys{
	quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "cancel"),
	),
	confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open/upload"),
	),
	open: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "open dir"),
	),
	parent: key.NewBinding(
		key.WithKeys("backspace", "left", "h"),
		key.WithHelp("←", "parent dir"),
	),
	toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	toggleHidden: key.NewBinding(
		key.WithKeys("."),
		key.WithHelp(".", "hidden"),
	),
}

type filePickerModel struct {
	fs         afero.Fs
	dir        string
	list       list.Model
	selected   map[string]bool
	showHidden bool
	quitting   bool
	err        error
	result     []string
}

// ListImageDir returns the subdirectories of path followed by its image
// files, both sorted by name.
func ListImageDir(fs afero.Fs, path string, showHidden bool) ([]*FileItem, error) {
	entries, err := afero.ReadDir(fs, path)
	if err != nil {
		return nil, err
	}

	var dirs, files []*FileItem
	for _, info := range entries {
		name := info.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		item := &FileItem{
			Name:  name,
			Path:  filepath.Join(path, name),
			IsDir: info.IsDir(),
			Size:  info.Size(),
		}
		switch {
		case item.IsDir:
			dirs = append(dirs, item)
		case imageExts[strings.ToLower(filepath.Ext(name))]:
			files = append(files, item)
		}
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return append(dirs, files...), nil
}

// chdir replaces the list contents with the listing of dir. Selections made
// in other directories are kept.
func (m *filePickerModel) chdir(dir string) error {
	items, err := ListImageDir(m.fs, dir, m.showHidden)
	if err != nil {
		return err
	}
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		it.selected = m.selected[it.Path]
		listItems[i] = it
	}
	m.dir = dir
	m.list.Title = m.title()
	m.list.ResetFilter()
	m.list.SetItems(listItems)
	m.list.Select(0)
	return nil
}

func (m *filePickerModel) title() string {
	return fmt.Sprintf("%s (%d selected)", m.dir, len(m.selected))
}

// toggle flips the selection of the file under the cursor.
func (m *filePickerModel) toggle() {
	f, ok := m.list.SelectedItem().(*FileItem)
	if !ok || f.IsDir {
		return
	}
	f.selected = !f.selected
	if f.selected {
		m.selected[f.Path] = true
	} else {
		delete(m.selected, f.Path)
	}
	m.list.Title = m.title()
}

func (m *filePickerModel) selectedPaths() []string {
	paths := make([]string, 0, len(m.selected))
	for p := range m.selected {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m filePickerModel) Init() tea.Cmd {
	return nil
}

func (m filePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := StyleBorder.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, fileKeys.quit):
			m.quitting = true
			m.err = fmt.Errorf("canceled by user")
			return m, tea.Quit

		case key.Matches(msg, fileKeys.toggle):
			m.toggle()
			return m, nil

		case key.Matches(msg, fileKeys.toggleHidden):
			m.showHidden = !m.showHidden
			if err := m.chdir(m.dir); err != nil {
				m.list.Title = StyleError.Render(err.Error())
			}
			return m, nil

		case key.Matches(msg, fileKeys.open):
			if f, ok := m.list.SelectedItem().(*FileItem); ok && f.IsDir {
				if err := m.chdir(f.Path); err != nil {
					m.list.Title = StyleError.Render(f.Path + ": " + err.Error())
				}
			}
			return m, nil

		case key.Matches(msg, fileKeys.parent):
			parent := filepath.Dir(m.dir)
			if parent != m.dir {
				if err := m.chdir(parent); err != nil {
					m.list.Title = StyleError.Render(err.Error())
				}
			}
			return m, nil

		case key.Matches(msg, fileKeys.confirm):
			f, ok := m.list.SelectedItem().(*FileItem)
			if ok && f.IsDir {
				if err := m.chdir(f.Path); err != nil {
					m.list.Title = StyleError.Render(f.Path + ": " + err.Error())
				}
				return m, nil
			}
			m.result = m.selectedPaths()
			if len(m.result) == 0 && ok {
				m.result = []string{f.Path}
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m filePickerModel) View() string {
	if m.quitting {
		return ""
	}
	return StyleBorder.Render(m.list.View())
}

// RunImagePicker lets the user pick image files below start. Space marks
// files in any directory, enter returns the marked files, or the file
// under the cursor when nothing is marked.
func RunImagePicker(fs afero.Fs, start string) ([]string, error) {
	m := &filePickerModel{
		fs:       fs,
		selected: make(map[string]bool),
	}
	m.list = list.New(nil, fileDelegate{}, 0, 0)
	m.list.SetShowStatusBar(false)
	m.list.SetFilteringEnabled(true)
	m.list.Styles.Title = StyleHeader
	m.list.Styles.HelpStyle = StyleHelp
	m.list.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{fileKeys.toggle, fileKeys.parent, fileKeys.toggleHidden}
	}
	if err := m.chdir(start); err != nil {
		return nil, fmt.Errorf("loading %s: %w", start, err)
	}

	finalModel, err := tea.NewProgram(*m, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("running file picker: %w", err)
	}
	fm, ok := finalModel.(filePickerModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if fm.err != nil {
		return nil, fm.err
	}
	return fm.result, nil
}
