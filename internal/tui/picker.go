package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/flatplay/flatplay/internal/manifest"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action Action
	Path   string
}

// Entry is a manifest offered for selection.
type Entry struct {
	Path    string
	Display string
	AppID   string
	Active  bool
}

// NewEntries describes paths for display, relative to root where possible.
func NewEntries(paths []string, current, root string) []Entry {
	entries := make([]Entry, len(paths))
	for i, path := range paths {
		display := path
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			display = rel
		}
		entry := Entry{Path: path, Display: display, Active: path == current}
		if m, err := manifest.Load(path); err == nil {
			entry.AppID = m.ID
		}
		entries[i] = entry
	}
	return entries
}

// manifestItem implements list.Item for manifest display
type manifestItem struct {
	entry Entry
}

func (i manifestItem) Title() string {
	if i.entry.Active {
		return "* " + i.entry.Display
	}
	return "  " + i.entry.Display
}

func (i manifestItem) Description() string {
	id := i.entry.AppID
	if id == "" {
		id = "unknown app ID"
	}
	return fmt.Sprintf("  %s | %s", id, truncatePath(filepath.Dir(i.entry.Path), 40))
}

func (i manifestItem) FilterValue() string {
	return i.entry.Display
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the manifest picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a new manifest picker with the active entry selected.
func NewPicker(entries []Entry) Model {
	items := make([]list.Item, len(entries))
	selected := 0
	for i, e := range entries {
		items[i] = manifestItem{entry: e}
		if e.Active {
			selected = i
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "flatplay - Select a manifest"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Select(selected)

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(manifestItem); ok {
				m.result = PickerResult{
					Action: ActionSelect,
					Path:   item.entry.Path,
				}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc", "ctrl+c":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Select  [/] Filter  [q] Cancel")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive manifest picker until a manifest is chosen,
// the user quits or ctx is cancelled.
func RunPicker(ctx context.Context, entries []Entry) (PickerResult, error) {
	if len(entries) == 0 {
		return PickerResult{Action: ActionQuit}, nil
	}

	m := NewPicker(entries)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive rendering of the manifest list
func SimplePicker(entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("flatplay - Manifests\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(entries) == 0 {
		sb.WriteString("No manifest files found.\n")
		return sb.String()
	}

	for i, e := range entries {
		marker := " "
		if e.Active {
			marker = "*"
		}
		id := e.AppID
		if id == "" {
			id = "unknown app ID"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s (%s)\n", marker, i+1, e.Display, id))
	}

	sb.WriteString("\nSelect one with: flatplay select-manifest <path>\n")
	return sb.String()
}

// IsInteractive reports whether f is a terminal the picker can drive.
func IsInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
