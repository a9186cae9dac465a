package dialog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type pickMode int

const (
	pickFolder pickMode = iota
	pickFiles
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#9F96FF"})
	locationStyle = lipgloss.NewStyle().Faint(true)
	chosenStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1B7F3B", Dark: "#5FD787"})
	helpStyle     = lipgloss.NewStyle().Faint(true).Italic(true)
)

// pickerModel hosts a filepicker and remembers what the user chose.
// Folder mode chooses the directory being browsed; files mode toggles
// files into an ordered selection.
type pickerModel struct {
	mode      pickMode
	picker    filepicker.Model
	chosen    []string
	done      bool
	cancelled bool
}

func newPickerModel(mode pickMode, startDirectory string, showHidden bool) pickerModel {
	picker := filepicker.New()
	picker.CurrentDirectory = startDirectory
	picker.ShowHidden = showHidden
	picker.ShowPermissions = false
	picker.DirAllowed = false
	picker.FileAllowed = mode == pickFiles
	return pickerModel{mode: mode, picker: picker}
}

func (m pickerModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case "s":
			if m.mode == pickFolder {
				m.chosen = []string{m.picker.CurrentDirectory}
				m.done = true
				return m, tea.Quit
			}
		case "ctrl+d":
			if m.mode == pickFiles {
				m.done = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if m.mode == pickFiles {
		if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
			m.chosen = toggle(m.chosen, path)
		}
	}
	return m, cmd
}

func (m pickerModel) View() string {
	if m.done {
		return ""
	}
	var builder strings.Builder
	title := "Select a folder to sort"
	help := "enter/→ open • ←/esc back • s choose this folder • q cancel"
	if m.mode == pickFiles {
		title = "Select files"
		help = "enter toggle file • ←/esc back • ctrl+d confirm • q cancel"
	}
	builder.WriteString(titleStyle.Render(title))
	builder.WriteString("\n")
	builder.WriteString(locationStyle.Render(m.picker.CurrentDirectory))
	builder.WriteString("\n\n")
	builder.WriteString(m.picker.View())
	builder.WriteString("\n")
	if m.mode == pickFiles && len(m.chosen) > 0 {
		builder.WriteString(chosenStyle.Render(fmt.Sprintf("%d selected", len(m.chosen))))
		builder.WriteString("\n")
	}
	builder.WriteString(helpStyle.Render(help))
	return builder.String()
}

// selection reports the chosen paths, or nil when nothing was chosen.
func (m pickerModel) selection() []string {
	if m.cancelled || len(m.chosen) == 0 {
		return nil
	}
	return slices.Clone(m.chosen)
}

func toggle(paths []string, path string) []string {
	if index := slices.Index(paths, path); index >= 0 {
		return slices.Delete(paths, index, index+1)
	}
	return append(paths, path)
}
