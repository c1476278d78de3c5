package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ideamap/ideamap/pkg/expand"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listCheckedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// IdeaListModel is the bubbletea model for picking which returned ideas
// to insert. All ideas start checked; space toggles, enter confirms.
type IdeaListModel struct {
	Ideas     []expand.Idea
	Checked   []bool
	Cursor    int
	Confirmed bool
}

// NewIdeaListModel creates an idea pick list with everything selected.
func NewIdeaListModel(ideas []expand.Idea) IdeaListModel {
	checked := make([]bool, len(ideas))
	for i := range checked {
		checked[i] = true
	}
	return IdeaListModel{Ideas: ideas, Checked: checked}
}

func (m IdeaListModel) Init() tea.Cmd {
	return nil
}

func (m IdeaListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Ideas)-1 {
			m.Cursor++
		}
	case " ":
		m.Checked[m.Cursor] = !m.Checked[m.Cursor]
	case "a":
		allOn := true
		for _, c := range m.Checked {
			if !c {
				allOn = false
				break
			}
		}
		for i := range m.Checked {
			m.Checked[i] = !allOn
		}
	case "enter":
		m.Confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m IdeaListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select ideas to add"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q cancel"))
	b.WriteString("\n\n")

	for i, idea := range m.Ideas {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := listDimStyle.Render("[ ]")
		if m.Checked[i] {
			check = listCheckedStyle.Render("[x]")
		}
		title := listNormalStyle.Render(idea.Title)
		if i == m.Cursor {
			title = listSelectedStyle.Render(idea.Title)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, check, title))
		if idea.Body != "" && i == m.Cursor {
			b.WriteString("      " + listDimStyle.Render(idea.Body) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d selected]", m.countChecked(), len(m.Ideas))))
	return b.String()
}

func (m IdeaListModel) countChecked() int {
	n := 0
	for _, c := range m.Checked {
		if c {
			n++
		}
	}
	return n
}

// Selected returns the checked ideas, or nil when the pick was
// cancelled.
func (m IdeaListModel) Selected() []expand.Idea {
	if !m.Confirmed {
		return nil
	}
	var out []expand.Idea
	for i, idea := range m.Ideas {
		if m.Checked[i] {
			out = append(out, idea)
		}
	}
	return out
}

// pickIdeas runs the interactive pick list and returns the selection.
// Cancelling returns an empty selection, never an error.
func pickIdeas(ideas []expand.Idea) ([]expand.Idea, error) {
	p := tea.NewProgram(NewIdeaListModel(ideas))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(IdeaListModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}
