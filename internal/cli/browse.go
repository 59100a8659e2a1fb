package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/objectives/internal/cli/formatter"
	"github.com/alexanderramin/objectives/internal/domain"
	"github.com/alexanderramin/objectives/internal/service"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the objective tree interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := tea.NewProgram(newBrowserModel(cmd.Context(), app.Objectives),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(out(cmd)),
			)
			_, err := p.Run()
			return err
		},
	}
}

type browserKeys struct {
	Up       key.Binding
	Down     key.Binding
	Collapse key.Binding
	Cycle    key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultBrowserKeys() browserKeys {
	return browserKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Collapse: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "collapse")),
		Cycle:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "cycle status")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Collapse, k.Cycle, k.Quit, k.Help}
}

func (k browserKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Collapse, k.Cycle, k.Refresh},
		{k.Help, k.Quit},
	}
}

type forestLoadedMsg struct {
	forest []*domain.ObjectiveNode
	err    error
}

type statusChangedMsg struct {
	objective *domain.Objective
	err       error
}

// browserModel is the bubbletea model behind "objectives browse".
type browserModel struct {
	ctx        context.Context
	objectives service.ObjectiveService

	forest    []*domain.ObjectiveNode
	items     []formatter.TreeItem
	collapsed map[int64]bool
	cursor    int

	keys    browserKeys
	help    help.Model
	loading bool
	flash   string
	err     error
}

func newBrowserModel(ctx context.Context, objectives service.ObjectiveService) *browserModel {
	return &browserModel{
		ctx:        ctx,
		objectives: objectives,
		collapsed:  make(map[int64]bool),
		keys:       defaultBrowserKeys(),
		help:       help.New(),
		loading:    true,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return m.load()
}

func (m *browserModel) load() tea.Cmd {
	ctx, objectives := m.ctx, m.objectives
	return func() tea.Msg {
		forest, err := objectives.ListTree(ctx)
		return forestLoadedMsg{forest: forest, err: err}
	}
}

func (m *browserModel) cycleStatus(item formatter.TreeItem) tea.Cmd {
	ctx, objectives := m.ctx, m.objectives
	next := domain.NextStatus(item.Status)
	return func() tea.Msg {
		o, err := objectives.PatchStatus(ctx, item.ID, &next)
		return statusChangedMsg{objective: o, err: err}
	}
}

// selected returns the item under the cursor.
func (m *browserModel) selected() (formatter.TreeItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return formatter.TreeItem{}, false
	}
	return m.items[m.cursor], true
}

// reflow rebuilds the visible rows, keeping the cursor on the same objective when it is still visible.
func (m *browserModel) reflow() {
	var keep int64
	if item, ok := m.selected(); ok {
		keep = item.ID
	}
	m.items = formatter.FlattenForest(m.forest, m.collapsed)
	for i, item := range m.items {
		if item.ID == keep {
			m.cursor = i
			return
		}
	}
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case forestLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.forest = msg.forest
			m.reflow()
		}
		return m, nil

	case statusChangedMsg:
		if msg.err != nil {
			m.flash = "error: " + msg.err.Error()
			return m, nil
		}
		m.flash = fmt.Sprintf("#%d is now %s", msg.objective.ID, msg.objective.Status)
		return m, m.load()

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Collapse):
			if item, ok := m.selected(); ok && item.Children > 0 {
				m.collapsed[item.ID] = !m.collapsed[item.ID]
				m.reflow()
			}
		case key.Matches(msg, m.keys.Cycle):
			if item, ok := m.selected(); ok {
				return m, m.cycleStatus(item)
			}
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("Objectives"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.loading && m.items == nil:
		b.WriteString(formatter.Dim("Loading...") + "\n")
	case len(m.items) == 0:
		b.WriteString(formatter.Dim("No objectives yet. Create one with: objectives add") + "\n")
	default:
		for i, item := range m.items {
			cursor := "  "
			if i == m.cursor {
				cursor = formatter.StyleHeader.Render("> ")
			}
			line := formatter.TreeLine(item)
			if item.Detail != "" {
				line += "  " + formatter.StyleBlue.Render("[ "+item.Detail+" ]")
			}
			b.WriteString(cursor + line + "\n")
		}
	}

	if m.flash != "" {
		b.WriteString("\n" + formatter.Dim(m.flash) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}
