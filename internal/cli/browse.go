package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/family"
)

// browseCommand creates the browse command: pick a root person
// interactively, then render the tree below them.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags      renderFlags
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pick a root person interactively and render their tree",
		Long: `Pick a root person interactively and render their tree.

Type to filter by name or id, move with the arrow keys and press enter to
render the tree below the selected person with the render flags given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.applyConfig(cmd, c.cfg)
			return c.runBrowse(cmd.Context(), parseFormats(formatsStr), flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, formats []string, flags renderFlags) error {
	src, closeSrc, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	runner := c.newRunner(ctx, flags.noCache)
	snap, err := c.load(ctx, runner, src, flags.refresh)
	runner.Close()
	closeSrc()
	if err != nil {
		return err
	}
	if len(snap.Persons) == 0 {
		printInfo("No persons in %s", src)
		return nil
	}

	final, err := tea.NewProgram(newPersonListModel(snap.Persons), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	m, ok := final.(personListModel)
	if !ok || m.Selected == nil {
		return nil
	}

	printInfo("Selected %s", personStyle(*m.Selected).Render(m.Selected.Name))
	// The snapshot is cached for cacheable sources, so this second load is cheap.
	flags.refresh = false
	return c.runRender(ctx, []string{m.Selected.ID}, formats, flags)
}

// =============================================================================
// personListModel - Interactive root selection
// =============================================================================

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	listCurStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// personListModel is the bubbletea model for picking a person.
type personListModel struct {
	persons  []family.Person // sorted by name
	visible  []int           // indexes into persons matching query
	query    string
	Cursor   int
	Offset   int
	Height   int
	Selected *family.Person
}

func newPersonListModel(persons []family.Person) personListModel {
	sorted := make([]family.Person, len(persons))
	copy(sorted, persons)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := strings.ToLower(sorted[i].Name), strings.ToLower(sorted[j].Name)
		if a != b {
			return a < b
		}
		return sorted[i].ID < sorted[j].ID
	})
	m := personListModel{persons: sorted, Height: 15}
	m.filter()
	return m
}

// filter recomputes the visible rows and resets the cursor.
func (m *personListModel) filter() {
	q := strings.ToLower(m.query)
	m.visible = nil
	for i, p := range m.persons {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.ID), q) {
			m.visible = append(m.visible, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m personListModel) Init() tea.Cmd {
	return nil
}

func (m personListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(m.visible) == 0 {
				return m, nil
			}
			p := m.persons[m.visible[m.Cursor]]
			m.Selected = &p
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.query != "" {
				r := []rune(m.query)
				m.query = string(r[:len(r)-1])
				m.filter()
			}
		case tea.KeySpace:
			m.query += " "
			m.filter()
		case tea.KeyRunes:
			m.query += string(msg.Runes)
			m.filter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	return m, nil
}

func (m personListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Root Person"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n")
	b.WriteString(listCurStyle.Render("> ") + m.query)
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		p := m.persons[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, p.Name, p.ID, lifespan(p)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "ID", "Lived").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			if idx == m.Cursor {
				return listCurStyle
			}
			if col == 1 {
				return personStyle(m.persons[m.visible[idx]])
			}
			return listDimStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))

	return b.String()
}
