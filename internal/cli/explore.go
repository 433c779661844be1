package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bilateral/pkg/cover"
	"github.com/matzehuels/bilateral/pkg/output"
	"github.com/matzehuels/bilateral/pkg/team"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listFriendStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

// CoverListModel is the bubbletea model for browsing the minimum covers.
type CoverListModel struct {
	Covers   []cover.Cover
	Friend   team.ID
	Degree   map[team.ID]int // teams each employee belongs to
	Cursor   int
	Selected *cover.Cover
	Height   int
	Offset   int
}

// NewCoverListModel starts on the cover the solver would report.
func NewCoverListModel(r cover.Ranking, friend team.ID, degree map[team.ID]int) CoverListModel {
	m := CoverListModel{Covers: r.Optimal, Friend: friend, Degree: degree, Height: 15}
	best := r.Best()
	for i, c := range r.Optimal {
		if c.Equal(best) {
			m.Cursor = i
			break
		}
	}
	m.Offset = max(0, m.Cursor-m.Height+1)
	return m
}

func (m CoverListModel) Init() tea.Cmd {
	return nil
}

func (m CoverListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Covers)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Covers) - 1
			m.Offset = max(0, m.Cursor-m.Height+1)
		case "enter":
			c := m.Covers[m.Cursor]
			m.Selected = &c
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-8)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m CoverListModel) View() string {
	var b strings.Builder

	size := 0
	if len(m.Covers) > 0 {
		size = m.Covers[0].Len()
	}
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Minimum covers of size %d", size)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Covers))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Covers[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		friend := ""
		if c.Contains(m.Friend) {
			friend = iconSuccess
		}
		rows = append(rows, []string{cursor, fmt.Sprint(i + 1), m.members(c), friend})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Members (teams)", "Friend").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Covers) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Covers[idx].Contains(m.Friend) {
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  friend %s", m.Cursor+1, len(m.Covers), m.Friend)))
	return b.String()
}

// members lists c with each employee's team count, e.g. "1000(3) 2004(1)".
func (m CoverListModel) members(c cover.Cover) string {
	parts := make([]string, 0, c.Len())
	for _, id := range c.Members() {
		part := fmt.Sprintf("%s(%d)", id, m.Degree[id])
		if id == m.Friend {
			part = listFriendStyle.Render(part)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

type exploreOpts struct {
	solveFlags
	list bool
}

func (c *CLI) exploreCommand() *cobra.Command {
	var opts exploreOpts

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Browse every minimum cover of a dataset",
		Long: `List all covers of minimum size, not just the one solve reports, and pick
one interactively. Covers containing the friend are highlighted. The
selected cover is printed in the text output format.

Use --list to print every minimum cover without the interactive view.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd, argOrStdin(args), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.list, "list", false, "print every minimum cover and exit")

	return cmd
}

func (c *CLI) runExplore(cmd *cobra.Command, path string, opts *exploreOpts) error {
	ctx := cmd.Context()

	p, bodyFriend, err := readDataset(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	popts := opts.options(cmd, c)
	if bodyFriend != nil && !cmd.Flags().Changed("friend") {
		popts.Friend = *bodyFriend
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	if popts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, popts.Timeout)
		defer cancel()
	}

	var spin *Spinner
	copts := popts.CoverOptions()
	if !opts.quiet {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Enumerating %d teams...", p.Len()))
		copts.OnStep = func(s cover.StepInfo) {
			spin.SetMessage(fmt.Sprintf("Enumerating team %d/%d (%d candidates)", s.Step, s.Total, s.Frontier))
		}
		spin.Start()
	}
	f, err := cover.Enumerate(ctx, p, copts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	ranking, err := cover.Rank(f.Covers(), popts.Friend)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("ranked covers",
		"candidates", f.Len(), "optimal", len(ranking.Optimal), "preferred", len(ranking.Preferred))

	out := cmd.OutOrStdout()
	if opts.list {
		for _, cv := range ranking.Optimal {
			fmt.Fprintln(out, cv)
		}
		return nil
	}

	model := NewCoverListModel(ranking, popts.Friend, p.Degree())
	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(cmd.ErrOrStderr())}
	if path == "-" {
		// stdin carried the dataset; read keys from the terminal instead.
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	final, err := tea.NewProgram(model, progOpts...).Run()
	if err != nil {
		return err
	}
	if sel := final.(CoverListModel).Selected; sel != nil {
		return output.WriteText(out, *sel)
	}
	return nil
}
