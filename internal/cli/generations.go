package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/pipeline"
)

// generationsCommand creates the generations command, which lists the
// persons of the first n generations below a person.
func (c *CLI) generationsCommand() *cobra.Command {
	var (
		n       int
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "generations [person-id]",
		Short: "List the persons of the first n generations below a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("count") {
				n = c.cfg.Render.Generations
			}
			return c.runGenerations(cmd.Context(), args[0], n, refresh)
		},
	}

	cmd.Flags().IntVarP(&n, "count", "n", pipeline.DefaultGenerations, "number of generations (0 = unlimited)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the family data, bypassing the snapshot cache")

	return cmd
}

func (c *CLI) runGenerations(ctx context.Context, id string, n int, refresh bool) error {
	src, closeSrc, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	runner := c.newRunner(ctx, false)
	defer runner.Close()

	snap, err := c.load(ctx, runner, src, refresh)
	if err != nil {
		return err
	}
	members, err := pipeline.Expand(snap, id, n)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, generationsTable(members))
	printDetail("%d persons in %d generations", len(members), generationCount(members))
	return nil
}

// generationsTable renders members as a table, one row per person.
func generationsTable(members []pipeline.Member) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			strconv.Itoa(m.Generation),
			m.ID,
			m.Name,
			lifespan(m.Person),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Gen", "ID", "Name", "Lived").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(members) {
				return lipgloss.NewStyle()
			}
			switch col {
			case 0, 3:
				return StyleDim
			case 2:
				return personStyle(members[row].Person)
			}
			return StyleValue
		})

	return t.Render()
}

func generationCount(members []pipeline.Member) int {
	if len(members) == 0 {
		return 0
	}
	return members[len(members)-1].Generation + 1
}
