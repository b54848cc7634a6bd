package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/atlast-io/atlast/pkg/archive"
	"github.com/atlast-io/atlast/pkg/atlas"
)

// inspectCommand creates the inspect command for examining an archive.
func (c *CLI) inspectCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Show the contents of a packed atlas archive",
		Long: `Inspect reads a packed archive and prints every sprite record:
its name and its normalized region within the atlas image.

Examples:
  atlast inspect output.atlas
  atlast inspect output.atlas --interactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0], interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse records in an interactive list")

	return cmd
}

func (c *CLI) runInspect(path string, interactive bool) error {
	pngBytes, data, err := archive.Read(path)
	if err != nil {
		return err
	}
	records, err := atlas.UnmarshalRecords(data)
	if err != nil {
		return err
	}

	if interactive {
		model := NewRecordListModel(path, records)
		program := tea.NewProgram(model)
		_, err := program.Run()
		return err
	}

	printSuccess("%s", path)
	printDetail("%d records, %d byte atlas image", len(records), len(pngBytes))

	if len(records) == 0 {
		printInfo("Archive contains no records")
		return nil
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.Name,
			formatFraction(r.X),
			formatFraction(r.Y),
			formatFraction(r.Width),
			formatFraction(r.Height),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "X", "Y", "W", "H").
		Rows(rows...)
	fmt.Println(t)

	return nil
}

// formatFraction renders a normalized coordinate with stable width.
func formatFraction(v float32) string {
	return fmt.Sprintf("%.4f", v)
}
