package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/cimbrief/internal/model"
	"github.com/ppiankov/cimbrief/internal/render"
	"github.com/ppiankov/cimbrief/internal/util"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <summary.md>",
	Short: "Show which sections of a summary carry content",
	Long: `Inspect parses an executive summary written by 'cimbrief run' and lists
each canonical section with its status: content, not available (the
sentinel), or missing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := render.ReadSummaryFile(args[0])
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SECTION\tSTATUS\tPREVIEW")
		for _, name := range model.Sections {
			text, ok := summary[name]
			status := "content"
			switch {
			case !ok:
				status = "missing"
			case text == model.Sentinel:
				status = "not available"
				text = ""
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", name, status, util.Truncate(firstLine(text), 60))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
