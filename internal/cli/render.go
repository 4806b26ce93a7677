package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/cimbrief/internal/render"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <payload.json> <deck>",
	Short: "Re-render a deck from a saved payload",
	Long: `Render rebuilds a deck from the JSON payload a previous run dumped
(pptx_data.json by default) without calling the language model. The
deck format follows the output extension.

Example:
  cimbrief render pptx_data.json deck.pptx
  cimbrief render pptx_data.json deck.pdf`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := render.ReadPayload(args[0])
		if err != nil {
			return err
		}

		deck := render.BuildDeck(payload, time.Now())
		if err := render.WriteDeckFile(deck, args[1]); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "✓ Deck: %s (%d slides, %s)\n", args[1], len(deck.Slides), render.FormatForPath(args[1]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
