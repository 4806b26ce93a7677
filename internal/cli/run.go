package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/cimbrief/internal/pipeline"
)

var (
	runInput   string
	runSummary string
	runDeck    string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Summarize one CIM into a Markdown summary and a deck",
	Long: `Run the full pipeline on one document:
- extract text (PDF, DOCX, ODT, HTML, Markdown, plain text)
- split it into Company Overview, Financials, Market Opportunity, Risks
- summarize each section
- build the deck payload and render the deck

Any path not given as a flag is asked for on stdin.

Example:
  cimbrief run --input cim.pdf --summary summary.md --deck deck.pptx
  cimbrief run --input cim.docx --summary summary.md --deck deck.pdf
  cimbrief run`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runInput, "input", "", "input document path")
	runCmd.Flags().StringVar(&runSummary, "summary", "", "output summary Markdown path")
	runCmd.Flags().StringVar(&runDeck, "deck", "", "output deck path (.pptx or .pdf)")
}

func runRun(cmd *cobra.Command, args []string) error {
	in := bufio.NewReader(cmd.InOrStdin())
	prompts := []struct {
		value *string
		label string
	}{
		{&runInput, "Input document path"},
		{&runSummary, "Output summary path (.md)"},
		{&runDeck, "Output deck path (.pptx or .pdf)"},
	}
	for _, p := range prompts {
		if strings.TrimSpace(*p.value) != "" {
			continue
		}
		v, err := ask(in, os.Stderr, p.label)
		if err != nil {
			return err
		}
		*p.value = v
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, responses, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	defer logCacheStats(logger, responses)

	p := pipeline.New(cfg, client, logger)
	result, err := p.RunDocument(cmd.Context(), runInput, runSummary, runDeck)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n✓ Summary: %s\n", result.SummaryPath)
	fmt.Fprintf(os.Stderr, "✓ Deck:    %s (%d slides)\n", result.DeckPath, result.SlideCount)
	if result.PayloadPath != "" {
		fmt.Fprintf(os.Stderr, "✓ Payload: %s\n", result.PayloadPath)
	}
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "  Run %s finished in %s\n", result.RunID, result.Duration.Round(time.Millisecond))
	}
	return nil
}

// ask prompts on w and reads one non-empty line from in
func ask(in *bufio.Reader, w io.Writer, label string) (string, error) {
	for {
		fmt.Fprintf(w, "%s: ", label)
		line, err := in.ReadString('\n')
		if v := strings.TrimSpace(line); v != "" {
			return v, nil
		}
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("%s is required", strings.ToLower(label))
			}
			return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
		}
	}
}
