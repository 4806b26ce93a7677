package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/cimbrief/internal/pipeline"
	"github.com/ppiankov/cimbrief/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	deckFormat   string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|list-file>",
	Short: "Summarize many CIMs in parallel",
	Long: `Batch runs the pipeline over every supported document in a directory,
or over the paths listed in a text file (one per line, # comments allowed).
Each document writes <slug>.md, <slug>.pptx (or .pdf) and <slug>.json into
the output directory. A failed document does not stop the others.

Example:
  cimbrief batch ./cims
  cimbrief batch cims.txt --concurrency 2 --output-dir ./briefs --format pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 2, "documents processed at once")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./cimbrief-out", "output directory")
	batchCmd.Flags().StringVar(&deckFormat, "format", "pptx", "deck format (pptx or pdf)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the batch")
}

func runBatch(cmd *cobra.Command, args []string) error {
	source := args[0]

	var deckExt string
	switch deckFormat {
	case "pptx":
		deckExt = ".pptx"
	case "pdf":
		deckExt = ".pdf"
	default:
		return fmt.Errorf("unknown deck format %q (supported: pptx, pdf)", deckFormat)
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

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  cimbrief batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Source:       %s\n", source)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "\n")

	p := pipeline.New(cfg, client, logger)
	p.SetProgress(nil)
	p.SetPayloadBesideDeck(true)

	processor := worker.NewBatchProcessor(p, concurrency, outputDir, deckExt)

	fmt.Fprintf(os.Stderr, "⚙️  Processing documents...\n\n")
	results, err := processor.ProcessSource(ctx, source)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	failures := 0
	for _, result := range results {
		if result.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.InputPath, result.Error)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s → %s (%d slides)\n", result.InputPath, result.Run.DeckPath, result.Run.SlideCount)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", len(results)-failures)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failures)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failures > 0 && failures == len(results) {
		return fmt.Errorf("all %d documents failed", failures)
	}
	return nil
}
