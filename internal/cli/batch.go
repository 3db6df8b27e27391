package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/truevail/internal/model"
	"github.com/ppiankov/truevail/internal/pipeline"
	"github.com/ppiankov/truevail/internal/worker"
)

var (
	batchType    string
	concurrency  int
	outputPath   string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many inputs from a file in parallel",
	Long: `Batch analyzes every line of a file concurrently:
- One text or URL per line; blank lines and # comments are skipped
- Duplicate lines are analyzed once
- Verdicts are written as JSON Lines in input order

Example:
  truevail batch inputs.txt
  truevail batch urls.txt --type link --concurrency 8 --output verdicts.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchType, "type", "t", string(model.KindNews), "analysis type for every line (news, link, advanced, privacy)")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output JSON Lines path (default: stdout)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	addModelFlags(batchCmd)
}

// batchLine is one JSON Lines record
type batchLine struct {
	Input      string        `json:"input"`
	Type       model.Kind    `json:"type"`
	Result     *model.Result `json:"result,omitempty"`
	Error      string        `json:"error,omitempty"`
	DurationMS int64         `json:"duration_ms"`
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	file := args[0]

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	kind := model.ParseKind(batchType)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  TrueVail Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Type:         %s\n", kind)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s\n", cfg.LLM.Provider)
	}
	fmt.Fprintf(os.Stderr, "\n")

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, createErr := os.Create(outputPath)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		out = f
	}

	p := pipeline.NewPipeline(cfg, pipeline.WithLogger(logger))
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, logger)

	results, err := processor.ProcessFile(ctx, file, kind)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	counts, err := writeBatchResults(out, results)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:      %d inputs\n", len(results))
	fmt.Fprintf(os.Stderr, "  AI:         %d\n", counts[model.SourceAI])
	fmt.Fprintf(os.Stderr, "  Heuristic:  %d\n", counts[model.SourceHeuristic])
	fmt.Fprintf(os.Stderr, "  Fallback:   %d\n", counts[model.SourceFallback])
	fmt.Fprintf(os.Stderr, "  Cancelled:  %d\n", counts[""])
	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "  Output:     %s\n", outputPath)
	}
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// writeBatchResults writes one JSON line per result and counts verdict
// sources; cancelled entries count under "".
func writeBatchResults(w io.Writer, results []*worker.AnalyzeResult) (map[model.Source]int, error) {
	counts := make(map[model.Source]int)
	enc := json.NewEncoder(w)

	for _, r := range results {
		line := batchLine{
			Input:      r.Request.Content,
			Type:       r.Request.Kind,
			Result:     r.Result,
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Error != nil {
			line.Error = r.Error.Error()
			counts[""]++
		} else if r.Result != nil {
			counts[r.Result.Source]++
		}
		if err := enc.Encode(line); err != nil {
			return counts, fmt.Errorf("write result: %w", err)
		}
	}
	return counts, nil
}
