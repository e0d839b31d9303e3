package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ironsheep/circle-counter/internal/analysis"
	"github.com/ironsheep/circle-counter/internal/detection"
	"github.com/ironsheep/circle-counter/internal/suppress"
)

var countCmd = &cobra.Command{
	Use:   "count <image>...",
	Short: "Count distinct circles in one or more photographs",
	Long: `Detects circles in each photograph, removes overlapping duplicates and
prints the number of distinct circles. A photograph in which nothing at all was
detected reports -1.

With --annotate an annotated, resized copy of each photograph is saved to the
output directory under a timestamped name.`,
	Example: `  circle-count count coins.jpg
  circle-count count --annotate --output-dir out *.jpg
  circle-count count --json --threshold 0.3 --priority smallest-first coins.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCount,
}

func init() {
	countCmd.Flags().Bool("json", false, "Output as JSON")
	countCmd.Flags().Bool("annotate", false, "Save an annotated copy of each image")
	rootCmd.AddCommand(countCmd)
}

// countResult is one line of count output.
type countResult struct {
	Path       string            `json:"path"`
	Count      int               `json:"count"`
	Survivors  []suppress.Circle `json:"survivors,omitempty"`
	OutputPath string            `json:"output_path,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func runCount(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	annotate := mustGetBool(cmd, "annotate")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	analyzer, err := analysis.New(cfg, nil)
	if err != nil {
		return err
	}

	// Set up context with signal handling for graceful cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal...")
			cancel()
		case <-ctx.Done():
		}
	}()

	var bar *progressbar.ProgressBar
	if len(args) > 1 && !jsonOutput {
		bar = newCountProgressBar(len(args))
	}

	results, failed := countImages(ctx, analyzer, args, annotate, bar)

	if jsonOutput {
		if err := outputJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		outputHumanReadable(cmd.OutOrStdout(), results)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(args))
	}
	return nil
}

// countImages analyzes paths in order. A failing image is recorded and the
// batch continues unless ctx is cancelled.
func countImages(ctx context.Context, a *analysis.Analyzer, paths []string, annotate bool, bar *progressbar.ProgressBar) ([]countResult, int) {
	results := make([]countResult, 0, len(paths))
	failed := 0

	// Cancellation can leave the current image cached.
	defer a.Cache().Clear()

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}

		var (
			result *analysis.Result
			err    error
		)
		if annotate {
			result, err = a.Analyze(ctx, path, i)
		} else {
			result, err = a.Detect(ctx, path)
		}
		a.Cache().Evict(path)

		switch {
		case errors.Is(err, detection.ErrNoCircles):
			results = append(results, countResult{Path: path, Count: -1})
		case err != nil:
			failed++
			results = append(results, countResult{Path: path, Count: -1, Error: err.Error()})
		default:
			results = append(results, countResult{
				Path:       path,
				Count:      result.Count,
				Survivors:  result.Survivors,
				OutputPath: result.OutputPath,
			})
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	return results, failed
}

// newCountProgressBar draws on stderr so stdout stays parseable.
func newCountProgressBar(count int) *progressbar.ProgressBar {
	return progressbar.NewOptions(count,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Counting circles"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
}

func outputHumanReadable(w io.Writer, results []countResult) {
	for _, r := range results {
		switch {
		case r.Error != "":
			fmt.Fprintf(w, "%s: error: %s\n", r.Path, r.Error)
		case r.Count < 0:
			fmt.Fprintf(w, "%s: no circles detected (-1)\n", r.Path)
		default:
			fmt.Fprintf(w, "%s: %d circles\n", r.Path, r.Count)
		}
		if r.OutputPath != "" {
			fmt.Fprintf(w, "  saved %s\n", r.OutputPath)
		}
	}
}

func outputJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
