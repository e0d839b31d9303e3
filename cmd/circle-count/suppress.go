package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/circle-counter/internal/config"
	"github.com/ironsheep/circle-counter/internal/suppress"
)

var suppressCmd = &cobra.Command{
	Use:   "suppress [file]",
	Short: "Remove overlapping duplicates from a JSON list of circles",
	Long: `Reads candidate circles as JSON from file, or stdin when no file is given,
and writes the surviving circles as JSON in the order they were picked.

The input is either an array of {"x","y","r"} objects or an object with a
"circles" field holding such an array.`,
	Example: `  echo '[{"x":0,"y":0,"r":10},{"x":1,"y":1,"r":10}]' | circle-count suppress
  circle-count suppress --threshold 0.3 --metric disk candidates.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuppress,
}

func init() {
	rootCmd.AddCommand(suppressCmd)
}

func runSuppress(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	return suppressStream(in, cmd.OutOrStdout(), cfg.Suppression)
}

// suppressStream decodes candidates from r and writes survivors to w.
func suppressStream(r io.Reader, w io.Writer, cfg config.SuppressionConfig) error {
	candidates, err := decodeCandidates(r)
	if err != nil {
		return err
	}

	suppressor, err := cfg.Suppressor()
	if err != nil {
		return err
	}
	survivors, err := suppressor.Apply(candidates)
	if err != nil {
		return err
	}
	return outputJSON(w, survivors)
}

func decodeCandidates(r io.Reader) ([]suppress.Circle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading candidates: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("reading candidates: empty input")
	}

	if data[0] == '{' {
		var wrapped struct {
			Circles []suppress.Circle `json:"circles"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decoding candidates: %w", err)
		}
		return wrapped.Circles, nil
	}

	var circles []suppress.Circle
	if err := json.Unmarshal(data, &circles); err != nil {
		return nil, fmt.Errorf("decoding candidates: %w", err)
	}
	return circles, nil
}
