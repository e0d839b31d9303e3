package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ironsheep/circle-counter/internal/config"
)

var (
	configPath string
	threshold  float64
	priority   string
	metric     string
	outputDir  string
)

var rootCmd = &cobra.Command{
	Use:   "circle-count",
	Short: "Count distinct circles in photographs",
	Long: `circle-count detects circles in photographs, removes overlapping duplicate
detections and reports how many distinct circles remain. It can also write an
annotated copy of each photograph and serve the same tools over MCP.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file (default $CIRCLES_CONFIG)")
	rootCmd.PersistentFlags().Float64Var(&threshold, "threshold", config.Default().Suppression.Threshold, "Overlap ratio above which circles are duplicates (0-1)")
	rootCmd.PersistentFlags().StringVar(&priority, "priority", "", "Which duplicate survives: largest-first or smallest-first")
	rootCmd.PersistentFlags().StringVar(&metric, "metric", "", "Overlap metric: square-over-disk or disk")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "Directory for annotated images")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig reads the file and environment configuration, then applies any
// flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CIRCLES_CONFIG")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Suppression.Threshold = mustGetFloat64(cmd, "threshold")
	}
	if flags.Changed("priority") {
		cfg.Suppression.Priority = mustGetString(cmd, "priority")
	}
	if flags.Changed("metric") {
		cfg.Suppression.Metric = mustGetString(cmd, "metric")
	}
	if flags.Changed("output-dir") {
		cfg.Render.OutputDir = mustGetString(cmd, "output-dir")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
