package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/circle-counter/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the circle tools over MCP on stdin/stdout",
	Long: `Starts an MCP (Model Context Protocol) server on stdin/stdout. The global
flags become the defaults for every tool call.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Debug() {
		log.Printf("circle-count %s serving MCP (threshold %.2f, %s, %s)",
			Version, cfg.Suppression.Threshold, cfg.Suppression.Priority, cfg.Suppression.Metric)
	}

	return server.New(cfg).Serve(cmd.InOrStdin(), cmd.OutOrStdout())
}
