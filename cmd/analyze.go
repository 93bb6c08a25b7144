package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wgomg/oratoria/internal/inference"
	"github.com/wgomg/oratoria/internal/utils"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a transcript and print the result as JSON",
	Long: `Runs the revision pipeline over a transcript read from file, or from
stdin when no file is given, and prints the analysis as indented JSON.

Examples:
  oratoria analyze charla.txt
  echo "Eh, este es un ejemplo." | oratoria analyze
  oratoria analyze --redundancy --grammar charla.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio>",
	Short: "Transcribe an audio file with the configured speech model",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscribe,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(transcribeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := utils.NewWriterLogger(cfg.App.LogLevel, cmd.ErrOrStderr())

	text, err := readTranscript(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	pipeline, _, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.Analyze(ctx, text, "cli")
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := utils.NewWriterLogger(cfg.App.LogLevel, cmd.ErrOrStderr())

	audio, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}

	inferenceClient, err := inference.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create inference client: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	text, err := inferenceClient.Transcribe(ctx, audio, audioContentType(args[0]))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

// readTranscript returns the content of the file named in args, or all of r
// when args is empty.
func readTranscript(r io.Reader, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) > 0 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(r)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}

	return string(data), nil
}

func audioContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
