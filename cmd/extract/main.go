package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperqa/paperqa/pkg/latex"
)

var (
	inputDir  string
	outputDir string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "extract",
		Short: "Extract structured metadata from LaTeX papers",
		Long: `Scans the input directory for .tex files and writes one JSON file per
paper with its title, abstract, year, citations, equations, first table and a
main-text sample.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return extractDir(inputDir, outputDir, cmd.OutOrStdout())
		},
	}

	rootCmd.Flags().StringVar(&inputDir, "input", "input", "Directory containing .tex files")
	rootCmd.Flags().StringVar(&outputDir, "output", "output", "Directory to write JSON files to")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func extractDir(inputDir, outputDir string, out io.Writer) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	texFiles, err := filepath.Glob(filepath.Join(inputDir, "*.tex"))
	if err != nil {
		return err
	}
	if len(texFiles) == 0 {
		return fmt.Errorf("no .tex files found in %q", inputDir)
	}

	for _, path := range texFiles {
		fmt.Fprintf(out, "Processing: %s\n", filepath.Base(path))

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		features := latex.ExtractFeatures(string(content))
		data, err := json.MarshalIndent(features, "", "  ")
		if err != nil {
			return err
		}

		stem := strings.TrimSuffix(filepath.Base(path), ".tex")
		outPath := filepath.Join(outputDir, stem+".json")
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}

		fmt.Fprintf(out, "Saved extracted features to %s\n", outPath)
	}

	return nil
}
