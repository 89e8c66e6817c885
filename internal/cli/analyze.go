package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	analyzeFile    string
	analyzeSingle  bool
	analyzeTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze every unique word of a Latin text",
	Long: `Analyze deduplicates the words of a text, resolves each against the
dictionary concurrently, and prints the per-word analysis as JSON in
first-occurrence order.

Example:
  navilex analyze "Gallia est omnis divisa in partes tres"
  navilex analyze --file caesar.txt
  cat caesar.txt | navilex analyze --file -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "read the text from a file (- for stdin)")
	analyzeCmd.Flags().BoolVar(&analyzeSingle, "single", false, "fetch only the first meaning per word")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readText(args, analyzeFile)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	resolver, words := newRuntime(cfg)

	start := time.Now()
	cleaned, analysis := resolver.AnalyzeText(ctx, text, !analyzeSingle)
	if verbose {
		fmt.Fprintf(os.Stderr, "Resolved %d unique words in %v\n", len(analysis), time.Since(start).Round(time.Millisecond))
	}

	if err := words.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: word cache flush: %v\n", err)
	}

	return printJSON(struct {
		OriginalText string `json:"original_text"`
		WordCount    int    `json:"word_count"`
		Results      any    `json:"results"`
	}{
		OriginalText: cleaned,
		WordCount:    len(analysis),
		Results:      analysis,
	})
}
