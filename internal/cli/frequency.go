package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	frequencyFile    string
	frequencyWords   []string
	frequencyTimeout time.Duration
)

// frequencyCmd represents the frequency command
var frequencyCmd = &cobra.Command{
	Use:   "frequency [text]",
	Short: "Count lemma-based occurrences of search words in a text",
	Long: `Frequency matches search words against a text by shared base forms,
not surface strings: searching for "puella" also finds "puellam",
"puellae" and every other inflected form the dictionary maps to the
same lemma. Positions are 1-based token indices.

Example:
  navilex frequency --words puella,rosa "puella puellam rosa"
  navilex frequency --words bellum --file caesar.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFrequency,
}

func init() {
	rootCmd.AddCommand(frequencyCmd)

	frequencyCmd.Flags().StringVarP(&frequencyFile, "file", "f", "", "read the text from a file (- for stdin)")
	frequencyCmd.Flags().StringSliceVarP(&frequencyWords, "words", "w", nil, "comma-separated search words (required)")
	frequencyCmd.Flags().DurationVar(&frequencyTimeout, "timeout", 5*time.Minute, "overall timeout")
	_ = frequencyCmd.MarkFlagRequired("words")
}

func runFrequency(cmd *cobra.Command, args []string) error {
	text, err := readText(args, frequencyFile)
	if err != nil {
		return err
	}
	if len(frequencyWords) == 0 {
		return fmt.Errorf("at least one search word is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), frequencyTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	resolver, _ := newRuntime(cfg)

	report := resolver.WordFrequency(ctx, text, frequencyWords)
	return printJSON(report)
}
