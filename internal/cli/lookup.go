package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	lookupNr      int
	lookupAll     bool
	lookupTimeout time.Duration
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <word>",
	Short: "Look up a single Latin word form",
	Long: `Lookup resolves one word form against the dictionary and prints the
result as JSON. Results are cached on disk, so repeating a lookup is free.

Example:
  navilex lookup amavit
  navilex lookup est --nr 2
  navilex lookup est --all`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().IntVar(&lookupNr, "nr", 1, "result number for ambiguous forms (1-based)")
	lookupCmd.Flags().BoolVar(&lookupAll, "all", false, "fetch every dictionary meaning of the form")
	lookupCmd.Flags().DurationVar(&lookupTimeout, "timeout", 30*time.Second, "overall lookup timeout")
}

func runLookup(cmd *cobra.Command, args []string) error {
	word := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	resolver, words := newRuntime(cfg)

	var out any
	if lookupAll {
		_, analysis := resolver.AnalyzeText(ctx, word, true)
		if wa := analysis.Word(strings.ToLower(word)); wa != nil {
			out = wa
		} else {
			return fmt.Errorf("lookup %q failed", word)
		}
	} else {
		record := resolver.Lookup(ctx, word, lookupNr)
		if record.Error != "" {
			return fmt.Errorf("lookup %q: %s", word, record.Error)
		}
		out = record
	}

	if err := words.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: word cache flush: %v\n", err)
	}
	return printJSON(out)
}
