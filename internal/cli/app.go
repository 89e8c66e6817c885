package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/dkrebs/navilex/internal/cache"
	"github.com/dkrebs/navilex/internal/lexicon"
	"github.com/dkrebs/navilex/internal/model"
	"github.com/dkrebs/navilex/internal/resolve"
)

// loadConfig builds the effective configuration: defaults, overlaid by
// the config file and NAVILEX_* environment variables.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if cfg.LLM.Provider != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

// newRuntime wires the resolver stack from config. The returned word
// cache is already loaded; callers flush it before exit.
func newRuntime(cfg *model.Config) (*resolve.Resolver, *cache.WordCache) {
	cachePath := cfg.Cache.Path
	if !cfg.Cache.Enabled {
		cachePath = ""
	}
	words := cache.NewWordCache(cachePath)
	if err := words.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring unreadable word cache: %v\n", err)
	}
	if verbose && words.Len() > 0 {
		fmt.Fprintf(os.Stderr, "Loaded %d cached lookups from %s\n", words.Len(), cfg.Cache.Path)
	}

	client := lexicon.NewClient(cfg.HTTP, cfg.RateLimit)
	resolver := resolve.NewResolver(client, words, cache.NewSessionCache(), cfg.Concurrency.MaxWorkers)
	return resolver, words
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// readText returns the text argument, or the contents of the file named
// by path. "-" reads stdin.
func readText(args []string, path string) (string, error) {
	switch {
	case path == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read text file: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return args[0], nil
	}
	return "", fmt.Errorf("no text given: pass it as an argument or use --file")
}
