// Command grokline extracts named fields from log lines with grok patterns.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/grokline/grokline-go/internal/patternfinder"
	"github.com/grokline/grokline-go/pkg/grok"
	"github.com/grokline/grokline-go/pkg/grok/pattern"
)

var (
	// global flags
	verbose      bool
	sets         []string
	patternFiles []string
	patternsDir  string
	engineName   string
)

var rootCmd = &cobra.Command{
	Use:   "grokline",
	Short: "Extract named fields from log lines with grok patterns",
	Long: `grokline matches log lines against grok expressions such as

  %{IPORHOST:client.ip} %{WORD:verb} %{NUMBER:bytes:int}

and prints the extracted fields. The bundled pattern catalogs are loaded
by default; add your own with --pattern-file or a patterns directory
(--patterns-dir or the ` + patternfinder.EnvPatternsDir + ` environment variable).`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false,
		"Write debug logs to stderr")
	pf.StringSliceVar(&sets, "set", nil,
		"Bundled pattern sets to load (comma-separated, default all; "+pattern.DefaultBundle+" is always loaded)")
	pf.StringArrayVarP(&patternFiles, "pattern-file", "p", nil,
		"Pattern file to load (.patterns, .yaml or .yml, can be repeated)")
	pf.StringVar(&patternsDir, "patterns-dir", "",
		"Directory of pattern files (default $"+patternfinder.EnvPatternsDir+" or the user config directory)")
	pf.StringVar(&engineName, "engine", grok.EngineStdlib.String(),
		"Regex engine: regexp, coregex, re2")

	_ = rootCmd.RegisterFlagCompletionFunc("set", fixedCompletion(pattern.Bundles()))
	_ = rootCmd.RegisterFlagCompletionFunc("engine", fixedCompletion(grok.Engines()))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a debug text logger on w when verbose is set and a
// discarding logger otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// currentStoreConfig collects the global flags.
func currentStoreConfig() storeConfig {
	return storeConfig{
		Sets:         sets,
		PatternFiles: patternFiles,
		PatternsDir:  patternsDir,
	}
}

func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
