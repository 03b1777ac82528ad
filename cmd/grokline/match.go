package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/grokline/grokline-go/internal/linereader"
	"github.com/grokline/grokline-go/pkg/grok"
)

var (
	// match flags
	extraExprs   []string
	format       string
	matchAll     bool
	showUnmatch  bool
	includeRaw   bool
	onTypeError  string
	stopOnErrors bool
)

var matchCmd = &cobra.Command{
	Use:   "match EXPR [FILE...]",
	Short: "Extract fields from log lines",
	Long: `Match every input line against a grok expression and output the
extracted fields.

Lines are read from the given files in order, or from stdin when no file
is given ("-" also means stdin). Records are output as JSON Lines by
default, which makes it easy to process with tools like jq.

Examples:
  # Parse an Apache access log
  grokline match '%{COMMONAPACHELOG}' access.log

  # Typed fields
  grokline match '%{IP:client} %{WORD:verb} %{NUMBER:bytes:int}' app.log

  # Try several formats, first match wins
  grokline match '%{SYSLOGLINE}' -e '%{HAPROXYHTTP}' messages

  # Human-readable output, showing lines that did not match
  grokline match '%{COMBINEDAPACHELOG}' --format pretty --unmatched access.log

  # Pipe to jq for filtering
  cat access.log | grokline match '%{COMMONAPACHELOG}' | jq 'select(.fields.response == "404")'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringArrayVarP(&extraExprs, "expr", "e", nil,
		"Additional expression to try (can be repeated)")
	matchCmd.Flags().StringVarP(&format, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	matchCmd.Flags().BoolVarP(&matchAll, "all", "a", false,
		"Run every expression and merge the fields of all matches")
	matchCmd.Flags().BoolVarP(&showUnmatch, "unmatched", "u", false,
		"Output lines that did not match")
	matchCmd.Flags().BoolVar(&includeRaw, "raw", false,
		"Include raw lines in output")
	matchCmd.Flags().StringVar(&onTypeError, "on-type-error", grok.ConvertStrict.String(),
		"Typed fields that fail to convert: strict (report line), raw (keep text), drop (omit field)")
	matchCmd.Flags().BoolVar(&stopOnErrors, "fail-fast", false,
		"Stop at the first line that fails instead of reporting it and continuing")

	_ = matchCmd.RegisterFlagCompletionFunc("format", fixedCompletion([]string{"jsonl", "pretty"}))
	_ = matchCmd.RegisterFlagCompletionFunc("on-type-error", fixedCompletion([]string{"strict", "raw", "drop"}))

	rootCmd.AddCommand(matchCmd)
}

// WarningRateLimit is the maximum number of per-line warnings written per
// second. Further warnings are counted and summarized at the end.
const WarningRateLimit = 10

// matchOptions controls how matched lines are written.
type matchOptions struct {
	Format     string
	Unmatched  bool
	IncludeRaw bool
	FailFast   bool
}

func runMatch(cmd *cobra.Command, args []string) error {
	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !validFormats[format] {
		return fmt.Errorf("invalid format %q (valid: jsonl, pretty)", format)
	}
	policy, err := grok.ParseConversionPolicy(onTypeError)
	if err != nil {
		return err
	}
	eng, err := grok.ParseEngine(engineName)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), verbose)
	store, err := buildStore(currentStoreConfig(), logger)
	if err != nil {
		return err
	}

	mode := grok.ChainFirst
	if matchAll {
		mode = grok.ChainAll
	}
	exprs := append([]string{args[0]}, extraExprs...)
	parser, err := buildParser(store, exprs, mode,
		grok.WithEngine(eng),
		grok.WithConversionPolicy(policy),
		grok.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	opts := matchOptions{
		Format:     format,
		Unmatched:  showUnmatch,
		IncludeRaw: includeRaw,
		FailFast:   stopOnErrors,
	}
	err = matchLines(ctx, parser, args[1:], cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// buildParser compiles every expression. A single expression is used
// directly; several form a chain.
func buildParser(store *grok.Store, exprs []string, mode grok.ChainMode, opts ...grok.CompileOption) (grok.Parser, error) {
	patterns := make([]*grok.Pattern, 0, len(exprs))
	for i, expr := range exprs {
		p, err := store.Compile(expr, opts...)
		if err != nil {
			if len(exprs) == 1 {
				return nil, err
			}
			return nil, fmt.Errorf("expression %d: %w", i+1, err)
		}
		patterns = append(patterns, p)
	}
	if len(patterns) == 1 {
		return patterns[0], nil
	}
	return grok.NewChain(mode, patterns...), nil
}

// matchLines parses every line of sources and writes one record per
// matched line. Lines that fail to parse are reported on errOut and
// skipped unless opts.FailFast is set.
func matchLines(ctx context.Context, parser grok.Parser, sources []string, stdin io.Reader, out, errOut io.Writer, opts matchOptions, logger *slog.Logger) error {
	var matched, unmatched, failed, suppressed int
	limiter := rate.NewLimiter(WarningRateLimit, WarningRateLimit)

	err := linereader.Read(ctx, sources, stdin, func(l linereader.Line) error {
		result, err := parser.ParseLine(ctx, l.Text)
		if err != nil {
			if opts.FailFast {
				return fmt.Errorf("%s:%d: %w", l.Source, l.Num, err)
			}
			failed++
			if !limiter.Allow() {
				suppressed++
				return nil
			}
			fmt.Fprintf(errOut, "warning: %s:%d: %s\n", l.Source, l.Num, strings.ReplaceAll(err.Error(), "\n", "; "))
			return nil
		}

		rec := Record{
			Source:   l.Source,
			Line:     l.Num,
			Matched:  result.Matched,
			Fields:   result.Fields,
			Patterns: result.Patterns,
		}
		if opts.IncludeRaw || !result.Matched {
			rec.Raw = l.Text
		}

		if !result.Matched {
			unmatched++
			if !opts.Unmatched {
				return nil
			}
		} else {
			matched++
		}

		if err := OutputRecord(opts.Format, rec, out); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		return nil
	}, linereader.WithLogger(logger))

	if suppressed > 0 {
		fmt.Fprintf(errOut, "warning: %d more failed lines not shown\n", suppressed)
	}
	logger.Debug("match finished", "matched", matched, "unmatched", unmatched, "failed", failed)
	return err
}
