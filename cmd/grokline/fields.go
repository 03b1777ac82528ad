package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/grokline/grokline-go/pkg/grok"
)

var showSource bool

var fieldsCmd = &cobra.Command{
	Use:   "fields EXPR",
	Short: "Show the fields an expression captures",
	Long: `Compile a grok expression and print each field it can capture
together with its type.

Examples:
  grokline fields '%{COMMONAPACHELOG}'

  # Also print the compiled regular expression
  grokline fields --source '%{IP:client} %{NUMBER:bytes:int}'`,
	Args: cobra.ExactArgs(1),
	RunE: runFields,
}

func init() {
	fieldsCmd.Flags().BoolVar(&showSource, "source", false,
		"Print the compiled regular expression")
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	eng, err := grok.ParseEngine(engineName)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	store, err := buildStore(currentStoreConfig(), logger)
	if err != nil {
		return err
	}
	p, err := store.Compile(args[0], grok.WithEngine(eng), grok.WithLogger(logger))
	if err != nil {
		return err
	}
	return printFields(p, showSource, cmd.OutOrStdout())
}

// printFields writes one "field type" line per field, sorted by name.
func printFields(p *grok.Pattern, source bool, out io.Writer) error {
	types := p.FieldTypes()
	for _, f := range p.Fields() {
		if _, err := fmt.Fprintf(out, "%-32s %s\n", f, types[f]); err != nil {
			return err
		}
	}
	if source {
		if _, err := fmt.Fprintf(out, "\n%s\n", p.Source()); err != nil {
			return err
		}
	}
	return nil
}
