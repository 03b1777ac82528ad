package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/grokline/grokline-go/pkg/grok"
)

var listLong bool

var patternsCmd = &cobra.Command{
	Use:   "patterns [NAME...]",
	Short: "List registered patterns or show their definitions",
	Long: `Without arguments, list the names of all registered patterns.
With names, print each pattern's definition.

Examples:
  # Names with the set they come from
  grokline patterns --long

  # Show a definition
  grokline patterns COMMONAPACHELOG

  # Only the bundled syslog patterns and a custom file
  grokline patterns --set linux-syslog -p ./myapp.patterns`,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().BoolVarP(&listLong, "long", "l", false,
		"Show the set of each pattern")
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	store, err := buildStore(currentStoreConfig(), newLogger(cmd.ErrOrStderr(), verbose))
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return listPatterns(store, listLong, cmd.OutOrStdout())
	}
	return showPatterns(store, args, cmd.OutOrStdout())
}

// listPatterns writes registered names in sorted order.
func listPatterns(store *grok.Store, long bool, out io.Writer) error {
	for _, name := range store.Names() {
		var err error
		if long {
			def, _ := store.Get(name)
			_, err = fmt.Fprintf(out, "%-32s %s\n", name, def.Set)
		} else {
			_, err = fmt.Fprintln(out, name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// showPatterns writes the definition of each name in definition format.
func showPatterns(store *grok.Store, names []string, out io.Writer) error {
	for _, name := range names {
		def, ok := store.Get(name)
		if !ok {
			return fmt.Errorf("unknown pattern %q", name)
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", def.Name, def.Template); err != nil {
			return err
		}
	}
	return nil
}
