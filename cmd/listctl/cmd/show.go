package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:   "show <list>",
	Short: "Print a named list's contents in order",
	Long: `Show walks the named list's entries in sequence order, printing
each one's index, lex-encoded position, and JSON value.

Example:
  listctl show todos`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := containerFrom(cmd)
		if err != nil {
			return err
		}
		defer container.Close()

		name := args[0]
		l, err := loadList(container, name)
		if err != nil {
			return err
		}

		entries, err := l.Entries()
		if err != nil {
			return fmt.Errorf("reading list %q: %w", name, err)
		}
		if len(entries) == 0 {
			cmd.Printf("%s is empty\n", name)
			return nil
		}

		for i, e := range entries {
			lex, err := container.Order.Lex(e.Position)
			if err != nil {
				return fmt.Errorf("encoding position at index %d: %w", i, err)
			}
			cmd.Printf("%d\t%s\t%s\n", i, lex, string(e.Value))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
