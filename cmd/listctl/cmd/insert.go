package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// insertCmd represents the insert command.
var insertCmd = &cobra.Command{
	Use:   "insert <list> <index> <json-value>",
	Short: "Insert a value into a named list at an index",
	Long: `Insert mints one new position between the list's neighbors at
index and stores json-value there, persisting both the order metadata
and the list's snapshot.

Example:
  listctl insert todos 0 '"buy milk"'`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := containerFrom(cmd)
		if err != nil {
			return err
		}
		defer container.Close()

		name := args[0]
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("index must be an integer: %w", err)
		}
		if !json.Valid([]byte(args[2])) {
			return fmt.Errorf("value must be valid JSON")
		}

		l, err := loadList(container, name)
		if err != nil {
			return err
		}

		positions, meta, err := l.InsertAt(index, []json.RawMessage{json.RawMessage(args[2])})
		if err != nil {
			return fmt.Errorf("inserting into %q: %w", name, err)
		}

		if err := saveOrder(container); err != nil {
			return fmt.Errorf("persisting order metadata: %w", err)
		}
		if err := saveList(container, name, l); err != nil {
			return fmt.Errorf("persisting list %q: %w", name, err)
		}

		lex, err := container.Order.Lex(positions[0])
		if err != nil {
			return fmt.Errorf("encoding position: %w", err)
		}

		cmd.Printf("Inserted into %q at index %d: %s\n", name, index, lex)
		if meta != nil {
			cmd.Printf("New bunch minted: %s (parent %s)\n", meta.BunchID, meta.ParentID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(insertCmd)
}
