package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// compareCmd represents the compare command.
var compareCmd = &cobra.Command{
	Use:   "compare <lex-a> <lex-b>",
	Short: "Compare two lex-encoded positions",
	Long: `Compare decodes both positions with Order.Unlex and prints the
sign of a's comparison against b: -1 if a sorts before b, 0 if equal, 1
if a sorts after b.

Example:
  listctl compare "m,1" "n,1"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := containerFrom(cmd)
		if err != nil {
			return err
		}
		defer container.Close()

		posA, err := container.Order.Unlex(args[0])
		if err != nil {
			return fmt.Errorf("decoding %q: %w", args[0], err)
		}
		posB, err := container.Order.Unlex(args[1])
		if err != nil {
			return fmt.Errorf("decoding %q: %w", args[1], err)
		}

		sign, err := container.Order.Compare(posA, posB)
		if err != nil {
			return fmt.Errorf("comparing positions: %w", err)
		}

		cmd.Println(sign)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
