package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// metaCmd represents the meta command.
var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Print the replica's BunchMeta snapshot as JSON",
	Long: `Meta prints the same []order.BunchMeta payload GET
/api/v1/order/metas returns: enough to reconstruct this replica's Order
on another node via "receive".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := containerFrom(cmd)
		if err != nil {
			return err
		}
		defer container.Close()

		metas := container.Order.Save()
		out, err := json.MarshalIndent(metas, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metaCmd)
}
