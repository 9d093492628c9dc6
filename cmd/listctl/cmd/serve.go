package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/listpositions/pkg/api"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the replica's REST API server, exposing order metadata
exchange and list operations to other replicas over HTTP.

Example:
  listctl serve --port 8089 --api-key mysecretkey`,
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := containerFrom(cmd)
		if err != nil {
			return err
		}
		defer container.Close()

		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			container.Config.Port = port
		}
		if apiKey, _ := cmd.Flags().GetString("api-key"); apiKey != "" {
			container.Config.Security.APIKey = apiKey
		}

		fmt.Printf("listctl serve: replica %s\n", container.Config.ReplicaID)
		fmt.Printf("listctl serve: data directory %s\n", container.Config.DataDir)

		return api.StartServer(container.Config.ReplicaID, container.Order, container.Persist, api.ServerConfig{
			Port:   container.Config.Port,
			APIKey: container.Config.Security.APIKey,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().String("api-key", "", "API key required on /api/v1 requests (overrides config)")
}
