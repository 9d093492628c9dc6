package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/listpositions/pkg/config"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap a new listctl configuration",
	Long: `Bootstrap generates a configuration file with a fresh replica id
and API key, ready for "listctl serve" or "listctl insert".

Examples:
  listctl init
  listctl init --data-dir ./mydata --replica-id laptop-1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		dataDir, _ := cmd.Flags().GetString("data-dir")
		replicaID, _ := cmd.Flags().GetString("replica-id")
		force, _ := cmd.Flags().GetBool("force")

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to reinitialize.\n", configPath)
			return nil
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir, replicaID)
		if err != nil {
			return fmt.Errorf("bootstrapping config: %w", err)
		}

		cmd.Printf("Initialized listctl configuration at %s\n", configPath)
		cmd.Printf("Replica ID: %s\n", cfg.ReplicaID)
		cmd.Printf("API key:    %s\n", cfg.Security.APIKey)
		cmd.Printf("Data dir:   %s\n", cfg.DataDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("data-dir", "./data", "Data directory for the replica")
	initCmd.Flags().String("replica-id", "", "Replica id (generated if omitted)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
}
