package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/listpositions/pkg/config"
	"github.com/ssargent/listpositions/pkg/di"
)

type containerKey struct{}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "listctl",
	Short: "listctl - CRDT list-position replica and inspection CLI",
	Long: `listctl runs a replica's Order and Lists behind a REST API
(listctl serve), and provides local commands for bootstrapping a
replica, inserting values, and comparing positions without a server
running.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipContainer(cmd) {
			return nil
		}

		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		var cfg *config.Config
		var err error
		if config.ConfigExists(configPath) {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
		} else {
			cfg, err = config.BootstrapConfig(configPath, "", "")
			if err != nil {
				return fmt.Errorf("bootstrapping config: %w", err)
			}
			cmd.Printf("No configuration found; bootstrapped one at %s\n", configPath)
		}

		if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
			cfg.DataDir = dataDir
		}

		container, err := di.NewContainer(cfg)
		if err != nil {
			return fmt.Errorf("initializing replica: %w", err)
		}

		cmd.SetContext(context.WithValue(cmd.Context(), containerKey{}, container))
		return nil
	},
}

// skipContainer reports whether cmd has no use for a live replica
// container: init hasn't bootstrapped a config yet to load, and the
// service tree only shells out to systemctl.
func skipContainer(cmd *cobra.Command) bool {
	if cmd.Name() == "init" {
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "service" {
			return true
		}
	}
	return false
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory override")
}

// containerFrom fetches the replica container stashed in cmd's context by
// the root command's PersistentPreRunE.
func containerFrom(cmd *cobra.Command) (*di.Container, error) {
	c, ok := cmd.Context().Value(containerKey{}).(*di.Container)
	if !ok {
		return nil, fmt.Errorf("replica container not initialized")
	}
	return c, nil
}
