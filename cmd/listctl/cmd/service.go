package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/ssargent/listpositions/pkg/config"
)

const unitPath = "/etc/systemd/system/listctl.service"

// serviceCmd groups the systemd integration subcommands.
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage listctl as a systemd service",
	Long: `Manage listctl as a systemd service, for production deployments
that want automatic restart on failure and boot-time startup.`,
}

// installServiceCmd represents the service install command.
var installServiceCmd = &cobra.Command{
	Use:   "install",
	Short: "Install listctl as a systemd service",
	Long: `Install writes a systemd unit file for "listctl serve", using
(or bootstrapping) the configuration at --config.

Example:
  sudo listctl service install --user listctl --start`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Geteuid() != 0 {
			return fmt.Errorf("service install requires root privileges; run with sudo")
		}

		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		dataDir, _ := cmd.Flags().GetString("data-dir")
		user, _ := cmd.Flags().GetString("user")
		startNow, _ := cmd.Flags().GetBool("start")

		var cfg *config.Config
		var err error
		if config.ConfigExists(configPath) {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
		} else {
			cfg, err = config.BootstrapConfig(configPath, dataDir, "")
			if err != nil {
				return fmt.Errorf("bootstrapping config: %w", err)
			}
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if err := config.SaveConfig(cfg, configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		if err := createSystemdUnit(cfg, configPath, user); err != nil {
			return fmt.Errorf("creating systemd unit: %w", err)
		}
		if err := runSystemctl("daemon-reload"); err != nil {
			return fmt.Errorf("reloading systemd: %w", err)
		}
		if err := runSystemctl("enable", "listctl.service"); err != nil {
			return fmt.Errorf("enabling service: %w", err)
		}
		cmd.Println("Service enabled")

		if startNow {
			if err := runSystemctl("start", "listctl.service"); err != nil {
				return fmt.Errorf("starting service: %w", err)
			}
			cmd.Println("Service started")
		}

		cmd.Printf("Config: %s\n", configPath)
		cmd.Printf("Data:   %s\n", cfg.DataDir)
		cmd.Printf("Port:   %d\n", cfg.Port)
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the listctl service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSystemctl("start", "listctl.service")
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the listctl service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSystemctl("stop", "listctl.service")
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the listctl service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSystemctl("restart", "listctl.service")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show listctl service status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSystemctl("status", "listctl.service")
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show listctl service logs via journalctl",
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		lines, _ := cmd.Flags().GetInt("lines")

		journalArgs := []string{"-u", "listctl.service"}
		if follow {
			journalArgs = append(journalArgs, "-f")
		}
		if lines > 0 {
			journalArgs = append(journalArgs, fmt.Sprintf("-n%d", lines))
		}
		return runCommand("journalctl", journalArgs...)
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the listctl service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Geteuid() != 0 {
			return fmt.Errorf("service uninstall requires root privileges; run with sudo")
		}

		_ = runSystemctl("stop", "listctl.service")
		if err := runSystemctl("disable", "listctl.service"); err != nil {
			cmd.Printf("Warning: could not disable service: %v\n", err)
		}
		if _, err := os.Stat(unitPath); err == nil {
			if err := os.Remove(unitPath); err != nil {
				return fmt.Errorf("removing unit file: %w", err)
			}
		}
		if err := runSystemctl("daemon-reload"); err != nil {
			return fmt.Errorf("reloading systemd: %w", err)
		}
		cmd.Println("Service uninstalled (configuration and data were not removed)")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(installServiceCmd)
	serviceCmd.AddCommand(startCmd)
	serviceCmd.AddCommand(stopCmd)
	serviceCmd.AddCommand(restartCmd)
	serviceCmd.AddCommand(statusCmd)
	serviceCmd.AddCommand(logsCmd)
	serviceCmd.AddCommand(uninstallCmd)

	installServiceCmd.Flags().String("data-dir", "", "Data directory override")
	installServiceCmd.Flags().String("user", "listctl", "User to run the service as")
	installServiceCmd.Flags().Bool("start", true, "Start the service after installation")

	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsCmd.Flags().IntP("lines", "n", 0, "Number of lines to show")
}

// createSystemdUnit writes a systemd unit file running "listctl serve"
// under the given config and user.
func createSystemdUnit(cfg *config.Config, configPath, user string) error {
	unitContent := fmt.Sprintf(`[Unit]
Description=listctl CRDT list-position replica
After=network-online.target
Wants=network-online.target

[Service]
User=%s
Group=%s
ExecStart=/usr/local/bin/listctl serve --config %s
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths=%s

[Install]
WantedBy=multi-user.target
`, user, user, configPath, cfg.DataDir)

	return os.WriteFile(unitPath, []byte(unitContent), 0600)
}

func runSystemctl(args ...string) error {
	return runCommand("systemctl", args...)
}

func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
