package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/localbase/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize localbase configuration and storage",
		Long:  "Create the configuration directory and config.yaml, then open the\nconfigured backend once so its data directory exists.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %v", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError("create config directory: %v", err)
	}

	configPath := filepath.Join(configDir, configFileExt)
	created, err := writeConfigIfMissing(configPath, flags.dataDir)
	if err != nil {
		return sysError("write config: %v", err)
	}

	client, err := openClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	cfg := client.Config()
	out := cmd.OutOrStdout()
	if created {
		fmt.Fprintf(out, "Wrote %s\n", configPath)
	}
	fmt.Fprintf(out, "localbase initialized (backend %s, data %s)\n", cfg.Backend, cfg.DataDir)
	return nil
}
