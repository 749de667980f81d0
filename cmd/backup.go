// file: cmd/backup.go
// version: 1.0.0
// guid: 9f1b3d5e-7a9c-4e1f-8b4d-0c2e4f6a8b0c

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/librorank/librorank/internal/backup"
	"github.com/librorank/librorank/internal/config"
)

var (
	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the library and record database",
	}

	backupCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a snapshot archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := backup.CreateSnapshot(
				config.AppConfig.LibraryPath,
				config.AppConfig.DatabasePath,
				backupConfig(),
			)
			if err != nil {
				return fmt.Errorf("snapshot failed: %w", err)
			}
			fmt.Printf("Created %s (%d bytes, sha256 %s)\n", info.Path, info.Size, info.Checksum)
			return nil
		},
	}

	backupListCmd = &cobra.Command{
		Use:   "list",
		Short: "List snapshot archives",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := backup.ListSnapshots(backupConfig().BackupDir)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("No snapshots found.")
				return nil
			}
			for _, info := range infos {
				fmt.Printf("%s  %d bytes  %s\n",
					info.Filename, info.Size, info.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
)

func backupConfig() backup.Config {
	cfg := backup.DefaultConfig()
	if config.AppConfig.DataDir != "" {
		cfg.BackupDir = filepath.Join(config.AppConfig.DataDir, "backups")
	}
	return cfg
}

func init() {
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	rootCmd.AddCommand(backupCmd)
}
