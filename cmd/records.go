// file: cmd/records.go
// version: 1.0.0
// guid: 2e4a6c8d-0f2b-4c5e-9d7f-3a5b7c9d1e3f

package cmd

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble/v2"
	"github.com/spf13/cobra"

	"github.com/librorank/librorank/internal/config"
	"github.com/librorank/librorank/internal/database"
)

var (
	recordsCmd = &cobra.Command{
		Use:   "records",
		Short: "Inspect resolved catalog records",
		Long:  "Utilities for inspecting and pruning the resolved-record database.",
	}

	recordsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			raw, _ := cmd.Flags().GetBool("raw")
			prefix, _ := cmd.Flags().GetString("prefix")
			return runRecordsList(limit, prefix, raw)
		},
	}

	recordsDeleteCmd = &cobra.Command{
		Use:   "delete <google-id>",
		Short: "Delete one stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closer, err := ensureRecordStore()
			if err != nil {
				return err
			}
			defer closer()

			if err := database.GlobalStore.DeleteRecord(args[0]); err != nil {
				return fmt.Errorf("failed to delete record: %w", err)
			}
			fmt.Printf("Deleted record %s\n", args[0])
			return nil
		},
	}
)

func init() {
	recordsListCmd.Flags().Int("limit", 10, "Number of records to display")
	recordsListCmd.Flags().String("prefix", "record:", "Key prefix to inspect when --raw is set")
	recordsListCmd.Flags().Bool("raw", false, "Show raw Pebble key/value data (Pebble only)")

	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsDeleteCmd)
}

func ensureRecordStore() (func(), error) {
	if err := database.InitializeStore(
		config.AppConfig.DatabaseType,
		config.AppConfig.DatabasePath,
	); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return func() { database.CloseStore() }, nil
}

func runRecordsList(limit int, prefix string, raw bool) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}

	if raw {
		if config.AppConfig.DatabaseType != "pebble" {
			return fmt.Errorf("raw inspection is only available for Pebble databases")
		}
		return runRawPebbleList(limit, prefix)
	}

	closer, err := ensureRecordStore()
	if err != nil {
		return err
	}
	defer closer()

	records, err := database.GlobalStore.ListRecords()
	if err != nil {
		return fmt.Errorf("failed to fetch records: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}
	if len(records) > limit {
		records = records[:limit]
	}

	for i, rec := range records {
		fmt.Printf("%2d. ID: %s\n", i+1, rec.GoogleID)
		fmt.Printf("    Title: %s\n", rec.Title)
		if len(rec.Authors) > 0 {
			fmt.Printf("    Authors: %v\n", rec.Authors)
		}
		if rec.PublishedYear != 0 {
			fmt.Printf("    Year: %d\n", rec.PublishedYear)
		}
		if rec.Publisher != "" {
			fmt.Printf("    Publisher: %s\n", rec.Publisher)
		}
		fmt.Println("---")
	}
	return nil
}

func runRawPebbleList(limit int, prefix string) error {
	db, err := pebble.Open(config.AppConfig.DatabasePath, &pebble.Options{
		FormatMajorVersion: pebble.FormatNewest,
	})
	if err != nil {
		return fmt.Errorf("failed to open Pebble database: %w", err)
	}
	defer db.Close()

	iterOpts := &pebble.IterOptions{}
	if prefix != "" {
		iterOpts.LowerBound = []byte(prefix)
		iterOpts.UpperBound = append([]byte(prefix), 0xFF)
	}

	iter, err := db.NewIter(iterOpts)
	if err != nil {
		return fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	count := 0
	for ok := iter.First(); ok && iter.Valid(); ok = iter.Next() {
		fmt.Printf("Key: %s\n", string(iter.Key()))
		val := string(iter.Value())
		if len(val) > 500 {
			val = val[:500] + "..."
		}
		fmt.Printf("Value: %s\n", val)
		fmt.Println("---")

		count++
		if count >= limit {
			break
		}
	}

	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterator error: %w", err)
	}
	if count == 0 {
		fmt.Println("No keys matched the requested prefix.")
	}
	return nil
}
