package core

import (
	"context"
	"fmt"
	"os"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/internal/parquet"
	"github.com/huangsam/crashspot/internal/store"
)

// ExecuteStoreStatus prints status information about the record store.
func ExecuteStoreStatus(ctx context.Context, rs contract.RecordStore) error {
	status, err := rs.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	store.PrintStoreStatus(status)
	return nil
}

// ExecuteStoreClear removes every record from the store.
func ExecuteStoreClear(ctx context.Context, rs contract.RecordStore) error {
	if err := rs.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	fmt.Println("Record store cleared.")
	return nil
}

// ExecuteStoreExport writes a Parquet snapshot of every stored record.
func ExecuteStoreExport(ctx context.Context, rs contract.RecordStore, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("export requires --output-file")
	}
	records, err := selectRecords(ctx, rs)
	if err != nil {
		return err
	}
	if err := parquet.WriteCrashRowsParquet(records, outputFile); err != nil {
		return fmt.Errorf("failed to export records: %w", err)
	}
	_, err = fmt.Fprintf(os.Stderr, "💾 Exported %d records to %s\n", len(records), outputFile)
	return err
}
