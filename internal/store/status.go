package store

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/crashspot/schema"
)

// GetStatus returns status information about the record store.
func (rs *RecordStoreImpl) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(rs.backend),
		Connected: rs.db != nil,
	}

	if rs.disabled() {
		return status, nil
	}

	quotedTableName := quoteTableName(rs.tableName, rs.backend)

	// Get total records
	countQuery := fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT %s) FROM %s", schema.ColBorough, quotedTableName)
	if err := rs.db.QueryRowContext(ctx, countQuery).Scan(&status.TotalRecords, &status.Boroughs); err != nil {
		return status, fmt.Errorf("failed to get total records: %w", err)
	}

	if status.TotalRecords == 0 {
		return status, nil
	}

	// Get date coverage
	rangeQuery := fmt.Sprintf("SELECT MIN(%s), MAX(%s) FROM %s", schema.ColCrashDate, schema.ColCrashDate, quotedTableName)
	var rawMin, rawMax any
	if err := rs.db.QueryRowContext(ctx, rangeQuery).Scan(&rawMin, &rawMax); err != nil {
		return status, fmt.Errorf("failed to get date coverage: %w", err)
	}
	earliest, err := scanDate(rawMin)
	if err != nil {
		return status, fmt.Errorf("failed to parse earliest date: %w", err)
	}
	latest, err := scanDate(rawMax)
	if err != nil {
		return status, fmt.Errorf("failed to parse latest date: %w", err)
	}
	status.EarliestDate = &earliest
	status.LatestDate = &latest

	status.TableSizeBytes = rs.tableSize(ctx, status.TotalRecords)
	return status, nil
}

// tableSize estimates the table size in bytes, falling back to a row-based guess.
func (rs *RecordStoreImpl) tableSize(ctx context.Context, totalRecords int64) int64 {
	estimate := totalRecords * 200 // Rough estimate

	var size int64
	switch rs.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := rs.db.QueryRowContext(ctx, sizeQuery).Scan(&size); err != nil {
			return estimate
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(rs.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := rs.db.QueryRowContext(ctx, sizeQuery, cfg.DBName, rs.tableName).Scan(&size); err != nil {
			return estimate
		}
	case schema.PostgreSQLBackend:
		if err := rs.db.QueryRowContext(ctx, "SELECT pg_total_relation_size($1)", rs.tableName).Scan(&size); err != nil {
			return estimate
		}
	default:
		return estimate
	}
	return size
}

// PrintStoreStatus prints record store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Records: %d\n", status.TotalRecords)
	if status.TotalRecords > 0 {
		fmt.Printf("Distinct Boroughs: %d\n", status.Boroughs)
		fmt.Printf("Earliest Crash: %s\n", status.EarliestDate.Format(schema.DateLayout))
		fmt.Printf("Latest Crash: %s\n", status.LatestDate.Format(schema.DateLayout))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}
