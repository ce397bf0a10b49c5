package store

import (
	"context"
	"fmt"
	"iter"

	"github.com/huangsam/crashspot/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// copyFromPostgres streams records through the COPY protocol inside one transaction.
func (rs *RecordStoreImpl) copyFromPostgres(ctx context.Context, records iter.Seq2[schema.CrashRecord, error]) (int64, error) {
	conn, err := rs.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire PostgreSQL connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	next, stop := iter.Pull2(records)
	defer stop()

	var copied int64
	err = conn.Raw(func(driverConn any) error {
		stdConn, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return fmt.Errorf("unexpected PostgreSQL driver connection %T", driverConn)
		}
		tx, err := stdConn.Conn().Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin load transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		source := pgx.CopyFromFunc(func() ([]any, error) {
			record, err, ok := next()
			if !ok {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return insertArgs(record, schema.DayOf(record.CrashDate)), nil
		})

		copied, err = tx.CopyFrom(ctx, pgx.Identifier{rs.tableName}, schema.InsertColumns, source)
		if err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}
