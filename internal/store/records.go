package store

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
)

// deleteBatchSize bounds the number of ids bound into one DELETE statement.
const deleteBatchSize = 500

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// BulkLoad appends records in a single transaction.
func (rs *RecordStoreImpl) BulkLoad(ctx context.Context, records iter.Seq2[schema.CrashRecord, error]) (int64, error) {
	// Drain the sequence so malformed input is still reported without persistence
	if rs.disabled() {
		var n int64
		for _, err := range records {
			if err != nil {
				return 0, err
			}
			n++
		}
		return n, nil
	}

	if rs.backend == schema.PostgreSQLBackend {
		return rs.copyFromPostgres(ctx, records)
	}

	tx, err := rs.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin load transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteTableName(rs.tableName, rs.backend),
		strings.Join(schema.InsertColumns, ", "),
		placeholders(len(schema.InsertColumns)))
	stmt, err := tx.PrepareContext(ctx, rebind(query, rs.backend))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var n int64
	for record, err := range records {
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, insertArgs(record, dateArg(record.CrashDate))...); err != nil {
			return 0, fmt.Errorf("failed to insert collision %d: %w", record.CollisionID, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit load: %w", err)
	}
	return n, nil
}

// insertArgs returns the bind values of a record in InsertColumns order.
func insertArgs(r schema.CrashRecord, crashDate any) []any {
	return []any{
		r.CollisionID,
		crashDate,
		r.CrashTime,
		r.Borough,
		r.ZipCode,
		r.Latitude,
		r.Longitude,
		r.OnStreetName,
		r.PersonsInjured,
		r.PersonsKilled,
		r.ContributingFactor,
		r.VehicleType,
	}
}

// DeleteWhere removes every record matching the predicate in its own transaction.
func (rs *RecordStoreImpl) DeleteWhere(ctx context.Context, p contract.Predicate) (int64, error) {
	var deleted int64
	err := rs.Apply(ctx, func(tx contract.RecordTx) error {
		var err error
		deleted, err = tx.DeleteWhere(ctx, p)
		return err
	})
	return deleted, err
}

// Apply runs fn in one transaction, committing only when fn succeeds.
func (rs *RecordStoreImpl) Apply(ctx context.Context, fn func(tx contract.RecordTx) error) error {
	if rs.disabled() {
		return fn(noopTx{})
	}

	tx, err := rs.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&recordTx{store: rs, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// recordTx implements RecordTx over a live transaction.
type recordTx struct {
	store *RecordStoreImpl
	q     execer
}

var _ contract.RecordTx = &recordTx{} // Compile-time check

func (t *recordTx) DeleteWhere(ctx context.Context, p contract.Predicate) (int64, error) {
	if strings.TrimSpace(p.Clause) == "" {
		return 0, fmt.Errorf("refusing to delete without a predicate")
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", quoteTableName(t.store.tableName, t.store.backend), p.Clause)
	res, err := t.q.ExecContext(ctx, rebind(query, t.store.backend), p.Args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *recordTx) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	var total int64
	for start := 0; start < len(ids); start += deleteBatchSize {
		batch := ids[start:min(start+deleteBatchSize, len(ids))]
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		n, err := t.DeleteWhere(ctx, contract.Predicate{
			Clause: fmt.Sprintf("%s IN (%s)", schema.ColID, placeholders(len(batch))),
			Args:   args,
		})
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (t *recordTx) GeoValues(ctx context.Context) ([]schema.GeoValue, error) {
	query := fmt.Sprintf("SELECT %s, %s, %s FROM %s WHERE %s IS NOT NULL AND %s IS NOT NULL ORDER BY %s",
		schema.ColID, schema.ColLatitude, schema.ColLongitude,
		quoteTableName(t.store.tableName, t.store.backend),
		schema.ColLatitude, schema.ColLongitude, schema.ColID)
	rows, err := t.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var values []schema.GeoValue
	for rows.Next() {
		var v schema.GeoValue
		if err := rows.Scan(&v.ID, &v.Latitude, &v.Longitude); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// noopTx backs Apply on the disabled store.
type noopTx struct{}

func (noopTx) DeleteWhere(context.Context, contract.Predicate) (int64, error) { return 0, nil }
func (noopTx) DeleteByIDs(context.Context, []int64) (int64, error)           { return 0, nil }
func (noopTx) GeoValues(context.Context) ([]schema.GeoValue, error)          { return nil, nil }

// SelectAll returns every record ordered by crash date then id.
func (rs *RecordStoreImpl) SelectAll(ctx context.Context) ([]schema.CrashRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s, %s",
		strings.Join(schema.SelectColumns, ", "),
		quoteTableName(rs.tableName, rs.backend),
		schema.ColCrashDate, schema.ColID)
	rows, err := rs.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &contract.QueryError{Step: "select records", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var records []schema.CrashRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, &contract.QueryError{Step: "select records", Err: err}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &contract.QueryError{Step: "select records", Err: err}
	}
	return records, nil
}

// scanRecord scans one row laid out as SelectColumns.
func scanRecord(rows *sql.Rows) (schema.CrashRecord, error) {
	var (
		r                       schema.CrashRecord
		crashDate               any
		borough, zip, lat, lon  sql.NullString
		street, factor, vehicle sql.NullString
		injured, killed         sql.NullInt64
	)
	if err := rows.Scan(&r.ID, &r.CollisionID, &crashDate, &r.CrashTime, &borough, &zip, &lat, &lon,
		&street, &injured, &killed, &factor, &vehicle); err != nil {
		return r, err
	}
	d, err := scanDate(crashDate)
	if err != nil {
		return r, fmt.Errorf("record %d: %w", r.ID, err)
	}
	r.CrashDate = d
	r.Borough = nullableString(borough)
	r.ZipCode = nullableString(zip)
	r.Latitude = nullableString(lat)
	r.Longitude = nullableString(lon)
	r.OnStreetName = street.String
	r.PersonsInjured = int(injured.Int64)
	r.PersonsKilled = int(killed.Int64)
	r.ContributingFactor = factor.String
	r.VehicleType = vehicle.String
	return r, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// CountByDate returns per-date counts within [lo, hi] for dates with at least one record.
func (rs *RecordStoreImpl) CountByDate(ctx context.Context, lo, hi time.Time) ([]schema.DailyCount, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM %s WHERE %s BETWEEN ? AND ? GROUP BY %s ORDER BY %s",
		schema.ColCrashDate, quoteTableName(rs.tableName, rs.backend),
		schema.ColCrashDate, schema.ColCrashDate, schema.ColCrashDate)
	rows, err := rs.db.QueryContext(ctx, rebind(query, rs.backend), dateArg(lo), dateArg(hi))
	if err != nil {
		return nil, &contract.QueryError{Step: "count by date", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var counts []schema.DailyCount
	for rows.Next() {
		var raw any
		var c schema.DailyCount
		if err := rows.Scan(&raw, &c.Count); err != nil {
			return nil, &contract.QueryError{Step: "count by date", Err: err}
		}
		if c.Date, err = scanDate(raw); err != nil {
			return nil, &contract.QueryError{Step: "count by date", Err: err}
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &contract.QueryError{Step: "count by date", Err: err}
	}
	return counts, nil
}

// CountByHour returns counts keyed by the two-digit hour prefix of crash_time.
func (rs *RecordStoreImpl) CountByHour(ctx context.Context) (map[string]int64, error) {
	if rs.disabled() {
		return map[string]int64{}, nil
	}

	hourExpr := fmt.Sprintf("SUBSTR(%s, 1, 2)", schema.ColCrashTime)
	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s",
		hourExpr, quoteTableName(rs.tableName, rs.backend), hourExpr)
	rows, err := rs.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &contract.QueryError{Step: "count by hour", Err: err}
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int64)
	for rows.Next() {
		var hour string
		var n int64
		if err := rows.Scan(&hour, &n); err != nil {
			return nil, &contract.QueryError{Step: "count by hour", Err: err}
		}
		counts[hour] += n
	}
	if err := rows.Err(); err != nil {
		return nil, &contract.QueryError{Step: "count by hour", Err: err}
	}
	return counts, nil
}

// Count returns the number of stored records.
func (rs *RecordStoreImpl) Count(ctx context.Context) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}
	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(rs.tableName, rs.backend))
	if err := rs.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, &contract.QueryError{Step: "count", Err: err}
	}
	return n, nil
}

// Clear removes every record.
func (rs *RecordStoreImpl) Clear(ctx context.Context) error {
	if rs.disabled() {
		return nil
	}
	query := fmt.Sprintf("DELETE FROM %s", quoteTableName(rs.tableName, rs.backend))
	if _, err := rs.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear %s: %w", rs.tableName, err)
	}
	return nil
}
