package sqlite

import (
	"context"
	"fmt"
	"slices"

	"github.com/maloquacious/timetracker/internal/store"
)

// Columns returns the column names of the given table in declaration order.
func (s *SQLiteStore) Columns(ctx context.Context, table string) ([]string, error) {
	if s.db == nil {
		return nil, store.ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// IndexedColumns maps each explicitly indexed column of table to its index name.
func (s *SQLiteStore) IndexedColumns(ctx context.Context, table string) (map[string]string, error) {
	if s.db == nil {
		return nil, store.ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT il.name, ii.name
		FROM pragma_index_list(?) AS il, pragma_index_info(il.name) AS ii
		WHERE il.origin = 'c'`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read indexes of %s: %w", table, err)
	}
	defer rows.Close()

	indexed := make(map[string]string)
	for rows.Next() {
		var index, column string
		if err := rows.Scan(&index, &column); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		indexed[column] = index
	}
	return indexed, rows.Err()
}

// Verify checks that the database is at the expected version and that
// tracked_time carries the declared fields and indexes.
func (s *SQLiteStore) Verify(ctx context.Context) error {
	state, err := s.CheckState()
	if err != nil {
		return err
	}
	switch state {
	case store.StateReady:
	case store.StateVersionMismatch:
		version, _ := s.GetSchemaVersion()
		return fmt.Errorf("%w: database has %q, expected %q", store.ErrVersionMismatch, version, s.expectedSchema)
	default:
		return fmt.Errorf("datastore is %s", state)
	}

	columns, err := s.Columns(ctx, store.EntriesTable)
	if err != nil {
		return err
	}
	for _, want := range append([]string{"id"}, indexedColumns...) {
		if !slices.Contains(columns, want) {
			return fmt.Errorf("table %s is missing column %q", store.EntriesTable, want)
		}
	}

	indexed, err := s.IndexedColumns(ctx, store.EntriesTable)
	if err != nil {
		return err
	}
	for _, want := range indexedColumns {
		if _, ok := indexed[want]; !ok {
			return fmt.Errorf("table %s has no index on %q", store.EntriesTable, want)
		}
	}
	return nil
}
