package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/maloquacious/timetracker/internal/entry"
	"github.com/maloquacious/timetracker/internal/store"
)

const selectEntries = `SELECT id, seconds, date FROM tracked_time`

// Add inserts d and returns the persisted entry with its assigned id.
func (s *SQLiteStore) Add(ctx context.Context, d entry.Draft) (entry.Entry, error) {
	if s.db == nil {
		return entry.Entry{}, store.ErrNotOpen
	}
	if err := d.Validate(); err != nil {
		return entry.Entry{}, err
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO tracked_time (seconds, date) VALUES (?, ?)`, d.Seconds, toMillis(d.Date))
	if err != nil {
		return entry.Entry{}, fmt.Errorf("failed to insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return entry.Entry{}, fmt.Errorf("failed to read assigned id: %w", err)
	}

	return entry.Entry{ID: id, Seconds: d.Seconds, Date: fromMillis(toMillis(d.Date))}, nil
}

// Get returns the entry with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (entry.Entry, error) {
	if s.db == nil {
		return entry.Entry{}, store.ErrNotOpen
	}

	var (
		e  entry.Entry
		ms int64
	)
	err := s.db.QueryRowContext(ctx, selectEntries+` WHERE id = ?`, id).Scan(&e.ID, &e.Seconds, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return entry.Entry{}, fmt.Errorf("%w: id %d", store.ErrNotFound, id)
	}
	if err != nil {
		return entry.Entry{}, fmt.Errorf("failed to get entry %d: %w", id, err)
	}
	e.Date = fromMillis(ms)
	return e, nil
}

// Put replaces the stored record for e.ID and returns it with the date
// truncated to stored precision.
func (s *SQLiteStore) Put(ctx context.Context, e entry.Entry) (entry.Entry, error) {
	if s.db == nil {
		return entry.Entry{}, store.ErrNotOpen
	}
	if err := e.Validate(); err != nil {
		return entry.Entry{}, err
	}

	ms := toMillis(e.Date)
	res, err := s.db.ExecContext(ctx, `UPDATE tracked_time SET seconds = ?, date = ? WHERE id = ?`, e.Seconds, ms, e.ID)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("failed to update entry %d: %w", e.ID, err)
	}
	if err := requireAffected(res, e.ID); err != nil {
		return entry.Entry{}, err
	}
	return entry.Entry{ID: e.ID, Seconds: e.Seconds, Date: fromMillis(ms)}, nil
}

// Delete removes the entry with the given id.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	if s.db == nil {
		return store.ErrNotOpen
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM tracked_time WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry %d: %w", id, err)
	}
	return requireAffected(res, id)
}

// List returns every entry ordered by id.
func (s *SQLiteStore) List(ctx context.Context) ([]entry.Entry, error) {
	return s.query(ctx, selectEntries+` ORDER BY id`)
}

// ListByDate returns the entries within r ordered by date.
func (s *SQLiteStore) ListByDate(ctx context.Context, r entry.Range) ([]entry.Entry, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	from, to := rangeMillis(r)
	return s.query(ctx, selectEntries+` WHERE date BETWEEN ? AND ? ORDER BY date, id`, from, to)
}

// ListBySeconds returns the entries with min <= seconds <= max ordered by seconds.
func (s *SQLiteStore) ListBySeconds(ctx context.Context, min, max int64) ([]entry.Entry, error) {
	if max < min {
		return nil, fmt.Errorf("invalid seconds range: %d is less than %d", max, min)
	}
	return s.query(ctx, selectEntries+` WHERE seconds BETWEEN ? AND ? ORDER BY seconds, id`, min, max)
}

// Count returns the number of stored entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, store.ErrNotOpen
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracked_time`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// TotalSeconds sums the seconds of the entries within r.
func (s *SQLiteStore) TotalSeconds(ctx context.Context, r entry.Range) (int64, error) {
	if s.db == nil {
		return 0, store.ErrNotOpen
	}
	if err := r.Validate(); err != nil {
		return 0, err
	}

	from, to := rangeMillis(r)
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(seconds), 0) FROM tracked_time WHERE date BETWEEN ? AND ?`, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum seconds: %w", err)
	}
	return total, nil
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]entry.Entry, error) {
	if s.db == nil {
		return nil, store.ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []entry.Entry{}
	for rows.Next() {
		var (
			e  entry.Entry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.Seconds, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.Date = fromMillis(ms)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", store.ErrNotFound, id)
	}
	return nil
}

// Dates are stored as unix milliseconds in UTC.
func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func rangeMillis(r entry.Range) (int64, int64) {
	from, to := int64(math.MinInt64), int64(math.MaxInt64)
	if !r.From.IsZero() {
		from = toMillis(r.From)
	}
	if !r.To.IsZero() {
		to = toMillis(r.To)
	}
	return from, to
}
