// Package sqlstore implements the domain repositories over database/sql.
//
// The same SQL runs on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite):
// numbered placeholders, RETURNING and ON CONFLICT are understood by both.
// Every repository goes through a unitofwork.Executor so all of a request's
// store access shares one serialized transaction.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"conferenceplanner/internal/unitofwork"
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique or primary key violation on either driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

// placeholders returns "($from, $from+1, ...)" for n values.
func placeholders(from, n int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", from+i)
	}
	b.WriteByte(')')
	return b.String()
}

// uniqueInts drops duplicates from ids, keeping first-seen order.
func uniqueInts(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func intArgs(ids []int) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// count returns the number of rows in table. table is always a constant.
func count(ctx context.Context, exec unitofwork.Executor, table string) (int, error) {
	var n int
	err := exec.Do(ctx, func(db unitofwork.DBTX) error {
		return db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// queryPairs runs a two-column integer query and groups the second column by the first.
func queryPairs(ctx context.Context, db unitofwork.DBTX, query string, args ...any) (map[int][]int, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int][]int)
	for rows.Next() {
		var key, value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		result[key] = append(result[key], value)
	}
	return result, rows.Err()
}
