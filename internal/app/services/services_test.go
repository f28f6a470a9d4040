package services

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/app/repositories"
)

// scriptedDB fakes the postgres wire behavior the transactional flows see,
// including the abort state: once a statement fails inside a transaction,
// every later statement in that transaction fails with SQLSTATE 25P02 until
// the transaction ends.
type scriptedDB struct {
	stmts   []string
	aborted bool

	// remaining INSERTs into communities that fail with a join code collision
	joinCodeCollisions int
	// makes the next INSERT into users fail as a duplicate email
	emailTaken bool

	defaults   []*models.Community
	memberRows [][2]int64
	codes      []string
	nextID     int64
}

func pgUniqueViolation(constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           "23505",
		ConstraintName: constraint,
		Message:        fmt.Sprintf("duplicate key value violates unique constraint %q", constraint),
	}
}

func pgTxAborted() *pgconn.PgError {
	return &pgconn.PgError{
		Code:    "25P02",
		Message: "current transaction is aborted, commands ignored until end of transaction block",
	}
}

func (db *scriptedDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *scriptedDB) stmtCount(fragment string) int {
	n := 0
	for _, s := range db.stmts {
		if strings.Contains(s, fragment) {
			n++
		}
	}
	return n
}

func (db *scriptedDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.stmts = append(db.stmts, sql)
	if db.aborted {
		return scanRow{err: pgTxAborted()}
	}

	switch {
	case strings.Contains(sql, "INSERT INTO users"):
		if db.emailTaken {
			db.aborted = true
			return scanRow{err: pgUniqueViolation("users_email_key")}
		}
		return scanRow{vals: []any{db.id(), time.Now(), time.Now()}}

	case strings.Contains(sql, "INSERT INTO profiles"):
		return scanRow{vals: []any{db.id(), 0, 0, time.Now(), time.Now()}}

	case strings.Contains(sql, "INSERT INTO communities"):
		db.codes = append(db.codes, args[6].(string))
		if db.joinCodeCollisions > 0 {
			db.joinCodeCollisions--
			db.aborted = true
			return scanRow{err: pgUniqueViolation(repositories.JoinCodeConstraint)}
		}
		return scanRow{vals: []any{db.id(), time.Now(), time.Now()}}

	case strings.Contains(sql, "INSERT INTO community_members"):
		db.memberRows = append(db.memberRows, [2]int64{args[0].(int64), args[1].(int64)})
		return scanRow{vals: []any{db.id(), time.Now()}}
	}

	return scanRow{err: fmt.Errorf("unscripted statement: %s", sql)}
}

func (db *scriptedDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.stmts = append(db.stmts, sql)
	if db.aborted {
		return nil, pgTxAborted()
	}

	if strings.Contains(sql, "is_default = TRUE") {
		branch := args[0].(string)
		var matched []*models.Community
		for _, c := range db.defaults {
			if c.Branch != nil && strings.EqualFold(*c.Branch, branch) {
				matched = append(matched, c)
			}
		}
		return &communityRows{communities: matched}, nil
	}

	return nil, fmt.Errorf("unscripted statement: %s", sql)
}

func (db *scriptedDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	db.stmts = append(db.stmts, sql)
	if db.aborted {
		return pgconn.CommandTag{}, pgTxAborted()
	}
	return pgconn.CommandTag{}, nil
}

// scanRow is a pgx.Row whose Scan assigns the scripted values in order.
type scanRow struct {
	vals []any
	err  error
}

func (r scanRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		if i >= len(r.vals) || r.vals[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

// communityRows serves scripted community rows in the column order the
// repository selects. Only the methods the repositories call are implemented.
type communityRows struct {
	pgx.Rows
	communities []*models.Community
	idx         int
}

func (r *communityRows) Next() bool {
	r.idx++
	return r.idx <= len(r.communities)
}

func (r *communityRows) Scan(dest ...any) error {
	c := r.communities[r.idx-1]
	return scanRow{vals: []any{
		c.ID, c.Name, c.Description, c.OwnerID, c.IsPrivate,
		c.IsDefault, c.Branch, c.JoinCode, c.CreatedAt, c.UpdatedAt,
	}}.Scan(dest...)
}

func (r *communityRows) Err() error { return nil }

func (r *communityRows) Close() {}

// fakeTx exposes a scriptedDB as a pgx.Tx so a repository set can bind to it.
// Methods beyond the Querier surface are never called by the code under test.
type fakeTx struct {
	pgx.Tx
	db *scriptedDB
}

func (t fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, sql, args...)
}

// scriptedTxManager runs each Run call as its own scripted transaction. The
// abort flag resets at the transaction boundary, exactly like a rollback.
type scriptedTxManager struct {
	db   *scriptedDB
	runs int
}

func (m *scriptedTxManager) Run(ctx context.Context, fn func(ctx context.Context, r *repositories.Repositories) error) error {
	m.runs++
	m.db.aborted = false
	err := fn(ctx, (&repositories.Repositories{}).WithTx(fakeTx{db: m.db}))
	m.db.aborted = false
	return err
}
