package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"
	"testing"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlExpectation is one statement the fake connection must receive, in order.
type sqlExpectation struct {
	exec     bool
	pattern  *regexp.Regexp
	args     []driver.Value
	columns  []string
	rows     [][]driver.Value
	affected int64
	err      error
}

func expectQuery(pattern string, args ...driver.Value) *sqlExpectation {
	return &sqlExpectation{pattern: regexp.MustCompile(pattern), args: args}
}

func expectExec(pattern string, affected int64, args ...driver.Value) *sqlExpectation {
	return &sqlExpectation{exec: true, pattern: regexp.MustCompile(pattern), args: args, affected: affected}
}

// returning sets the result set of a query expectation.
func (e *sqlExpectation) returning(columns []string, rows ...[]driver.Value) *sqlExpectation {
	e.columns = columns
	e.rows = rows
	return e
}

func (e *sqlExpectation) failing(err error) *sqlExpectation {
	e.err = err
	return e
}

func (e *sqlExpectation) match(exec bool, query string, args []driver.NamedValue) error {
	if e.exec != exec {
		return fmt.Errorf("statement kind mismatch for %s", query)
	}
	if !e.pattern.MatchString(query) {
		return fmt.Errorf("query %q does not match %s", query, e.pattern)
	}
	if len(args) != len(e.args) {
		return fmt.Errorf("query %q: got %d args, want %d", query, len(args), len(e.args))
	}
	for i, a := range args {
		if a.Value != e.args[i] {
			return fmt.Errorf("query %q: arg %d is %#v, want %#v", query, i, a.Value, e.args[i])
		}
	}
	return nil
}

// sqlScript hands out expectations to the fake connection and records what is left.
type sqlScript struct {
	mu      sync.Mutex
	pending []*sqlExpectation
}

func (s *sqlScript) take(exec bool, query string, args []driver.NamedValue) (*sqlExpectation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil, fmt.Errorf("unexpected statement %q", query)
	}
	next := s.pending[0]
	if err := next.match(exec, query, args); err != nil {
		return nil, err
	}
	s.pending = s.pending[1:]
	return next, next.err
}

func (s *sqlScript) assertDone(t *testing.T) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.pending); n > 0 {
		t.Fatalf("%d expected statement(s) never ran, next: %s", n, s.pending[0].pattern)
	}
}

// scriptConnector implements driver.Connector so each test gets its own pool without
// registering a global driver name.
type scriptConnector struct {
	script *sqlScript
}

func (c scriptConnector) Connect(context.Context) (driver.Conn, error) {
	return scriptConn(c), nil
}

func (c scriptConnector) Driver() driver.Driver {
	return scriptDriver(c)
}

type scriptDriver scriptConnector

func (d scriptDriver) Open(string) (driver.Conn, error) {
	return scriptConn(d), nil
}

type scriptConn scriptConnector

func (scriptConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements are not scripted")
}

func (scriptConn) Close() error { return nil }

func (scriptConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions are not scripted")
}

func (c scriptConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := c.script.take(false, query, args)
	if err != nil {
		return nil, err
	}
	return &scriptRows{columns: e.columns, rows: e.rows}, nil
}

func (c scriptConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := c.script.take(true, query, args)
	if err != nil {
		return nil, err
	}
	return driver.RowsAffected(e.affected), nil
}

type scriptRows struct {
	columns []string
	rows    [][]driver.Value
	next    int
}

func (r *scriptRows) Columns() []string { return r.columns }

func (r *scriptRows) Close() error { return nil }

func (r *scriptRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	for i := range dest {
		dest[i] = nil
	}
	copy(dest, r.rows[r.next])
	r.next++
	return nil
}

// newScriptedDB returns a gorm handle on the MySQL dialect whose connection only accepts
// the given statements, in order.
func newScriptedDB(t *testing.T, expectations ...*sqlExpectation) (*gorm.DB, *sqlScript) {
	t.Helper()
	script := &sqlScript{pending: expectations}
	sqlDB := sql.OpenDB(scriptConnector{script: script})
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open scripted gorm db: %v", err)
	}
	return db, script
}
