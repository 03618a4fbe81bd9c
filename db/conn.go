package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/viant/litebind/engine"
)

// Conn owns one engine handle. It compiles ad-hoc statements for the
// one-shot Exec/Collect/ForEach calls and hands out reusable prepared
// statements via Prepare. A Conn and its statements must be used from one
// goroutine at a time; the layer adds no locking of its own.
type Conn struct {
	db *engine.DB
}

// Open opens or creates the database at path in read-write mode. Pass
// ":memory:" for a temporary in-memory database.
func Open(path string) (*Conn, error) {
	return OpenFlags(path, engine.OpenReadWrite|engine.OpenCreate)
}

// OpenFlags opens the database at path with an explicit engine flag bitmask,
// e.g. engine.OpenReadOnly. The flags are passed through to the engine
// unmodified.
func OpenFlags(path string, flags engine.OpenFlag) (*Conn, error) {
	ed, err := engine.Open(path, flags)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &Conn{db: ed}, nil
}

// Close releases the connection. Every Stmt prepared on the connection must
// be closed first; the engine reports BUSY otherwise.
func (c *Conn) Close() error {
	if c.db == nil {
		return nil
	}
	ed := c.db
	c.db = nil
	return ed.Close()
}

// Prepare compiles the first statement in query for repeated bind/step
// cycles. Uncompiled trailing text is available as Stmt.Tail.
func (c *Conn) Prepare(query string) (*Stmt, error) {
	if c.db == nil {
		return nil, ErrBadConn
	}
	es, tail, err := c.db.Prepare(query)
	if err != nil {
		return nil, &PrepareError{Query: query, Err: err}
	}
	if es == nil {
		return nil, &PrepareError{Query: query, Err: errors.New("query contains no statement")}
	}
	return newStmt(c, es, tail), nil
}

// Exec executes every statement in query without returning rows. Each
// statement consumes the number of args its placeholder count requires, in
// order, so multi-statement scripts work:
//
//	c.Exec("UPDATE t SET a=?; UPDATE t SET b=?", 1, 2)
//
// Arguments left over after the last statement are a contract violation. A
// statement that produces rows (e.g. some PRAGMAs) is reset without its rows
// being visited.
func (c *Conn) Exec(query string, args ...any) error {
	if c.db == nil {
		return ErrBadConn
	}
	for query != "" {
		es, tail, err := c.db.Prepare(query)
		if err != nil {
			// Report only the statement that failed to compile, not the rest
			// of the script.
			failed := query
			if tail != "" {
				failed = failed[:len(failed)-len(tail)]
			}
			return &PrepareError{Query: failed, Err: err}
		}
		query = tail
		if es == nil {
			continue // comment or whitespace
		}
		s := newStmt(c, es, tail)
		var myArgs []any
		if s.nParams > 0 {
			myArgs = args
			if s.nParams < len(myArgs) {
				myArgs = myArgs[:s.nParams]
			}
			args = args[len(myArgs):]
		}
		err = s.Exec(myArgs...)
		if cerr := s.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	if len(args) != 0 {
		return fmt.Errorf("db: %d argument(s) left unconsumed", len(args))
	}
	return nil
}

// Begin starts a deferred transaction. It is a pass-through for
// Exec("BEGIN"): the layer keeps no transaction state of its own and the
// engine's nesting and error rules apply unchanged. Use Exec directly for
// IMMEDIATE or EXCLUSIVE transactions.
func (c *Conn) Begin() error { return c.Exec("BEGIN") }

// Commit saves the current transaction. Pass-through for Exec("COMMIT").
func (c *Conn) Commit() error { return c.Exec("COMMIT") }

// Rollback abandons the current transaction. Pass-through for
// Exec("ROLLBACK").
func (c *Conn) Rollback() error { return c.Exec("ROLLBACK") }

// AutoCommit reports whether the connection is outside an explicit
// transaction.
func (c *Conn) AutoCommit() bool {
	if c.db == nil {
		return false
	}
	return c.db.AutoCommit()
}

// LastInsertID returns the rowid of the most recent successful INSERT.
func (c *Conn) LastInsertID() int64 {
	if c.db == nil {
		return 0
	}
	return c.db.LastInsertRowid()
}

// RowsAffected returns the number of rows changed by the most recently
// completed statement.
func (c *Conn) RowsAffected() int {
	if c.db == nil {
		return 0
	}
	return c.db.Changes()
}

// BusyTimeout installs the engine's built-in busy handler. BUSY conditions
// that outlast the timeout still surface as StepErrors; nothing is retried
// by this layer.
func (c *Conn) BusyTimeout(d time.Duration) {
	if c.db != nil {
		c.db.BusyTimeout(d)
	}
}
