package db

import (
	"errors"
	"fmt"
)

var (
	// ErrBadConn is returned when a Conn is used after Close.
	ErrBadConn = errors.New("db: connection is closed")

	// ErrBadStmt is returned when a Stmt is used after Close.
	ErrBadStmt = errors.New("db: statement is finalized")
)

// OpenError reports a failure to open or create the backing store.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return fmt.Sprintf("db: open %q: %v", e.Path, e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// PrepareError reports that SQL text failed to compile.
type PrepareError struct {
	Query string
	Err   error
}

func (e *PrepareError) Error() string { return fmt.Sprintf("db: prepare %q: %v", e.Query, e.Err) }
func (e *PrepareError) Unwrap() error { return e.Err }

// BindError reports a rejected parameter binding. Index is the 1-indexed
// placeholder position.
type BindError struct {
	Index int
	Err   error
}

func (e *BindError) Error() string { return fmt.Sprintf("db: bind parameter %d: %v", e.Index, e.Err) }
func (e *BindError) Unwrap() error { return e.Err }

// StepError reports an engine failure while evaluating a statement:
// constraint violation, busy/locked store, I/O error.
type StepError struct {
	Err error
}

func (e *StepError) Error() string { return fmt.Sprintf("db: step: %v", e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

// ArityError reports a caller contract violation: the supplied parameter
// count does not match the statement's placeholder count, or the requested
// result kinds do not match the statement's column count. What is
// "parameter" or "column".
type ArityError struct {
	What string
	Want int // what the compiled statement has
	Got  int // what the call site supplied or requested
}

func (e *ArityError) Error() string {
	if e.What == "column" {
		return fmt.Sprintf("db: cannot decode %d value(s) from %d column(s)", e.Got, e.Want)
	}
	return fmt.Sprintf("db: statement requires %d %s(s), %d given", e.Want, e.What, e.Got)
}
