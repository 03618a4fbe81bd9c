package db

import "github.com/viant/litebind/engine"

// Stmt is a compiled statement. The cursor moves through unstarted,
// row-available, and exhausted states; binding a new parameter set on a
// statement that has stepped implicitly resets it first, so one Stmt can run
// many bind/step cycles while keeping its compiled query plan.
type Stmt struct {
	// Tail is the uncompiled remainder of the query passed to Prepare.
	Tail string

	conn    *Conn
	es      *engine.Stmt
	nParams int
	nCols   int
	started bool
}

func newStmt(c *Conn, es *engine.Stmt, tail string) *Stmt {
	return &Stmt{
		conn:    c,
		es:      es,
		Tail:    tail,
		nParams: es.BindParameterCount(),
		nCols:   es.ColumnCount(),
	}
}

// Close finalizes the statement, releasing its engine resources. It is safe
// to call more than once.
func (s *Stmt) Close() error {
	if s.es == nil {
		return nil
	}
	es := s.es
	s.es = nil
	s.started = false
	return es.Finalize()
}

// Exec binds args and runs the statement to its first step, discarding any
// row it may produce. Typical for INSERT/UPDATE/DELETE and DDL.
func (s *Stmt) Exec(args ...any) error {
	row, err := s.query(args, -1)
	if err != nil {
		return err
	}
	if row {
		s.rewind()
	}
	return nil
}

// ParamCount returns the number of placeholders in the compiled statement.
func (s *Stmt) ParamCount() int { return s.nParams }

// ColumnCount returns the number of columns the statement produces.
func (s *Stmt) ColumnCount() int { return s.nCols }

// Columns returns the names of the statement's result columns.
func (s *Stmt) Columns() []string {
	if s.es == nil || s.nCols == 0 {
		return nil
	}
	names := make([]string, s.nCols)
	for i := range names {
		names[i] = s.es.ColumnName(i)
	}
	return names
}

// query begins a fresh bind/step cycle: reset a previously stepped
// statement, verify arities, bind args, take the first step. wantCols < 0
// skips the column-arity check (Exec does not read columns).
func (s *Stmt) query(args []any, wantCols int) (bool, error) {
	if s.es == nil {
		return false, ErrBadStmt
	}
	if s.conn.db == nil {
		return false, ErrBadConn
	}
	if s.started {
		s.started = false
		if err := s.es.Reset(); err != nil {
			return false, &StepError{Err: err}
		}
	}
	if wantCols >= 0 && wantCols != s.nCols {
		return false, &ArityError{What: "column", Want: s.nCols, Got: wantCols}
	}
	if err := s.bindAll(args); err != nil {
		_ = s.es.Reset() // drop any partially applied bindings
		return false, err
	}
	s.started = true
	return s.step()
}

// step pulls the next row. On completion or failure the statement is reset
// so the next bind/step cycle starts clean.
func (s *Stmt) step() (bool, error) {
	row, err := s.es.Step()
	if err != nil {
		s.rewind()
		return false, &StepError{Err: err}
	}
	if !row {
		s.rewind()
	}
	return row, nil
}

// rewind quietly returns the statement to its unstarted state. The engine
// reports a failed step's code again from reset; that duplicate is dropped
// because step already surfaced it.
func (s *Stmt) rewind() {
	if s.es != nil && s.started {
		s.started = false
		_ = s.es.Reset()
	}
}
