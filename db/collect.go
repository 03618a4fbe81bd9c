package db

import "github.com/viant/litebind/engine"

// Scalar is the closed set of scalar kinds a value can be bound or
// collected as.
type Scalar interface {
	int32 | int64 | float64 | string | []byte
}

// Column is the set of static kinds a result column can be requested as: the
// five scalar kinds plus their Null wrappers. Conversion from the column's
// dynamic engine type to the requested kind is performed by the engine's own
// column accessors and never fails; see the package documentation for the
// full coercion table.
type Column interface {
	int32 | int64 | float64 | string | []byte |
		Null[int32] | Null[int64] | Null[float64] | Null[string] | Null[[]byte]
}

// columnValue decodes column i of the current row as kind T. For the plain
// scalar kinds the requested accessor applies the engine's cast directly; a
// NULL column then degrades to the kind's zero value. For Null kinds the
// dynamic type is inspected first so NULL maps to Valid == false.
func columnValue[T Column](es *engine.Stmt, i int) T {
	var v T
	switch d := any(&v).(type) {
	case *int32:
		*d = es.ColumnInt32(i)
	case *int64:
		*d = es.ColumnInt64(i)
	case *float64:
		*d = es.ColumnDouble(i)
	case *string:
		*d = es.ColumnText(i)
	case *[]byte:
		*d = es.ColumnBlob(i)
	case *Null[int32]:
		if es.ColumnType(i) != engine.TypeNull {
			d.Value, d.Valid = es.ColumnInt32(i), true
		}
	case *Null[int64]:
		if es.ColumnType(i) != engine.TypeNull {
			d.Value, d.Valid = es.ColumnInt64(i), true
		}
	case *Null[float64]:
		if es.ColumnType(i) != engine.TypeNull {
			d.Value, d.Valid = es.ColumnDouble(i), true
		}
	case *Null[string]:
		if es.ColumnType(i) != engine.TypeNull {
			d.Value, d.Valid = es.ColumnText(i), true
		}
	case *Null[[]byte]:
		if es.ColumnType(i) != engine.TypeNull {
			d.Value, d.Valid = es.ColumnBlob(i), true
		}
	}
	return v
}

// Collect compiles query, binds args, and decodes the single column of its
// first row as kind A. An empty result set is indistinguishable from a row
// of NULLs: it yields A's NULL decoding (zero value, or an invalid Null)
// with a nil error.
func Collect[A Column](c *Conn, query string, args ...any) (A, error) {
	s, err := c.Prepare(query)
	if err != nil {
		var a A
		return a, err
	}
	defer s.Close()
	return CollectStmt[A](s, args...)
}

// Collect2 is Collect for a two-column row.
func Collect2[A, B Column](c *Conn, query string, args ...any) (A, B, error) {
	s, err := c.Prepare(query)
	if err != nil {
		var a A
		var b B
		return a, b, err
	}
	defer s.Close()
	return CollectStmt2[A, B](s, args...)
}

// Collect3 is Collect for a three-column row.
func Collect3[A, B, C Column](c *Conn, query string, args ...any) (A, B, C, error) {
	s, err := c.Prepare(query)
	if err != nil {
		var a A
		var b B
		var cv C
		return a, b, cv, err
	}
	defer s.Close()
	return CollectStmt3[A, B, C](s, args...)
}

// Collect4 is Collect for a four-column row.
func Collect4[A, B, C, D Column](c *Conn, query string, args ...any) (A, B, C, D, error) {
	s, err := c.Prepare(query)
	if err != nil {
		var a A
		var b B
		var cv C
		var d D
		return a, b, cv, d, err
	}
	defer s.Close()
	return CollectStmt4[A, B, C, D](s, args...)
}

// CollectStmt runs one bind/step cycle on a prepared statement and decodes
// the first row; see Collect.
func CollectStmt[A Column](s *Stmt, args ...any) (A, error) {
	var a A
	row, err := s.query(args, 1)
	if err != nil || !row {
		return a, err
	}
	a = columnValue[A](s.es, 0)
	s.rewind()
	return a, nil
}

// CollectStmt2 is CollectStmt for a two-column row.
func CollectStmt2[A, B Column](s *Stmt, args ...any) (A, B, error) {
	var a A
	var b B
	row, err := s.query(args, 2)
	if err != nil || !row {
		return a, b, err
	}
	a = columnValue[A](s.es, 0)
	b = columnValue[B](s.es, 1)
	s.rewind()
	return a, b, nil
}

// CollectStmt3 is CollectStmt for a three-column row.
func CollectStmt3[A, B, C Column](s *Stmt, args ...any) (A, B, C, error) {
	var a A
	var b B
	var c C
	row, err := s.query(args, 3)
	if err != nil || !row {
		return a, b, c, err
	}
	a = columnValue[A](s.es, 0)
	b = columnValue[B](s.es, 1)
	c = columnValue[C](s.es, 2)
	s.rewind()
	return a, b, c, nil
}

// CollectStmt4 is CollectStmt for a four-column row.
func CollectStmt4[A, B, C, D Column](s *Stmt, args ...any) (A, B, C, D, error) {
	var a A
	var b B
	var c C
	var d D
	row, err := s.query(args, 4)
	if err != nil || !row {
		return a, b, c, d, err
	}
	a = columnValue[A](s.es, 0)
	b = columnValue[B](s.es, 1)
	c = columnValue[C](s.es, 2)
	d = columnValue[D](s.es, 3)
	s.rewind()
	return a, b, c, d, nil
}

// ForEach compiles query, binds args once, and invokes fn for every result
// row in the engine's natural order, decoding the single column as kind A.
// Iteration stops at exhaustion (nil error), on the first failing step
// (StepError), or when fn returns a non-nil error, which is passed through
// unchanged.
func ForEach[A Column](c *Conn, query string, fn func(A) error, args ...any) error {
	s, err := c.Prepare(query)
	if err != nil {
		return err
	}
	defer s.Close()
	return ForEachStmt(s, fn, args...)
}

// ForEach2 is ForEach for two-column rows.
func ForEach2[A, B Column](c *Conn, query string, fn func(A, B) error, args ...any) error {
	s, err := c.Prepare(query)
	if err != nil {
		return err
	}
	defer s.Close()
	return ForEachStmt2(s, fn, args...)
}

// ForEach3 is ForEach for three-column rows.
func ForEach3[A, B, C Column](c *Conn, query string, fn func(A, B, C) error, args ...any) error {
	s, err := c.Prepare(query)
	if err != nil {
		return err
	}
	defer s.Close()
	return ForEachStmt3(s, fn, args...)
}

// ForEach4 is ForEach for four-column rows.
func ForEach4[A, B, C, D Column](c *Conn, query string, fn func(A, B, C, D) error, args ...any) error {
	s, err := c.Prepare(query)
	if err != nil {
		return err
	}
	defer s.Close()
	return ForEachStmt4(s, fn, args...)
}

// ForEachStmt iterates a prepared statement; see ForEach.
func ForEachStmt[A Column](s *Stmt, fn func(A) error, args ...any) error {
	row, err := s.query(args, 1)
	for err == nil && row {
		if err = fn(columnValue[A](s.es, 0)); err != nil {
			s.rewind()
			return err
		}
		row, err = s.step()
	}
	return err
}

// ForEachStmt2 is ForEachStmt for two-column rows.
func ForEachStmt2[A, B Column](s *Stmt, fn func(A, B) error, args ...any) error {
	row, err := s.query(args, 2)
	for err == nil && row {
		a := columnValue[A](s.es, 0)
		b := columnValue[B](s.es, 1)
		if err = fn(a, b); err != nil {
			s.rewind()
			return err
		}
		row, err = s.step()
	}
	return err
}

// ForEachStmt3 is ForEachStmt for three-column rows.
func ForEachStmt3[A, B, C Column](s *Stmt, fn func(A, B, C) error, args ...any) error {
	row, err := s.query(args, 3)
	for err == nil && row {
		a := columnValue[A](s.es, 0)
		b := columnValue[B](s.es, 1)
		c := columnValue[C](s.es, 2)
		if err = fn(a, b, c); err != nil {
			s.rewind()
			return err
		}
		row, err = s.step()
	}
	return err
}

// ForEachStmt4 is ForEachStmt for four-column rows.
func ForEachStmt4[A, B, C, D Column](s *Stmt, fn func(A, B, C, D) error, args ...any) error {
	row, err := s.query(args, 4)
	for err == nil && row {
		a := columnValue[A](s.es, 0)
		b := columnValue[B](s.es, 1)
		c := columnValue[C](s.es, 2)
		d := columnValue[D](s.es, 3)
		if err = fn(a, b, c, d); err != nil {
			s.rewind()
			return err
		}
		row, err = s.step()
	}
	return err
}
