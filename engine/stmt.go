package engine

import (
	"fmt"
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	sqlite3 "modernc.org/sqlite/lib"
)

// Stmt is a compiled sqlite3_stmt* handle. Text and blob parameters are
// copied into C memory owned by the Stmt; the copies live until the next
// Reset or Finalize, which matches how long the engine may read them.
type Stmt struct {
	db     *DB
	handle uintptr
	allocs []uintptr
}

// Prepare compiles the first statement in query. The uncompiled remainder of
// query is returned as tail. If query holds only comments or whitespace the
// returned Stmt is nil with a nil error. On a compile error tail is still
// returned when the parser located it, so callers can report the failing
// statement without the rest of a multi-statement script.
func (db *DB) Prepare(query string) (*Stmt, string, error) {
	if db.handle == 0 {
		return nil, "", fmt.Errorf("engine: prepare on closed database")
	}

	cSQL, err := libc.CString(query)
	if err != nil {
		return nil, "", fmt.Errorf("engine: prepare: %w", err)
	}
	defer libc.Xfree(db.tls, cSQL)

	buf := libc.Xmalloc(db.tls, 2*ptrSize)
	if buf == 0 {
		return nil, "", fmt.Errorf("engine: prepare: out of memory")
	}
	defer libc.Xfree(db.tls, buf)
	ppStmt := buf
	pzTail := buf + uintptr(ptrSize)

	// Not every error path in the library writes the out-parameters.
	*(*uintptr)(unsafe.Pointer(ppStmt)) = 0
	*(*uintptr)(unsafe.Pointer(pzTail)) = 0

	rc := sqlite3.Xsqlite3_prepare_v2(db.tls, db.handle, cSQL, -1, ppStmt, pzTail)

	var tail string
	if p := *(*uintptr)(unsafe.Pointer(pzTail)); p != 0 {
		// pzTail points into the cSQL buffer; recover the offset while the
		// buffer is still alive and slice the original Go string instead.
		if off := int(p - cSQL); off >= 0 && off < len(query) {
			tail = query[off:]
		}
	}
	if rc != sqlite3.SQLITE_OK {
		return nil, tail, db.errMsg(rc)
	}

	handle := *(*uintptr)(unsafe.Pointer(ppStmt))
	if handle == 0 {
		return nil, tail, nil
	}
	return &Stmt{db: db, handle: handle}, tail, nil
}

// usable verifies both the statement and its owning database are still open.
// Calling into the library with a finalized handle or a released thread state
// would fault, so every entry point checks first.
func (s *Stmt) usable() error {
	if s.handle == 0 {
		return &Error{Code: CodeMisuse, Message: "statement is finalized"}
	}
	if s.db.handle == 0 {
		return &Error{Code: CodeMisuse, Message: "database is closed"}
	}
	return nil
}

// Finalize releases the compiled statement and any parameter buffers. It is
// safe to call more than once. Finalizing after the owning DB was closed
// reports MISUSE: the zombie close took ownership of the statement and the
// connection's thread state is gone.
func (s *Stmt) Finalize() error {
	if s.handle == 0 {
		return nil
	}
	if s.db.handle == 0 {
		s.handle = 0
		s.allocs = nil
		return &Error{Code: CodeMisuse, Message: "database closed before statement finalized"}
	}
	handle := s.handle
	s.handle = 0
	s.freeAllocs()
	if rc := sqlite3.Xsqlite3_finalize(s.db.tls, handle); rc != sqlite3.SQLITE_OK {
		return s.db.errMsg(rc)
	}
	return nil
}

// Reset returns the statement to its unstarted state, clears all parameter
// bindings, and releases the parameter buffers bound so far.
func (s *Stmt) Reset() error {
	if err := s.usable(); err != nil {
		return err
	}
	rc := sqlite3.Xsqlite3_reset(s.db.tls, s.handle)
	sqlite3.Xsqlite3_clear_bindings(s.db.tls, s.handle)
	s.freeAllocs()
	if rc != sqlite3.SQLITE_OK {
		return s.db.errMsg(rc)
	}
	return nil
}

// Step advances the statement. It returns (true, nil) when a row is
// available, (false, nil) on completion, and (false, err) on failure.
func (s *Stmt) Step() (bool, error) {
	if err := s.usable(); err != nil {
		return false, err
	}
	switch rc := sqlite3.Xsqlite3_step(s.db.tls, s.handle); rc {
	case sqlite3.SQLITE_ROW:
		return true, nil
	case sqlite3.SQLITE_DONE:
		return false, nil
	default:
		return false, s.db.errMsg(rc)
	}
}

// BindParameterCount returns the number of SQL parameters in the statement.
func (s *Stmt) BindParameterCount() int {
	if s.usable() != nil {
		return 0
	}
	return int(sqlite3.Xsqlite3_bind_parameter_count(s.db.tls, s.handle))
}

// ColumnCount returns the number of columns the statement produces.
func (s *Stmt) ColumnCount() int {
	if s.usable() != nil {
		return 0
	}
	return int(sqlite3.Xsqlite3_column_count(s.db.tls, s.handle))
}

// ColumnName returns the name of column i (0-indexed).
func (s *Stmt) ColumnName(i int) string {
	if s.usable() != nil {
		return ""
	}
	return libc.GoString(sqlite3.Xsqlite3_column_name(s.db.tls, s.handle, int32(i)))
}

// BindNull binds NULL at parameter position i (1-indexed).
func (s *Stmt) BindNull(i int) error {
	if err := s.usable(); err != nil {
		return err
	}
	return s.bindResult(sqlite3.Xsqlite3_bind_null(s.db.tls, s.handle, int32(i)))
}

// BindInt binds a 32-bit integer at position i.
func (s *Stmt) BindInt(i int, v int32) error {
	if err := s.usable(); err != nil {
		return err
	}
	return s.bindResult(sqlite3.Xsqlite3_bind_int(s.db.tls, s.handle, int32(i), v))
}

// BindInt64 binds a 64-bit integer at position i.
func (s *Stmt) BindInt64(i int, v int64) error {
	if err := s.usable(); err != nil {
		return err
	}
	return s.bindResult(sqlite3.Xsqlite3_bind_int64(s.db.tls, s.handle, int32(i), v))
}

// BindDouble binds a 64-bit float at position i.
func (s *Stmt) BindDouble(i int, v float64) error {
	if err := s.usable(); err != nil {
		return err
	}
	return s.bindResult(sqlite3.Xsqlite3_bind_double(s.db.tls, s.handle, int32(i), v))
}

// BindText binds v as engine TEXT at position i. The bytes are copied.
func (s *Stmt) BindText(i int, v string) error {
	if err := s.usable(); err != nil {
		return err
	}
	p, err := s.alloc(len(v) + 1)
	if err != nil {
		return err
	}
	copy((*libc.RawMem)(unsafe.Pointer(p))[:len(v):len(v)], v)
	*(*byte)(unsafe.Pointer(p + uintptr(len(v)))) = 0
	return s.bindResult(sqlite3.Xsqlite3_bind_text(
		s.db.tls, s.handle, int32(i), p, int32(len(v)), 0))
}

// BindBlob binds v as engine BLOB at position i. The bytes are copied. An
// empty or nil slice binds a zero-length blob rather than NULL, keeping
// []byte(nil) and []byte{} indistinguishable at the engine boundary.
func (s *Stmt) BindBlob(i int, v []byte) error {
	if err := s.usable(); err != nil {
		return err
	}
	if len(v) == 0 {
		return s.bindResult(sqlite3.Xsqlite3_bind_zeroblob(s.db.tls, s.handle, int32(i), 0))
	}
	p, err := s.alloc(len(v))
	if err != nil {
		return err
	}
	copy((*libc.RawMem)(unsafe.Pointer(p))[:len(v):len(v)], v)
	return s.bindResult(sqlite3.Xsqlite3_bind_blob(
		s.db.tls, s.handle, int32(i), p, int32(len(v)), 0))
}

// ColumnType returns the fundamental type of column i in the current row.
// It must be read before any typed accessor: requesting a converted
// representation can change the reported type.
func (s *Stmt) ColumnType(i int) ColumnType {
	if s.usable() != nil {
		return TypeNull
	}
	return ColumnType(sqlite3.Xsqlite3_column_type(s.db.tls, s.handle, int32(i)))
}

// ColumnInt32 returns column i converted to a 32-bit integer by the engine.
func (s *Stmt) ColumnInt32(i int) int32 {
	if s.usable() != nil {
		return 0
	}
	return sqlite3.Xsqlite3_column_int(s.db.tls, s.handle, int32(i))
}

// ColumnInt64 returns column i converted to a 64-bit integer by the engine.
func (s *Stmt) ColumnInt64(i int) int64 {
	if s.usable() != nil {
		return 0
	}
	return sqlite3.Xsqlite3_column_int64(s.db.tls, s.handle, int32(i))
}

// ColumnDouble returns column i converted to a 64-bit float by the engine.
func (s *Stmt) ColumnDouble(i int) float64 {
	if s.usable() != nil {
		return 0
	}
	return sqlite3.Xsqlite3_column_double(s.db.tls, s.handle, int32(i))
}

// ColumnText returns column i converted to text by the engine. The bytes are
// copied out; the result remains valid after the next step.
func (s *Stmt) ColumnText(i int) string {
	if s.usable() != nil {
		return ""
	}
	p := sqlite3.Xsqlite3_column_text(s.db.tls, s.handle, int32(i))
	n := sqlite3.Xsqlite3_column_bytes(s.db.tls, s.handle, int32(i))
	if p == 0 || n <= 0 {
		return ""
	}
	return string((*libc.RawMem)(unsafe.Pointer(p))[:n:n])
}

// ColumnBlob returns column i converted to a byte sequence by the engine.
// The bytes are copied out; the result remains valid after the next step.
func (s *Stmt) ColumnBlob(i int) []byte {
	if s.usable() != nil {
		return nil
	}
	p := sqlite3.Xsqlite3_column_blob(s.db.tls, s.handle, int32(i))
	n := sqlite3.Xsqlite3_column_bytes(s.db.tls, s.handle, int32(i))
	if p == 0 || n <= 0 {
		return nil
	}
	return append([]byte(nil), (*libc.RawMem)(unsafe.Pointer(p))[:n:n]...)
}

func (s *Stmt) bindResult(rc int32) error {
	if rc != sqlite3.SQLITE_OK {
		return s.db.errMsg(rc)
	}
	return nil
}

// alloc obtains n bytes of C memory tied to the statement's bind cycle.
func (s *Stmt) alloc(n int) (uintptr, error) {
	p := libc.Xmalloc(s.db.tls, types.Size_t(n))
	if p == 0 {
		return 0, fmt.Errorf("engine: bind: out of memory (%d bytes)", n)
	}
	s.allocs = append(s.allocs, p)
	return p, nil
}

func (s *Stmt) freeAllocs() {
	for _, p := range s.allocs {
		libc.Xfree(s.db.tls, p)
	}
	s.allocs = s.allocs[:0]
}
