package engine

import (
	"fmt"

	"modernc.org/libc"
	sqlite3 "modernc.org/sqlite/lib"
)

// Primary result codes this layer inspects. The full list lives in
// modernc.org/sqlite/lib; only codes that callers commonly branch on are
// re-exported here.
const (
	CodeError      = sqlite3.SQLITE_ERROR
	CodeBusy       = sqlite3.SQLITE_BUSY
	CodeLocked     = sqlite3.SQLITE_LOCKED
	CodeReadOnly   = sqlite3.SQLITE_READONLY
	CodeIOErr      = sqlite3.SQLITE_IOERR
	CodeFull       = sqlite3.SQLITE_FULL
	CodeCantOpen   = sqlite3.SQLITE_CANTOPEN
	CodeSchema     = sqlite3.SQLITE_SCHEMA
	CodeConstraint = sqlite3.SQLITE_CONSTRAINT
	CodeMismatch   = sqlite3.SQLITE_MISMATCH
	CodeMisuse     = sqlite3.SQLITE_MISUSE
	CodeRange      = sqlite3.SQLITE_RANGE
	CodeNotADB     = sqlite3.SQLITE_NOTADB
)

// Error is an error reported by the SQLite library. Code holds the primary
// result code (extended bits stripped) and Message the engine's diagnostic
// text at the time the error occurred.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("sqlite: %s (%d)", e.Message, e.Code)
}

// libErr builds an *Error from a result code, using sqlite3_errmsg when a
// database handle is available and sqlite3_errstr otherwise.
func libErr(tls *libc.TLS, db uintptr, rc int32) error {
	var msg string
	if db != 0 {
		msg = libc.GoString(sqlite3.Xsqlite3_errmsg(tls, db))
	} else {
		msg = libc.GoString(sqlite3.Xsqlite3_errstr(tls, rc))
	}
	return &Error{Code: int(rc & 255), Message: msg}
}
