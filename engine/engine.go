package engine

import (
	"fmt"
	"time"
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	sqlite3 "modernc.org/sqlite/lib"
)

// OpenFlag is the bitmask passed through to sqlite3_open_v2. Flags combine
// with bitwise OR and are interpreted entirely by the engine.
type OpenFlag int32

const (
	OpenReadOnly  OpenFlag = sqlite3.SQLITE_OPEN_READONLY
	OpenReadWrite OpenFlag = sqlite3.SQLITE_OPEN_READWRITE
	OpenCreate    OpenFlag = sqlite3.SQLITE_OPEN_CREATE
	OpenURI       OpenFlag = sqlite3.SQLITE_OPEN_URI
	OpenMemory    OpenFlag = sqlite3.SQLITE_OPEN_MEMORY
)

// ColumnType is one of the engine's five fundamental types, reported by
// sqlite3_column_type for the current row.
type ColumnType int32

const (
	TypeInteger ColumnType = sqlite3.SQLITE_INTEGER
	TypeFloat   ColumnType = sqlite3.SQLITE_FLOAT
	TypeText    ColumnType = sqlite3.SQLITE_TEXT
	TypeBlob    ColumnType = sqlite3.SQLITE_BLOB
	TypeNull    ColumnType = sqlite3.SQLITE_NULL
)

func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeFloat:
		return "FLOAT"
	case TypeText:
		return "TEXT"
	case TypeBlob:
		return "BLOB"
	case TypeNull:
		return "NULL"
	}
	return fmt.Sprintf("ColumnType(%d)", int32(t))
}

var ptrSize = types.Size_t(unsafe.Sizeof(uintptr(0)))

// DB is an open sqlite3* handle plus the libc thread state required to call
// into the transpiled library. Close releases both.
type DB struct {
	tls    *libc.TLS
	handle uintptr
}

// Open opens or creates the database at path with the given flags. Pass
// ":memory:" for a temporary in-memory database. The returned DB owns the
// underlying handle; Close must be called exactly once.
func Open(path string, flags OpenFlag) (*DB, error) {
	tls := libc.NewTLS()

	cPath, err := libc.CString(path)
	if err != nil {
		tls.Close()
		return nil, fmt.Errorf("engine: open %q: %w", path, err)
	}
	defer libc.Xfree(tls, cPath)

	pdb := libc.Xmalloc(tls, ptrSize)
	if pdb == 0 {
		tls.Close()
		return nil, fmt.Errorf("engine: open %q: out of memory", path)
	}
	defer libc.Xfree(tls, pdb)

	rc := sqlite3.Xsqlite3_open_v2(tls, cPath, pdb, int32(flags), 0)
	handle := *(*uintptr)(unsafe.Pointer(pdb))
	if rc != sqlite3.SQLITE_OK {
		// open_v2 can hand back a non-nil handle on failure; it still has to
		// be closed to release resources.
		err := libErr(tls, handle, rc)
		if handle != 0 {
			sqlite3.Xsqlite3_close_v2(tls, handle)
		}
		tls.Close()
		return nil, err
	}
	return &DB{tls: tls, handle: handle}, nil
}

// Close releases the database handle. If prepared statements are still
// outstanding the engine reports BUSY; the handle is then closed in zombie
// mode so the process does not leak it, and the BUSY error is returned to
// flag the missing Finalize. Statements left outstanding can no longer reach
// the library; their methods report MISUSE from then on.
func (db *DB) Close() error {
	if db.handle == 0 {
		return nil
	}
	handle, tls := db.handle, db.tls
	db.handle = 0
	db.tls = nil

	if rc := sqlite3.Xsqlite3_close(tls, handle); rc != sqlite3.SQLITE_OK {
		err := libErr(tls, handle, rc)
		if rc == sqlite3.SQLITE_BUSY {
			sqlite3.Xsqlite3_close_v2(tls, handle)
		}
		tls.Close()
		return err
	}
	tls.Close()
	return nil
}

// Closed reports whether Close has already been called.
func (db *DB) Closed() bool { return db.handle == 0 }

// LastInsertRowid returns the rowid of the most recent successful INSERT on
// this connection.
func (db *DB) LastInsertRowid() int64 {
	if db.handle == 0 {
		return 0
	}
	return sqlite3.Xsqlite3_last_insert_rowid(db.tls, db.handle)
}

// Changes returns the number of rows modified, inserted, or deleted by the
// most recently completed statement.
func (db *DB) Changes() int {
	if db.handle == 0 {
		return 0
	}
	return int(sqlite3.Xsqlite3_changes(db.tls, db.handle))
}

// AutoCommit reports whether the connection is in auto-commit mode, i.e.
// outside an explicit BEGIN.
func (db *DB) AutoCommit() bool {
	if db.handle == 0 {
		return false
	}
	return sqlite3.Xsqlite3_get_autocommit(db.tls, db.handle) != 0
}

// BusyTimeout installs the engine's built-in busy handler for d. A zero or
// negative duration disables it. BUSY conditions that outlast the timeout
// still surface as step errors.
func (db *DB) BusyTimeout(d time.Duration) {
	if db.handle == 0 {
		return
	}
	sqlite3.Xsqlite3_busy_timeout(db.tls, db.handle, int32(d/time.Millisecond))
}

// errMsg returns the engine's current diagnostic text for this handle.
func (db *DB) errMsg(rc int32) error {
	return libErr(db.tls, db.handle, rc)
}
