package engine

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func openMem(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", OpenReadWrite|OpenCreate)
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// mustPrepare compiles a single statement and registers cleanup.
func mustPrepare(t *testing.T, db *DB, query string) *Stmt {
	t.Helper()
	s, _, err := db.Prepare(query)
	if err != nil {
		t.Fatalf("Prepare(%q) failed: %v", query, err)
	}
	if s == nil {
		t.Fatalf("Prepare(%q) returned no statement", query)
	}
	t.Cleanup(func() { _ = s.Finalize() })
	return s
}

func exec(t *testing.T, db *DB, query string) {
	t.Helper()
	s := mustPrepare(t, db, query)
	if _, err := s.Step(); err != nil {
		t.Fatalf("step %q failed: %v", query, err)
	}
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize %q failed: %v", query, err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.sqlite")
	db, err := Open(path, OpenReadWrite|OpenCreate)
	if err != nil {
		t.Fatalf("Open(%q) failed: %v", path, err)
	}
	exec(t, db, `CREATE TABLE t(x INTEGER)`)
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen read-only and make sure the schema persisted.
	db, err = Open(path, OpenReadOnly)
	if err != nil {
		t.Fatalf("reopen read-only failed: %v", err)
	}
	defer db.Close()
	s := mustPrepare(t, db, `SELECT count(*) FROM t`)
	row, err := s.Step()
	if err != nil || !row {
		t.Fatalf("step: row=%v err=%v", row, err)
	}
	if got := s.ColumnInt64(0); got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}
}

func TestOpenMissingReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.sqlite")
	db, err := Open(path, OpenReadOnly)
	if err == nil {
		db.Close()
		t.Fatalf("expected error opening missing database read-only")
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error type = %T, want *engine.Error", err)
	}
	if e.Code != CodeCantOpen {
		t.Fatalf("code = %d, want CANTOPEN (%d)", e.Code, CodeCantOpen)
	}
}

func TestPrepareMalformed(t *testing.T) {
	db := openMem(t)
	if _, _, err := db.Prepare(`SELEC 1`); err == nil {
		t.Fatalf("expected prepare error for malformed SQL")
	}
}

func TestPrepareWhitespaceAndTail(t *testing.T) {
	db := openMem(t)
	s, tail, err := db.Prepare("  -- nothing here\n")
	if err != nil {
		t.Fatalf("Prepare comment failed: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil statement for comment-only input")
	}
	s, tail, err = db.Prepare(`SELECT 1; SELECT 2`)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer s.Finalize()
	if want := " SELECT 2"; tail != want {
		t.Fatalf("tail = %q, want %q", tail, want)
	}
}

func TestBindStepColumnRoundTrip(t *testing.T) {
	db := openMem(t)
	exec(t, db, `CREATE TABLE t(i INTEGER, f REAL, s TEXT, b BLOB, n INTEGER)`)

	ins := mustPrepare(t, db, `INSERT INTO t VALUES(?, ?, ?, ?, ?)`)
	if got := ins.BindParameterCount(); got != 5 {
		t.Fatalf("BindParameterCount = %d, want 5", got)
	}
	blob := []byte{0x00, 0xff, 0x10}
	if err := ins.BindInt64(1, -42); err != nil {
		t.Fatalf("BindInt64: %v", err)
	}
	if err := ins.BindDouble(2, 1.5); err != nil {
		t.Fatalf("BindDouble: %v", err)
	}
	if err := ins.BindText(3, "héllo"); err != nil {
		t.Fatalf("BindText: %v", err)
	}
	if err := ins.BindBlob(4, blob); err != nil {
		t.Fatalf("BindBlob: %v", err)
	}
	if err := ins.BindNull(5); err != nil {
		t.Fatalf("BindNull: %v", err)
	}
	if row, err := ins.Step(); err != nil || row {
		t.Fatalf("insert step: row=%v err=%v", row, err)
	}

	sel := mustPrepare(t, db, `SELECT i, f, s, b, n FROM t`)
	if got := sel.ColumnCount(); got != 5 {
		t.Fatalf("ColumnCount = %d, want 5", got)
	}
	if got := sel.ColumnName(2); got != "s" {
		t.Fatalf("ColumnName(2) = %q, want s", got)
	}
	row, err := sel.Step()
	if err != nil || !row {
		t.Fatalf("select step: row=%v err=%v", row, err)
	}
	types := []ColumnType{TypeInteger, TypeFloat, TypeText, TypeBlob, TypeNull}
	for i, want := range types {
		if got := sel.ColumnType(i); got != want {
			t.Fatalf("ColumnType(%d) = %v, want %v", i, got, want)
		}
	}
	if got := sel.ColumnInt64(0); got != -42 {
		t.Fatalf("ColumnInt64 = %d, want -42", got)
	}
	if got := sel.ColumnDouble(1); got != 1.5 {
		t.Fatalf("ColumnDouble = %v, want 1.5", got)
	}
	if got := sel.ColumnText(2); got != "héllo" {
		t.Fatalf("ColumnText = %q", got)
	}
	if got := sel.ColumnBlob(3); !bytes.Equal(got, blob) {
		t.Fatalf("ColumnBlob = %x, want %x", got, blob)
	}
	if row, err = sel.Step(); err != nil || row {
		t.Fatalf("exhaustion step: row=%v err=%v", row, err)
	}
}

func TestBindOutOfRange(t *testing.T) {
	db := openMem(t)
	s := mustPrepare(t, db, `SELECT ?`)
	err := s.BindInt(2, 1)
	if err == nil {
		t.Fatalf("expected RANGE error binding position 2 of 1")
	}
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeRange {
		t.Fatalf("error = %v, want RANGE", err)
	}
}

func TestResetAllowsReuse(t *testing.T) {
	db := openMem(t)
	s := mustPrepare(t, db, `SELECT ?`)
	for i := int64(0); i < 3; i++ {
		if err := s.BindInt64(1, i); err != nil {
			t.Fatalf("bind cycle %d: %v", i, err)
		}
		row, err := s.Step()
		if err != nil || !row {
			t.Fatalf("step cycle %d: row=%v err=%v", i, row, err)
		}
		if got := s.ColumnInt64(0); got != i {
			t.Fatalf("cycle %d: got %d", i, got)
		}
		if err := s.Reset(); err != nil {
			t.Fatalf("reset cycle %d: %v", i, err)
		}
	}
}

func TestCloseWithOpenStatementReportsBusy(t *testing.T) {
	db, err := Open(":memory:", OpenReadWrite|OpenCreate)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s, _, err := db.Prepare(`SELECT 1`)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	_ = s // deliberately not finalized
	if err := db.Close(); err == nil {
		t.Fatalf("expected BUSY closing with outstanding statement")
	}
}

func TestStmtAfterDatabaseClose(t *testing.T) {
	db, err := Open(":memory:", OpenReadWrite|OpenCreate)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s, _, err := db.Prepare(`SELECT 1`)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := db.Close(); err == nil {
		t.Fatalf("expected BUSY closing with outstanding statement")
	}

	// The statement survived the zombie close; every method must report
	// MISUSE instead of calling into the released library state.
	var e *Error
	if err := s.Finalize(); !errors.As(err, &e) || e.Code != CodeMisuse {
		t.Fatalf("Finalize after Close = %v, want MISUSE", err)
	}
	if err := s.Finalize(); err != nil {
		t.Fatalf("second Finalize = %v, want nil", err)
	}
}

func TestStmtAfterDatabaseCloseBeforeFinalize(t *testing.T) {
	db, err := Open(":memory:", OpenReadWrite|OpenCreate)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s, _, err := db.Prepare(`SELECT ?`)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	_ = db.Close()

	var e *Error
	if _, err := s.Step(); !errors.As(err, &e) || e.Code != CodeMisuse {
		t.Fatalf("Step after Close = %v, want MISUSE", err)
	}
	if err := s.BindInt64(1, 1); !errors.As(err, &e) || e.Code != CodeMisuse {
		t.Fatalf("BindInt64 after Close = %v, want MISUSE", err)
	}
	if err := s.Reset(); !errors.As(err, &e) || e.Code != CodeMisuse {
		t.Fatalf("Reset after Close = %v, want MISUSE", err)
	}
}

func TestUseAfterFinalize(t *testing.T) {
	db := openMem(t)
	s, _, err := db.Prepare(`SELECT ?`)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := s.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	var e *Error
	if err := s.BindInt64(1, 1); !errors.As(err, &e) || e.Code != CodeMisuse {
		t.Fatalf("BindInt64 after Finalize = %v, want MISUSE", err)
	}
	if err := s.BindText(1, "x"); !errors.As(err, &e) || e.Code != CodeMisuse {
		t.Fatalf("BindText after Finalize = %v, want MISUSE", err)
	}
	if _, err := s.Step(); !errors.As(err, &e) || e.Code != CodeMisuse {
		t.Fatalf("Step after Finalize = %v, want MISUSE", err)
	}
	if err := s.Reset(); !errors.As(err, &e) || e.Code != CodeMisuse {
		t.Fatalf("Reset after Finalize = %v, want MISUSE", err)
	}
	if got := s.ColumnType(0); got != TypeNull {
		t.Fatalf("ColumnType after Finalize = %v, want NULL", got)
	}
	if got := s.ColumnInt64(0); got != 0 {
		t.Fatalf("ColumnInt64 after Finalize = %d, want 0", got)
	}
	if got := s.ColumnCount(); got != 0 {
		t.Fatalf("ColumnCount after Finalize = %d, want 0", got)
	}
}

func TestPrepareErrorTail(t *testing.T) {
	db := openMem(t)
	exec(t, db, `CREATE TABLE t(x INTEGER)`)
	_, tail, err := db.Prepare(`SELEC 1; INSERT INTO t VALUES(1)`)
	if err == nil {
		t.Fatalf("expected prepare error for malformed first statement")
	}
	if tail == "" {
		t.Fatalf("expected non-empty tail alongside the prepare error")
	}
}

func TestAutoCommitAndChanges(t *testing.T) {
	db := openMem(t)
	exec(t, db, `CREATE TABLE t(x INTEGER)`)
	if !db.AutoCommit() {
		t.Fatalf("expected auto-commit before BEGIN")
	}
	exec(t, db, `BEGIN`)
	if db.AutoCommit() {
		t.Fatalf("expected auto-commit off inside transaction")
	}
	exec(t, db, `INSERT INTO t VALUES(7)`)
	if got := db.Changes(); got != 1 {
		t.Fatalf("Changes = %d, want 1", got)
	}
	if got := db.LastInsertRowid(); got != 1 {
		t.Fatalf("LastInsertRowid = %d, want 1", got)
	}
	exec(t, db, `COMMIT`)
	if !db.AutoCommit() {
		t.Fatalf("expected auto-commit after COMMIT")
	}
}
