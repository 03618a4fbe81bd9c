// Package db is a typed marshaling layer over the embedded SQLite engine's
// row/column interface. Callers bind statically typed Go values to
// positional placeholders and collect statically typed values back out of
// result rows; the engine underneath stays dynamically typed.
//
//	conn, err := db.Open(":memory:")
//	...
//	err = conn.Exec(`CREATE TABLE user(age INT, name TEXT, weight REAL)`)
//	err = conn.Exec(`INSERT INTO user VALUES(?, ?, ?)`, 29, "amin", 69.5)
//
//	count, err := db.Collect[int64](conn, `SELECT count(*) FROM user`)
//	age, name, w, err := db.Collect3[int32, string, float64](
//		conn, `SELECT age, name, weight FROM user LIMIT 1`)
//
//	err = db.ForEach2(conn, `SELECT age, name FROM user`,
//		func(age int32, name string) error { ...; return nil })
//
// # Coercion
//
// Collecting a column as a kind other than its stored type applies the
// engine's own cast, which never fails:
//
//	from \ to   int32/int64        float64          string           []byte
//	NULL        0                  0.0              ""               nil
//	INTEGER     identity           widened          decimal text     decimal text bytes
//	FLOAT       truncated          identity         engine render    render bytes
//	TEXT        numeric prefix     numeric prefix   identity         raw bytes
//	BLOB        prefix of bytes    prefix of bytes  bytes as text    identity
//
// A non-numeric TEXT or BLOB collected as a number yields 0. Collecting an
// INTEGER column as []byte yields the same bytes as its text rendering.
// Wrapping any kind in Null[T] makes NULL decode to Valid == false instead
// of the zero value; an empty result set collects exactly like a row of
// NULLs.
//
// # Statement reuse
//
// Conn.Prepare returns a Stmt whose compiled plan survives across bind/step
// cycles; supplying a new parameter set implicitly resets the cursor first.
// Prepared statements must be closed before their connection.
//
// # Transactions
//
// BEGIN, COMMIT, and ROLLBACK are ordinary statements executed through Exec
// (Begin/Commit/Rollback are shorthands); the layer keeps no transaction
// state and the engine's semantics apply unchanged.
package db
