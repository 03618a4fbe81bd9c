package db

import "fmt"

// bindAll maps args onto the statement's placeholders in order, value i
// going to position i+1. The closed set of accepted types fixes the engine
// representation at the call site: string is always TEXT, []byte always
// BLOB, never the other way around.
func (s *Stmt) bindAll(args []any) error {
	if len(args) != s.nParams {
		return &ArityError{What: "parameter", Want: s.nParams, Got: len(args)}
	}
	for i, v := range args {
		if err := s.bindValue(i+1, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stmt) bindValue(i int, v any) error {
	var err error
	switch v := v.(type) {
	case nil:
		err = s.es.BindNull(i)
	case int32:
		err = s.es.BindInt(i, v)
	case int:
		err = s.es.BindInt64(i, int64(v))
	case int64:
		err = s.es.BindInt64(i, v)
	case float64:
		err = s.es.BindDouble(i, v)
	case bool:
		var n int32
		if v {
			n = 1
		}
		err = s.es.BindInt(i, n)
	case string:
		err = s.es.BindText(i, v)
	case []byte:
		err = s.es.BindBlob(i, v)
	case Null[int32]:
		if v.Valid {
			err = s.es.BindInt(i, v.Value)
		} else {
			err = s.es.BindNull(i)
		}
	case Null[int64]:
		if v.Valid {
			err = s.es.BindInt64(i, v.Value)
		} else {
			err = s.es.BindNull(i)
		}
	case Null[float64]:
		if v.Valid {
			err = s.es.BindDouble(i, v.Value)
		} else {
			err = s.es.BindNull(i)
		}
	case Null[string]:
		if v.Valid {
			err = s.es.BindText(i, v.Value)
		} else {
			err = s.es.BindNull(i)
		}
	case Null[[]byte]:
		if v.Valid {
			err = s.es.BindBlob(i, v.Value)
		} else {
			err = s.es.BindNull(i)
		}
	default:
		return &BindError{Index: i, Err: fmt.Errorf("unsupported parameter type %T", v)}
	}
	if err != nil {
		return &BindError{Index: i, Err: err}
	}
	return nil
}
