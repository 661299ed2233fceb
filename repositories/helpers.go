package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx so the same
// repository method can run standalone or inside a caller's transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// encodeNullableJSON encodes an optional struct into a nullable JSONB
// column. Typed nil pointers become SQL NULL, not the JSON literal null.
func encodeNullableJSON(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json field: %w", err)
	}
	return data, nil
}

// unmarshalJSONField decodes a nullable JSONB column into dst, leaving dst
// untouched for NULL.
func unmarshalJSONField(raw []byte, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to unmarshal json field: %w", err)
	}
	return nil
}
