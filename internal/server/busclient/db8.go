package busclient

import (
	"context"
	"fmt"
	"log/slog"
)

const db8Service = "com.webos.service.db"

// DB8 wraps the database service operations the launch-point storage
// contract needs.
type DB8 struct {
	Base
}

// NewDB8 creates the database client.
func NewDB8(caller Caller, handler slog.Handler) *DB8 {
	return &DB8{
		Base: NewBase(db8Service, caller, handler),
	}
}

// Find returns every record of the kind.
func (d *DB8) Find(ctx context.Context, kind string) ([]map[string]any, error) {
	reply, err := d.caller.Call(ctx, db8Service, "find", map[string]any{
		"query": map[string]any{"from": kind},
	})
	if err != nil {
		return nil, fmt.Errorf("db find failed: %w", err)
	}

	rawResults, _ := reply["results"].([]any)
	results := make([]map[string]any, 0, len(rawResults))
	for _, raw := range rawResults {
		if record, ok := raw.(map[string]any); ok {
			results = append(results, record)
		}
	}
	return results, nil
}

// PutKind registers a kind schema.
func (d *DB8) PutKind(ctx context.Context, schema map[string]any) error {
	if _, err := d.caller.Call(ctx, db8Service, "putKind", schema); err != nil {
		return fmt.Errorf("db putKind failed: %w", err)
	}
	return nil
}

// PutPermissions grants access to a kind.
func (d *DB8) PutPermissions(ctx context.Context, permissions map[string]any) error {
	if _, err := d.caller.Call(ctx, db8Service, "putPermissions", permissions); err != nil {
		return fmt.Errorf("db putPermissions failed: %w", err)
	}
	return nil
}
