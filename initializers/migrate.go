package initializers

import (
	"context"
	_ "embed"
	"fmt"
	"log"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates any missing tables and indexes. Every statement in the
// schema is idempotent so it is safe to run on each deploy.
func Migrate(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database is not connected")
	}

	if _, err := DB.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Println("Database schema is up to date")
	return nil
}
