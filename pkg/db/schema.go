package db

import (
	"context"
	"database/sql"
	"fmt"
)

// The UNIQUE constraint on name backs up the read-then-insert duplicate check
// done by the catalog service.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
        id          BIGSERIAL PRIMARY KEY,
        name        VARCHAR(255)   NOT NULL,
        description TEXT,
        price       NUMERIC(19, 2) NOT NULL CHECK (price > 0),
        category    VARCHAR(255),
        stock       INTEGER CHECK (stock >= 0),
        created_at  TIMESTAMPTZ    NOT NULL,
        updated_at  TIMESTAMPTZ,
        CONSTRAINT products_name_key UNIQUE (name)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_products_created_at ON products (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
}

// EnsureSchema creates the products table and its indexes when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not apply schema: %w", err)
		}
	}
	return nil
}
