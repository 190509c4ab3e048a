package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const (
	pqUniqueViolation = "23505"
	pqCheckViolation  = "23514"
	pqNumericOverflow = "22003"
)

const productColumns = `id, name, description, price, category, stock, created_at, updated_at`

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p           domain.Product
		description sql.NullString
		category    sql.NullString
		stock       sql.NullInt64
		updatedAt   sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Name, &description, &p.Price, &category, &stock, &p.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	if category.Valid {
		p.Category = &category.String
	}
	if stock.Valid {
		s := int(stock.Int64)
		p.Stock = &s
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}
	return &p, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// constraintError maps constraint violations to domain errors and returns nil
// for any other failure.
func (r *postgresProductRepository) constraintError(product *domain.Product, err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		r.log.Warnf("Repository: Unique violation for product name '%s'", product.Name)
		return fmt.Errorf("%w: %q", domain.ErrProductConflict, product.Name)
	case pqCheckViolation:
		r.log.Warnf("Repository: Check constraint violation for product '%s': %s", product.Name, pqErr.Message)
		return domain.NewValidationError("product", "constraint violation: "+pqErr.Message)
	case pqNumericOverflow:
		r.log.Warnf("Repository: Price %s of product '%s' is out of range", product.Price, product.Name)
		return domain.NewValidationError("price", "is out of range")
	}
	return nil
}

func (r *postgresProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Debugf("Repository: Product with ID %d not found", id)
			return nil, nil
		}
		r.log.Errorf("Repository: Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Errorf("Repository: Failed to get product by name '%s': %v", name, err)
		return nil, fmt.Errorf("could not get product by name: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) FindAllByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY created_at DESC`

	products, err := r.queryProducts(ctx, query, category)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products for category '%s': %v", category, err)
		return nil, fmt.Errorf("could not list products by category: %w", err)
	}
	r.log.Debugf("Repository: Retrieved %d products for category '%s'", len(products), category)
	return products, nil
}

func (r *postgresProductRepository) FindPage(ctx context.Context, offset, limit int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	products, err := r.queryProducts(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products with limit %d, offset %d: %v", limit, offset, err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	r.log.Debugf("Repository: Retrieved %d products (limit: %d, offset: %d)", len(products), limit, offset)
	return products, nil
}

func (r *postgresProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (r *postgresProductRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		r.log.Errorf("Repository: Failed to count products: %v", err)
		return 0, fmt.Errorf("could not count products: %w", err)
	}
	return total, nil
}

func (r *postgresProductRepository) Save(ctx context.Context, product *domain.Product) error {
	if product.ID == 0 {
		return r.insert(ctx, product)
	}
	return r.update(ctx, product)
}

func (r *postgresProductRepository) insert(ctx context.Context, product *domain.Product) error {
	query := `
        INSERT INTO products (name, description, price, category, stock, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		product.Name,
		nullString(product.Description),
		product.Price,
		nullString(product.Category),
		nullInt(product.Stock),
		product.CreatedAt,
		nullTime(product.UpdatedAt),
	).Scan(&product.ID)
	if err != nil {
		if domainErr := r.constraintError(product, err); domainErr != nil {
			return domainErr
		}
		r.log.Errorf("Repository: Failed to create product '%s': %v", product.Name, err)
		return fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Repository: Product created with ID: %d, Name: %s", product.ID, product.Name)
	return nil
}

func (r *postgresProductRepository) update(ctx context.Context, product *domain.Product) error {
	query := `
        UPDATE products
        SET name = $1, description = $2, price = $3, category = $4, stock = $5, updated_at = $6
        WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		nullString(product.Description),
		product.Price,
		nullString(product.Category),
		nullInt(product.Stock),
		nullTime(product.UpdatedAt),
		product.ID,
	)
	if err != nil {
		if domainErr := r.constraintError(product, err); domainErr != nil {
			return domainErr
		}
		r.log.Errorf("Repository: Failed to update product ID %d: %v", product.ID, err)
		return fmt.Errorf("could not update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm product update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Product with ID %d disappeared before update", product.ID)
		return fmt.Errorf("%w by id: %d", domain.ErrProductNotFound, product.ID)
	}
	r.log.Infof("Repository: Product ID %d updated", product.ID)
	return nil
}

func (r *postgresProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent product ID %d", id)
		return fmt.Errorf("%w by id: %d", domain.ErrProductNotFound, id)
	}
	r.log.Infof("Repository: Product deleted with ID: %d", id)
	return nil
}
