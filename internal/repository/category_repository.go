package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-api/internal/domain"
)

var (
	ErrCategoryNotFound      = fmt.Errorf("category %w", domain.ErrNotFound)
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrConcurrentUpdate      = fmt.Errorf("category tree: %w", domain.ErrConflict)
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Ancestors(ctx context.Context, id int64) ([]int64, error)
}

type categoryRepository struct {
	db DBTX
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db DBTX) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a category and fills in its generated ID.
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, description, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		category.Name,
		category.Description,
		category.ParentID,
	).Scan(&category.ID)

	if err != nil {
		return r.mapWriteError(err, "create")
	}

	return nil
}

// Update overwrites name, description and parent of an existing category.
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, parent_id = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.ParentID,
	)
	if err != nil {
		return r.mapWriteError(err, "update")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// Delete removes a category. The schema nulls out parent_id on its children
// and cascades to its products.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// FindByID retrieves a category by ID
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		SELECT id, name, description, parent_id
		FROM categories
		WHERE id = $1
	`

	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.ParentID,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// ExistsByName reports whether another category already uses name. Pass
// excludeID = 0 when creating.
func (r *categoryRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1 AND id <> $2)`,
		name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

// List retrieves every category ordered by id in a single query. Callers
// build the subcategory view from the result with domain.NewCategoryTree.
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, description, parent_id
		FROM categories
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.ParentID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Ancestors returns the parent chain of id, nearest first, excluding id.
func (r *categoryRepository) Ancestors(ctx context.Context, id int64) ([]int64, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT id, parent_id, ARRAY[id] AS path
			FROM categories
			WHERE id = $1
			UNION ALL
			SELECT c.id, c.parent_id, chain.path || c.id
			FROM categories c
			JOIN chain ON c.id = chain.parent_id
			WHERE NOT c.id = ANY(chain.path)
		)
		SELECT id FROM chain
		WHERE id <> $1
		ORDER BY array_length(path, 1)
	`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load category ancestors: %w", err)
	}
	defer rows.Close()

	var chain []int64
	for rows.Next() {
		var ancestor int64
		if err := rows.Scan(&ancestor); err != nil {
			return nil, fmt.Errorf("failed to scan category ancestor: %w", err)
		}
		chain = append(chain, ancestor)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category ancestors: %w", err)
	}

	return chain, nil
}

func (r *categoryRepository) mapWriteError(err error, op string) error {
	switch {
	case isUniqueViolation(err):
		return ErrCategoryAlreadyExists
	case isForeignKeyViolation(err):
		// the only foreign key on categories is parent_id
		return ErrCategoryNotFound
	case isSerializationFailure(err):
		return ErrConcurrentUpdate
	}
	return fmt.Errorf("failed to %s category: %w", op, err)
}
