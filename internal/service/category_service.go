package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
)

const duplicateCategoryName = "category with this name already exists."

// CategoryService defines the interface for category business logic
type CategoryService interface {
	List(ctx context.Context) ([]*domain.CategoryNode, error)
	Create(ctx context.Context, category *domain.Category) (*domain.CategoryNode, error)
	Update(ctx context.Context, category *domain.Category) (*domain.CategoryNode, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	categories repository.CategoryRepository
	tx         repository.TxRunner
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categories repository.CategoryRepository, tx repository.TxRunner) CategoryService {
	return &categoryService{
		categories: categories,
		tx:         tx,
	}
}

// List returns every category ordered by id, each with its subcategories
// expanded. The whole tree comes from a single query.
func (s *categoryService) List(ctx context.Context) ([]*domain.CategoryNode, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return domain.NewCategoryTree(categories).ExpandAll(), nil
}

// Create validates and stores a new category.
func (s *categoryService) Create(ctx context.Context, category *domain.Category) (*domain.CategoryNode, error) {
	var node *domain.CategoryNode
	err := s.tx.Run(ctx, serializable, func(repos repository.Repositories) error {
		if err := s.validate(ctx, repos.Categories, category); err != nil {
			return err
		}
		if err := repos.Categories.Create(ctx, category); err != nil {
			return mapCategoryWriteError(err, category)
		}

		var err error
		node, err = expand(ctx, repos.Categories, category.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// Update replaces name, description and parent of an existing category.
func (s *categoryService) Update(ctx context.Context, category *domain.Category) (*domain.CategoryNode, error) {
	var node *domain.CategoryNode
	err := s.tx.Run(ctx, serializable, func(repos repository.Repositories) error {
		if _, err := repos.Categories.FindByID(ctx, category.ID); err != nil {
			return err
		}
		if err := s.validate(ctx, repos.Categories, category); err != nil {
			return err
		}
		if err := repos.Categories.Update(ctx, category); err != nil {
			return mapCategoryWriteError(err, category)
		}

		var err error
		node, err = expand(ctx, repos.Categories, category.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// Delete removes a category. Its children become roots and its products go
// with it.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	return s.tx.Run(ctx, serializable, func(repos repository.Repositories) error {
		return repos.Categories.Delete(ctx, id)
	})
}

func (s *categoryService) validate(ctx context.Context, categories repository.CategoryRepository, category *domain.Category) error {
	v := &domain.ValidationError{}
	if err := collect(v, category.Validate()); err != nil {
		return err
	}

	if _, ok := v.Fields["name"]; !ok {
		taken, err := categories.ExistsByName(ctx, category.Name, category.ID)
		if err != nil {
			return err
		}
		if taken {
			v.Add("name", duplicateCategoryName)
		}
	}

	if category.ParentID != nil {
		if _, ok := v.Fields["parent"]; !ok {
			if err := collect(v, s.validateParent(ctx, categories, category.ID, *category.ParentID)); err != nil {
				return err
			}
		}
	}

	return v.OrNil()
}

func (s *categoryService) validateParent(ctx context.Context, categories repository.CategoryRepository, id, parentID int64) error {
	if _, err := categories.FindByID(ctx, parentID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domain.NewValidationError("parent", doesNotExist(parentID))
		}
		return err
	}
	if id == 0 {
		return nil
	}

	ancestors, err := categories.Ancestors(ctx, parentID)
	if err != nil {
		return err
	}
	return domain.ValidateParent(id, parentID, append([]int64{parentID}, ancestors...))
}

// mapCategoryWriteError turns constraint violations that slipped past
// validation under concurrency into the same field errors.
func mapCategoryWriteError(err error, category *domain.Category) error {
	switch {
	case errors.Is(err, repository.ErrCategoryAlreadyExists):
		return domain.NewValidationError("name", duplicateCategoryName)
	case errors.Is(err, repository.ErrCategoryNotFound) && category.ParentID != nil:
		return domain.NewValidationError("parent", doesNotExist(*category.ParentID))
	}
	return err
}

func expand(ctx context.Context, categories repository.CategoryRepository, id int64) (*domain.CategoryNode, error) {
	all, err := categories.List(ctx)
	if err != nil {
		return nil, err
	}
	node, ok := domain.NewCategoryTree(all).Expand(id)
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return node, nil
}
