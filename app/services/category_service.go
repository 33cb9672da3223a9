package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// ErrCategoryCycle rejects a parent assignment that would make a category
// its own ancestor.
var ErrCategoryCycle = errors.New("category parent would create a cycle")

type CategoryService struct {
	store Store
	cache Cache
	ttl   time.Duration
}

func NewCategoryService(store Store, cache Cache, ttl time.Duration) *CategoryService {
	return &CategoryService{store: store, cache: cacheOrNoop(cache), ttl: ttl}
}

// Tree loads every category, from cache when possible.
func (s *CategoryService) Tree(ctx context.Context) (*CategoryTree, error) {
	var cats []models.Category
	if s.cache.Get(ctx, cacheKeyCategories, &cats) {
		return NewCategoryTree(cats), nil
	}

	cats, err := s.store.Categories().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if err := s.cache.Set(ctx, cacheKeyCategories, cats, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("category cache set failed", "error", err)
	}
	return NewCategoryTree(cats), nil
}

func (s *CategoryService) Forest(ctx context.Context) ([]CategoryNode, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Forest(), nil
}

func (s *CategoryService) Menu(ctx context.Context) ([]MenuEntry, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Menu(), nil
}

// Save creates or updates c with a unique slug.
func (s *CategoryService) Save(ctx context.Context, c *models.Category) error {
	err := s.store.Transaction(ctx, func(tx Store) error {
		return saveCategory(ctx, tx, c)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// saveCategory runs the category save path against an open transaction.
func saveCategory(ctx context.Context, tx Store, c *models.Category) error {
	repo := tx.Categories()

	var prev *models.Category
	if c.ID != 0 {
		p, err := repo.FindByID(ctx, c.ID)
		if err != nil {
			return err
		}
		prev = p
	}

	if c.ParentID != nil {
		all, err := repo.All(ctx)
		if err != nil {
			return err
		}
		tree := NewCategoryTree(all)
		if _, ok := tree.Get(*c.ParentID); !ok {
			return fmt.Errorf("%w: parent category %d", ErrNotFound, *c.ParentID)
		}
		if c.ID != 0 && (*c.ParentID == c.ID || tree.IsAncestor(c.ID, *c.ParentID)) {
			return ErrCategoryCycle
		}
	}

	base := PrepareCategoryForSave(c, prev)
	slug, err := UniqueSlug(ctx, base, c.ID, repo.SlugExists)
	if err != nil {
		return err
	}
	c.Slug = slug

	if err := repo.Save(ctx, c); err != nil {
		return fmt.Errorf("save category %q: %w", c.Slug, err)
	}
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Categories().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, catalogKeys...); err != nil {
		logger.WithCtx(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}
