package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
)

func TestCategorySlugsAreUnique(t *testing.T) {
	store := newStore()
	a := seedCategory(t, store, "Shirts", nil)
	b := seedCategory(t, store, "Shirts!", nil)
	c := seedCategory(t, store, "  ", nil)

	assert.Equal(t, "shirts", a.Slug)
	assert.Equal(t, "shirts-1", b.Slug)
	assert.Equal(t, "category", c.Slug)
	assert.Nil(t, c.Name)
}

func TestCategoryRenameRegeneratesSlug(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := services.NewCategoryService(store, nil, time.Minute)
	c := seedCategory(t, store, "Shirts", nil)

	c.Name = strPtr("Tops")
	require.NoError(t, svc.Save(ctx, &c))
	assert.Equal(t, "tops", c.Slug)

	c.GroupName = "Summer"
	require.NoError(t, svc.Save(ctx, &c))
	assert.Equal(t, "tops", c.Slug, "unchanged name keeps the slug")
}

func TestCategoryParentCycleRejected(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := services.NewCategoryService(store, nil, time.Minute)

	root := seedCategory(t, store, "Clothing", nil)
	child := seedCategory(t, store, "Men", &root)
	leaf := seedCategory(t, store, "Shirts", &child)

	root.ParentID = uintPtr(leaf.ID)
	assert.ErrorIs(t, svc.Save(ctx, &root), services.ErrCategoryCycle)

	child.ParentID = uintPtr(child.ID)
	assert.ErrorIs(t, svc.Save(ctx, &child), services.ErrCategoryCycle)

	orphan := &models.Category{Name: strPtr("Orphan"), ParentID: uintPtr(999)}
	assert.ErrorIs(t, svc.Save(ctx, orphan), services.ErrNotFound)
}

func TestCategoryDeleteDetachesChildren(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := services.NewCategoryService(store, nil, time.Minute)

	root := seedCategory(t, store, "Clothing", nil)
	child := seedCategory(t, store, "Men", &root)
	require.NoError(t, svc.Delete(ctx, root.ID))

	got, err := store.Categories().FindByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	forest, err := svc.Forest(ctx)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "men", forest[0].FullSlug)
}

func TestCategoryTreeWalks(t *testing.T) {
	cats := []models.Category{
		category(1, "Clothing", "clothing", 0),
		category(2, "Men", "men", 1),
		category(3, "Shirts", "shirts", 2),
		category(4, "Accessories", "accessories", 1),
		category(5, "Lost", "lost", 42),
	}
	tree := services.NewCategoryTree(cats)

	assert.Equal(t, "clothing/men/shirts", tree.FullSlug(3))
	assert.Equal(t, "lost", tree.FullSlug(5), "a missing parent makes a root")

	c, ok := tree.Resolve("/clothing/men/shirts/")
	require.True(t, ok)
	assert.Equal(t, uint(3), c.ID)
	_, ok = tree.Resolve("")
	assert.False(t, ok)

	scope := tree.Scope(1)
	assert.Len(t, scope, 4)
	assert.True(t, tree.IsAncestor(1, 3))
	assert.False(t, tree.IsAncestor(3, 1))

	roots := tree.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "Clothing", roots[0].DisplayName())

	children := tree.Children(1)
	require.Len(t, children, 2)
	assert.Equal(t, "Accessories", children[0].DisplayName(), "children sort by name")
}

func TestCategoryTreeSurvivesCycles(t *testing.T) {
	tree := services.NewCategoryTree([]models.Category{
		category(1, "A", "a", 2),
		category(2, "B", "b", 1),
	})
	assert.NotEmpty(t, tree.FullSlug(1))
	assert.Len(t, tree.Descendants(1), 1)
	assert.Len(t, tree.Scope(2), 2)
}

func TestMenuGroupsChildren(t *testing.T) {
	cats := []models.Category{
		category(1, "Clothing", "clothing", 0),
		category(2, "Shirts", "shirts", 1),
		category(3, "Jeans", "jeans", 1),
		category(4, "Belts", "belts", 1),
		category(5, "Polo", "polo", 2),
	}
	cats[1].GroupName = "Tops"
	cats[2].GroupName = "Bottoms"

	menu := services.NewCategoryTree(cats).Menu()
	require.Len(t, menu, 1)
	entry := menu[0]
	assert.Equal(t, "clothing", entry.FullSlug)

	var names []string
	for _, g := range entry.Groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"Bottoms", "Tops", "Other"}, names)

	tops := entry.Groups[1]
	require.Len(t, tops.Items, 1)
	require.Len(t, tops.Items[0].Children, 1)
	assert.Equal(t, "clothing/shirts/polo", tops.Items[0].Children[0].FullSlug)
}
