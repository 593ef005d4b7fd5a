package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"crafts-store/internal/models"
)

func strPtr(s string) *string { return &s }

// runStoreSuite ejecuta las mismas comprobaciones sobre cualquier Store.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("categories", func(t *testing.T) { testCategories(t, newStore(t)) })
	t.Run("products", func(t *testing.T) { testProducts(t, newStore(t)) })
	t.Run("variants", func(t *testing.T) { testVariants(t, newStore(t)) })
	t.Run("variation types", func(t *testing.T) { testVariationTypes(t, newStore(t)) })
	t.Run("reviews", func(t *testing.T) { testReviews(t, newStore(t)) })
}

func missingID() string {
	return primitive.NewObjectID().Hex()
}

func testCategories(t *testing.T, store Store) {
	ctx := context.Background()
	repo := store.Categories

	wall := &models.Category{Name: "Wall Art", Slug: "wall-art", HasVariations: true}
	bags := &models.Category{Name: "Bags", Slug: "bags"}
	require.NoError(t, repo.Create(ctx, wall))
	require.NoError(t, repo.Create(ctx, bags))
	assert.NotEmpty(t, wall.ID)
	assert.False(t, wall.CreatedAt.IsZero())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bags", list[0].Name)
	assert.Equal(t, "Wall Art", list[1].Name)

	got, err := repo.Get(ctx, wall.ID)
	require.NoError(t, err)
	assert.True(t, got.HasVariations)
	assert.Nil(t, got.DisplayOrder)

	got.Name = "Wall Decor"
	require.NoError(t, repo.Update(ctx, got))
	require.NoError(t, repo.SetDisplayOrder(ctx, wall.ID, 3))

	got, err = repo.Get(ctx, wall.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wall Decor", got.Name)
	require.NotNil(t, got.DisplayOrder)
	assert.Equal(t, 3, *got.DisplayOrder)

	require.NoError(t, repo.Delete(ctx, bags.ID))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = repo.Get(ctx, bags.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, missingID()), ErrNotFound)
	assert.ErrorIs(t, repo.SetDisplayOrder(ctx, missingID(), 1), ErrNotFound)
}

func testProducts(t *testing.T, store Store) {
	ctx := context.Background()
	repo := store.Products
	categoryID := missingID()

	clock := &models.Product{Name: "Resin Clock", Price: 2500, CategoryID: strPtr(categoryID)}
	frame := &models.Product{Name: "Photo Frame", Price: 1200, CategoryID: strPtr(categoryID)}
	tote := &models.Product{Name: "Jute Tote", Price: 900}
	for _, p := range []*models.Product{clock, frame, tote} {
		require.NoError(t, repo.Create(ctx, p))
	}

	list, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{tote.ID, frame.ID, clock.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

	list, err = repo.List(ctx, categoryID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	found, err := repo.SearchByName(ctx, "CLOCK", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, clock.ID, found[0].ID)

	found, err = repo.SearchByName(ctx, "o", 2)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.SearchByName(ctx, "(", 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	clock.Price = 2750
	require.NoError(t, repo.Update(ctx, clock))
	got, err := repo.Get(ctx, clock.ID)
	require.NoError(t, err)
	assert.Equal(t, 2750.0, got.Price)

	cleared, err := repo.ClearCategory(ctx, categoryID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cleared)
	got, err = repo.Get(ctx, frame.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	deleted, err := repo.DeleteMany(ctx, []string{clock.ID, frame.ID, missingID()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	require.NoError(t, repo.Delete(ctx, tote.ID))
	assert.ErrorIs(t, repo.Delete(ctx, tote.ID), ErrNotFound)

	tote.Name = "Ghost"
	assert.ErrorIs(t, repo.Update(ctx, tote), ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func testVariants(t *testing.T, store Store) {
	ctx := context.Background()
	repo := store.Variants
	p1, p2 := missingID(), missingID()
	foam, mirror := missingID(), missingID()

	require.NoError(t, repo.ReplaceForProduct(ctx, p1, []models.ProductVariant{
		{VariationTypeID: foam, Price: 500},
		{VariationTypeID: mirror, Price: 800},
	}))
	require.NoError(t, repo.ReplaceForProduct(ctx, p2, []models.ProductVariant{
		{VariationTypeID: foam, Price: 650},
	}))

	list, err := repo.ListByProducts(ctx, []string{p1})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, foam, list[0].VariationTypeID)
	assert.Equal(t, mirror, list[1].VariationTypeID)
	assert.Equal(t, p1, list[0].ProductID)
	assert.NotEmpty(t, list[0].ID)

	require.NoError(t, repo.ReplaceForProduct(ctx, p1, []models.ProductVariant{
		{VariationTypeID: mirror, Price: 900},
	}))
	list, err = repo.ListByProducts(ctx, []string{p1, p2})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.DeleteByVariationType(ctx, foam))
	list, err = repo.ListByProducts(ctx, []string{p1, p2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 900.0, list[0].Price)

	require.NoError(t, repo.DeleteByProducts(ctx, []string{p1}))
	list, err = repo.ListByProducts(ctx, []string{p1, p2})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = repo.ListByProducts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testVariationTypes(t *testing.T, store Store) {
	ctx := context.Background()
	repo := store.VariationTypes

	mirror := &models.VariationType{Name: "Mirror Board", Slug: "mirror-board", DisplayOrder: 2}
	foam := &models.VariationType{Name: "Foam Sheet", Slug: "foam-sheet", DisplayOrder: 1}
	require.NoError(t, repo.Create(ctx, mirror))
	require.NoError(t, repo.Create(ctx, foam))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, foam.ID, list[0].ID)

	mirror.DisplayOrder = 0
	require.NoError(t, repo.Update(ctx, mirror))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, mirror.ID, list[0].ID)

	got, err := repo.Get(ctx, foam.ID)
	require.NoError(t, err)
	assert.Equal(t, "foam-sheet", got.Slug)

	require.NoError(t, repo.Delete(ctx, foam.ID))
	_, err = repo.Get(ctx, foam.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, foam.ID), ErrNotFound)
}

func testReviews(t *testing.T, store Store) {
	ctx := context.Background()
	repo := store.Reviews
	productID := missingID()

	var ids []string
	for _, name := range []string{"Amaya", "Kasun", "Dilini"} {
		r := &models.Review{ProductID: productID, UserName: name, Rating: 5, Comment: "Lovely"}
		require.NoError(t, repo.Create(ctx, r))
		ids = append(ids, r.ID)
	}

	list, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Dilini", list[0].UserName)
	assert.Equal(t, "Kasun", list[1].UserName)

	list, err = repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	require.NoError(t, repo.Delete(ctx, ids[0]))
	assert.ErrorIs(t, repo.Delete(ctx, ids[0]), ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
