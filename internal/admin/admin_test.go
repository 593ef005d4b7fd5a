package admin

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"crafts-store/internal/models"
	"crafts-store/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T) (*Service, repository.Store, *int) {
	t.Helper()
	store := repository.NewMemoryStore()
	changes := 0
	return NewService(store, nil, func() { changes++ }), store, &changes
}

func mustCategory(t *testing.T, s *Service, name string) *models.Category {
	t.Helper()
	c, err := s.CreateCategory(context.Background(), CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func mustProduct(t *testing.T, s *Service, in ProductInput) *models.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	return p
}

func names(cs []models.Category) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Home & Decor!!":      "home-decor",
		"  Wall Art  ":        "wall-art",
		"Foam Sheet":          "foam-sheet",
		"---":                 "",
		"Cards 2024":          "cards-2024",
		"Résine":              "r-sine",
		"already-a-slug":      "already-a-slug",
		"Mixed__Under_scores": "mixed-under-scores",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCreateCategory(t *testing.T) {
	s, _, changes := newService(t)
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, CategoryInput{Name: "Home & Decor!!"})
	require.NoError(t, err)
	assert.Equal(t, "home-decor", c.Slug)
	assert.True(t, c.HasVariations)
	assert.Equal(t, 1, *changes)

	c, err = s.CreateCategory(ctx, CategoryInput{Name: "Cards", Slug: "greeting-cards", HasVariations: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "greeting-cards", c.Slug)
	assert.False(t, c.HasVariations)

	_, err = s.CreateCategory(ctx, CategoryInput{Name: "   "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestUpdateCategory_KeepsStoredSlug(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	c := mustCategory(t, s, "Wall Art")

	updated, err := s.UpdateCategory(ctx, c.ID, models.CategoryUpdate{Name: ptr("Wall Hangings")})
	require.NoError(t, err)
	assert.Equal(t, "Wall Hangings", updated.Name)
	assert.Equal(t, "wall-art", updated.Slug)

	updated, err = s.UpdateCategory(ctx, c.ID, models.CategoryUpdate{Slug: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "wall-art", updated.Slug)

	updated, err = s.UpdateCategory(ctx, c.ID, models.CategoryUpdate{Slug: ptr("hangings")})
	require.NoError(t, err)
	assert.Equal(t, "hangings", updated.Slug)

	_, err = s.UpdateCategory(ctx, "missing", models.CategoryUpdate{Name: ptr("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCategories_SearchAndSort(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Cards", "Aprons", "Bottles"} {
		c := mustCategory(t, s, name)
		c.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		c.DisplayOrder = ptr(3 - i)
		require.NoError(t, store.Categories.Update(ctx, c))
	}

	tests := []struct {
		sort CategorySort
		want []string
	}{
		{"", []string{"Aprons", "Bottles", "Cards"}},
		{SortAlphaAsc, []string{"Aprons", "Bottles", "Cards"}},
		{SortAlphaDesc, []string{"Cards", "Bottles", "Aprons"}},
		{SortNewest, []string{"Bottles", "Aprons", "Cards"}},
		{SortOldest, []string{"Cards", "Aprons", "Bottles"}},
		{SortCustom, []string{"Bottles", "Aprons", "Cards"}},
	}
	for _, tt := range tests {
		got, err := s.Categories(ctx, CategoryQuery{Sort: tt.sort})
		require.NoError(t, err)
		assert.Equal(t, tt.want, names(got), "sort %q", tt.sort)
	}

	got, err := s.Categories(ctx, CategoryQuery{Search: "BOT"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bottles"}, names(got))

	_, err = s.CreateCategory(ctx, CategoryInput{Name: "Gifts", Slug: "hampers"})
	require.NoError(t, err)
	got, err = s.Categories(ctx, CategoryQuery{Search: "hamp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Gifts"}, names(got), "matches slug")
}

func TestCategories_CustomSortMissingOrderLast(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()
	mustCategory(t, s, "Aprons")
	b := mustCategory(t, s, "Bottles")
	require.NoError(t, store.Categories.SetDisplayOrder(ctx, b.ID, 5))

	got, err := s.Categories(ctx, CategoryQuery{Sort: SortCustom})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bottles", "Aprons"}, names(got))
}

func TestMoveCategory(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()

	var ids []string
	for i, name := range []string{"Aprons", "Bottles", "Cards"} {
		c := mustCategory(t, s, name)
		require.NoError(t, store.Categories.SetDisplayOrder(ctx, c.ID, i+1))
		ids = append(ids, c.ID)
	}

	require.NoError(t, s.MoveCategory(ctx, ids[2], Up))
	got, err := s.Categories(ctx, CategoryQuery{Sort: SortCustom})
	require.NoError(t, err)
	assert.Equal(t, []string{"Aprons", "Cards", "Bottles"}, names(got))

	require.NoError(t, s.MoveCategory(ctx, ids[0], Up), "first item moving up is a no-op")
	require.NoError(t, s.MoveCategory(ctx, ids[1], Down), "last item moving down is a no-op")
	got, err = s.Categories(ctx, CategoryQuery{Sort: SortCustom})
	require.NoError(t, err)
	assert.Equal(t, []string{"Aprons", "Cards", "Bottles"}, names(got))

	require.NoError(t, s.MoveCategory(ctx, ids[0], Down))
	got, err = s.Categories(ctx, CategoryQuery{Sort: SortCustom})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cards", "Aprons", "Bottles"}, names(got))

	assert.ErrorIs(t, s.MoveCategory(ctx, "missing", Up), repository.ErrNotFound)
	var verr *ValidationError
	assert.ErrorAs(t, s.MoveCategory(ctx, ids[0], "sideways"), &verr)
}

func TestMoveCategory_MissingOrderUsesPosition(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()
	a := mustCategory(t, s, "Aprons")
	b := mustCategory(t, s, "Bottles")

	require.NoError(t, s.MoveCategory(ctx, b.ID, Up))

	got, err := store.Categories.Get(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DisplayOrder)
	assert.Equal(t, 1, *got.DisplayOrder)

	got, err = store.Categories.Get(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DisplayOrder)
	assert.Equal(t, 0, *got.DisplayOrder)
}

func TestDeleteCategory(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()
	c := mustCategory(t, s, "Wall Art")
	p := mustProduct(t, s, ProductInput{Name: "Clock", Price: 100, CategoryID: &c.ID})

	err := s.DeleteCategory(ctx, c.ID, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	var cerr *ConfirmationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, deleteCategoryPrompt, cerr.Prompt)

	require.NoError(t, s.DeleteCategory(ctx, c.ID, true))

	_, err = store.Categories.Get(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	orphan, err := store.Products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.CategoryID)

	assert.ErrorIs(t, s.DeleteCategory(ctx, c.ID, true), repository.ErrNotFound)
}

func TestProducts_SearchFilterSortPaginate(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	frames := mustCategory(t, s, "Frames")
	cards := mustCategory(t, s, "Cards")

	mustProduct(t, s, ProductInput{Name: "Oak Frame", Price: 1500, CategoryID: &frames.ID})
	mustProduct(t, s, ProductInput{Name: "Birthday", Description: "folded card", Price: 200, CategoryID: &cards.ID})
	mustProduct(t, s, ProductInput{Name: "Anniversary", Price: 300, CategoryID: &cards.ID})

	page, err := s.Products(ctx, ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "Anniversary", page.Products[0].Name, "name asc by default")

	page, err = s.Products(ctx, ProductQuery{Search: "frames"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1, "matches category name")
	assert.Equal(t, "Oak Frame", page.Products[0].Name)

	page, err = s.Products(ctx, ProductQuery{Search: "FOLDED"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1, "matches description")

	page, err = s.Products(ctx, ProductQuery{CategoryID: cards.ID, Sort: SortByPrice, Desc: true})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "Anniversary", page.Products[0].Name)

	page, err = s.Products(ctx, ProductQuery{Sort: SortByCategory})
	require.NoError(t, err)
	assert.Equal(t, "Cards", page.Products[0].CategoryName())
	assert.Equal(t, "Frames", page.Products[2].CategoryName())
}

func TestProducts_Pagination(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	for i := 0; i < 45; i++ {
		mustProduct(t, s, ProductInput{Name: "Item", Price: float64(i)})
	}

	page, err := s.Products(ctx, ProductQuery{Page: 3, Sort: SortByPrice})
	require.NoError(t, err)
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, PageSize, page.PageSize)
	require.Len(t, page.Products, 5)
	assert.Equal(t, 40.0, page.Products[0].Price)

	page, err = s.Products(ctx, ProductQuery{Page: 99})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)

	page, err = s.Products(ctx, ProductQuery{Page: -1})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Products, PageSize)
}

func TestCreateProduct_Validation(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	var verr *ValidationError
	_, err := s.CreateProduct(ctx, ProductInput{Price: 10})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = s.CreateProduct(ctx, ProductInput{Name: "x", Price: -1})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price", verr.Field)

	_, err = s.CreateProduct(ctx, ProductInput{Name: "x", CategoryID: ptr("nope")})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category_id", verr.Field)

	p, err := s.CreateProduct(ctx, ProductInput{Name: "x", CategoryID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, p.CategoryID)
	assert.NotNil(t, p.Images)
}

func TestUpdateProduct(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	c := mustCategory(t, s, "Frames")
	p := mustProduct(t, s, ProductInput{Name: "Frame", Price: 100, CategoryID: &c.ID})

	updated, err := s.UpdateProduct(ctx, p.ID, models.ProductUpdate{Price: ptr(150.0)})
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.Price)
	assert.Equal(t, c.ID, *updated.CategoryID)

	updated, err = s.UpdateProduct(ctx, p.ID, models.ProductUpdate{CategoryID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)

	var verr *ValidationError
	_, err = s.UpdateProduct(ctx, p.ID, models.ProductUpdate{})
	assert.ErrorAs(t, err, &verr)

	_, err = s.UpdateProduct(ctx, "missing", models.ProductUpdate{Name: ptr("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSaveVariants(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()
	foam, err := s.CreateVariationType(ctx, VariationTypeInput{Name: "Foam Sheet", DisplayOrder: 1})
	require.NoError(t, err)
	mirror, err := s.CreateVariationType(ctx, VariationTypeInput{Name: "Mirror Board", DisplayOrder: 2})
	require.NoError(t, err)
	p := mustProduct(t, s, ProductInput{Name: "Clock", Price: 100})

	variants, err := s.SaveVariants(ctx, p.ID, []VariantForm{
		{VariationTypeID: foam.ID, Price: 500, ImageURL: ptr("")},
		{VariationTypeID: mirror.ID, Price: 0},
		{VariationTypeID: foam.ID, Price: 550},
	})
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, 550.0, variants[0].Price)
	assert.Equal(t, "Foam Sheet", variants[0].VariationTypeName)
	assert.Nil(t, variants[0].ImageURL)

	variants, err = s.SaveVariants(ctx, p.ID, []VariantForm{{VariationTypeID: mirror.ID, Price: 800}})
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, mirror.ID, variants[0].VariationTypeID)

	stored, err := store.Variants.ListByProducts(ctx, []string{p.ID})
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	var verr *ValidationError
	_, err = s.SaveVariants(ctx, p.ID, []VariantForm{{VariationTypeID: "ghost", Price: 10}})
	assert.ErrorAs(t, err, &verr)

	_, err = s.SaveVariants(ctx, "missing", nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteProducts(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()
	foam, err := s.CreateVariationType(ctx, VariationTypeInput{Name: "Foam"})
	require.NoError(t, err)
	a := mustProduct(t, s, ProductInput{Name: "A"})
	b := mustProduct(t, s, ProductInput{Name: "B"})
	keep := mustProduct(t, s, ProductInput{Name: "C"})
	_, err = s.SaveVariants(ctx, a.ID, []VariantForm{{VariationTypeID: foam.ID, Price: 10}})
	require.NoError(t, err)

	_, err = s.DeleteProducts(ctx, []string{a.ID, b.ID}, false)
	var cerr *ConfirmationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Delete 2 products? This cannot be undone.", cerr.Prompt)

	deleted, err := s.DeleteProducts(ctx, []string{a.ID, b.ID}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := store.Products.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].ID)

	variants, err := store.Variants.ListByProducts(ctx, []string{a.ID})
	require.NoError(t, err)
	assert.Empty(t, variants)

	require.ErrorIs(t, s.DeleteProduct(ctx, keep.ID, false), ErrConfirmationRequired)
	require.NoError(t, s.DeleteProduct(ctx, keep.ID, true))
	assert.ErrorIs(t, s.DeleteProduct(ctx, keep.ID, true), repository.ErrNotFound)
}

func TestVariationTypes(t *testing.T) {
	s, store, _ := newService(t)
	ctx := context.Background()

	mirror, err := s.CreateVariationType(ctx, VariationTypeInput{Name: "Mirror Board", DisplayOrder: 2})
	require.NoError(t, err)
	assert.Equal(t, "mirror-board", mirror.Slug)
	foam, err := s.CreateVariationType(ctx, VariationTypeInput{Name: "Foam Sheet", DisplayOrder: 1})
	require.NoError(t, err)

	types, err := s.VariationTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, foam.ID, types[0].ID)

	updated, err := s.UpdateVariationType(ctx, mirror.ID, models.VariationTypeUpdate{Name: ptr("Mirror Acrylic")})
	require.NoError(t, err)
	assert.Equal(t, "mirror-board", updated.Slug)

	p := mustProduct(t, s, ProductInput{Name: "Clock"})
	_, err = s.SaveVariants(ctx, p.ID, []VariantForm{
		{VariationTypeID: foam.ID, Price: 500},
		{VariationTypeID: mirror.ID, Price: 800},
	})
	require.NoError(t, err)

	require.ErrorIs(t, s.DeleteVariationType(ctx, mirror.ID, false), ErrConfirmationRequired)
	require.NoError(t, s.DeleteVariationType(ctx, mirror.ID, true))

	variants, err := store.Variants.ListByProducts(ctx, []string{p.ID})
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, foam.ID, variants[0].VariationTypeID)
}

func TestReviews(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	p := mustProduct(t, s, ProductInput{Name: "Clock"})

	var verr *ValidationError
	_, err := s.CreateReview(ctx, ReviewInput{ProductID: p.ID, UserName: "Asha", Rating: 6, Comment: "wow"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rating", verr.Field)

	_, err = s.CreateReview(ctx, ReviewInput{ProductID: p.ID, UserName: " ", Rating: 5, Comment: "wow"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "user_name", verr.Field)

	_, err = s.CreateReview(ctx, ReviewInput{ProductID: "ghost", UserName: "Asha", Rating: 5, Comment: "wow"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "product_id", verr.Field)

	first, err := s.CreateReview(ctx, ReviewInput{ProductID: p.ID, UserName: "Asha", Rating: 5, Comment: "Lovely"})
	require.NoError(t, err)
	_, err = s.CreateReview(ctx, ReviewInput{ProductID: p.ID, UserName: "Ravi", Rating: 4, Comment: "Good"})
	require.NoError(t, err)

	reviews, err := s.Reviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Ravi", reviews[0].UserName)
	assert.Equal(t, "Clock", reviews[0].ProductName)

	require.ErrorIs(t, s.DeleteReview(ctx, first.ID, false), ErrConfirmationRequired)
	require.NoError(t, s.DeleteReview(ctx, first.ID, true))
	reviews, err = s.Reviews(ctx)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestDashboard(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	mustCategory(t, s, "Frames")
	p := mustProduct(t, s, ProductInput{Name: "Clock"})
	mustProduct(t, s, ProductInput{Name: "Card"})
	_, err := s.CreateReview(ctx, ReviewInput{ProductID: p.ID, UserName: "Asha", Rating: 5, Comment: "Lovely"})
	require.NoError(t, err)

	counts, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardCounts{Products: 2, Categories: 1, Reviews: 1}, counts)
}

func TestMutationsNotifyChange(t *testing.T) {
	s, _, changes := newService(t)
	ctx := context.Background()

	c := mustCategory(t, s, "Frames")
	mustProduct(t, s, ProductInput{Name: "Clock", CategoryID: &c.ID})
	_, err := s.Categories(ctx, CategoryQuery{})
	require.NoError(t, err)

	assert.Equal(t, 2, *changes)
}

func TestExportProducts(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()
	c := mustCategory(t, s, "Frames")
	mustProduct(t, s, ProductInput{Name: "Clock", Price: 1200, CategoryID: &c.ID, ImageURL: ptr("clock.jpg")})
	mustProduct(t, s, ProductInput{Name: "Card", Price: 250})

	var buf bytes.Buffer
	n, err := s.ExportProducts(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Products", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Name", sheet.Rows[0].Cells[1].String())
	assert.Equal(t, "Card", sheet.Rows[1].Cells[1].String())
	assert.Equal(t, "Frames", sheet.Rows[2].Cells[3].String())
	assert.Equal(t, "1,200", sheet.Rows[2].Cells[5].String())
}
