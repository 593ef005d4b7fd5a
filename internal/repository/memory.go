package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"crafts-store/internal/models"
)

// NewMemoryStore construye un Store en memoria. Se usa en tests y cuando no
// hay MONGO_URI configurado.
func NewMemoryStore() Store {
	db := &memoryDB{}
	return Store{
		Categories:     &memoryCategories{db: db},
		Products:       &memoryProducts{db: db},
		Variants:       &memoryVariants{db: db},
		VariationTypes: &memoryVariationTypes{db: db},
		Reviews:        &memoryReviews{db: db},
	}
}

// memoryDB guarda las filas en orden de inserción.
type memoryDB struct {
	mu             sync.RWMutex
	categories     []models.Category
	products       []models.Product
	variants       []models.ProductVariant
	variationTypes []models.VariationType
	reviews        []models.Review
}

func newID() string {
	return uuid.NewString()
}

func indexOf[T any](rows []T, match func(T) bool) int {
	for i, row := range rows {
		if match(row) {
			return i
		}
	}
	return -1
}

func reversed[T any](rows []T) []T {
	out := make([]T, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row
	}
	return out
}

// --- Categorías ---

type memoryCategories struct{ db *memoryDB }

func (r *memoryCategories) List(ctx context.Context) ([]models.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := append([]models.Category{}, r.db.categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryCategories) Get(ctx context.Context, id string) (*models.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := indexOf(r.db.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	category := r.db.categories[i]
	return &category, nil
}

func (r *memoryCategories) Create(ctx context.Context, category *models.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	category.ID = newID()
	category.CreatedAt = time.Now()
	r.db.categories = append(r.db.categories, *category)
	return nil
}

func (r *memoryCategories) Update(ctx context.Context, category *models.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := indexOf(r.db.categories, func(c models.Category) bool { return c.ID == category.ID })
	if i < 0 {
		return fmt.Errorf("category %s: %w", category.ID, ErrNotFound)
	}
	r.db.categories[i] = *category
	return nil
}

func (r *memoryCategories) SetDisplayOrder(ctx context.Context, id string, order int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := indexOf(r.db.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	r.db.categories[i].DisplayOrder = &order
	return nil
}

func (r *memoryCategories) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := indexOf(r.db.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	r.db.categories = append(r.db.categories[:i], r.db.categories[i+1:]...)
	return nil
}

func (r *memoryCategories) Count(ctx context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.categories)), nil
}

// --- Productos ---

type memoryProducts struct{ db *memoryDB }

func (r *memoryProducts) List(ctx context.Context, categoryID string) ([]models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]models.Product, 0, len(r.db.products))
	for _, p := range reversed(r.db.products) {
		if categoryID != "" && (p.CategoryID == nil || *p.CategoryID != categoryID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryProducts) Get(ctx context.Context, id string) (*models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := indexOf(r.db.products, func(p models.Product) bool { return p.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	product := r.db.products[i]
	return &product, nil
}

func (r *memoryProducts) SearchByName(ctx context.Context, query string, limit int) ([]models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]models.Product, 0)
	for _, p := range r.db.products {
		if !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memoryProducts) Create(ctx context.Context, product *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	product.ID = newID()
	product.CreatedAt = time.Now()
	r.db.products = append(r.db.products, *product)
	return nil
}

func (r *memoryProducts) Update(ctx context.Context, product *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := indexOf(r.db.products, func(p models.Product) bool { return p.ID == product.ID })
	if i < 0 {
		return fmt.Errorf("product %s: %w", product.ID, ErrNotFound)
	}
	r.db.products[i] = *product
	return nil
}

func (r *memoryProducts) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := indexOf(r.db.products, func(p models.Product) bool { return p.ID == id })
	if i < 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	r.db.products = append(r.db.products[:i], r.db.products[i+1:]...)
	return nil
}

func (r *memoryProducts) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}

	kept := r.db.products[:0]
	var deleted int64
	for _, p := range r.db.products {
		if remove[p.ID] {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	r.db.products = kept
	return deleted, nil
}

func (r *memoryProducts) ClearCategory(ctx context.Context, categoryID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var modified int64
	for i, p := range r.db.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			r.db.products[i].CategoryID = nil
			modified++
		}
	}
	return modified, nil
}

func (r *memoryProducts) Count(ctx context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.products)), nil
}

// --- Variantes ---

type memoryVariants struct{ db *memoryDB }

func (r *memoryVariants) ListByProducts(ctx context.Context, productIDs []string) ([]models.ProductVariant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	wanted := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}

	out := make([]models.ProductVariant, 0)
	for _, v := range r.db.variants {
		if wanted[v.ProductID] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memoryVariants) ReplaceForProduct(ctx context.Context, productID string, variants []models.ProductVariant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.variants = filterVariants(r.db.variants, func(v models.ProductVariant) bool { return v.ProductID != productID })

	now := time.Now()
	for i := range variants {
		variants[i].ID = newID()
		variants[i].ProductID = productID
		variants[i].CreatedAt = now
		r.db.variants = append(r.db.variants, variants[i])
	}
	return nil
}

func (r *memoryVariants) DeleteByProducts(ctx context.Context, productIDs []string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	remove := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		remove[id] = true
	}
	r.db.variants = filterVariants(r.db.variants, func(v models.ProductVariant) bool { return !remove[v.ProductID] })
	return nil
}

func (r *memoryVariants) DeleteByVariationType(ctx context.Context, variationTypeID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.variants = filterVariants(r.db.variants, func(v models.ProductVariant) bool { return v.VariationTypeID != variationTypeID })
	return nil
}

func filterVariants(rows []models.ProductVariant, keep func(models.ProductVariant) bool) []models.ProductVariant {
	out := make([]models.ProductVariant, 0, len(rows))
	for _, v := range rows {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// --- Tipos de variación ---

type memoryVariationTypes struct{ db *memoryDB }

func (r *memoryVariationTypes) List(ctx context.Context) ([]models.VariationType, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := append([]models.VariationType{}, r.db.variationTypes...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r *memoryVariationTypes) Get(ctx context.Context, id string) (*models.VariationType, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	i := indexOf(r.db.variationTypes, func(v models.VariationType) bool { return v.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("variation type %s: %w", id, ErrNotFound)
	}
	vt := r.db.variationTypes[i]
	return &vt, nil
}

func (r *memoryVariationTypes) Create(ctx context.Context, vt *models.VariationType) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	vt.ID = newID()
	vt.CreatedAt = time.Now()
	r.db.variationTypes = append(r.db.variationTypes, *vt)
	return nil
}

func (r *memoryVariationTypes) Update(ctx context.Context, vt *models.VariationType) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := indexOf(r.db.variationTypes, func(v models.VariationType) bool { return v.ID == vt.ID })
	if i < 0 {
		return fmt.Errorf("variation type %s: %w", vt.ID, ErrNotFound)
	}
	r.db.variationTypes[i] = *vt
	return nil
}

func (r *memoryVariationTypes) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := indexOf(r.db.variationTypes, func(v models.VariationType) bool { return v.ID == id })
	if i < 0 {
		return fmt.Errorf("variation type %s: %w", id, ErrNotFound)
	}
	r.db.variationTypes = append(r.db.variationTypes[:i], r.db.variationTypes[i+1:]...)
	return nil
}

// --- Reseñas ---

type memoryReviews struct{ db *memoryDB }

func (r *memoryReviews) List(ctx context.Context, limit int) ([]models.Review, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := reversed(r.db.reviews)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryReviews) Create(ctx context.Context, review *models.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	review.ID = newID()
	review.CreatedAt = time.Now()
	r.db.reviews = append(r.db.reviews, *review)
	return nil
}

func (r *memoryReviews) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := indexOf(r.db.reviews, func(rv models.Review) bool { return rv.ID == id })
	if i < 0 {
		return fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	r.db.reviews = append(r.db.reviews[:i], r.db.reviews[i+1:]...)
	return nil
}

func (r *memoryReviews) Count(ctx context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.reviews)), nil
}
