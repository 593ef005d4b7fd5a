// Package catalog contiene las lecturas de la tienda: categorías, productos
// con sus variantes, búsqueda y reseñas. Los fallos del almacén se registran
// y se devuelven como resultados vacíos.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"crafts-store/internal/cache"
	"crafts-store/internal/models"
	"crafts-store/internal/repository"
)

const (
	// SearchLimit es el máximo de resultados de la búsqueda.
	SearchLimit = 10

	// StorefrontReviews es el número de reseñas que muestra la portada.
	StorefrontReviews = 6

	// DefaultSearchThrottle agrupa las búsquedas idénticas dentro de esta ventana.
	DefaultSearchThrottle = 300 * time.Millisecond

	searchPrefix = "search:"
)

type Service struct {
	store  repository.Store
	search *cache.Cache[[]models.ProductView]
	logger *zap.Logger
}

// NewService crea el servicio. throttle <= 0 usa DefaultSearchThrottle.
func NewService(store repository.Store, throttle time.Duration, logger *zap.Logger) *Service {
	if throttle <= 0 {
		throttle = DefaultSearchThrottle
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		search: cache.New[[]models.ProductView](throttle),
		logger: logger,
	}
}

// Run purga la caché de búsqueda hasta que ctx termine.
func (s *Service) Run(ctx context.Context) {
	s.search.Run(ctx, time.Minute)
}

// Invalidate descarta las búsquedas recientes tras un cambio en el catálogo.
func (s *Service) Invalidate() {
	n := s.search.DeleteByPrefix(searchPrefix)
	s.logger.Debug("search cache invalidated", zap.Int("entries", n))
}

func (s *Service) ListCategories(ctx context.Context) []models.Category {
	categories, err := s.store.Categories.List(ctx)
	if err != nil {
		s.logger.Warn("list categories failed", zap.Error(err))
		return []models.Category{}
	}
	return categories
}

// ListProducts devuelve los productos más recientes primero; categoryID vacío
// devuelve todos.
func (s *Service) ListProducts(ctx context.Context, categoryID string) []models.ProductView {
	products, err := s.store.Products.List(ctx, categoryID)
	if err != nil {
		s.logger.Warn("list products failed", zap.String("category_id", categoryID), zap.Error(err))
		return []models.ProductView{}
	}

	views, err := Join(ctx, s.store, products)
	if err != nil {
		s.logger.Warn("join products failed", zap.Error(err))
		return []models.ProductView{}
	}
	return views
}

// GetProduct devuelve el producto o repository.ErrNotFound.
func (s *Service) GetProduct(ctx context.Context, id string) (*models.ProductView, error) {
	product, err := s.store.Products.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) && !errors.Is(err, repository.ErrInvalidID) {
			s.logger.Warn("get product failed", zap.String("id", id), zap.Error(err))
		}
		return nil, repository.ErrNotFound
	}

	views, err := Join(ctx, s.store, []models.Product{*product})
	if err != nil {
		s.logger.Warn("join product failed", zap.String("id", id), zap.Error(err))
		return nil, repository.ErrNotFound
	}
	return &views[0], nil
}

// ListVariants devuelve las variantes del producto, más antiguas primero.
func (s *Service) ListVariants(ctx context.Context, productID string) []models.VariantView {
	view, err := s.GetProduct(ctx, productID)
	if err != nil {
		return []models.VariantView{}
	}
	return view.Variants
}

// Search busca productos cuyo nombre contenga query. Una consulta vacía no
// devuelve nada y las repetidas dentro de la ventana se sirven de la caché.
func (s *Service) Search(ctx context.Context, query string) []models.ProductView {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.ProductView{}
	}
	key := searchPrefix + q
	if hit, ok := s.search.Get(key); ok {
		return hit
	}

	products, err := s.store.Products.SearchByName(ctx, q, SearchLimit)
	if err != nil {
		s.logger.Warn("search failed", zap.String("query", q), zap.Error(err))
		return []models.ProductView{}
	}
	views, err := Join(ctx, s.store, products)
	if err != nil {
		s.logger.Warn("join search results failed", zap.Error(err))
		return []models.ProductView{}
	}

	s.search.Set(key, views)
	return views
}

// LatestReviews devuelve las limit reseñas más recientes con el nombre del producto.
func (s *Service) LatestReviews(ctx context.Context, limit int) []models.ReviewView {
	reviews, err := s.store.Reviews.List(ctx, limit)
	if err != nil {
		s.logger.Warn("list reviews failed", zap.Int("limit", limit), zap.Error(err))
		return []models.ReviewView{}
	}
	return s.withProductNames(ctx, reviews)
}

// ListReviews devuelve todas las reseñas, más recientes primero.
func (s *Service) ListReviews(ctx context.Context) []models.ReviewView {
	return s.LatestReviews(ctx, 0)
}

func (s *Service) withProductNames(ctx context.Context, reviews []models.Review) []models.ReviewView {
	names := map[string]string{}
	products, err := s.store.Products.List(ctx, "")
	if err != nil {
		s.logger.Warn("list products for reviews failed", zap.Error(err))
	}
	for _, p := range products {
		names[p.ID] = p.Name
	}

	out := make([]models.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, models.ReviewView{Review: r, ProductName: names[r.ProductID]})
	}
	return out
}

// Join completa los productos con su categoría y sus variantes, conservando
// el orden recibido.
func Join(ctx context.Context, store repository.Store, products []models.Product) ([]models.ProductView, error) {
	views := make([]models.ProductView, 0, len(products))
	if len(products) == 0 {
		return views, nil
	}

	categories, err := store.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byCategory[c.ID] = c
	}

	types, err := store.VariationTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]models.VariationType, len(types))
	for _, t := range types {
		byType[t.ID] = t
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	variants, err := store.Variants.ListByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	byProduct := map[string][]models.VariantView{}
	for _, v := range variants {
		vt := byType[v.VariationTypeID]
		byProduct[v.ProductID] = append(byProduct[v.ProductID], models.VariantView{
			ProductVariant:    v,
			VariationTypeName: vt.Name,
			VariationTypeSlug: vt.Slug,
		})
	}

	for _, p := range products {
		view := models.ProductView{Product: p, Variants: byProduct[p.ID]}
		if view.Variants == nil {
			view.Variants = []models.VariantView{}
		}
		if p.CategoryID != nil {
			if c, ok := byCategory[*p.CategoryID]; ok {
				view.Category = &models.CategoryRef{Name: c.Name, HasVariations: c.HasVariations}
			}
		}
		views = append(views, view)
	}
	return views, nil
}
