package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"crafts-store/internal/catalog"
	"crafts-store/internal/models"
)

// PageSize es el número de productos por página del panel.
const PageSize = 20

type ProductSort string

const (
	SortByName      ProductSort = "name"
	SortByPrice     ProductSort = "price"
	SortByCategory  ProductSort = "category"
	SortByCreatedAt ProductSort = "created_at"
)

type ProductQuery struct {
	Search     string
	CategoryID string
	Sort       ProductSort
	Desc       bool
	Page       int
}

type ProductPage struct {
	Products   []models.ProductView `json:"products"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

type ProductInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	CategoryID  *string  `json:"category_id"`
	ImageURL    *string  `json:"image_url"`
	Images      []string `json:"images"`
}

// VariantForm es una fila del panel de variantes: un precio por tipo de variación.
type VariantForm struct {
	VariationTypeID string  `json:"variation_type_id"`
	Price           float64 `json:"price"`
	ImageURL        *string `json:"image_url"`
}

const deletePrompt = "Are you sure?"

func bulkDeletePrompt(n int) string {
	return fmt.Sprintf("Delete %d products? This cannot be undone.", n)
}

// Products busca en nombre, descripción y nombre de categoría, filtra por
// categoría, ordena y pagina de PageSize en PageSize.
func (s *Service) Products(ctx context.Context, q ProductQuery) (ProductPage, error) {
	products, err := s.store.Products.List(ctx, q.CategoryID)
	if err != nil {
		return ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	views, err := catalog.Join(ctx, s.store, products)
	if err != nil {
		return ProductPage{}, fmt.Errorf("join products: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	filtered := make([]models.ProductView, 0, len(views))
	for _, v := range views {
		if needle == "" ||
			strings.Contains(strings.ToLower(v.Name), needle) ||
			strings.Contains(strings.ToLower(v.Description), needle) ||
			strings.Contains(strings.ToLower(v.CategoryName()), needle) {
			filtered = append(filtered, v)
		}
	}

	sortProducts(filtered, q.Sort, q.Desc)
	return paginate(filtered, q.Page), nil
}

func sortProducts(vs []models.ProductView, field ProductSort, desc bool) {
	cmp := func(a, b models.ProductView) int {
		switch field {
		case SortByPrice:
			switch {
			case a.Price < b.Price:
				return -1
			case a.Price > b.Price:
				return 1
			}
			return 0
		case SortByCategory:
			return strings.Compare(strings.ToLower(a.CategoryName()), strings.ToLower(b.CategoryName()))
		case SortByCreatedAt:
			return a.CreatedAt.Compare(b.CreatedAt)
		default:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
	sort.SliceStable(vs, func(i, j int) bool {
		if desc {
			return cmp(vs[i], vs[j]) > 0
		}
		return cmp(vs[i], vs[j]) < 0
	})
}

func paginate(vs []models.ProductView, page int) ProductPage {
	totalPages := (len(vs) + PageSize - 1) / PageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(vs) {
		start = len(vs)
	}
	if end > len(vs) {
		end = len(vs)
	}

	return ProductPage{
		Products:   vs[start:end],
		Total:      len(vs),
		Page:       page,
		PageSize:   PageSize,
		TotalPages: totalPages,
	}
}

func (s *Service) checkCategory(ctx context.Context, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	if _, err := s.store.Categories.Get(ctx, *id); err != nil {
		return nil, &ValidationError{Field: "category_id", Message: "category does not exist"}
	}
	return id, nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}
	categoryID, err := s.checkCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  categoryID,
		ImageURL:    in.ImageURL,
		Images:      in.Images,
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	if err := s.store.Products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.logger.Info("product created", zap.String("id", product.ID), zap.String("name", product.Name))
	s.changed()
	return product, nil
}

// UpdateProduct aplica los campos presentes. Un category_id vacío desasigna la categoría.
func (s *Service) UpdateProduct(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	if update.Empty() {
		return nil, &ValidationError{Field: "", Message: "no valid fields to update"}
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if update.Price != nil && *update.Price < 0 {
		return nil, &ValidationError{Field: "price", Message: "price cannot be negative"}
	}
	if update.CategoryID != nil {
		categoryID, err := s.checkCategory(ctx, update.CategoryID)
		if err != nil {
			return nil, err
		}
		if categoryID == nil {
			update.CategoryID = nil
			update.ClearCategory = true
		}
	}

	product, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(product)

	if err := s.store.Products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.changed()
	return product, nil
}

// DeleteProduct borra el producto y sus variantes.
func (s *Service) DeleteProduct(ctx context.Context, id string, confirmed bool) error {
	if err := confirm(confirmed, deletePrompt); err != nil {
		return err
	}
	if err := s.store.Products.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Variants.DeleteByProducts(ctx, []string{id}); err != nil {
		s.logger.Warn("delete product variants failed", zap.String("product_id", id), zap.Error(err))
	}
	s.changed()
	return nil
}

// DeleteProducts borra varios productos a la vez junto con sus variantes.
func (s *Service) DeleteProducts(ctx context.Context, ids []string, confirmed bool) (int64, error) {
	if len(ids) == 0 {
		return 0, &ValidationError{Field: "ids", Message: "no products selected"}
	}
	if err := confirm(confirmed, bulkDeletePrompt(len(ids))); err != nil {
		return 0, err
	}

	deleted, err := s.store.Products.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}
	if err := s.store.Variants.DeleteByProducts(ctx, ids); err != nil {
		s.logger.Warn("delete variants failed", zap.Int("products", len(ids)), zap.Error(err))
	}

	s.logger.Info("products deleted", zap.Int64("deleted", deleted))
	s.changed()
	return deleted, nil
}

// SaveVariants sustituye todas las variantes del producto por las filas con
// precio mayor que cero. Si un tipo aparece varias veces gana la última fila.
func (s *Service) SaveVariants(ctx context.Context, productID string, forms []VariantForm) ([]models.VariantView, error) {
	if _, err := s.store.Products.Get(ctx, productID); err != nil {
		return nil, err
	}

	types, err := s.store.VariationTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list variation types: %w", err)
	}
	known := make(map[string]bool, len(types))
	for _, t := range types {
		known[t.ID] = true
	}

	position := map[string]int{}
	variants := []models.ProductVariant{}
	for _, f := range forms {
		if f.Price <= 0 {
			continue
		}
		if !known[f.VariationTypeID] {
			return nil, &ValidationError{Field: "variation_type_id", Message: "unknown variation type " + f.VariationTypeID}
		}
		imageURL := f.ImageURL
		if imageURL != nil && strings.TrimSpace(*imageURL) == "" {
			imageURL = nil
		}
		v := models.ProductVariant{VariationTypeID: f.VariationTypeID, Price: f.Price, ImageURL: imageURL}
		if i, seen := position[f.VariationTypeID]; seen {
			variants[i] = v
			continue
		}
		position[f.VariationTypeID] = len(variants)
		variants = append(variants, v)
	}

	if err := s.store.Variants.ReplaceForProduct(ctx, productID, variants); err != nil {
		return nil, fmt.Errorf("save variants: %w", err)
	}
	s.logger.Info("variants saved", zap.String("product_id", productID), zap.Int("variants", len(variants)))
	s.changed()

	product, err := s.store.Products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	views, err := catalog.Join(ctx, s.store, []models.Product{*product})
	if err != nil {
		return nil, fmt.Errorf("join variants: %w", err)
	}
	return views[0].Variants, nil
}
