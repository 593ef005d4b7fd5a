package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"crafts-store/internal/models"
	"crafts-store/internal/repository"
)

type CategorySort string

const (
	SortAlphaAsc  CategorySort = "alpha-asc"
	SortAlphaDesc CategorySort = "alpha-desc"
	SortNewest    CategorySort = "newest"
	SortOldest    CategorySort = "oldest"
	SortCustom    CategorySort = "custom"
)

// unorderedPosition es la posición de las categorías sin display_order en el orden personalizado.
const unorderedPosition = 999

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

type CategoryQuery struct {
	Search string
	Sort   CategorySort
}

type CategoryInput struct {
	Name          string  `json:"name" validate:"required"`
	Slug          string  `json:"slug"`
	ImageURL      *string `json:"image_url"`
	HasVariations *bool   `json:"has_variations"`
}

const deleteCategoryPrompt = "Are you sure? Products in this category will lose their category assignment."

// Categories devuelve las categorías filtradas por nombre o slug y ordenadas
// según q.Sort (alpha-asc si está vacío).
func (s *Service) Categories(ctx context.Context, q CategoryQuery) ([]models.Category, error) {
	all, err := s.store.Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]models.Category, 0, len(all))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, c := range all {
		if needle == "" ||
			strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Slug), needle) {
			out = append(out, c)
		}
	}

	sortCategories(out, q.Sort)
	return out, nil
}

func displayOrder(c models.Category) int {
	if c.DisplayOrder == nil {
		return unorderedPosition
	}
	return *c.DisplayOrder
}

func sortCategories(cs []models.Category, mode CategorySort) {
	switch mode {
	case SortAlphaDesc:
		sort.SliceStable(cs, func(i, j int) bool { return strings.ToLower(cs[i].Name) > strings.ToLower(cs[j].Name) })
	case SortNewest:
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].CreatedAt.After(cs[j].CreatedAt) })
	case SortOldest:
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].CreatedAt.Before(cs[j].CreatedAt) })
	case SortCustom:
		sort.SliceStable(cs, func(i, j int) bool { return displayOrder(cs[i]) < displayOrder(cs[j]) })
	default:
		sort.SliceStable(cs, func(i, j int) bool { return strings.ToLower(cs[i].Name) < strings.ToLower(cs[j].Name) })
	}
}

// CreateCategory crea la categoría; sin slug se deriva del nombre y sin
// has_variations se asume true.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:          in.Name,
		Slug:          strings.TrimSpace(in.Slug),
		ImageURL:      in.ImageURL,
		HasVariations: true,
	}
	if category.Slug == "" {
		category.Slug = Slugify(in.Name)
	}
	if in.HasVariations != nil {
		category.HasVariations = *in.HasVariations
	}

	if err := s.store.Categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.logger.Info("category created", zap.String("id", category.ID), zap.String("slug", category.Slug))
	s.changed()
	return category, nil
}

// UpdateCategory aplica los campos presentes. El slug guardado sólo cambia si
// se envía uno nuevo no vacío.
func (s *Service) UpdateCategory(ctx context.Context, id string, update models.CategoryUpdate) (*models.Category, error) {
	category, err := s.store.Categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if update.Slug != nil && strings.TrimSpace(*update.Slug) == "" {
		update.Slug = nil
	}
	update.Apply(category)

	if err := s.store.Categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	s.changed()
	return category, nil
}

// DeleteCategory borra la categoría y deja sin categoría a sus productos.
func (s *Service) DeleteCategory(ctx context.Context, id string, confirmed bool) error {
	if err := confirm(confirmed, deleteCategoryPrompt); err != nil {
		return err
	}
	if _, err := s.store.Categories.Get(ctx, id); err != nil {
		return err
	}

	orphaned, err := s.store.Products.ClearCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("orphan products: %w", err)
	}
	if err := s.store.Categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.Info("category deleted", zap.String("id", id), zap.Int64("orphaned_products", orphaned))
	s.changed()
	return nil
}

// MoveCategory intercambia el display_order de la categoría con su vecina en
// el orden personalizado. En los extremos no hace nada. Una categoría sin
// display_order usa su posición actual.
func (s *Service) MoveCategory(ctx context.Context, id string, dir Direction) error {
	if dir != Up && dir != Down {
		return &ValidationError{Field: "direction", Message: "direction must be up or down"}
	}

	ordered, err := s.Categories(ctx, CategoryQuery{Sort: SortCustom})
	if err != nil {
		return err
	}

	idx := -1
	for i, c := range ordered {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("category %s: %w", id, repository.ErrNotFound)
	}

	swapIdx := idx + 1
	if dir == Up {
		swapIdx = idx - 1
	}
	if swapIdx < 0 || swapIdx >= len(ordered) {
		return nil
	}

	current, swap := ordered[idx], ordered[swapIdx]
	currentOrder, swapOrder := idx, swapIdx
	if current.DisplayOrder != nil {
		currentOrder = *current.DisplayOrder
	}
	if swap.DisplayOrder != nil {
		swapOrder = *swap.DisplayOrder
	}

	if err := s.store.Categories.SetDisplayOrder(ctx, current.ID, swapOrder); err != nil {
		return fmt.Errorf("reorder category: %w", err)
	}
	if err := s.store.Categories.SetDisplayOrder(ctx, swap.ID, currentOrder); err != nil {
		return fmt.Errorf("reorder category: %w", err)
	}
	s.changed()
	return nil
}
