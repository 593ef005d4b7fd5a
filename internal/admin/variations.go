package admin

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"crafts-store/internal/models"
)

type VariationTypeInput struct {
	Name         string `json:"name" validate:"required"`
	Slug         string `json:"slug"`
	DisplayOrder int    `json:"display_order"`
}

const deleteVariationTypePrompt = "This will remove this material type from all products. Are you sure?"

// VariationTypes devuelve los tipos ordenados por display_order.
func (s *Service) VariationTypes(ctx context.Context) ([]models.VariationType, error) {
	types, err := s.store.VariationTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list variation types: %w", err)
	}
	return types, nil
}

func (s *Service) CreateVariationType(ctx context.Context, in VariationTypeInput) (*models.VariationType, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}

	vt := &models.VariationType{
		Name:         in.Name,
		Slug:         strings.TrimSpace(in.Slug),
		DisplayOrder: in.DisplayOrder,
	}
	if vt.Slug == "" {
		vt.Slug = Slugify(in.Name)
	}

	if err := s.store.VariationTypes.Create(ctx, vt); err != nil {
		return nil, fmt.Errorf("create variation type: %w", err)
	}
	s.changed()
	return vt, nil
}

func (s *Service) UpdateVariationType(ctx context.Context, id string, update models.VariationTypeUpdate) (*models.VariationType, error) {
	vt, err := s.store.VariationTypes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if update.Slug != nil && strings.TrimSpace(*update.Slug) == "" {
		update.Slug = nil
	}
	update.Apply(vt)

	if err := s.store.VariationTypes.Update(ctx, vt); err != nil {
		return nil, fmt.Errorf("update variation type: %w", err)
	}
	s.changed()
	return vt, nil
}

// DeleteVariationType borra el tipo y todas las variantes de ese tipo.
func (s *Service) DeleteVariationType(ctx context.Context, id string, confirmed bool) error {
	if err := confirm(confirmed, deleteVariationTypePrompt); err != nil {
		return err
	}
	if _, err := s.store.VariationTypes.Get(ctx, id); err != nil {
		return err
	}

	if err := s.store.Variants.DeleteByVariationType(ctx, id); err != nil {
		return fmt.Errorf("delete variants: %w", err)
	}
	if err := s.store.VariationTypes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete variation type: %w", err)
	}
	s.logger.Info("variation type deleted", zap.String("id", id))
	s.changed()
	return nil
}
