package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crafts-store/internal/models"
	"crafts-store/internal/repository"
)

type ReviewInput struct {
	ProductID string `json:"product_id" validate:"required"`
	UserName  string `json:"user_name" validate:"required"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment" validate:"required"`
}

// Reviews devuelve todas las reseñas, más recientes primero, con el nombre del producto.
func (s *Service) Reviews(ctx context.Context) ([]models.ReviewView, error) {
	reviews, err := s.store.Reviews.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	products, err := s.store.Products.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	out := make([]models.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, models.ReviewView{Review: r, ProductName: names[r.ProductID]})
	}
	return out, nil
}

func (s *Service) CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Comment = strings.TrimSpace(in.Comment)
	if err := s.check(in); err != nil {
		return nil, err
	}
	if _, err := s.store.Products.Get(ctx, in.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, &ValidationError{Field: "product_id", Message: "product does not exist"}
		}
		return nil, err
	}

	review := &models.Review{
		ProductID: in.ProductID,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := s.store.Reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.changed()
	return review, nil
}

func (s *Service) DeleteReview(ctx context.Context, id string, confirmed bool) error {
	if err := confirm(confirmed, deletePrompt); err != nil {
		return err
	}
	if err := s.store.Reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.changed()
	return nil
}
