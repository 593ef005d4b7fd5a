// Package repository define el acceso a datos del catálogo: una interfaz por
// entidad y dos implementaciones (MongoDB y memoria).
package repository

import (
	"context"
	"errors"

	"crafts-store/internal/models"
)

var (
	// ErrNotFound se devuelve cuando el registro no existe.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID se devuelve cuando el identificador no tiene formato válido.
	ErrInvalidID = errors.New("invalid id")
)

type CategoryRepository interface {
	// List devuelve las categorías ordenadas por nombre.
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	SetDisplayOrder(ctx context.Context, id string, order int) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type ProductRepository interface {
	// List devuelve los productos más recientes primero; categoryID vacío no filtra.
	List(ctx context.Context, categoryID string) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	// SearchByName busca por subcadena del nombre sin distinguir mayúsculas.
	SearchByName(ctx context.Context, query string, limit int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	// ClearCategory deja sin categoría a los productos de categoryID.
	ClearCategory(ctx context.Context, categoryID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type VariantRepository interface {
	// ListByProducts devuelve las variantes de los productos dados, más antiguas primero.
	ListByProducts(ctx context.Context, productIDs []string) ([]models.ProductVariant, error)
	// ReplaceForProduct borra las variantes del producto e inserta las nuevas.
	ReplaceForProduct(ctx context.Context, productID string, variants []models.ProductVariant) error
	DeleteByProducts(ctx context.Context, productIDs []string) error
	DeleteByVariationType(ctx context.Context, variationTypeID string) error
}

type VariationTypeRepository interface {
	// List devuelve los tipos ordenados por display_order.
	List(ctx context.Context) ([]models.VariationType, error)
	Get(ctx context.Context, id string) (*models.VariationType, error)
	Create(ctx context.Context, vt *models.VariationType) error
	Update(ctx context.Context, vt *models.VariationType) error
	Delete(ctx context.Context, id string) error
}

type ReviewRepository interface {
	// List devuelve las reseñas más recientes primero; limit <= 0 devuelve todas.
	List(ctx context.Context, limit int) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// Store agrupa los repositorios de todas las entidades.
type Store struct {
	Categories     CategoryRepository
	Products       ProductRepository
	Variants       VariantRepository
	VariationTypes VariationTypeRepository
	Reviews        ReviewRepository
}
