package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second
	queryTimeout = 10 * time.Second
)

// Nombres de colecciones
const (
	CategoriesCollection     = "categories"
	ProductsCollection       = "products"
	VariantsCollection       = "product_variants"
	VariationTypesCollection = "variation_types"
	ReviewsCollection        = "reviews"
)

// NewMongoStore construye el Store sobre una base de datos MongoDB.
func NewMongoStore(db *mongo.Database) Store {
	return Store{
		Categories:     &mongoCategories{collection: db.Collection(CategoriesCollection)},
		Products:       newMongoProducts(db.Collection(ProductsCollection)),
		Variants:       &mongoVariants{collection: db.Collection(VariantsCollection)},
		VariationTypes: &mongoVariationTypes{collection: db.Collection(VariationTypesCollection)},
		Reviews:        &mongoReviews{collection: db.Collection(ReviewsCollection)},
	}
}

// EnsureIndexes crea los índices que usan las consultas del catálogo.
// El índice único de variantes impide dos variantes del mismo tipo en un producto.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		ProductsCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
		},
		VariantsCollection: {
			{
				Keys:    bson.D{{Key: "product_id", Value: 1}, {Key: "variation_type_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "variation_type_id", Value: 1}}},
		},
		CategoriesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		VariationTypesCollection: {
			{Keys: bson.D{{Key: "display_order", Value: 1}}},
		},
		ReviewsCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func checkID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
