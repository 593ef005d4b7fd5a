package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crafts-store/internal/models"
)

// --- Categorías ---

type mongoCategories struct {
	collection *mongo.Collection
}

func (r *mongoCategories) List(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Category](ctx, cursor)
}

func (r *mongoCategories) Get(ctx context.Context, id string) (*models.Category, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var category models.Category
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &category, nil
}

func (r *mongoCategories) Create(ctx context.Context, category *models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	category.ID = primitive.NewObjectID().Hex()
	category.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, category)
	return err
}

func (r *mongoCategories) Update(ctx context.Context, category *models.Category) error {
	return replaceByID(ctx, r.collection, "category", category.ID, category)
}

func (r *mongoCategories) SetDisplayOrder(ctx context.Context, id string, order int) error {
	if err := checkID(id); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"display_order": order}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *mongoCategories) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, "category", id)
}

func (r *mongoCategories) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return r.collection.CountDocuments(ctx, bson.M{})
}

// --- Variantes ---

type mongoVariants struct {
	collection *mongo.Collection
}

func (r *mongoVariants) ListByProducts(ctx context.Context, productIDs []string) ([]models.ProductVariant, error) {
	if len(productIDs) == 0 {
		return []models.ProductVariant{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(
		ctx,
		bson.M{"product_id": bson.M{"$in": productIDs}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.ProductVariant](ctx, cursor)
}

func (r *mongoVariants) ReplaceForProduct(ctx context.Context, productID string, variants []models.ProductVariant) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"product_id": productID}); err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(variants))
	for i := range variants {
		variants[i].ID = primitive.NewObjectID().Hex()
		variants[i].ProductID = productID
		variants[i].CreatedAt = now
		docs = append(docs, variants[i])
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *mongoVariants) DeleteByProducts(ctx context.Context, productIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := r.collection.DeleteMany(ctx, bson.M{"product_id": bson.M{"$in": productIDs}})
	return err
}

func (r *mongoVariants) DeleteByVariationType(ctx context.Context, variationTypeID string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := r.collection.DeleteMany(ctx, bson.M{"variation_type_id": variationTypeID})
	return err
}

// --- Tipos de variación ---

type mongoVariationTypes struct {
	collection *mongo.Collection
}

func (r *mongoVariationTypes) List(ctx context.Context) ([]models.VariationType, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.VariationType](ctx, cursor)
}

func (r *mongoVariationTypes) Get(ctx context.Context, id string) (*models.VariationType, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var vt models.VariationType
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("variation type %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &vt, nil
}

func (r *mongoVariationTypes) Create(ctx context.Context, vt *models.VariationType) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	vt.ID = primitive.NewObjectID().Hex()
	vt.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, vt)
	return err
}

func (r *mongoVariationTypes) Update(ctx context.Context, vt *models.VariationType) error {
	return replaceByID(ctx, r.collection, "variation type", vt.ID, vt)
}

func (r *mongoVariationTypes) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, "variation type", id)
}

// --- Reseñas ---

type mongoReviews struct {
	collection *mongo.Collection
}

func (r *mongoReviews) List(ctx context.Context, limit int) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Review](ctx, cursor)
}

func (r *mongoReviews) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	review.ID = primitive.NewObjectID().Hex()
	review.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, review)
	return err
}

func (r *mongoReviews) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, "review", id)
}

func (r *mongoReviews) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return r.collection.CountDocuments(ctx, bson.M{})
}

// --- Métodos auxiliares ---

func replaceByID(ctx context.Context, collection *mongo.Collection, kind, id string, doc interface{}) error {
	if err := checkID(id); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := collection.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func deleteByID(ctx context.Context, collection *mongo.Collection, kind, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
