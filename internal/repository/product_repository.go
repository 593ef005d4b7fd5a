package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crafts-store/internal/models"
)

type mongoProducts struct {
	collection *mongo.Collection
}

func newMongoProducts(collection *mongo.Collection) *mongoProducts {
	return &mongoProducts{
		collection: collection,
	}
}

// Create crea un nuevo producto
func (r *mongoProducts) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	product.ID = primitive.NewObjectID().Hex()
	product.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// Get obtiene un producto por ID
func (r *mongoProducts) Get(ctx context.Context, id string) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	return &product, nil
}

// List lista productos, los más recientes primero
func (r *mongoProducts) List(ctx context.Context, categoryID string) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if categoryID != "" {
		filter["category_id"] = categoryID
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Product](ctx, cursor)
}

// SearchByName busca productos cuyo nombre contenga query
func (r *mongoProducts) SearchByName(ctx context.Context, query string, limit int) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"name": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"},
	}
	findOptions := options.Find()
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Product](ctx, cursor)
}

// Update reemplaza el documento del producto
func (r *mongoProducts) Update(ctx context.Context, product *models.Product) error {
	if err := checkID(product.ID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete elimina un producto. El borrado es definitivo.
func (r *mongoProducts) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *mongoProducts) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// ClearCategory deja huérfanos a los productos de la categoría
func (r *mongoProducts) ClearCategory(ctx context.Context, categoryID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collection.UpdateMany(
		ctx,
		bson.M{"category_id": categoryID},
		bson.M{"$set": bson.M{"category_id": nil}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *mongoProducts) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return r.collection.CountDocuments(ctx, bson.M{})
}
