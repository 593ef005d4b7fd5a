package models

import "time"

// Category agrupa productos. HasVariations es sólo una marca: un producto es
// variable de verdad cuando además tiene variantes definidas.
type Category struct {
	ID            string    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Slug          string    `json:"slug" bson:"slug"`
	ImageURL      *string   `json:"image_url" bson:"image_url"`
	HasVariations bool      `json:"has_variations" bson:"has_variations"`
	DisplayOrder  *int      `json:"display_order" bson:"display_order"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

type CategoryUpdate struct {
	Name          *string `json:"name,omitempty"`
	Slug          *string `json:"slug,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
	HasVariations *bool   `json:"has_variations,omitempty"`
	DisplayOrder  *int    `json:"display_order,omitempty"`
}

func (u CategoryUpdate) Apply(c *Category) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Slug != nil {
		c.Slug = *u.Slug
	}
	if u.ImageURL != nil {
		url := *u.ImageURL
		c.ImageURL = &url
	}
	if u.HasVariations != nil {
		c.HasVariations = *u.HasVariations
	}
	if u.DisplayOrder != nil {
		order := *u.DisplayOrder
		c.DisplayOrder = &order
	}
}

// VariationType es un tipo de material global (p. ej. "Foam Sheet").
type VariationType struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Slug         string    `json:"slug" bson:"slug"`
	DisplayOrder int       `json:"display_order" bson:"display_order"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

type VariationTypeUpdate struct {
	Name         *string `json:"name,omitempty"`
	Slug         *string `json:"slug,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

func (u VariationTypeUpdate) Apply(v *VariationType) {
	if u.Name != nil {
		v.Name = *u.Name
	}
	if u.Slug != nil {
		v.Slug = *u.Slug
	}
	if u.DisplayOrder != nil {
		v.DisplayOrder = *u.DisplayOrder
	}
}

// Review es una reseña de un producto con puntuación de 1 a 5.
type Review struct {
	ID        string    `json:"id" bson:"_id"`
	ProductID string    `json:"product_id" bson:"product_id"`
	UserName  string    `json:"user_name" bson:"user_name"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ReviewView es la reseña con el nombre del producto al que pertenece.
type ReviewView struct {
	Review
	ProductName string `json:"product_name"`
}

// DashboardCounts resume el contenido del catálogo para el panel.
type DashboardCounts struct {
	Products   int64 `json:"products"`
	Categories int64 `json:"categories"`
	Reviews    int64 `json:"reviews"`
}
