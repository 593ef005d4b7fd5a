package models

import (
	"time"
)

// Product representa un producto del catálogo. El precio es el precio base;
// los productos de categorías con variaciones pueden tener precios por material.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	CategoryID  *string   `json:"category_id" bson:"category_id"`
	ImageURL    *string   `json:"image_url" bson:"image_url"`
	Images      []string  `json:"images" bson:"images"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// ProductUpdate representa los campos actualizables de un producto.
// ClearCategory desasigna la categoría (category_id = null).
type ProductUpdate struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	CategoryID    *string  `json:"category_id,omitempty"`
	ClearCategory bool     `json:"clear_category,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	Images        []string `json:"images,omitempty"`
}

// Empty indica que no hay ningún campo para actualizar.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.CategoryID == nil && !u.ClearCategory && u.ImageURL == nil && u.Images == nil
}

// Apply copia los campos presentes sobre p.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.CategoryID != nil {
		id := *u.CategoryID
		p.CategoryID = &id
	}
	if u.ClearCategory {
		p.CategoryID = nil
	}
	if u.ImageURL != nil {
		url := *u.ImageURL
		p.ImageURL = &url
	}
	if u.Images != nil {
		p.Images = append([]string(nil), u.Images...)
	}
}

// ProductVariant es una opción de material de un producto con su propio precio.
type ProductVariant struct {
	ID              string    `json:"id" bson:"_id"`
	ProductID       string    `json:"product_id" bson:"product_id"`
	VariationTypeID string    `json:"variation_type_id" bson:"variation_type_id"`
	Price           float64   `json:"price" bson:"price"`
	ImageURL        *string   `json:"image_url" bson:"image_url"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// CategoryRef es la parte de la categoría embebida en ProductView.
type CategoryRef struct {
	Name          string `json:"name"`
	HasVariations bool   `json:"has_variations"`
}

// VariantView es una variante junto con el nombre de su tipo de variación.
type VariantView struct {
	ProductVariant
	VariationTypeName string `json:"variation_type_name"`
	VariationTypeSlug string `json:"variation_type_slug"`
}

// ProductView es el modelo de lectura que consumen la tienda y el panel.
type ProductView struct {
	Product
	Category *CategoryRef  `json:"category"`
	Variants []VariantView `json:"variants"`
}

// HasVariations devuelve la marca de la categoría, false si no tiene categoría.
func (v ProductView) HasVariations() bool {
	return v.Category != nil && v.Category.HasVariations
}

// CategoryName devuelve el nombre de la categoría o "".
func (v ProductView) CategoryName() string {
	if v.Category == nil {
		return ""
	}
	return v.Category.Name
}
