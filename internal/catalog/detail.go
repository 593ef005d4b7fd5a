package catalog

import (
	"crafts-store/internal/models"
	"crafts-store/internal/pricing"
)

type GalleryImage struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// Gallery ordena las imágenes del producto: la principal primero y después
// las de las variantes si el producto es variable, o las adicionales si no.
func Gallery(view models.ProductView) []GalleryImage {
	images := []GalleryImage{}
	primary := ""
	if view.ImageURL != nil && *view.ImageURL != "" {
		primary = *view.ImageURL
		images = append(images, GalleryImage{URL: primary, Label: "Preview"})
	}

	if view.HasVariations() && len(view.Variants) > 0 {
		for _, v := range view.Variants {
			if v.ImageURL == nil || *v.ImageURL == "" {
				continue
			}
			label := v.VariationTypeName
			if label == "" {
				label = "Variant"
			}
			images = append(images, GalleryImage{URL: *v.ImageURL, Label: label})
		}
		return images
	}

	for _, url := range view.Images {
		if url != "" && url != primary {
			images = append(images, GalleryImage{URL: url})
		}
	}
	return images
}

// DefaultVariant es la variante preseleccionada: la más antigua, sólo si el
// producto es variable.
func DefaultVariant(view models.ProductView) *models.VariantView {
	if !pricing.EffectivelyVariable(view) {
		return nil
	}
	v := view.Variants[0]
	return &v
}

// FindVariant busca una variante del producto por id.
func FindVariant(view models.ProductView, variantID string) (*models.VariantView, bool) {
	for _, v := range view.Variants {
		if v.ID == variantID {
			found := v
			return &found, true
		}
	}
	return nil, false
}

// Detail es lo que muestra la ficha del producto.
type Detail struct {
	models.ProductView
	PriceLabel       string         `json:"price_label"`
	Gallery          []GalleryImage `json:"gallery"`
	DefaultVariantID string         `json:"default_variant_id,omitempty"`
}

// NewDetail construye la ficha con el precio formateado en currency.
func NewDetail(view models.ProductView, currency string) Detail {
	d := Detail{
		ProductView: view,
		PriceLabel:  pricing.Resolve(view).Label(currency),
		Gallery:     Gallery(view),
	}
	if v := DefaultVariant(view); v != nil {
		d.DefaultVariantID = v.ID
	}
	return d
}
