package admin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"crafts-store/internal/catalog"
	"crafts-store/internal/pricing"
)

var exportHeaders = []string{
	"ID", "Name", "Description", "Category", "Price", "PriceRange",
	"Variants", "Image", "Images", "CreatedAt",
}

// ExportProducts escribe todos los productos en una hoja "Products" de un xlsx.
func (s *Service) ExportProducts(ctx context.Context, w io.Writer) (int, error) {
	products, err := s.store.Products.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	views, err := catalog.Join(ctx, s.store, products)
	if err != nil {
		return 0, fmt.Errorf("join products: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return 0, fmt.Errorf("create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, v := range views {
		row := sheet.AddRow()
		row.AddCell().SetValue(v.ID)
		row.AddCell().SetValue(v.Name)
		row.AddCell().SetValue(v.Description)
		row.AddCell().SetValue(v.CategoryName())
		row.AddCell().SetValue(v.Price)
		row.AddCell().SetValue(pricing.Resolve(v).String())

		variants := make([]string, 0, len(v.Variants))
		for _, variant := range v.Variants {
			variants = append(variants, fmt.Sprintf("%s=%v", variant.VariationTypeName, variant.Price))
		}
		row.AddCell().SetValue(strings.Join(variants, "; "))

		image := ""
		if v.ImageURL != nil {
			image = *v.ImageURL
		}
		row.AddCell().SetValue(image)
		row.AddCell().SetValue(strings.Join(v.Images, ","))
		row.AddCell().SetValue(v.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return 0, fmt.Errorf("write xlsx: %w", err)
	}
	return len(views), nil
}
