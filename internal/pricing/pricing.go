// Package pricing resuelve el precio que se muestra de un producto: un valor
// único o un rango mínimo–máximo sobre sus variantes de material.
package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"crafts-store/internal/models"
)

// EffectivelyVariable indica que la categoría admite variaciones y que el
// producto tiene al menos una variante definida.
func EffectivelyVariable(view models.ProductView) bool {
	return view.HasVariations() && len(view.Variants) > 0
}

// Range es el intervalo de precios de un producto.
type Range struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Resolve calcula el rango de precios. Un producto que no es efectivamente
// variable usa su precio base como mínimo y máximo.
func Resolve(view models.ProductView) Range {
	if !EffectivelyVariable(view) {
		base := decimal.NewFromFloat(view.Price)
		return Range{Min: base, Max: base}
	}

	prices := make([]decimal.Decimal, 0, len(view.Variants))
	for _, v := range view.Variants {
		prices = append(prices, decimal.NewFromFloat(v.Price))
	}
	return Range{Min: decimal.Min(prices[0], prices[1:]...), Max: decimal.Max(prices[0], prices[1:]...)}
}

// Single indica que el rango colapsa a un solo valor.
func (r Range) Single() bool {
	return r.Min.Equal(r.Max)
}

// String devuelve "500" o "500–800".
func (r Range) String() string {
	if r.Single() {
		return FormatAmount(r.Min)
	}
	return FormatAmount(r.Min) + "–" + FormatAmount(r.Max)
}

// Label devuelve el texto de la tienda: "LKR 500" o "LKR 500 – 800".
func (r Range) Label(currency string) string {
	if r.Single() {
		return currency + " " + FormatAmount(r.Min)
	}
	return currency + " " + FormatAmount(r.Min) + " – " + FormatAmount(r.Max)
}

// FormatAmount agrupa los miles ("1,500") y deja como mucho dos decimales.
func FormatAmount(d decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	if d.IsInteger() {
		return p.Sprintf("%d", d.IntPart())
	}
	f, _ := d.Round(2).Float64()
	return p.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}
