// Package cart implementa el carrito de compra de un visitante: líneas
// identificadas por producto+variante, totales derivados y persistencia
// completa de la lista tras cada cambio.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"crafts-store/internal/models"
)

// StorageKeyPrefix es la clave bajo la que se guarda la lista de líneas.
const StorageKeyPrefix = "prasanthi-crafts-cart"

// StorageKey devuelve la clave de almacenamiento del carrito de una sesión.
func StorageKey(sessionID string) string {
	return StorageKeyPrefix + ":" + sessionID
}

// VariantSnapshot es la copia de la variante elegida tomada al añadirla.
// Los cambios posteriores de precio en el catálogo no la alteran.
type VariantSnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL *string `json:"image_url"`
}

// SnapshotVariant copia los datos visibles de una variante del catálogo.
func SnapshotVariant(v models.VariantView) *VariantSnapshot {
	name := v.VariationTypeName
	if name == "" {
		name = "Variant"
	}
	return &VariantSnapshot{
		ID:       v.ID,
		Name:     name,
		Price:    v.Price,
		ImageURL: v.ImageURL,
	}
}

// Line es una fila del carrito.
type Line struct {
	Product         models.Product   `json:"product"`
	Quantity        int              `json:"quantity"`
	SelectedVariant *VariantSnapshot `json:"selected_variant"`
}

func (l Line) Key() string {
	if l.SelectedVariant == nil {
		return Key(l.Product.ID, "")
	}
	return Key(l.Product.ID, l.SelectedVariant.ID)
}

// UnitPrice es el precio de la variante si existe, si no el del producto.
func (l Line) UnitPrice() decimal.Decimal {
	if l.SelectedVariant != nil {
		return decimal.NewFromFloat(l.SelectedVariant.Price)
	}
	return decimal.NewFromFloat(l.Product.Price)
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ImageURL es la imagen de la variante o, en su defecto, la del producto.
func (l Line) ImageURL() *string {
	if l.SelectedVariant != nil && l.SelectedVariant.ImageURL != nil && *l.SelectedVariant.ImageURL != "" {
		return l.SelectedVariant.ImageURL
	}
	return l.Product.ImageURL
}

// Store es el carrito de una sesión. Todas las operaciones se aplican en
// memoria y la lista completa se escribe en Storage después de cada cambio.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	open    bool
	storage Storage
	key     string
	logger  *zap.Logger
}

// Open rehidrata el carrito guardado bajo key. Si no hay datos o están
// corruptos se parte de un carrito vacío.
func Open(ctx context.Context, storage Storage, key string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		lines:   []Line{},
		storage: storage,
		key:     key,
		logger:  logger,
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	data, err := s.storage.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			s.logger.Warn("cart load failed, starting empty", zap.String("key", s.key), zap.Error(err))
		}
		return
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		s.logger.Warn("stored cart is malformed, starting empty", zap.String("key", s.key), zap.Error(err))
		return
	}

	for _, l := range lines {
		if l.Quantity > 0 && l.Product.ID != "" {
			s.lines = append(s.lines, l)
		}
	}
}

// persist escribe la lista completa; los fallos sólo se registran.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.lines)
	if err != nil {
		s.logger.Warn("cart serialization failed", zap.String("key", s.key), zap.Error(err))
		return
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		s.logger.Warn("cart save failed", zap.String("key", s.key), zap.Error(err))
	}
}

// Add añade quantity unidades (1 si quantity < 1). Si la línea ya existe se
// suma la cantidad. Marca el carrito como abierto y devuelve la clave.
func (s *Store) Add(ctx context.Context, product models.Product, quantity int, variant *VariantSnapshot) string {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	variantID := ""
	if variant != nil {
		variantID = variant.ID
	}
	key := Key(product.ID, variantID)

	merged := false
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, Line{Product: product, Quantity: quantity, SelectedVariant: variant})
	}

	s.open = true
	s.persist(ctx)
	return key
}

// Remove elimina la línea con esa clave; si no existe no hace nada.
func (s *Store) Remove(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(key)
	s.persist(ctx)
}

func (s *Store) remove(key string) {
	kept := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		if l.Key() != key {
			kept = append(kept, l)
		}
	}
	s.lines = kept
}

// SetQuantity fija la cantidad exacta; quantity <= 0 elimina la línea.
func (s *Store) SetQuantity(ctx context.Context, key string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.remove(key)
	} else {
		for i := range s.lines {
			if s.lines[i].Key() == key {
				s.lines[i].Quantity = quantity
				break
			}
		}
	}
	s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []Line{}
	s.persist(ctx)
}

// Lines devuelve una copia de las líneas en orden de inserción.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line{}, s.lines...)
}

// Line devuelve la línea con esa clave.
func (s *Store) Line(key string) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.lines {
		if l.Key() == key {
			return l, true
		}
	}
	return Line{}, false
}

// Count es la suma de cantidades.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// Total es la suma de precio unitario por cantidad de todas las líneas.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// IsOpen indica que la interfaz debería mostrar el carrito. No se persiste.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}
