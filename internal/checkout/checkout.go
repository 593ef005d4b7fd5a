// Package checkout implementa el asistente de compra de tres pasos
// details → review → success sobre el carrito de la sesión.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"crafts-store/internal/cart"
)

type Step string

const (
	StepDetails Step = "details"
	StepReview  Step = "review"
	StepSuccess Step = "success"
)

var (
	// ErrInvalidTransition se devuelve al pedir un paso no permitido desde el actual.
	ErrInvalidTransition = errors.New("invalid checkout transition")

	// ErrEmptyCart se devuelve al avanzar con el carrito vacío.
	ErrEmptyCart = errors.New("cart is empty")
)

// Details son los datos de envío del formulario.
type Details struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code"`
	Notes      string `json:"notes"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa los campos obligatorios que faltan o son inválidos.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "invalid shipping details: " + strings.Join(parts, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate comprueba los campos obligatorios del formulario.
func (d Details) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		msg := "is required"
		if fe.Tag() == "email" {
			msg = "must be a valid email"
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// ShippingRules define el envío gratuito a partir de un umbral y la tarifa fija.
type ShippingRules struct {
	FreeThreshold decimal.Decimal
	FlatFee       decimal.Decimal
}

func DefaultShippingRules() ShippingRules {
	return ShippingRules{
		FreeThreshold: decimal.NewFromInt(5000),
		FlatFee:       decimal.NewFromInt(350),
	}
}

type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Quote calcula el envío: gratis sólo si el subtotal supera estrictamente el umbral.
func (r ShippingRules) Quote(subtotal decimal.Decimal) Quote {
	shipping := r.FlatFee
	if subtotal.GreaterThan(r.FreeThreshold) {
		shipping = decimal.Zero
	}
	return Quote{Subtotal: subtotal, Shipping: shipping, Total: subtotal.Add(shipping)}
}

// Confirmation es el resumen del pedido realizado. No se guarda ni se envía.
type Confirmation struct {
	Reference string      `json:"reference"`
	PlacedAt  time.Time   `json:"placed_at"`
	Details   Details     `json:"details"`
	Lines     []cart.Line `json:"lines"`
	Quote     Quote       `json:"quote"`
}

// State es lo que se persiste del asistente entre peticiones.
type State struct {
	Step         Step          `json:"step"`
	Details      Details       `json:"details"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// StateKey devuelve la clave bajo la que se guarda el estado del asistente.
func StateKey(sessionID string) string {
	return "checkout:" + sessionID
}

// Flow es el asistente de una sesión.
type Flow struct {
	state   State
	cart    *cart.Store
	rules   ShippingRules
	storage cart.Storage
	key     string
	logger  *zap.Logger
}

// Open recupera el estado guardado; si no existe o está corrupto empieza en
// details. Un pedido ya realizado sólo se muestra mientras el carrito siga vacío.
func Open(ctx context.Context, storage cart.Storage, sessionID string, store *cart.Store, rules ShippingRules, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Flow{
		state:   State{Step: StepDetails},
		cart:    store,
		rules:   rules,
		storage: storage,
		key:     StateKey(sessionID),
		logger:  logger,
	}

	data, err := storage.Load(ctx, f.key)
	if err != nil {
		if !errors.Is(err, cart.ErrNoData) {
			logger.Warn("checkout state load failed", zap.String("key", f.key), zap.Error(err))
		}
		return f
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("checkout state is malformed, restarting", zap.String("key", f.key), zap.Error(err))
		return f
	}
	switch state.Step {
	case StepDetails, StepReview:
		f.state = state
	case StepSuccess:
		// Con líneas nuevas en el carrito empieza otro pedido.
		if store.Empty() {
			f.state = state
		}
	}
	return f
}

func (f *Flow) persist(ctx context.Context) {
	data, err := json.Marshal(f.state)
	if err != nil {
		f.logger.Warn("checkout state serialization failed", zap.Error(err))
		return
	}
	if err := f.storage.Save(ctx, f.key, data); err != nil {
		f.logger.Warn("checkout state save failed", zap.String("key", f.key), zap.Error(err))
	}
}

func (f *Flow) Step() Step {
	return f.state.Step
}

func (f *Flow) Details() Details {
	return f.state.Details
}

// Quote calcula el total del carrito actual.
func (f *Flow) Quote() Quote {
	return f.rules.Quote(f.cart.Total())
}

// SubmitDetails valida el formulario y pasa a review.
func (f *Flow) SubmitDetails(ctx context.Context, details Details) error {
	if f.state.Step != StepDetails {
		return ErrInvalidTransition
	}
	if f.cart.Empty() {
		return ErrEmptyCart
	}

	// Los datos se conservan aunque no sean válidos para no perder lo escrito.
	f.state.Details = details
	if err := details.Validate(); err != nil {
		f.persist(ctx)
		return err
	}

	f.state.Step = StepReview
	f.persist(ctx)
	return nil
}

// Edit vuelve de review a details sin perder los datos introducidos.
func (f *Flow) Edit(ctx context.Context) error {
	if f.state.Step != StepReview {
		return ErrInvalidTransition
	}
	f.state.Step = StepDetails
	f.persist(ctx)
	return nil
}

// PlaceOrder cierra el asistente: vacía el carrito y pasa a success.
func (f *Flow) PlaceOrder(ctx context.Context) (*Confirmation, error) {
	if f.state.Step != StepReview {
		return nil, ErrInvalidTransition
	}
	if f.cart.Empty() {
		return nil, ErrEmptyCart
	}

	confirmation := &Confirmation{
		Reference: uuid.NewString(),
		PlacedAt:  time.Now().UTC(),
		Details:   f.state.Details,
		Lines:     f.cart.Lines(),
		Quote:     f.Quote(),
	}

	f.cart.Clear(ctx)
	f.state = State{Step: StepSuccess, Confirmation: confirmation}
	f.persist(ctx)

	f.logger.Info("order placed",
		zap.String("reference", confirmation.Reference),
		zap.Int("lines", len(confirmation.Lines)),
		zap.String("subtotal", confirmation.Quote.Subtotal.String()),
		zap.String("shipping", confirmation.Quote.Shipping.String()),
		zap.String("total", confirmation.Quote.Total.String()),
	)
	return confirmation, nil
}

// Reset empieza un nuevo asistente después de un pedido realizado.
func (f *Flow) Reset(ctx context.Context) {
	f.state = State{Step: StepDetails}
	f.persist(ctx)
}

// View es lo que se muestra en cada paso.
type View struct {
	Step         Step          `json:"step"`
	EmptyCart    bool          `json:"empty_cart"`
	Details      *Details      `json:"details,omitempty"`
	Lines        []cart.Line   `json:"lines,omitempty"`
	Quote        *Quote        `json:"quote,omitempty"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// View devuelve el estado visible. Con el carrito vacío y sin pedido realizado
// sólo se indica EmptyCart.
func (f *Flow) View() View {
	if f.state.Step == StepSuccess {
		return View{Step: StepSuccess, Confirmation: f.state.Confirmation}
	}
	if f.cart.Empty() {
		return View{Step: f.state.Step, EmptyCart: true}
	}

	details := f.state.Details
	quote := f.Quote()
	return View{
		Step:    f.state.Step,
		Details: &details,
		Lines:   f.cart.Lines(),
		Quote:   &quote,
	}
}
