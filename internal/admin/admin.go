// Package admin implementa las operaciones del panel de administración sobre
// el catálogo: categorías, productos y sus variantes, tipos de variación,
// reseñas y el resumen del panel.
package admin

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"crafts-store/internal/models"
	"crafts-store/internal/repository"
)

// ErrConfirmationRequired se devuelve al borrar sin confirmación explícita.
var ErrConfirmationRequired = errors.New("confirmation required")

// ConfirmationError lleva el texto que debe confirmar el usuario.
type ConfirmationError struct {
	Prompt string
}

func (e *ConfirmationError) Error() string {
	return e.Prompt
}

func (e *ConfirmationError) Unwrap() error {
	return ErrConfirmationRequired
}

func confirm(confirmed bool, prompt string) error {
	if confirmed {
		return nil
	}
	return &ConfirmationError{Prompt: prompt}
}

// ValidationError representa un error de validación
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify pasa a minúsculas, sustituye cada tramo de caracteres fuera de
// [a-z0-9] por un guion y recorta los guiones de los extremos.
func Slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

type Service struct {
	store    repository.Store
	validate *validator.Validate
	logger   *zap.Logger
	onChange func()
}

// NewService crea el servicio. onChange, si no es nil, se llama después de
// cada modificación del catálogo.
func NewService(store repository.Store, logger *zap.Logger, onChange func()) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return &Service{store: store, validate: v, logger: logger, onChange: onChange}
}

func (s *Service) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// check valida in y devuelve el primer campo erróneo como *ValidationError.
func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: fe.Field(), Message: fe.Field() + " is required"}
	case "min", "max", "gte", "lte", "gt":
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("%s is out of range", fe.Field())}
	default:
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("%s is invalid", fe.Field())}
	}
}

// Dashboard devuelve el número de productos, categorías y reseñas.
func (s *Service) Dashboard(ctx context.Context) (models.DashboardCounts, error) {
	var counts models.DashboardCounts
	var err error

	if counts.Products, err = s.store.Products.Count(ctx); err != nil {
		return counts, fmt.Errorf("count products: %w", err)
	}
	if counts.Categories, err = s.store.Categories.Count(ctx); err != nil {
		return counts, fmt.Errorf("count categories: %w", err)
	}
	if counts.Reviews, err = s.store.Reviews.Count(ctx); err != nil {
		return counts, fmt.Errorf("count reviews: %w", err)
	}
	return counts, nil
}
