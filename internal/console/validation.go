package console

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

// Form schemas. Validation runs before any network call; a rejected form
// never reaches the backend.

// NewUserForm is the create-flow input: the first price override for a user
// the backend has never seen.
type NewUserForm struct {
	Name      string  `json:"name" validate:"required,min=3"`
	Email     string  `json:"email" validate:"required,email"`
	ProductID string  `json:"productId" validate:"required"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

// ExistingUserForm adds one more override to an aggregate that already
// exists.
type ExistingUserForm struct {
	UserID    string  `json:"userId" validate:"required"`
	ProductID string  `json:"productId" validate:"required"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

// UpdatePriceForm replaces the price of one existing override. Price arrives
// as the raw form string and may carry "." thousands separators.
type UpdatePriceForm struct {
	ID        string `json:"id" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	Price     string `json:"price" validate:"required"`
}

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid form fields: " + strings.Join(names, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkForm runs struct validation and converts failures into per-field
// messages.
func checkForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "email":
		return "invalid email"
	case "gt":
		return "price must be greater than 0"
	default:
		switch fe.Field() {
		case "productId":
			return "select a product"
		case "userId":
			return "select a user"
		default:
			return fe.Field() + " is required"
		}
	}
}
