// Package validation is the schema gate in front of every mutation path.
// Structural rules live in validate tags on the domain types, cross-field
// rules (grand total consistency, price ranges) are checked here, and phone
// numbers are normalized the same way on write and read paths so tracking
// lookups match.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tiflun/storefront/internal/models"
)

// GrandTotalTolerance is the allowed float drift between the declared grand
// total and itemsTotal+tax+shipping-discount.
const GrandTotalTolerance = 0.01

var (
	slugRE        = regexp.MustCompile(`^[a-z0-9-]+$`)
	phoneRE       = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
	orderNumberRE = regexp.MustCompile(`^TIF-\d{4}-\d{6}$`)
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the structured form-level failure carried back to callers.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRE.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRE.MatchString(fl.Field().String())
	})
	return v
}

func structErrors(err error) Errors {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{{Field: "", Message: err.Error()}}
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace starts with the root struct name; the caller cares
		// about the field path only.
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		out = append(out, FieldError{Field: path, Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "email":
		return "invalid email format"
	case "url":
		return "invalid URL"
	case "slug":
		return "must contain only lowercase letters, numbers, and hyphens"
	case "phone":
		return "invalid phone number format"
	case "hexcolor":
		return "invalid color format"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// NormalizePhone strips separators so "+1 (555) 123-4567" and "15551234567"
// share a lookup key. The leading "+" is kept.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, phone)
}

// ValidOrderNumber reports whether s matches the issued order-number format.
func ValidOrderNumber(s string) bool {
	return orderNumberRE.MatchString(s)
}

func ProductCreate(p *models.Product) error {
	if errs := structErrors(validate.Struct(p)); errs != nil {
		return errs
	}
	return nil
}

// OrderCreate validates structure and the totals cross-check, and normalizes
// the customer phone in place.
func OrderCreate(oc *models.OrderCreate) error {
	errs := structErrors(validate.Struct(oc))

	calculated := oc.Totals.ItemsTotal + oc.Totals.Tax + oc.Totals.Shipping - oc.Totals.Discount
	if math.Abs(calculated-oc.Totals.GrandTotal) >= GrandTotalTolerance {
		errs = append(errs, FieldError{
			Field:   "totals.grandTotal",
			Message: "grand total does not match calculated total",
		})
	}
	if len(errs) > 0 {
		return errs
	}

	oc.Customer.Phone = NormalizePhone(oc.Customer.Phone)
	return nil
}

type Tracking struct {
	OrderNumber string `json:"orderNumber" validate:"required"`
	Phone       string `json:"phone"       validate:"phone"`
}

// TrackingLookup validates and normalizes a public tracking request.
func TrackingLookup(t *Tracking) error {
	if errs := structErrors(validate.Struct(t)); errs != nil {
		return errs
	}
	t.Phone = NormalizePhone(t.Phone)
	return nil
}

type StatusUpdate struct {
	OrderID   string `json:"orderId"        validate:"required"`
	NewStatus string `json:"newStatus"      validate:"oneof=pending processing packed shipped delivered cancelled"`
	Note      string `json:"note,omitempty" validate:"max=200"`
}

func OrderStatusUpdate(su *StatusUpdate) error {
	if errs := structErrors(validate.Struct(su)); errs != nil {
		return errs
	}
	return nil
}

type CartItemInput struct {
	ProductID string  `json:"productId"       validate:"required"`
	Title     string  `json:"title"           validate:"required"`
	Price     float64 `json:"price"           validate:"gt=0"`
	Quantity  int     `json:"quantity"        validate:"gt=0"`
	Image     string  `json:"image,omitempty" validate:"omitempty,url"`
	Slug      string  `json:"slug"            validate:"required"`
	Stock     int     `json:"stock"           validate:"min=0"`
}

func CartItem(ci *CartItemInput) error {
	if errs := structErrors(validate.Struct(ci)); errs != nil {
		return errs
	}
	return nil
}

type AdminLogin struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

func AdminCredentials(al *AdminLogin) error {
	if errs := structErrors(validate.Struct(al)); errs != nil {
		return errs
	}
	return nil
}

type ProductFilters struct {
	Status   string   `json:"status,omitempty"   validate:"omitempty,oneof=active draft archived out_of_stock"`
	Category string   `json:"category,omitempty"`
	MinPrice *float64 `json:"minPrice,omitempty" validate:"omitempty,min=0"`
	MaxPrice *float64 `json:"maxPrice,omitempty" validate:"omitempty,gt=0"`
}

func ProductFilter(pf *ProductFilters) error {
	errs := structErrors(validate.Struct(pf))
	if pf.MinPrice != nil && pf.MaxPrice != nil && *pf.MinPrice > *pf.MaxPrice {
		errs = append(errs, FieldError{
			Field:   "maxPrice",
			Message: "minimum price cannot be greater than maximum price",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
