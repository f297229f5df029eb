package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"catalog-service/internal/models"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ProductValidator checks canonical product inputs against the catalog
// rules: required fields, identifier patterns on product_id and sku,
// enumerated category membership, length bounds and a non-empty specs
// object.
type ProductValidator struct {
	validate   *validator.Validate
	categories map[string]struct{}
}

// New builds a validator restricted to the given category names.
func New(categories []string) *ProductValidator {
	v := validator.New()
	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierPattern.MatchString(fl.Field().String())
	})

	allowed := make(map[string]struct{}, len(categories))
	for _, name := range categories {
		allowed[strings.ToLower(name)] = struct{}{}
	}

	return &ProductValidator{validate: v, categories: allowed}
}

// productRules mirrors ProductInput with validation tags. Kept private
// so the wire shape stays free of validator concerns.
type productRules struct {
	ProductID   string `validate:"required,identifier"`
	Name        string `validate:"required,max=200"`
	SKU         string `validate:"required,identifier"`
	Category    string `validate:"required"`
	Description string `validate:"max=5000"`
}

// Validate checks one input and reports every failed rule.
func (pv *ProductValidator) Validate(input *models.ProductInput) models.ValidationResult {
	result := models.ValidationResult{Valid: true}

	rules := productRules{
		ProductID:   input.ProductID,
		Name:        input.Name,
		SKU:         input.SKU,
		Category:    input.Category,
		Description: input.Description,
	}

	if err := pv.validate.Struct(rules); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				result.Errors = append(result.Errors, models.ValidationError{
					Field:   fieldName(fe.Field()),
					Message: ruleMessage(fe),
				})
			}
		} else {
			result.Errors = append(result.Errors, models.ValidationError{
				Field:   "input",
				Message: err.Error(),
			})
		}
	}

	if input.Category != "" && len(pv.categories) > 0 {
		if _, ok := pv.categories[strings.ToLower(input.Category)]; !ok {
			result.Errors = append(result.Errors, models.ValidationError{
				Field:   "category",
				Message: fmt.Sprintf("unknown category %q", input.Category),
			})
		}
	}

	if len(input.Specs) == 0 {
		result.Errors = append(result.Errors, models.ValidationError{
			Field:   "specs",
			Message: "specs must be a non-empty object",
		})
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func fieldName(structField string) string {
	switch structField {
	case "ProductID":
		return "product_id"
	case "SKU":
		return "sku"
	default:
		return strings.ToLower(structField)
	}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "identifier":
		return "may only contain letters, digits, '-' and '_'"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
