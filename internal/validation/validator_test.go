package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func validInput() *models.ProductInput {
	return &models.ProductInput{
		ProductID:   "PROD001",
		Name:        "Sample Product",
		SKU:         "SKU-001",
		Category:    "pumps",
		Description: "A sample product",
		Specs:       map[string]interface{}{"type": "simple"},
	}
}

func TestValidateAcceptsValidInput(t *testing.T) {
	result := New([]string{"pumps", "valves"}).Validate(validInput())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateRequiredFields(t *testing.T) {
	result := New([]string{"pumps"}).Validate(&models.ProductInput{
		Specs: map[string]interface{}{"k": "v"},
	})
	require.False(t, result.Valid)

	fields := make(map[string]bool)
	for _, e := range result.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["product_id"])
	assert.True(t, fields["name"])
	assert.True(t, fields["sku"])
	assert.True(t, fields["category"])
}

func TestValidateIdentifierPattern(t *testing.T) {
	v := New([]string{"pumps"})

	input := validInput()
	input.ProductID = "PROD 001"
	result := v.Validate(input)
	require.False(t, result.Valid)
	assert.Equal(t, "product_id", result.Errors[0].Field)

	input = validInput()
	input.SKU = "SKU#1"
	result = v.Validate(input)
	require.False(t, result.Valid)
	assert.Equal(t, "sku", result.Errors[0].Field)

	input = validInput()
	input.ProductID = "valid-ID_01"
	assert.True(t, v.Validate(input).Valid)
}

func TestValidateCategoryMembership(t *testing.T) {
	v := New([]string{"pumps", "valves"})

	input := validInput()
	input.Category = "engines"
	result := v.Validate(input)
	require.False(t, result.Valid)
	assert.Equal(t, "category", result.Errors[0].Field)

	// Membership check is case-insensitive
	input.Category = "Pumps"
	assert.True(t, v.Validate(input).Valid)
}

func TestValidateEmptySpecs(t *testing.T) {
	v := New([]string{"pumps"})

	input := validInput()
	input.Specs = map[string]interface{}{}
	result := v.Validate(input)
	require.False(t, result.Valid)
	assert.Equal(t, "specs", result.Errors[0].Field)

	input.Specs = nil
	assert.False(t, v.Validate(input).Valid)
}

func TestValidateLengthBounds(t *testing.T) {
	v := New([]string{"pumps"})

	input := validInput()
	for len(input.Name) <= 200 {
		input.Name += "xxxxxxxxxx"
	}
	result := v.Validate(input)
	require.False(t, result.Valid)
	assert.Equal(t, "name", result.Errors[0].Field)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	result := New([]string{"pumps"}).Validate(&models.ProductInput{
		ProductID: "bad id!",
		Category:  "engines",
	})
	require.False(t, result.Valid)
	assert.GreaterOrEqual(t, len(result.Errors), 4)
}
