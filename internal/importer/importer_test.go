package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// permissiveValidate accepts everything.
func permissiveValidate(*models.ProductInput) models.ValidationResult {
	return models.ValidationResult{Valid: true}
}

// requireName fails records with an empty name.
func requireName(input *models.ProductInput) models.ValidationResult {
	if input.Name == "" {
		return models.ValidationResult{
			Valid:  false,
			Errors: []models.ValidationError{{Field: "name", Message: "is required"}},
		}
	}
	return models.ValidationResult{Valid: true}
}

func TestImportRecordsAllValid(t *testing.T) {
	var persisted []string
	imp := New(testLogger(), permissiveValidate, func(_ context.Context, input *models.ProductInput) error {
		persisted = append(persisted, input.ProductID)
		return nil
	})

	records := []RawRecord{
		{"product_id": "A", "name_en": "One"},
		{"product_id": "B", "name_en": "Two"},
	}
	result := imp.ImportRecords(context.Background(), records)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "Imported 2 of 2 products. 0 failed.", result.Summary)
	assert.Equal(t, []string{"A", "B"}, persisted)
}

func TestImportRecordsMixedValidity(t *testing.T) {
	imp := New(testLogger(), requireName, func(context.Context, *models.ProductInput) error {
		return nil
	})

	records := []RawRecord{
		{"product_id": "A", "name_en": "One"},
		{"product_id": "B"}, // invalid: no name
		{"product_id": "C", "name_en": "Three"},
		{"product_id": "D"}, // invalid: no name
	}
	result := imp.ImportRecords(context.Background(), records)

	assert.False(t, result.Success)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)

	// Row numbers are 1-based positions in the source
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "B", result.Errors[0].ProductID)
	assert.Equal(t, []string{"name: is required"}, result.Errors[0].Errors)
	assert.Equal(t, 4, result.Errors[1].Row)
	assert.Equal(t, "Imported 2 of 4 products. 2 failed.", result.Summary)
}

func TestImportRecordsPersistFailureDoesNotBlockLaterRows(t *testing.T) {
	imp := New(testLogger(), permissiveValidate, func(_ context.Context, input *models.ProductInput) error {
		if input.ProductID == "B" {
			return errors.New("duplicate key value violates unique constraint")
		}
		return nil
	})

	records := []RawRecord{
		{"product_id": "A"},
		{"product_id": "B"},
		{"product_id": "C"},
	}
	result := imp.ImportRecords(context.Background(), records)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, []string{"duplicate key value violates unique constraint"}, result.Errors[0].Errors)
}

func TestImportRecordsEmptyBatch(t *testing.T) {
	imp := New(testLogger(), permissiveValidate, func(context.Context, *models.ProductInput) error {
		return nil
	})

	result := imp.ImportRecords(context.Background(), nil)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Total)
}

func TestImportFromFileCSVRoundTrip(t *testing.T) {
	var persisted []*models.ProductInput
	imp := New(testLogger(), permissiveValidate, func(_ context.Context, input *models.ProductInput) error {
		persisted = append(persisted, input)
		return nil
	})

	result := imp.ImportFromFile(context.Background(), "products.csv", GenerateSampleCSV())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, persisted, 1)
	assert.Equal(t, "PROD001", persisted[0].ProductID)
	assert.NotEmpty(t, persisted[0].Specs)
}

func TestImportFromFileJSONRoundTrip(t *testing.T) {
	var persisted []*models.ProductInput
	imp := New(testLogger(), permissiveValidate, func(_ context.Context, input *models.ProductInput) error {
		persisted = append(persisted, input)
		return nil
	})

	result := imp.ImportFromFile(context.Background(), "products.json", GenerateSampleJSON())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, persisted, 1)
	assert.Equal(t, "PROD001", persisted[0].ProductID)
	assert.Equal(t, "simple", persisted[0].Specs["type"])
}

func TestImportFromFileUnsupportedExtension(t *testing.T) {
	imp := New(testLogger(), permissiveValidate, func(context.Context, *models.ProductInput) error {
		return nil
	})

	result := imp.ImportFromFile(context.Background(), "products.xlsx", "whatever content")

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Total)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 0, result.Errors[0].Row)

	// File-level failures describe the failure, not row counts
	assert.Contains(t, result.Summary, "Import failed:")
	assert.NotContains(t, result.Summary, "0 of 0")
}

func TestImportFromFileMalformedJSON(t *testing.T) {
	imp := New(testLogger(), permissiveValidate, func(context.Context, *models.ProductInput) error {
		return nil
	})

	result := imp.ImportFromFile(context.Background(), "products.json", "{not json")

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Total)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 0, result.Errors[0].Row)
}

func TestImportFromFileEmptyContent(t *testing.T) {
	imp := New(testLogger(), permissiveValidate, func(context.Context, *models.ProductInput) error {
		return nil
	})

	result := imp.ImportFromFile(context.Background(), "products.csv", "   ")

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Total)
}

func TestImportFromFilePartialFailure(t *testing.T) {
	content := "product_id,name_en,specs_json\n"
	for i := 1; i <= 5; i++ {
		content += fmt.Sprintf("PROD%03d,Product %d,{\"n\":%d}\n", i, i, i)
	}

	imp := New(testLogger(), permissiveValidate, func(_ context.Context, input *models.ProductInput) error {
		if input.ProductID == "PROD002" || input.ProductID == "PROD004" {
			return fmt.Errorf("product with id '%s' already exists", input.ProductID)
		}
		return nil
	})

	result := imp.ImportFromFile(context.Background(), "bulk.csv", content)

	assert.False(t, result.Success)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, 4, result.Errors[1].Row)
}
