package models

import "fmt"

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatJSON ImportFormat = "json"
)

// ProductInput is the canonical product shape the validator and the
// persistence layer consume. Every raw record, whatever its source
// format, is transformed into one of these before anything else
// happens to it.
type ProductInput struct {
	ProductID       string                 `json:"product_id"`
	Name            string                 `json:"name"`
	SKU             string                 `json:"sku"`
	Category        string                 `json:"category"`
	Description     string                 `json:"description"`
	DescriptionHTML string                 `json:"descriptionHtml,omitempty"`
	Specs           map[string]interface{} `json:"specs"`
	ImageURL        string                 `json:"imageUrl"`
	Images          []string               `json:"images,omitempty"`
}

// ValidationError is a single field-level validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of validating one ProductInput.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ImportError collects everything that went wrong with one row.
// Row is 1-based and matches the record's position in the source file
// (header excluded). Row 0 is reserved for whole-file failures.
type ImportError struct {
	Row       int      `json:"row"`
	ProductID string   `json:"productId,omitempty"`
	Errors    []string `json:"errors"`
}

// ImportResult represents the result of an import operation.
// Invariants: Total == Imported+Failed, Success == (Failed == 0),
// len(Errors) == Failed (except the whole-file failure case, where
// Total is 0 and Errors holds a single row-0 entry).
type ImportResult struct {
	Success  bool          `json:"success"`
	Total    int           `json:"total"`
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors,omitempty"`
	Summary  string        `json:"summary"`
}

// Summarize fills in the human-readable summary line.
func (r *ImportResult) Summarize() {
	r.Summary = fmt.Sprintf("Imported %d of %d products. %d failed.", r.Imported, r.Total, r.Failed)
}

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, json, url
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// ProductImportColumns returns the column definitions for product import
func ProductImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "product_id", Description: "Unique product identifier (letters, digits, - and _)", Required: true, Type: "string", Example: "PROD001"},
		{Name: "name_en", Description: "Product display name", Required: true, Type: "string", Example: "Sample Product"},
		{Name: "sku", Description: "Stock keeping unit (letters, digits, - and _)", Required: true, Type: "string", Example: "SKU-001"},
		{Name: "category", Description: "Catalog category name - must exist", Required: true, Type: "string", Example: "pumps"},
		{Name: "description_en", Description: "Plain-text product description", Required: false, Type: "string", Example: "A sample product"},
		{Name: "specs_json", Description: "Technical specifications as a JSON object", Required: true, Type: "json", Example: `{"type":"simple","weight":"2kg"}`},
		{Name: "image_url", Description: "Primary product image URL", Required: false, Type: "url", Example: "https://example.com/img.jpg"},
	}
}

// ProductImportTemplate returns the template definition for products
func ProductImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: ProductImportColumns(),
	}
}
