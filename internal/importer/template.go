package importer

import (
	"encoding/json"
	"strings"

	"catalog-service/internal/models"
)

// GenerateSampleCSV builds a one-row CSV seeded from the import
// template columns, including an embedded JSON specs value. Output is
// deterministic and used for user-downloadable sample files.
func GenerateSampleCSV() string {
	columns := models.ProductImportColumns()

	headers := make([]string, len(columns))
	values := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Name
		values[i] = col.Example
	}

	return strings.Join(headers, ",") + "\n" + strings.Join(values, ",") + "\n"
}

// GenerateSampleJSON builds the equivalent one-object JSON document.
func GenerateSampleJSON() string {
	sample := map[string]interface{}{
		"products": []map[string]interface{}{
			{
				"product_id":     "PROD001",
				"name_en":        "Sample Product",
				"sku":            "SKU-001",
				"category":       "pumps",
				"description_en": "A sample product",
				"specs": map[string]interface{}{
					"type":   "simple",
					"weight": "2kg",
				},
				"image_url": "https://example.com/img.jpg",
			},
		},
	}

	out, _ := json.MarshalIndent(sample, "", "  ")
	return string(out) + "\n"
}
