package importer

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransformer() *Transformer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewTransformer(logger)
}

func TestTransformFieldAliases(t *testing.T) {
	tr := newTestTransformer()

	input := tr.Transform(RawRecord{
		"product_id":     "PROD001",
		"name_en":        "English Name",
		"name":           "Fallback Name",
		"sku":            "SKU-1",
		"category":       "pumps",
		"description_en": "English description",
		"image_url":      "https://x/a.jpg",
	})

	assert.Equal(t, "PROD001", input.ProductID)
	assert.Equal(t, "English Name", input.Name)
	assert.Equal(t, "SKU-1", input.SKU)
	assert.Equal(t, "pumps", input.Category)
	assert.Equal(t, "English description", input.Description)
	assert.Equal(t, "https://x/a.jpg", input.ImageURL)
}

func TestTransformAliasFallbacks(t *testing.T) {
	tr := newTestTransformer()

	input := tr.Transform(RawRecord{
		"id":          "PROD002",
		"name":        "Plain Name",
		"description": "Plain description",
		"image":       "https://x/b.jpg",
	})

	assert.Equal(t, "PROD002", input.ProductID)
	assert.Equal(t, "Plain Name", input.Name)
	assert.Equal(t, "Plain description", input.Description)
	assert.Equal(t, "https://x/b.jpg", input.ImageURL)
}

func TestTransformImagesPassthrough(t *testing.T) {
	tr := newTestTransformer()

	input := tr.Transform(RawRecord{
		"images": []interface{}{"https://x/1.jpg", "https://x/2.jpg"},
	})
	assert.Equal(t, []string{"https://x/1.jpg", "https://x/2.jpg"}, input.Images)

	input = tr.Transform(RawRecord{})
	assert.Empty(t, input.Images)
}

func TestDecodeSpecsAlreadyObject(t *testing.T) {
	tr := newTestTransformer()

	specs := map[string]interface{}{"type": "simple"}
	input := tr.Transform(RawRecord{"specs": specs})
	assert.Equal(t, specs, input.Specs)
}

func TestDecodeSpecsAbsentOrEmpty(t *testing.T) {
	tr := newTestTransformer()

	assert.Equal(t, map[string]interface{}{}, tr.Transform(RawRecord{}).Specs)
	assert.Equal(t, map[string]interface{}{}, tr.Transform(RawRecord{"specs": ""}).Specs)
	assert.Equal(t, map[string]interface{}{}, tr.Transform(RawRecord{"specs": "  {}  "}).Specs)
	assert.Equal(t, map[string]interface{}{}, tr.Transform(RawRecord{"specs": nil}).Specs)
}

func TestDecodeSpecsPlainJSONString(t *testing.T) {
	tr := newTestTransformer()

	input := tr.Transform(RawRecord{"specs_json": `{"a":1,"b":"two"}`})
	require.Len(t, input.Specs, 2)
	assert.Equal(t, float64(1), input.Specs["a"])
	assert.Equal(t, "two", input.Specs["b"])
}

func TestDecodeSpecsSingleQuoteWrapped(t *testing.T) {
	tr := newTestTransformer()

	input := tr.Transform(RawRecord{"specs": `'{"a":1}'`})
	assert.Equal(t, float64(1), input.Specs["a"])
}

func TestDecodeSpecsDoubledQuotes(t *testing.T) {
	tr := newTestTransformer()

	input := tr.Transform(RawRecord{"specs": `{""a"":""b""}`})
	assert.Equal(t, "b", input.Specs["a"])
}

func TestDecodeSpecsSingleQuotedPseudoJSON(t *testing.T) {
	tr := newTestTransformer()

	input := tr.Transform(RawRecord{"specs": `{'a':'b'}`})
	assert.Equal(t, "b", input.Specs["a"])
}

func TestDecodeSpecsMalformedCollapsesToEmpty(t *testing.T) {
	tr := newTestTransformer()

	input := tr.Transform(RawRecord{"specs": "not json at all {{{"})
	assert.Equal(t, map[string]interface{}{}, input.Specs)
}

func TestDecodeSpecsRejectsArrays(t *testing.T) {
	tr := newTestTransformer()

	// A JSON array is not a specs object
	input := tr.Transform(RawRecord{"specs": `["a","b"]`})
	assert.Equal(t, map[string]interface{}{}, input.Specs)
}

func TestDecodeSpecsNonStringScalar(t *testing.T) {
	tr := newTestTransformer()

	input := tr.Transform(RawRecord{"specs": float64(42)})
	assert.Equal(t, map[string]interface{}{}, input.Specs)
}
