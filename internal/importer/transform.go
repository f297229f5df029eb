package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Transformer maps raw records into the canonical product shape. It is
// pure in the sense that it never fails: unrecoverable fields collapse
// to empty values and the row's fate is left to the validator.
type Transformer struct {
	log *logrus.Entry
}

func NewTransformer(logger *logrus.Logger) *Transformer {
	return &Transformer{log: logger.WithField("component", "import-transformer")}
}

// Transform builds a ProductInput from a raw record. For each
// canonical field the first present alias wins.
func (t *Transformer) Transform(raw RawRecord) *models.ProductInput {
	input := &models.ProductInput{
		ProductID:       firstString(raw, "product_id", "id"),
		Name:            firstString(raw, "name_en", "name"),
		SKU:             firstString(raw, "sku"),
		Category:        firstString(raw, "category"),
		Description:     firstString(raw, "description_en", "description"),
		DescriptionHTML: firstString(raw, "descriptionHtml", "description_html"),
		ImageURL:        firstString(raw, "image_url", "image"),
		Images:          stringSlice(raw["images"]),
	}

	specs, ok := raw["specs"]
	if !ok {
		specs = raw["specs_json"]
	}
	input.Specs = t.decodeSpecs(specs)

	return input
}

// specsAttempt is one fallible parse strategy. Attempts run in order
// and the first one producing a plain (non-array) object wins.
type specsAttempt func(string) (map[string]interface{}, bool)

var specsAttempts = []specsAttempt{
	// As-is
	parseSpecsObject,
	// CSV doubles quotes as its own escaping; undo it
	func(s string) (map[string]interface{}, bool) {
		return parseSpecsObject(strings.ReplaceAll(s, `""`, `"`))
	},
	// Author-supplied single-quoted pseudo-JSON
	func(s string) (map[string]interface{}, bool) {
		return parseSpecsObject(strings.ReplaceAll(s, "'", `"`))
	},
}

// decodeSpecs normalizes the raw specs value into a plain object. A
// malformed specs cell never fails the row by itself; every failure
// path collapses to an empty object.
func (t *Transformer) decodeSpecs(value interface{}) map[string]interface{} {
	switch v := value.(type) {
	case nil:
		return map[string]interface{}{}
	case map[string]interface{}:
		return v
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "{}" {
			return map[string]interface{}{}
		}
		// Strip one layer of surrounding matching quotes, an
		// artifact of some CSV escaping
		if len(s) >= 2 {
			first, last := s[0], s[len(s)-1]
			if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
				s = s[1 : len(s)-1]
			}
		}
		for _, attempt := range specsAttempts {
			if specs, ok := attempt(s); ok {
				return specs
			}
		}
		t.log.WithField("specs", v).Warn("Unparseable specs value, defaulting to empty object")
		return map[string]interface{}{}
	default:
		t.log.WithField("specs", fmt.Sprintf("%v", value)).Warn("Specs value is not an object, defaulting to empty object")
		return map[string]interface{}{}
	}
}

func parseSpecsObject(s string) (map[string]interface{}, bool) {
	var specs map[string]interface{}
	if err := json.Unmarshal([]byte(s), &specs); err != nil || specs == nil {
		return nil, false
	}
	return specs, true
}

// firstString returns the first alias present in the record, coerced
// to a string. JSON sources can carry scalars of any type.
func firstString(raw RawRecord, keys ...string) string {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return formatNumber(v)
		case bool:
			return fmt.Sprintf("%t", v)
		}
	}
	return ""
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func stringSlice(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
