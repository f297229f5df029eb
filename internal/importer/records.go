package importer

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errBadShape = errors.New("JSON must be an array or an object with a products array")

// ParseJSONRecords extracts records from JSON content. Accepted shapes
// are a top-level array of objects, or an object with a "products"
// array property.
func ParseJSONRecords(content string) ([]RawRecord, error) {
	var parsed interface{}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var items []interface{}
	switch v := parsed.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		products, ok := v["products"].([]interface{})
		if !ok {
			return nil, errBadShape
		}
		items = products
	default:
		return nil, errBadShape
	}

	records := make([]RawRecord, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			records = append(records, RawRecord(obj))
		} else {
			// Non-object elements keep their row position so the
			// validator rejects them with an accurate row number.
			records = append(records, RawRecord{})
		}
	}

	return records, nil
}
