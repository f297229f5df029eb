package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"catalog-service/internal/models"
)

var errEmptyFile = errors.New("file is empty")

// DetectFormat decides CSV vs JSON from the filename extension and
// confirms up front that the content parses at all. It is a cheap
// "can we even read this" pre-check; it does not change what the
// later stages accept.
func DetectFormat(filename, content string) (models.ImportFormat, error) {
	if strings.TrimSpace(content) == "" {
		return "", errEmptyFile
	}

	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = strings.ToLower(filename[idx+1:])
	}

	switch ext {
	case "csv":
		if _, err := ParseCSV(content); err != nil {
			return "", err
		}
		return models.ImportFormatCSV, nil
	case "json":
		var parsed interface{}
		if err := json.Unmarshal([]byte(content), &parsed); err != nil {
			return "", fmt.Errorf("invalid JSON: %w", err)
		}
		return models.ImportFormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q: only CSV and JSON files are supported", ext)
	}
}
