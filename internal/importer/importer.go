package importer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// ValidateFunc is the external validation contract. The importer does
// not duplicate any field rules; it only consumes the result.
type ValidateFunc func(*models.ProductInput) models.ValidationResult

// PersistFunc is the external product-creation call. An error (for
// example a uniqueness violation) fails only the row it belongs to,
// and its message is surfaced verbatim in that row's error list.
type PersistFunc func(context.Context, *models.ProductInput) error

// Importer runs the import pipeline: transform, validate, persist,
// one record at a time, accumulating per-row outcomes without ever
// aborting the batch.
type Importer struct {
	transformer *Transformer
	validate    ValidateFunc
	persist     PersistFunc
	log         *logrus.Entry
}

func New(logger *logrus.Logger, validate ValidateFunc, persist PersistFunc) *Importer {
	return &Importer{
		transformer: NewTransformer(logger),
		validate:    validate,
		persist:     persist,
		log:         logger.WithField("component", "importer"),
	}
}

// ImportRecords imports records strictly in order. Row numbers are
// 1-based and match each record's position in the source file with
// the header excluded. A failed row is recorded and skipped; it never
// blocks rows before or after it.
func (im *Importer) ImportRecords(ctx context.Context, records []RawRecord) *models.ImportResult {
	result := &models.ImportResult{
		Total:  len(records),
		Errors: make([]models.ImportError, 0),
	}

	for i, record := range records {
		row := i + 1
		input := im.transformer.Transform(record)

		validation := im.validate(input)
		if !validation.Valid {
			messages := make([]string, 0, len(validation.Errors))
			for _, ve := range validation.Errors {
				messages = append(messages, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
			}
			result.Errors = append(result.Errors, models.ImportError{
				Row:       row,
				ProductID: input.ProductID,
				Errors:    messages,
			})
			continue
		}

		if err := im.persist(ctx, input); err != nil {
			result.Errors = append(result.Errors, models.ImportError{
				Row:       row,
				ProductID: input.ProductID,
				Errors:    []string{err.Error()},
			})
			continue
		}

		result.Imported++
	}

	result.Failed = len(result.Errors)
	result.Success = result.Failed == 0
	result.Summarize()

	im.log.WithFields(logrus.Fields{
		"total":    result.Total,
		"imported": result.Imported,
		"failed":   result.Failed,
	}).Info("Import batch completed")

	return result
}

// ImportFromFile composes format detection, tokenization and the
// batch import. Whole-file failures, unsupported extensions and
// unparseable content short-circuit with a single synthetic row-0
// error before any row is processed.
func (im *Importer) ImportFromFile(ctx context.Context, filename, content string) *models.ImportResult {
	format, err := DetectFormat(filename, content)
	if err != nil {
		return fileFailure(err)
	}

	var records []RawRecord
	switch format {
	case models.ImportFormatCSV:
		records, err = ParseCSV(content)
	default:
		records, err = ParseJSONRecords(content)
	}
	if err != nil {
		return fileFailure(err)
	}

	return im.ImportRecords(ctx, records)
}

// fileFailure builds the zero-row result for pre-batch errors. Total
// stays 0 to distinguish it from per-row failures, and the summary
// describes the file-level failure rather than row counts.
func fileFailure(err error) *models.ImportResult {
	return &models.ImportResult{
		Success: false,
		Errors: []models.ImportError{
			{Row: 0, Errors: []string{err.Error()}},
		},
		Summary: fmt.Sprintf("Import failed: %s", err.Error()),
	}
}
