package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/events"
	"catalog-service/internal/importer"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
	"catalog-service/internal/validation"
)

type ImportHandler struct {
	repo         *repository.ProductsRepository
	publisher    *events.Publisher
	logger       *logrus.Logger
	maxFileBytes int64
}

func NewImportHandler(repo *repository.ProductsRepository, publisher *events.Publisher, logger *logrus.Logger, maxFileBytes int64) *ImportHandler {
	return &ImportHandler{
		repo:         repo,
		publisher:    publisher,
		logger:       logger,
		maxFileBytes: maxFileBytes,
	}
}

// ImportProducts imports products from an uploaded CSV or JSON file
// POST /api/v1/products/import
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or JSON file",
			},
		})
		return
	}
	defer file.Close()

	if header.Size > h.maxFileBytes {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_TOO_LARGE",
				Message: fmt.Sprintf("File exceeds the %d byte import limit", h.maxFileBytes),
			},
		})
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, h.maxFileBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_READ_ERROR",
				Message: "Failed to read uploaded file",
			},
		})
		return
	}

	categories, err := h.repo.ListCategoryNames(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load categories for import validation")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CATEGORY_LOOKUP_FAILED",
				Message: "Failed to load catalog categories",
			},
		})
		return
	}

	productValidator := validation.New(categories)
	imp := importer.New(h.logger, productValidator.Validate, func(ctx context.Context, input *models.ProductInput) error {
		_, err := h.repo.Create(ctx, input)
		return err
	})

	result := imp.ImportFromFile(c.Request.Context(), header.Filename, string(content))

	if h.publisher != nil && result.Total > 0 {
		h.publisher.PublishImportCompleted(c.Request.Context(), result)
	}

	c.JSON(importStatus(result), result)
}

// importStatus maps an import result to an HTTP status: 200 for a
// clean run, 207 when some rows landed and some failed, 400 for a
// whole-file failure, 422 when every row failed.
func importStatus(result *models.ImportResult) int {
	switch {
	case result.Success:
		return http.StatusOK
	case result.Total == 0:
		return http.StatusBadRequest
	case result.Imported > 0:
		return http.StatusMultiStatus
	default:
		return http.StatusUnprocessableEntity
	}
}

// GetImportTemplate returns a downloadable sample file
// GET /api/v1/products/import/template?format=csv|json|xlsx
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	switch c.Query("format") {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=products_import_template.csv")
		c.String(http.StatusOK, importer.GenerateSampleCSV())
	case "xlsx":
		h.generateXLSXTemplate(c)
	case "json":
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", "attachment; filename=products_import_template.json")
		c.String(http.StatusOK, importer.GenerateSampleJSON())
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": models.ProductImportTemplate(),
		})
	}
}

// generateXLSXTemplate generates and downloads an Excel template with
// a header row and column documentation. XLSX is template-only; the
// import endpoint itself accepts CSV and JSON.
func (h *ImportHandler) generateXLSXTemplate(c *gin.Context) {
	template := models.ProductImportTemplate()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 24)
	}

	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Product Import Instructions")
	f.SetCellValue("Instructions", "A3", "Save your data as CSV or JSON before uploading; the import endpoint does not accept XLSX.")
	f.SetCellValue("Instructions", "A4", "The specs_json column holds a JSON object, for example {\"type\":\"simple\",\"weight\":\"2kg\"}.")
	f.SetCellValue("Instructions", "A5", "Commas and quotes inside that object are safe; the importer understands embedded JSON cells.")

	f.SetCellValue("Instructions", "A7", "Column")
	f.SetCellValue("Instructions", "B7", "Description")
	f.SetCellValue("Instructions", "C7", "Required")
	f.SetCellValue("Instructions", "D7", "Example")
	for i, col := range template.Columns {
		row := i + 8
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), col.Description)
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue("Instructions", fmt.Sprintf("C%d", row), required)
		f.SetCellValue("Instructions", fmt.Sprintf("D%d", row), col.Example)
	}

	f.SetColWidth("Instructions", "A", "A", 20)
	f.SetColWidth("Instructions", "B", "B", 60)
	f.SetColWidth("Instructions", "C", "C", 12)
	f.SetColWidth("Instructions", "D", "D", 45)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.xlsx")
	if err := f.Write(c.Writer); err != nil {
		h.logger.WithError(err).Error("Failed to write XLSX template")
	}
}
