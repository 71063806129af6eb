// Package export renders extraction results as XLSX workbooks, one row per
// product/color/size combination.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mcatarino/order-extractor/internal/entity"
)

// Service produces XLSX bytes from extraction results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

var headers = []string{
	"Material Code",
	"Base Code",
	"Product Name",
	"Category",
	"Model",
	"Color Code",
	"Color Name",
	"Size",
	"Quantity",
	"Unit Price",
	"Sales Price",
	"Brand",
	"Supplier",
	"Season",
	"Order Number",
	"Date",
	"Document Type",
}

// ExportXLSX flattens an extraction result into a workbook. Products that
// share a material code get numbered suffixes (123456.1, 123456.2, ...) so
// every exported article code stays unique.
func (s *Service) ExportXLSX(result *entity.ExtractionResult, season string) ([]byte, error) {
	start := time.Now()

	orderInfo := result.OrderInfo
	if orderInfo == nil {
		orderInfo = map[string]any{}
	}
	if season == "" {
		season = infoString(orderInfo, "season")
	}
	supplier := infoString(orderInfo, "supplier")
	if supplier == "" {
		supplier = result.Supplier
	}

	f := excelize.NewFile()
	const sheet = "Orders"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIndex, _ := f.GetSheetIndex("Sheet1"); defIndex != -1 && defIndex != activeIndex {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 2
	materialCounts := map[string]int{}
	for _, p := range result.Products {
		materialCounts[p.MaterialCode]++
		materialCode := fmt.Sprintf("%s.%d", p.MaterialCode, materialCounts[p.MaterialCode])

		brand := p.Brand
		if brand == "" {
			brand = infoString(orderInfo, "brand")
		}

		for _, color := range p.Colors {
			for _, size := range color.Sizes {
				write(1, row, materialCode)
				write(2, row, p.MaterialCode)
				write(3, row, p.Name)
				write(4, row, p.Category)
				write(5, row, p.Model)
				write(6, row, color.ColorCode)
				write(7, row, color.ColorName)
				write(8, row, size.Size)
				write(9, row, size.Quantity)
				write(10, row, floatOrZero(color.UnitPrice))
				write(11, row, floatOrZero(color.SalesPrice))
				write(12, row, brand)
				write(13, row, supplier)
				write(14, row, season)
				write(15, row, infoString(orderInfo, "order_number"))
				write(16, row, infoString(orderInfo, "date"))
				write(17, row, infoString(orderInfo, "document_type"))
				row++
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "B", 14) // article codes
	_ = f.SetColWidth(sheet, "C", "C", 28) // product name
	_ = f.SetColWidth(sheet, "D", "E", 18) // category, model
	_ = f.SetColWidth(sheet, "F", "G", 12) // color
	_ = f.SetColWidth(sheet, "J", "K", 12) // prices
	_ = f.SetColWidth(sheet, "L", "M", 22) // brand, supplier
	_ = f.SetColWidth(sheet, "O", "Q", 16) // order metadata

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"products", len(result.Products),
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func infoString(info map[string]any, key string) string {
	v, ok := info[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
