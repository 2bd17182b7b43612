package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/policy"
	"github.com/xuri/excelize/v2"
)

var comparisonHeaders = []string{"#", "Vendor", "Contact", "Amount", "Delivery", "Status", "Submitted", "Reviewed", "Description", "Notes"}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ExportComparison lays the request's bids side by side in a workbook,
// cheapest highlighted.
func (s *QuoteService) ExportComparison(ctx context.Context, actor Actor, id string) (*excelize.File, string, error) {
	if err := authorize(actor, policy.QuoteExport); err != nil {
		return nil, "", err
	}
	qr, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, "", err
	}
	responses, err := s.quotes.ListResponses(ctx, id)
	if err != nil {
		return nil, "", persistence("list quote responses", err)
	}

	f := excelize.NewFile()
	sheet := "Comparison"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	bestStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2EFDA"}},
	})
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
	})

	f.SetCellValue(sheet, "A1", qr.Title)
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Status: %s", qr.Status))
	if qr.Budget != nil {
		f.SetCellValue(sheet, "D2", fmt.Sprintf("Budget: %.2f", *qr.Budget))
	}

	const headerRow = 4
	for i, h := range comparisonHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	best := -1
	for i, r := range responses {
		if best < 0 || r.QuoteAmount < responses[best].QuoteAmount {
			best = i
		}
	}

	for i, r := range responses {
		row := headerRow + 1 + i
		vendorName, contact := r.VendorID, ""
		if r.Vendor != nil {
			vendorName = r.Vendor.Name
			contact = r.Vendor.Email
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), vendorName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), contact)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.QuoteAmount)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.DeliveryTimeline)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), string(r.Status))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.SubmittedAt.Format("2006-01-02 15:04"))
		if r.ReviewedAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.ReviewedAt.Format("2006-01-02 15:04"))
		}
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.Description)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), r.Notes)
		if i == best || r.Status == entity.QuoteResponseStatusAccepted {
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("J%d", row), bestStyle)
		}
	}

	colWidths := []float64{5, 24, 26, 12, 18, 14, 17, 17, 40, 30}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("quote_comparison_%s.xlsx", unsafeFilename.ReplaceAllString(qr.Title, "_"))
	return f, filename, nil
}
