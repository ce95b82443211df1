// Package export renders report data as spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wms/backend/internal/domain/report"
)

// ContentTypeXLSX is the MIME type of the files written here
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const inventorySheet = "Inventory"

var inventoryHeadings = []any{
	"Product ID",
	"Product",
	"Available Quantity",
	"Unit Price",
	"Total Value",
	"Ordered Quantity",
	"Received Quantity",
}

// WriteInventorySummary writes summary as a single-sheet workbook with a
// header row, one row per product and a closing total row.
func WriteInventorySummary(w io.Writer, summary report.InventorySummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(inventorySheet, "A1", &inventoryHeadings); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range summary.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		// Money stays a float in the sheet so spreadsheet formulas work on it
		values := []any{
			r.ProductID,
			r.ProductName,
			r.AvailableQuantity,
			r.UnitPrice.InexactFloat64(),
			r.TotalValue.InexactFloat64(),
			r.TotalOrderedQuantity,
			r.TotalReceivedQuantity,
		}
		if err := f.SetSheetRow(inventorySheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	totalCell, err := excelize.CoordinatesToCellName(4, len(summary.Rows)+2)
	if err != nil {
		return err
	}
	total := []any{"Total Stock Value", summary.TotalStockValue.InexactFloat64()}
	if err := f.SetSheetRow(inventorySheet, totalCell, &total); err != nil {
		return fmt.Errorf("write total: %w", err)
	}

	if err := f.SetColWidth(inventorySheet, "B", "B", 32); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
