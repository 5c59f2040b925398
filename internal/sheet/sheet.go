// Package sheet converts the item collection to and from .xlsx workbooks.
// The column headers are the contract: import matches columns by header
// name, not position, so sheets edited or reordered in a spreadsheet
// program still round-trip.
package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/yctseng/itemlist/internal/model"
)

// SheetName is the single sheet every export writes and the label users see.
const SheetName = "物品清單"

// Column headers, in export order.
const (
	colName     = "名稱"
	colSize     = "尺寸"
	colQuantity = "數量"
	colLocation = "存放位置"
	colCategory = "分類"
	colPhoto    = "照片數據"
	colCreated  = "建立時間"
	colID       = "系統ID"
)

var exportColumns = []string{
	colName, colSize, colQuantity, colLocation,
	colCategory, colPhoto, colCreated, colID,
}

// timeLayout is the human-readable form 建立時間 is exported in.
const timeLayout = "2006/01/02 15:04:05"

// importTimeLayouts are the layouts import tries, in order, before falling
// back to the current time. Spreadsheet programs commonly rewrite date
// cells into the latter forms.
var importTimeLayouts = []string{
	timeLayout,
	"2006/1/2 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/1/2",
	"2006-01-02",
}

// FileName returns the suggested export file name for the given day.
func FileName(now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", SheetName, now.Format("2006-01-02"))
}

// Export writes the collection as a one-sheet workbook. An empty collection
// is refused with model.ErrEmptyCollection instead of producing an empty
// file. Rows are streamed because photo cells carry whole data URIs.
func Export(w io.Writer, items []model.Item) error {
	if len(items) == 0 {
		return model.ErrEmptyCollection
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	header := make([]any, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("computing cell name: %w", err)
		}
		row := []any{
			item.Name,
			item.Size,
			item.Quantity,
			item.Location,
			item.Category,
			item.Photo,
			item.Created().Format(timeLayout),
			item.ID,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing rows: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Import parses the first sheet of a workbook into validated items, in row
// order. Every row is coerced independently, so one malformed row never
// aborts the import. A file that cannot be read as a spreadsheet fails with
// model.ErrImportFormat; a readable sheet with zero data rows returns an
// empty batch and nil error, which callers report as "no rows found".
func Import(r io.Reader) ([]model.Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrImportFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", model.ErrImportFormat)
	}

	// First sheet only. Later sheets are ignored.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", model.ErrImportFormat, sheets[0], err)
	}
	if len(rows) < 2 {
		return []model.Item{}, nil
	}

	// Columns are matched by header name, so missing or reordered columns
	// are tolerated.
	index := map[string]int{}
	for i, h := range rows[0] {
		index[strings.TrimSpace(h)] = i
	}

	now := time.Now()
	items := make([]model.Item, 0, len(rows)-1)
	for _, row := range rows[1:] {
		items = append(items, coerceRow(row, index, now))
	}
	return items, nil
}

// coerceRow builds one item from a sheet row, substituting defaults for
// missing or invalid cells.
func coerceRow(row []string, index map[string]int, now time.Time) model.Item {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	item := model.Item{
		ID:       cell(colID),
		Name:     cell(colName),
		Size:     cell(colSize),
		Location: cell(colLocation),
		Category: cell(colCategory),
		Photo:    cell(colPhoto),
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Name == "" {
		item.Name = model.DefaultName
	}
	if item.Category == "" {
		item.Category = model.DefaultCategory
	}
	item.Quantity = parseQuantity(cell(colQuantity))
	item.CreatedAt = parseCreated(cell(colCreated), now)
	return item
}

func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	// Spreadsheet programs sometimes rewrite integers as "3.0".
	if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 {
		return int(v)
	}
	return model.DefaultQuantity
}

func parseCreated(s string, now time.Time) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.UnixMilli()
	}
	for _, layout := range importTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UnixMilli()
		}
	}
	return now.UnixMilli()
}
