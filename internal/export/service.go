// Package export produces XLSX downloads of filtered detail tables and the
// category mapping.
package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// Service writes workbooks. It holds only a logger; the data to write is passed
// per call since exports always reflect the caller's filtered view.
type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// TableXLSX renders t as a single-sheet workbook. The column layout matches the
// in-memory table exactly, so re-importing the file under the identity column
// map yields the same row set.
func (s *Service) TableXLSX(t *table.Table, sheet string) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}
	if idx, _ := f.GetSheetIndex(sheet); idx >= 0 {
		f.SetActiveSheet(idx)
	}
	_ = f.DeleteSheet("Sheet1")

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	if t != nil {
		for i, h := range t.Columns {
			write(i+1, 1, h)
		}
		for r, row := range t.Rows {
			for c := range t.Columns {
				v := ""
				if c < len(row) {
					v = row[c]
				}
				write(c+1, r+2, v)
			}
		}
		widenColumns(f, sheet, len(t.Columns))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		zap.String("sheet", sheet),
		zap.Int("rows", t.Len()),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}

// CategoryMappingXLSX renders the key -> category mapping as a Category_Mapping
// sheet with stable (sorted) row order.
func (s *Service) CategoryMappingXLSX(mapping map[string]string) ([]byte, error) {
	t := table.New(schema.FieldKey, schema.FieldCategory)
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.AppendRow(k, mapping[k])
	}
	return s.TableXLSX(t, schema.SheetCategoryMapping)
}

func widenColumns(f *excelize.File, sheet string, n int) {
	if n == 0 {
		return
	}
	last, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return
	}
	_ = f.SetColWidth(sheet, "A", last, 18)
}
