package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

// ReadXLSX parses the first sheet of a workbook with the same required
// header row as the CSV format.
func ReadXLSX(r io.Reader) ([]domain.CaseRecord, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx sheet is empty")
	}

	index, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.CaseRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, recordFromRow(row, index))
	}
	return records, nil
}
