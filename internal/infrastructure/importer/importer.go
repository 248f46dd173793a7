package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/skulkarni-ml/supportdesk/internal/core/domain"
)

var requiredColumns = []string{"id", "topic_name", "description", "overall_sentiment", "solution"}

// ReadFile parses a bulk-import source by extension. CSV and XLSX are
// supported.
func ReadFile(path string) ([]domain.CaseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(f)
	}
	return ReadCSV(f)
}

// ReadCSV parses tabular rows. All required columns must be present in
// the header or the whole import fails with no rows returned.
func ReadCSV(r io.Reader) ([]domain.CaseRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []domain.CaseRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		records = append(records, recordFromRow(row, index))
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"validate import columns",
			fmt.Errorf("missing required columns: %s", strings.Join(missing, ", ")),
		)
	}
	return index, nil
}

func recordFromRow(row []string, index map[string]int) domain.CaseRecord {
	cell := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	return domain.CaseRecord{
		ID:          cell("id"),
		Topic:       cell("topic_name"),
		Description: cell("description"),
		Sentiment:   cell("overall_sentiment"),
		Solution:    cell("solution"),
	}
}
