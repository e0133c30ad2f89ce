package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"carprice/domain/dataset"
	"carprice/internal/errors"
)

// DataReader loads tabular training data from CSV or Excel files.
type DataReader struct {
	filePath string
	fileType string // "csv" or "xlsx"
}

// NewDataReader creates a reader; the format is picked from the extension,
// anything that is not .csv is treated as an Excel workbook.
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadTable reads the file into a Table. The first row is the header; short
// rows are padded with missing cells to the header width.
func (r *DataReader) ReadTable() (*dataset.Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.DataLoad(fmt.Sprintf("dataset not found: %s", r.filePath), err)
	}

	var (
		records [][]string
		err     error
	)
	switch r.fileType {
	case "csv":
		records, err = r.readCSV()
	default:
		records, err = r.readExcel()
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errors.DataLoad(fmt.Sprintf("dataset %s has no header row", r.filePath), nil)
	}

	header := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}
	return &dataset.Table{Columns: header, Rows: rows}, nil
}

func (r *DataReader) readCSV() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.DataLoad(fmt.Sprintf("opening CSV %s", r.filePath), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are padded later
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.DataLoad(fmt.Sprintf("parsing CSV %s", r.filePath), err)
	}
	return records, nil
}

func (r *DataReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.DataLoad(fmt.Sprintf("opening Excel file %s", r.filePath), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.DataLoad(fmt.Sprintf("Excel file %s has no sheets", r.filePath), nil)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.DataLoad(fmt.Sprintf("reading Excel sheet %q", sheets[0]), err)
	}
	return records, nil
}
