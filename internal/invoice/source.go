package invoice

import (
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/smartdocs-insight/internal/config"
	"github.com/ginjaninja78/smartdocs-insight/internal/csvparser"
	"github.com/ginjaninja78/smartdocs-insight/internal/xlsxparser"
)

// RowSource loads the positional records of one invoice file.
type RowSource interface {
	ReadRows(path string) ([][]string, error)
}

// RowSourceFunc adapts a function to RowSource.
type RowSourceFunc func(path string) ([][]string, error)

// ReadRows calls f(path).
func (f RowSourceFunc) ReadRows(path string) ([][]string, error) {
	return f(path)
}

// FileSource picks the reader by file extension: .xlsx workbooks go through
// excelize, everything else is treated as delimited text.
type FileSource struct {
	CSV config.CSVSettings
}

// ReadRows implements RowSource.
func (s FileSource) ReadRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return xlsxparser.ReadRows(path)
	default:
		return csvparser.ReadRows(path, s.CSV)
	}
}
