// internal/ingest/parser.go

// Package ingest turns uploaded tabular prospect lists (CSV or Excel) into
// normalized Prospect records. Real-world exports name their columns
// unpredictably, so binding is done by keyword matching on header text
// rather than by a fixed schema.
package ingest

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/propreach/outreach-backend/internal/apperrors"
	"github.com/propreach/outreach-backend/internal/model"
)

var (
	ErrUnsupportedFormat = apperrors.New(apperrors.KindValidation,
		"unsupported file format, please upload a CSV or XLSX file")
	ErrEmptyInput = apperrors.New(apperrors.KindValidation,
		"file has no data rows")
)

// ParseProspects decodes a prospect list. The extension of filename selects
// the decoder; only the first sheet of a workbook is read.
func ParseProspects(filename string, data []byte) ([]model.Prospect, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "csv":
		return parseCSV(data)
	case "xlsx", "xls":
		return parseExcel(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// columns holds the resolved index per target field, -1 when no header
// matched. Resolution is independent per field; two fields may bind the
// same column.
type columns struct {
	firstName int
	phone     int
	email     int
	address   int
}

func (c columns) none() bool {
	return c.firstName == -1 && c.phone == -1 && c.email == -1 && c.address == -1
}

// matchColumns binds each target field to the first header, in original
// column order, whose lower-cased text satisfies its keyword rule.
func matchColumns(headers []string) columns {
	c := columns{firstName: -1, phone: -1, email: -1, address: -1}
	for i, raw := range headers {
		h := strings.ToLower(strings.TrimSpace(raw))
		if c.firstName == -1 && isFirstNameHeader(h) {
			c.firstName = i
		}
		if c.phone == -1 && (strings.Contains(h, "phone") || strings.Contains(h, "mobile") || strings.Contains(h, "cell")) {
			c.phone = i
		}
		if c.email == -1 && (strings.Contains(h, "email") || strings.Contains(h, "e-mail")) {
			c.email = i
		}
		if c.address == -1 && (strings.Contains(h, "address") || strings.Contains(h, "property") || strings.Contains(h, "location")) {
			c.address = i
		}
	}
	return c
}

// isFirstNameHeader accepts "first" (but not "last"), or "name" provided the
// header mentions neither "last" nor "full" — so "Full Name" never binds.
func isFirstNameHeader(h string) bool {
	if strings.Contains(h, "first") && !strings.Contains(h, "last") {
		return true
	}
	return strings.Contains(h, "name") && !strings.Contains(h, "last") && !strings.Contains(h, "full")
}

// buildProspects applies column binding to data rows. Rows with every cell
// blank are skipped; when no column resolved at all the sheet is degenerate
// and every row is skipped. Prospects whose four fields are all empty after
// trimming are dropped.
func buildProspects(headers []string, rows [][]string) []model.Prospect {
	cols := matchColumns(headers)
	prospects := []model.Prospect{}
	if cols.none() {
		return prospects
	}

	for _, row := range rows {
		if allBlank(row) {
			continue
		}
		p := model.Prospect{
			FirstName:       cell(row, cols.firstName),
			PhoneNumber:     cell(row, cols.phone),
			Email:           cell(row, cols.email),
			PropertyAddress: cell(row, cols.address),
		}
		if p.Empty() {
			continue
		}
		prospects = append(prospects, p)
	}
	return prospects
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func allBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseCSV(data []byte) ([]model.Prospect, error) {
	lines := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return nil, ErrEmptyInput
	}

	headers := splitCSVLine(lines[0])
	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, splitCSVLine(line))
	}
	return buildProspects(headers, rows), nil
}

func parseExcel(data []byte) ([]model.Prospect, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "failed to read workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "failed to read sheet", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyInput
	}
	return buildProspects(rows[0], rows[1:]), nil
}
