// Package importer marks items as due from a spreadsheet or CSV word list.
//
// Columns are read positionally: label, category, subcategory, grammar
// kind. A row with a grammar kind is a grammar point; any other row is a
// vocabulary word.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/lingua/internal/keys"
	"github.com/abhisek/lingua/internal/progress"
)

// Config defines what to import.
type Config struct {
	Path       string // .xlsx or .csv file
	Sheet      string // sheet name; empty means the first sheet
	SkipHeader bool   // skip the first row
}

// DefaultConfig returns the default import configuration.
func DefaultConfig() Config {
	return Config{SkipHeader: true}
}

// Row is one parsed input line.
type Row struct {
	Line        int
	Label       string
	Category    string
	SubCategory string
	GrammarKind progress.GrammarKind
}

// Result holds the result of an import.
type Result struct {
	Processed int
	Added     int
	Skipped   int
	Keys      []string
	Errors    []string
}

// ReadRows reads rows from the file named in cfg. Blank rows are dropped.
func ReadRows(cfg Config) ([]Row, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(cfg.Path)) {
	case ".csv":
		records, err = readCSV(cfg.Path)
	case ".xlsx", ".xlsm":
		records, err = readExcel(cfg.Path, cfg.Sheet)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(cfg.Path))
	}
	if err != nil {
		return nil, err
	}

	var rows []Row
	for i, rec := range records {
		if i == 0 && cfg.SkipHeader {
			continue
		}
		row := Row{Line: i + 1}
		row.Label = cell(rec, 0)
		row.Category = cell(rec, 1)
		row.SubCategory = cell(rec, 2)
		row.GrammarKind = progress.GrammarKind(strings.ToLower(cell(rec, 3)))
		if row.Label == "" && row.Category == "" && row.SubCategory == "" && row.GrammarKind == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Key returns the ItemKey for row in language.
func (r Row) Key(language string) (string, error) {
	if r.Category == "" {
		return "", errors.New("missing category")
	}
	if r.GrammarKind != "" && !r.GrammarKind.Valid() {
		return "", fmt.Errorf("unknown grammar kind %q", r.GrammarKind)
	}

	var k string
	if r.GrammarKind != "" {
		k = keys.GrammarKey(r.Category, r.SubCategory, r.Label)
	} else {
		k = keys.VocabKey(language, r.Category, r.Label)
	}
	if k == "" {
		return "", fmt.Errorf("%w: %q", keys.ErrMalformedLabel, r.Label)
	}
	return k, nil
}

// Import reads cfg.Path and adds every row's key to st's due sets.
// Bad rows are reported in Result.Errors and do not stop the import.
func Import(cfg Config, st *progress.Store) (*Result, error) {
	rows, err := ReadRows(cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var batch []string
	for _, row := range rows {
		res.Processed++
		k, err := row.Key(st.Language())
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row.Line, err))
			continue
		}
		batch = append(batch, k)
	}

	res.Keys = batch
	res.Added = st.AddDueItems(batch)
	return res, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may omit trailing columns
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
