package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"catalog-pricer/models"
)

var (
	// ErrSourceNotFound is returned when the input file does not exist.
	ErrSourceNotFound = errors.New("file not found")
	// ErrUnparseable is returned when the input cannot be read as a table.
	ErrUnparseable = errors.New("cannot parse table")
)

// naTokens are cell values read as missing.
var naTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "#NA": {}, "<NA>": {},
}

// ReadTable parses the delimited file at path. The first record is the header;
// duplicate header names get a ".N" suffix. Short rows are padded with missing
// cells, rows longer than the header are an error.
func ReadTable(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at path %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err == nil && stat.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnparseable, path)
	}

	table, err := ParseTable(f)
	if err != nil {
		return nil, err
	}
	table.Path = path
	return table, nil
}

// ParseTable reads a table from r. See ReadTable.
func ParseTable(r io.Reader) (*models.Table, error) {
	br := bufio.NewReader(r)
	if err := skipBOM(br); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no columns to parse from file", ErrUnparseable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	table := &models.Table{Columns: mangleDuplicates(header)}

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
		line, _ := reader.FieldPos(0)
		if len(rec) > len(table.Columns) {
			return nil, fmt.Errorf("%w: line %d: expected %d fields, saw %d",
				ErrUnparseable, line, len(table.Columns), len(rec))
		}

		row := &models.RawRecord{Line: line, Cells: make(map[string]*string, len(table.Columns))}
		for i, col := range table.Columns {
			if i >= len(rec) {
				row.Cells[col] = nil
				continue
			}
			row.Cells[col] = cellValue(rec[i])
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func cellValue(v string) *string {
	if _, na := naTokens[v]; na {
		return nil
	}
	return &v
}

func mangleDuplicates(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := h
		for {
			n, dup := seen[name]
			if !dup {
				break
			}
			seen[name] = n + 1
			name = h + "." + strconv.Itoa(n+1)
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

func skipBOM(br *bufio.Reader) error {
	r, _, err := br.ReadRune()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	if r != '\uFEFF' {
		return br.UnreadRune()
	}
	return nil
}
