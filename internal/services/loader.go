package services

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"csv-processor/internal/logging"
	"csv-processor/internal/models"
)

// ErrMalformedDataset is returned when a present file is not valid CSV.
// It is the only loading failure that is not tolerated.
var ErrMalformedDataset = errors.New("malformed dataset")

// nullMarkers are the cell values read as missing
var nullMarkers = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"#N/A": true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
}

// Loader reads the CSV datasets of a data directory
type Loader struct {
	dataDir string
	logger  *slog.Logger
}

// NewLoader creates a Loader reading files from dataDir
func NewLoader(dataDir string, logger *slog.Logger) *Loader {
	return &Loader{
		dataDir: dataDir,
		logger:  logger,
	}
}

// Load reads the named file and returns a table with exactly the expected
// columns, in that order. A missing file yields an empty table; a missing
// column is filled with nulls; extra columns are dropped.
func (l *Loader) Load(name string, columns []string) (*models.Table, error) {
	table := models.NewTable(name, columns)

	path := filepath.Join(l.dataDir, name)
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.LogOperation(l.logger, "dataset_missing",
			slog.String("dataset", name),
			slog.String("component", "loader"))
		return table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", name, err)
	}
	defer logging.SafeCloseWithLogging(file, l.logger, "load_"+name)

	if err := readInto(table, bufio.NewReader(file)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDataset, name, err)
	}

	if table.IsEmpty() {
		logging.LogWarning(l.logger, "dataset has no rows",
			slog.String("dataset", name),
			slog.String("component", "loader"))
	}
	logging.LogOperation(l.logger, "dataset_loaded",
		slog.String("dataset", name),
		slog.Int("rows", table.Len()),
		slog.String("component", "loader"))
	return table, nil
}

// utf8BOM is stripped from the byte stream before parsing
var utf8BOM = []byte("\ufeff")

// readInto parses CSV from r and projects it onto the table's columns.
// Stray quotes are tolerated; content that is not text is malformed.
func readInto(table *models.Table, r *bufio.Reader) error {
	if bom, err := r.Peek(len(utf8BOM)); err == nil && bytes.Equal(bom, utf8BOM) {
		r.Discard(len(utf8BOM))
	}

	head, err := r.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return err
	}
	if len(bytes.TrimSpace(head)) == 0 {
		// An empty file has no header at all
		return nil
	}
	if err := checkText(head); err != nil {
		return err
	}

	reader := csv.NewReader(r)
	reader.Comma = detectDelimiter(head)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	// Position in the source record of every expected column, -1 if absent
	sourceIndex := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.TrimSpace(name)
		if _, exists := sourceIndex[key]; !exists {
			sourceIndex[key] = i
		}
	}
	positions := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		if pos, ok := sourceIndex[col]; ok {
			positions[i] = pos
		} else {
			positions[i] = -1
		}
	}

	line := 1
	for {
		line++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		for _, field := range record {
			if strings.IndexByte(field, 0) >= 0 {
				return fmt.Errorf("line %d: NUL byte in content, not a text file", line)
			}
		}
		if isBlankRecord(record) {
			continue
		}

		row := make([]models.Cell, len(positions))
		for i, pos := range positions {
			if pos < 0 || pos >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[pos])
			if nullMarkers[value] {
				continue
			}
			row[i] = models.Cell{Value: value, Valid: true}
		}
		table.Rows = append(table.Rows, row)
	}
	return nil
}

// checkText rejects binary content: UTF-16 exports and spreadsheets saved
// in their native format carry NUL bytes, CSV text never does.
func checkText(b []byte) error {
	if bytes.IndexByte(b, 0) >= 0 {
		return errors.New("NUL byte in content, not a text file")
	}
	return nil
}

// detectDelimiter picks the separator of the header line among comma,
// semicolon and tab. INSEE extracts are usually semicolon separated.
func detectDelimiter(head []byte) rune {
	firstLine := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		firstLine = head[:i]
	}

	best, bestCount := ',', bytes.Count(firstLine, []byte{','})
	for _, candidate := range []rune{';', '\t'} {
		if n := bytes.Count(firstLine, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
