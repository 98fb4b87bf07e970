// Package batch reads message files and analyzes their rows concurrently.
package batch

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Format is an input file format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatXLSX  Format = "xlsx"
)

// Message is one input row.
type Message struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	SourceHint string `json:"source_hint"`
	Locale     string `json:"locale"`
}

// DetectFormat guesses the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", eris.Errorf("batch: cannot infer format of %q, pass --format", path)
}

// ReadMessages loads every message in path. An empty format is detected
// from the extension. Rows without an id get their 1-based row number.
func ReadMessages(path string, format Format) ([]Message, error) {
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	switch format {
	case FormatXLSX:
		rows, err := readXLSX(path)
		if err != nil {
			return nil, err
		}
		return fromRows(rows)
	case FormatCSV, FormatJSONL:
	default:
		return nil, eris.Errorf("batch: unknown format %q", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open input")
	}
	defer f.Close() //nolint:errcheck

	if format == FormatJSONL {
		return ReadJSONL(f)
	}
	return ReadCSV(f)
}

// ReadCSV reads a CSV stream whose header row names the columns.
func ReadCSV(r io.Reader) ([]Message, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "batch: read csv")
	}
	return fromRows(rows)
}

// ReadJSONL reads one JSON object per line. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]Message, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var msgs []Message
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var m Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, eris.Wrapf(err, "batch: jsonl line %d", line)
		}
		if m.ID == "" {
			m.ID = strconv.Itoa(line)
		}
		msgs = append(msgs, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "batch: read jsonl")
	}
	return msgs, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("batch: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// fromRows maps a header row plus data rows onto Messages. The header must
// contain a "text" column; "id", "source_hint" and "locale" are optional.
func fromRows(rows [][]string) ([]Message, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	textCol, ok := cols["text"]
	if !ok {
		return nil, eris.New("batch: header has no text column")
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	msgs := make([]Message, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		m := Message{
			ID:         cell(row, "id"),
			SourceHint: cell(row, "source_hint"),
			Locale:     cell(row, "locale"),
		}
		if textCol < len(row) {
			m.Text = row[textCol]
		}
		if m.ID == "" {
			m.ID = strconv.Itoa(n + 1)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
